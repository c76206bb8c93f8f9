package handlers

import "net/http"

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	TotalCreators    int64 `json:"total_creators"`
	TotalConnections int64 `json:"total_connections"`
	TotalMessages    int64 `json:"total_messages"`
}

// Stats returns platform statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalCreators, err := h.db.CountCreators(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count creators")
		return
	}

	totalConnections, err := h.db.CountConnections(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count connections")
		return
	}

	totalMessages, err := h.db.CountMessages(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count messages")
		return
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		TotalCreators:    totalCreators,
		TotalConnections: totalConnections,
		TotalMessages:    totalMessages,
	})
}
