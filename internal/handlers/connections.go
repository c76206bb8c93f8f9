package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/creatorlane/connect/internal/api/middleware"
	"github.com/creatorlane/connect/internal/metrics"
	"github.com/creatorlane/connect/internal/models"
	"github.com/creatorlane/connect/internal/store"
)

// connectionsLimit caps how many connections the network tab loads.
const connectionsLimit = 50

// ConnectionInfo represents a connection with its joined profile fields.
type ConnectionInfo struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	Bio       string `json:"bio,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ConnectionListResponse represents the connections list response.
type ConnectionListResponse struct {
	Connections []ConnectionInfo `json:"connections"`
	Total       int              `json:"total"`
}

// ListConnections handles listing the authenticated member's connections.
func (h *Handler) ListConnections(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := limitParam(r, connectionsLimit, connectionsLimit)

	conns, err := h.db.ListConnections(r.Context(), session.ID, limit)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	infos := make([]ConnectionInfo, len(conns))
	for i, c := range conns {
		info := ConnectionInfo{
			ID:        c.ID.String(),
			ProfileID: c.CreatorID.String(),
			CreatedAt: c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if c.Creator != nil {
			info.Name = c.Creator.Name
			info.AvatarURL = c.Creator.AvatarURL
			info.Role = c.Creator.Role
			info.Bio = c.Creator.Bio
		}
		infos[i] = info
	}

	h.JSON(w, http.StatusOK, ConnectionListResponse{
		Connections: infos,
		Total:       len(infos),
	})
}

// FollowResponse represents the follow mutation response.
type FollowResponse struct {
	ID        string `json:"id"`
	CreatorID string `json:"creator_id"`
	CreatedAt string `json:"created_at"`
}

// Follow handles creating a follow connection to a creator.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	creatorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid creator ID format")
		return
	}

	target, err := h.db.GetProfileByID(r.Context(), creatorID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if target == nil {
		h.Error(w, http.StatusNotFound, "creator not found")
		return
	}
	if !target.IsCreator() {
		h.Error(w, http.StatusUnprocessableEntity, "only creator accounts can be followed")
		return
	}

	conn, err := h.db.CreateConnection(r.Context(), session.ID, creatorID, models.KindFollow, h.clock())
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			h.Error(w, http.StatusConflict, "already following this creator")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to create connection")
		return
	}

	metrics.FollowsTotal.Inc()

	h.JSON(w, http.StatusCreated, FollowResponse{
		ID:        conn.ID.String(),
		CreatorID: conn.CreatorID.String(),
		CreatedAt: conn.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// Unfollow handles removing a follow connection.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	creatorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid creator ID format")
		return
	}

	if err := h.db.DeleteConnection(r.Context(), session.ID, creatorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.Error(w, http.StatusNotFound, "not following this creator")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to delete connection")
		return
	}

	metrics.UnfollowsTotal.Inc()

	h.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
