package handlers

import (
	"net/http"
)

// directoryLimit caps how many creator profiles the discovery page loads.
const directoryLimit = 20

// CreatorInfo represents a creator in the directory response.
type CreatorInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Tier          string `json:"tier,omitempty"`
	Bio           string `json:"bio,omitempty"`
	FollowerCount int64  `json:"follower_count"`
}

// CreatorListResponse represents the creator directory response.
type CreatorListResponse struct {
	Creators []CreatorInfo `json:"creators"`
	Total    int           `json:"total"`
}

// ListCreators handles the creator directory listing.
func (h *Handler) ListCreators(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, directoryLimit, directoryLimit)

	profiles, err := h.db.ListCreators(r.Context(), limit)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	creators := make([]CreatorInfo, len(profiles))
	for i, p := range profiles {
		creators[i] = CreatorInfo{
			ID:            p.ID.String(),
			Name:          p.Name,
			AvatarURL:     p.AvatarURL,
			Tier:          p.Tier,
			Bio:           p.Bio,
			FollowerCount: p.FollowerCount,
		}
	}

	h.JSON(w, http.StatusOK, CreatorListResponse{
		Creators: creators,
		Total:    len(creators),
	})
}
