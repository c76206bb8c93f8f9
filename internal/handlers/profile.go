package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/creatorlane/connect/internal/metrics"
	"github.com/creatorlane/connect/internal/models"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
	Tier      string `json:"tier"`
	Bio       string `json:"bio"`
}

// RegisterResponse represents the registration response.
type RegisterResponse struct {
	ID         string `json:"id"`
	ProfileURL string `json:"profile_url"`
}

// Register handles profile registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := sanitizeName(req.Name)
	if name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	if req.Role != models.RoleMember && req.Role != models.RoleCreator {
		h.Error(w, http.StatusBadRequest, "role must be 'member' or 'creator'")
		return
	}

	// Tier is a creator-only display field
	if req.Role != models.RoleCreator && req.Tier != "" {
		h.Error(w, http.StatusBadRequest, "tier is only valid for creator accounts")
		return
	}

	if len(req.Bio) > 500 {
		h.Error(w, http.StatusUnprocessableEntity, "bio too long (max 500 chars)")
		return
	}

	profile, err := h.db.CreateProfile(r.Context(), name, req.AvatarURL, req.Role, req.Tier, req.Bio)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	metrics.ProfilesRegistered.WithLabelValues(profile.Role).Inc()

	h.JSON(w, http.StatusCreated, RegisterResponse{
		ID:         profile.ID.String(),
		ProfileURL: fmt.Sprintf("/who/%s", profile.ID.String()),
	})
}

// WhoResponse represents the public profile response.
type WhoResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Role          string `json:"role"`
	Tier          string `json:"tier,omitempty"`
	Bio           string `json:"bio,omitempty"`
	FollowerCount int64  `json:"follower_count"`
	JoinedAt      string `json:"joined_at"`
}

// Who handles public profile lookup.
func (h *Handler) Who(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")

	// Validate UUID format
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid profile ID format")
		return
	}

	profile, err := h.db.GetProfileByID(r.Context(), id)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	if profile == nil {
		h.Error(w, http.StatusNotFound, "profile not found")
		return
	}

	h.JSON(w, http.StatusOK, WhoResponse{
		ID:            profile.ID.String(),
		Name:          profile.Name,
		AvatarURL:     profile.AvatarURL,
		Role:          profile.Role,
		Tier:          profile.Tier,
		Bio:           profile.Bio,
		FollowerCount: profile.FollowerCount,
		JoinedAt:      profile.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}
