package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/creatorlane/connect/internal/api/middleware"
	"github.com/creatorlane/connect/internal/metrics"
)

// inboxLimit caps how many messages the inbox loads.
const inboxLimit = 50

// maxMessageLength bounds a single direct message body.
const maxMessageLength = 2000

// MessageInfo represents a message in the inbox response.
type MessageInfo struct {
	ID              string `json:"id"`
	SenderID        string `json:"sender_id"`
	SenderName      string `json:"sender_name"`
	SenderAvatarURL string `json:"sender_avatar_url,omitempty"`
	Body            string `json:"body"`
	Timestamp       int64  `json:"ts"`
	Read            bool   `json:"read"`
}

// InboxResponse represents the inbox response.
type InboxResponse struct {
	Messages []MessageInfo `json:"messages"`
	Unread   int64         `json:"unread"`
}

// Inbox handles fetching the authenticated member's direct messages,
// newest first.
func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := limitParam(r, inboxLimit, inboxLimit)

	msgs, err := h.db.ListInbox(r.Context(), session.ID, limit)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}

	// Reading the inbox clears the unread counter; best-effort.
	var unread int64
	if h.redis != nil {
		unread, _ = h.redis.FetchAndClearUnread(r.Context(), session.ID.String())
	}

	messages := make([]MessageInfo, len(msgs))
	for i, m := range msgs {
		messages[i] = MessageInfo{
			ID:              m.ID,
			SenderID:        m.SenderID.String(),
			SenderName:      m.SenderName,
			SenderAvatarURL: m.SenderAvatarURL,
			Body:            m.Body,
			Timestamp:       m.SentAt,
			Read:            m.Read,
		}
	}

	h.JSON(w, http.StatusOK, InboxResponse{Messages: messages, Unread: unread})
}

// SendMessageRequest represents the send message request body.
type SendMessageRequest struct {
	Body string `json:"body"`
}

// SendMessageResponse represents the send message response.
type SendMessageResponse struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// SendMessage handles sending a direct message to another profile.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	recipientID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid recipient ID format")
		return
	}

	recipient, err := h.db.GetProfileByID(r.Context(), recipientID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if recipient == nil {
		h.Error(w, http.StatusNotFound, "recipient not found")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Body) == "" {
		h.Error(w, http.StatusBadRequest, "body is required")
		return
	}
	if len(req.Body) > maxMessageLength {
		h.Error(w, http.StatusUnprocessableEntity, "body too long (max 2000 chars)")
		return
	}

	// Content is stored as sent, not trimmed
	msg, err := h.db.CreateMessage(r.Context(), session.ID, recipientID, req.Body, h.clock())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	if h.redis != nil {
		_ = h.redis.IncrUnread(r.Context(), recipientID.String())
	}

	metrics.MessagesSent.Inc()

	h.JSON(w, http.StatusCreated, SendMessageResponse{
		ID:        msg.ID,
		Timestamp: msg.SentAt,
	})
}
