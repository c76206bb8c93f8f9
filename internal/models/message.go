package models

import "github.com/google/uuid"

// Sender display fallbacks used when the joined sender profile is missing.
const (
	UnknownSenderName   = "Unknown member"
	UnknownSenderAvatar = ""
)

// Message represents a direct message between two profiles.
// SenderName and SenderAvatarURL are joined display fields; they degrade to
// the Unknown* placeholders when the sender record no longer exists.
type Message struct {
	ID              string    `json:"id"` // ULID
	SenderID        uuid.UUID `json:"sender_id"`
	RecipientID     uuid.UUID `json:"recipient_id"`
	SenderName      string    `json:"sender_name,omitempty"`
	SenderAvatarURL string    `json:"sender_avatar_url,omitempty"`
	Body            string    `json:"body"`
	SentAt          int64     `json:"ts"` // Unix ms
	Read            bool      `json:"read"`
}
