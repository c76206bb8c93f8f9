package models

import (
	"time"

	"github.com/google/uuid"
)

// KindFollow is the only connection kind currently written.
const KindFollow = "follow"

// Connection represents a directed follow edge from a member to a creator.
// Creator carries the target profile's public fields when the edge is read
// through a join; it is nil on bare writes.
type Connection struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	CreatorID uuid.UUID `json:"creator_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	Creator   *Profile  `json:"creator,omitempty"`
}
