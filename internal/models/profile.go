package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile roles recognized by the platform.
const (
	RoleMember  = "member"
	RoleCreator = "creator"
)

// Profile represents a registered account, either a member or a creator.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Role          string    `json:"role"`
	Tier          string    `json:"tier,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	FollowerCount int64     `json:"follower_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsCreator reports whether the profile is a creator account.
func (p *Profile) IsCreator() bool {
	return p.Role == RoleCreator
}
