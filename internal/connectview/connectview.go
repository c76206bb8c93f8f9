// Package connectview holds the state for the Connect page: creator
// discovery, the follow list, and the direct-message inbox. It is
// backend-agnostic; data access goes through the Backend interface and all
// reads and updates are serialized through a single State owner.
package connectview

import (
	"context"
	"time"
)

// Fixed load limits for the three loaders.
const (
	DirectoryLimit   = 20
	ConnectionsLimit = 50
	InboxLimit       = 50
)

// ToastDuration is how long a notification stays visible.
const ToastDuration = 4000 * time.Millisecond

// RoleMember is the only role allowed to use the Connect page.
const RoleMember = "member"

// KindFollow is the connection kind written by Follow.
const KindFollow = "follow"

// AccessRestrictedMessage is shown to non-member sessions in place of the
// whole page.
const AccessRestrictedMessage = "Connect is only available to member accounts"

// Session identifies the current user.
type Session struct {
	ID   string
	Role string
}

// Tab is one of the three page tabs.
type Tab string

const (
	TabDiscover Tab = "discover"
	TabNetwork  Tab = "network"
	TabMessages Tab = "messages"
)

// ToastKind distinguishes success from error notifications.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Creator is a discoverable creator profile. Followed is local view state:
// it always starts false after a directory load and is flipped only by
// Follow and Unfollow, never reconciled against the connection list.
type Creator struct {
	ID            string
	Name          string
	AvatarURL     string
	Tier          string
	FollowerCount int64
	Bio           string
	Followed      bool
}

// Connection is an existing follow edge paired with the connected profile's
// public fields.
type Connection struct {
	ID        string
	ProfileID string
	Name      string
	AvatarURL string
	Role      string
	Bio       string
	Following bool
}

// Message is an inbox entry with joined sender display fields.
type Message struct {
	ID              string
	SenderID        string
	SenderName      string
	SenderAvatarURL string
	Body            string
	SentAt          int64 // Unix ms
	Read            bool
}

// Toast is a transient notification. Each toast expires independently,
// ToastDuration after creation.
type Toast struct {
	ID        string
	Kind      ToastKind
	Message   string
	CreatedAt time.Time
}

// Backend is the query/mutation contract the page consumes. Implementations
// must return messages newest first from ListMessages.
type Backend interface {
	ListCreators(ctx context.Context, limit int) ([]Creator, error)
	ListConnections(ctx context.Context, memberID string, limit int) ([]Connection, error)
	CreateConnection(ctx context.Context, memberID, creatorID, kind string, createdAt time.Time) error
	DeleteConnection(ctx context.Context, memberID, creatorID string) error
	ListMessages(ctx context.Context, recipientID string, limit int) ([]Message, error)
	CreateMessage(ctx context.Context, senderID, recipientID, body string, sentAt time.Time) error
}
