package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/connect/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// e.g. following the same creator twice.
var ErrDuplicate = errors.New("record already exists")

// DataStore defines the interface for persistent storage of profiles,
// connections, and messages. Both PostgresStore and SQLiteStore implement it.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Profile operations
	CreateProfile(ctx context.Context, name, avatarURL, role, tier, bio string) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ListCreators(ctx context.Context, limit int) ([]models.Profile, error)

	// Connection operations
	CreateConnection(ctx context.Context, memberID, creatorID uuid.UUID, kind string, createdAt time.Time) (*models.Connection, error)
	DeleteConnection(ctx context.Context, memberID, creatorID uuid.UUID) error
	ListConnections(ctx context.Context, memberID uuid.UUID, limit int) ([]models.Connection, error)

	// Message operations
	CreateMessage(ctx context.Context, senderID, recipientID uuid.UUID, body string, sentAt time.Time) (*models.Message, error)
	ListInbox(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Message, error)

	// Aggregate counts for the stats endpoint
	CountCreators(ctx context.Context) (int64, error)
	CountConnections(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
}
