package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/creatorlane/connect/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CreateProfile creates a new profile record.
func (s *PostgresStore) CreateProfile(ctx context.Context, name, avatarURL, role, tier, bio string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (name, avatar_url, role, tier, bio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, avatar_url, role, tier, bio, created_at, updated_at
	`, name, avatarURL, role, tier, bio).Scan(
		&profile.ID,
		&profile.Name,
		&profile.AvatarURL,
		&profile.Role,
		&profile.Tier,
		&profile.Bio,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByID retrieves a profile by ID, including its follower count.
func (s *PostgresStore) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.avatar_url, p.role, p.tier, p.bio,
		       (SELECT COUNT(*) FROM connections c WHERE c.creator_id = p.id),
		       p.created_at, p.updated_at
		FROM profiles p
		WHERE p.id = $1
	`, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.AvatarURL,
		&profile.Role,
		&profile.Tier,
		&profile.Bio,
		&profile.FollowerCount,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// ListCreators retrieves creator profiles with live follower counts,
// most-followed first.
func (s *PostgresStore) ListCreators(ctx context.Context, limit int) ([]models.Profile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.avatar_url, p.role, p.tier, p.bio,
		       (SELECT COUNT(*) FROM connections c WHERE c.creator_id = p.id) AS follower_count,
		       p.created_at, p.updated_at
		FROM profiles p
		WHERE p.role = 'creator'
		ORDER BY follower_count DESC, p.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creators []models.Profile
	for rows.Next() {
		var p models.Profile
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.AvatarURL,
			&p.Role,
			&p.Tier,
			&p.Bio,
			&p.FollowerCount,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		creators = append(creators, p)
	}

	return creators, rows.Err()
}

// CreateConnection inserts a follow edge. Returns ErrDuplicate when the
// member already follows the creator.
func (s *PostgresStore) CreateConnection(ctx context.Context, memberID, creatorID uuid.UUID, kind string, createdAt time.Time) (*models.Connection, error) {
	conn := &models.Connection{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO connections (member_id, creator_id, kind, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, member_id, creator_id, kind, created_at
	`, memberID, creatorID, kind, createdAt).Scan(
		&conn.ID,
		&conn.MemberID,
		&conn.CreatorID,
		&conn.Kind,
		&conn.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return conn, nil
}

// DeleteConnection removes the follow edge between a member and a creator.
// Returns ErrNotFound when no edge exists.
func (s *PostgresStore) DeleteConnection(ctx context.Context, memberID, creatorID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM connections WHERE member_id = $1 AND creator_id = $2
	`, memberID, creatorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListConnections retrieves a member's connections joined with the connected
// profile's public fields, newest first.
func (s *PostgresStore) ListConnections(ctx context.Context, memberID uuid.UUID, limit int) ([]models.Connection, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.member_id, c.creator_id, c.kind, c.created_at,
		       p.id, p.name, p.avatar_url, p.role, p.tier, p.bio
		FROM connections c
		JOIN profiles p ON p.id = c.creator_id
		WHERE c.member_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2
	`, memberID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []models.Connection
	for rows.Next() {
		var c models.Connection
		var p models.Profile
		err := rows.Scan(
			&c.ID,
			&c.MemberID,
			&c.CreatorID,
			&c.Kind,
			&c.CreatedAt,
			&p.ID,
			&p.Name,
			&p.AvatarURL,
			&p.Role,
			&p.Tier,
			&p.Bio,
		)
		if err != nil {
			return nil, err
		}
		c.Creator = &p
		conns = append(conns, c)
	}

	return conns, rows.Err()
}

// CreateMessage inserts a direct message with a generated ULID.
func (s *PostgresStore) CreateMessage(ctx context.Context, senderID, recipientID uuid.UUID, body string, sentAt time.Time) (*models.Message, error) {
	msg := &models.Message{
		ID:          ulid.Make().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		SentAt:      sentAt.UnixMilli(),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, body, sent_at, read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, msg.ID, msg.SenderID, msg.RecipientID, msg.Body, msg.SentAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListInbox retrieves messages addressed to a recipient, newest first,
// joined with sender display fields. Missing senders degrade to placeholders.
func (s *PostgresStore) ListInbox(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.sender_id, m.recipient_id, m.body, m.sent_at, m.read,
		       p.name, p.avatar_url
		FROM messages m
		LEFT JOIN profiles p ON p.id = m.sender_id
		WHERE m.recipient_id = $1
		ORDER BY m.sent_at DESC
		LIMIT $2
	`, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		var senderName, senderAvatar *string
		err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.RecipientID,
			&m.Body,
			&m.SentAt,
			&m.Read,
			&senderName,
			&senderAvatar,
		)
		if err != nil {
			return nil, err
		}
		if senderName == nil {
			m.SenderName = models.UnknownSenderName
			m.SenderAvatarURL = models.UnknownSenderAvatar
		} else {
			m.SenderName = *senderName
			if senderAvatar != nil {
				m.SenderAvatarURL = *senderAvatar
			}
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// CountCreators returns the total number of creator profiles.
func (s *PostgresStore) CountCreators(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE role = 'creator'`).Scan(&count)
	return count, err
}

// CountConnections returns the total number of follow edges.
func (s *PostgresStore) CountConnections(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM connections`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of direct messages.
func (s *PostgresStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}
