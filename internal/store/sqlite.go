package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/creatorlane/connect/internal/models"
)

// SQLiteStore handles SQLite database operations. It mirrors PostgresStore
// for local development and single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/connect.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/connect.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		avatar_url TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'member',
		tier TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS connections (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'follow',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (member_id, creator_id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		body TEXT NOT NULL,
		sent_at INTEGER NOT NULL,
		read INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role);
	CREATE INDEX IF NOT EXISTS idx_connections_member ON connections(member_id);
	CREATE INDEX IF NOT EXISTS idx_connections_creator ON connections(creator_id);
	CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id, sent_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateProfile creates a new profile record.
func (s *SQLiteStore) CreateProfile(ctx context.Context, name, avatarURL, role, tier, bio string) (*models.Profile, error) {
	now := time.Now().UTC()
	profile := &models.Profile{
		ID:        uuid.New(),
		Name:      name,
		AvatarURL: avatarURL,
		Role:      role,
		Tier:      tier,
		Bio:       bio,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, avatar_url, role, tier, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, profile.ID.String(), name, avatarURL, role, tier, bio, now, now)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByID retrieves a profile by ID, including its follower count.
func (s *SQLiteStore) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	var idStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.avatar_url, p.role, p.tier, p.bio,
		       (SELECT COUNT(*) FROM connections c WHERE c.creator_id = p.id),
		       p.created_at, p.updated_at
		FROM profiles p
		WHERE p.id = ?
	`, id.String()).Scan(
		&idStr,
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	profile.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListCreators retrieves creator profiles with live follower counts,
// most-followed first.
func (s *SQLiteStore) ListCreators(ctx context.Context, limit int) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.avatar_url, p.role, p.tier, p.bio,
		       (SELECT COUNT(*) FROM connections c WHERE c.creator_id = p.id) AS follower_count,
		       p.created_at, p.updated_at
		FROM profiles p
		WHERE p.role = 'creator'
		ORDER BY follower_count DESC, p.created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creators []models.Profile
	for rows.Next() {
		var p models.Profile
		var idStr string
		err := rows.Scan(
			&idStr,
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
		if p.ID, err = uuid.Parse(idStr); err != nil {
			return nil, err
		}
		creators = append(creators, p)
	}

	return creators, rows.Err()
}

// CreateConnection inserts a follow edge. Returns ErrDuplicate when the
// member already follows the creator.
func (s *SQLiteStore) CreateConnection(ctx context.Context, memberID, creatorID uuid.UUID, kind string, createdAt time.Time) (*models.Connection, error) {
	conn := &models.Connection{
		ID:        uuid.New(),
		MemberID:  memberID,
		CreatorID: creatorID,
		Kind:      kind,
		CreatedAt: createdAt,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO connections (id, member_id, creator_id, kind, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, conn.ID.String(), memberID.String(), creatorID.String(), kind, createdAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return conn, nil
}

// DeleteConnection removes the follow edge between a member and a creator.
// Returns ErrNotFound when no edge exists.
func (s *SQLiteStore) DeleteConnection(ctx context.Context, memberID, creatorID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM connections WHERE member_id = ? AND creator_id = ?
	`, memberID.String(), creatorID.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListConnections retrieves a member's connections joined with the connected
// profile's public fields, newest first.
func (s *SQLiteStore) ListConnections(ctx context.Context, memberID uuid.UUID, limit int) ([]models.Connection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.member_id, c.creator_id, c.kind, c.created_at,
		       p.name, p.avatar_url, p.role, p.tier, p.bio
		FROM connections c
		JOIN profiles p ON p.id = c.creator_id
		WHERE c.member_id = ?
		ORDER BY c.created_at DESC
		LIMIT ?
	`, memberID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []models.Connection
	for rows.Next() {
		var c models.Connection
		var p models.Profile
		var connID, mID, crID string
		err := rows.Scan(
			&connID,
			&mID,
			&crID,
			&c.Kind,
			&c.CreatedAt,
			&p.Name,
			&p.AvatarURL,
			&p.Role,
			&p.Tier,
			&p.Bio,
		)
		if err != nil {
			return nil, err
		}
		if c.ID, err = uuid.Parse(connID); err != nil {
			return nil, err
		}
		if c.MemberID, err = uuid.Parse(mID); err != nil {
			return nil, err
		}
		if c.CreatorID, err = uuid.Parse(crID); err != nil {
			return nil, err
		}
		p.ID = c.CreatorID
		c.Creator = &p
		conns = append(conns, c)
	}

	return conns, rows.Err()
}

// CreateMessage inserts a direct message with a generated ULID.
func (s *SQLiteStore) CreateMessage(ctx context.Context, senderID, recipientID uuid.UUID, body string, sentAt time.Time) (*models.Message, error) {
	msg := &models.Message{
		ID:          ulid.Make().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		SentAt:      sentAt.UnixMilli(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, body, sent_at, read)
		VALUES (?, ?, ?, ?, ?, 0)
	`, msg.ID, msg.SenderID.String(), msg.RecipientID.String(), msg.Body, msg.SentAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListInbox retrieves messages addressed to a recipient, newest first,
// joined with sender display fields. Missing senders degrade to placeholders.
func (s *SQLiteStore) ListInbox(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.sender_id, m.recipient_id, m.body, m.sent_at, m.read,
		       p.name, p.avatar_url
		FROM messages m
		LEFT JOIN profiles p ON p.id = m.sender_id
		WHERE m.recipient_id = ?
		ORDER BY m.sent_at DESC
		LIMIT ?
	`, recipientID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		var senderID, rcptID string
		var senderName, senderAvatar sql.NullString
		err := rows.Scan(
			&m.ID,
			&senderID,
			&rcptID,
			&m.Body,
			&m.SentAt,
			&m.Read,
			&senderName,
			&senderAvatar,
		)
		if err != nil {
			return nil, err
		}
		if m.SenderID, err = uuid.Parse(senderID); err != nil {
			return nil, err
		}
		if m.RecipientID, err = uuid.Parse(rcptID); err != nil {
			return nil, err
		}
		if senderName.Valid {
			m.SenderName = senderName.String
			m.SenderAvatarURL = senderAvatar.String
		} else {
			m.SenderName = models.UnknownSenderName
			m.SenderAvatarURL = models.UnknownSenderAvatar
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// CountCreators returns the total number of creator profiles.
func (s *SQLiteStore) CountCreators(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE role = 'creator'`).Scan(&count)
	return count, err
}

// CountConnections returns the total number of follow edges.
func (s *SQLiteStore) CountConnections(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of direct messages.
func (s *SQLiteStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}
