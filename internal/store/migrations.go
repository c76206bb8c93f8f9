package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// schema is applied idempotently on startup. Kept as a single script rather
// than versioned migrations; the tables are additive-only so far.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	avatar_url TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'member',
	tier TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS connections (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	member_id UUID NOT NULL,
	creator_id UUID NOT NULL,
	kind TEXT NOT NULL DEFAULT 'follow',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (member_id, creator_id)
);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	sender_id UUID NOT NULL,
	recipient_id UUID NOT NULL,
	body TEXT NOT NULL,
	sent_at BIGINT NOT NULL,
	read BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role);
CREATE INDEX IF NOT EXISTS idx_connections_member ON connections(member_id);
CREATE INDEX IF NOT EXISTS idx_connections_creator ON connections(creator_id);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id, sent_at);
`

// RunMigrations applies the schema to the target database.
func RunMigrations(databaseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, schema)
	return err
}
