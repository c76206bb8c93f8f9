package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/connect/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func createProfile(t *testing.T, s *SQLiteStore, name, role string) *models.Profile {
	t.Helper()
	p, err := s.CreateProfile(context.Background(), name, "", role, "", "")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProfile(ctx, "Ava Stone", "https://cdn.example.com/a.png", "creator", "featured", "Digital artist")
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProfileByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected profile, got nil")
	}
	if got.Name != "Ava Stone" || got.Role != "creator" || got.Tier != "featured" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if got.FollowerCount != 0 {
		t.Fatalf("new profile should have no followers, got %d", got.FollowerCount)
	}

	missing, err := s.GetProfileByID(ctx, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatal("unknown ID should return nil, nil")
	}
}

func TestListCreatorsOrderedByFollowers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	popular := createProfile(t, s, "Popular", "creator")
	quiet := createProfile(t, s, "Quiet", "creator")
	createProfile(t, s, "Just a member", "member")

	for i := 0; i < 2; i++ {
		member := createProfile(t, s, "Fan", "member")
		if _, err := s.CreateConnection(ctx, member.ID, popular.ID, "follow", time.Now()); err != nil {
			t.Fatal(err)
		}
	}

	creators, err := s.ListCreators(ctx, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(creators) != 2 {
		t.Fatalf("expected 2 creators, got %d", len(creators))
	}
	if creators[0].ID != popular.ID || creators[0].FollowerCount != 2 {
		t.Fatalf("most-followed creator should come first: %+v", creators[0])
	}
	if creators[1].ID != quiet.ID {
		t.Fatalf("expected quiet creator second, got %+v", creators[1])
	}
}

func TestConnectionUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	member := createProfile(t, s, "Sam", "member")
	creator := createProfile(t, s, "Ava", "creator")

	if _, err := s.CreateConnection(ctx, member.ID, creator.ID, "follow", time.Now()); err != nil {
		t.Fatal(err)
	}

	_, err := s.CreateConnection(ctx, member.ID, creator.ID, "follow", time.Now())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestDeleteConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	member := createProfile(t, s, "Sam", "member")
	creator := createProfile(t, s, "Ava", "creator")

	if err := s.DeleteConnection(ctx, member.ID, creator.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing edge, got %v", err)
	}

	if _, err := s.CreateConnection(ctx, member.ID, creator.ID, "follow", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteConnection(ctx, member.ID, creator.ID); err != nil {
		t.Fatal(err)
	}

	conns, err := s.ListConnections(ctx, member.ID, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(conns) != 0 {
		t.Fatalf("expected no connections after delete, got %d", len(conns))
	}
}

func TestListConnectionsJoinsProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	member := createProfile(t, s, "Sam", "member")
	creator := createProfile(t, s, "Ava", "creator")

	if _, err := s.CreateConnection(ctx, member.ID, creator.ID, "follow", time.Now()); err != nil {
		t.Fatal(err)
	}

	conns, err := s.ListConnections(ctx, member.ID, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(conns) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(conns))
	}
	c := conns[0]
	if c.Creator == nil || c.Creator.Name != "Ava" || c.Creator.Role != "creator" {
		t.Fatalf("connection should join creator fields: %+v", c.Creator)
	}
	if c.CreatorID != creator.ID || c.MemberID != member.ID {
		t.Fatalf("unexpected edge IDs: %+v", c)
	}
}

func TestInboxNewestFirstWithSenderFallback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recipient := createProfile(t, s, "Ava", "creator")
	sender := createProfile(t, s, "Sam", "member")

	base := time.Now()
	if _, err := s.CreateMessage(ctx, sender.ID, recipient.ID, "first", base); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateMessage(ctx, sender.ID, recipient.ID, "second", base.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	// A message whose sender no longer exists
	if _, err := s.CreateMessage(ctx, uuid.New(), recipient.ID, "ghost", base.Add(2*time.Second)); err != nil {
		t.Fatal(err)
	}

	msgs, err := s.ListInbox(ctx, recipient.ID, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Body != "ghost" || msgs[2].Body != "first" {
		t.Fatalf("inbox should be newest first: %v, %v", msgs[0].Body, msgs[2].Body)
	}
	if msgs[0].SenderName != models.UnknownSenderName {
		t.Fatalf("missing sender should degrade to placeholder, got %q", msgs[0].SenderName)
	}
	if msgs[1].SenderName != "Sam" {
		t.Fatalf("expected joined sender name, got %q", msgs[1].SenderName)
	}
}

func TestCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	member := createProfile(t, s, "Sam", "member")
	creator := createProfile(t, s, "Ava", "creator")
	if _, err := s.CreateConnection(ctx, member.ID, creator.ID, "follow", time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateMessage(ctx, member.ID, creator.ID, "hi", time.Now()); err != nil {
		t.Fatal(err)
	}

	if n, err := s.CountCreators(ctx); err != nil || n != 1 {
		t.Fatalf("expected 1 creator, got %d (%v)", n, err)
	}
	if n, err := s.CountConnections(ctx); err != nil || n != 1 {
		t.Fatalf("expected 1 connection, got %d (%v)", n, err)
	}
	if n, err := s.CountMessages(ctx); err != nil || n != 1 {
		t.Fatalf("expected 1 message, got %d (%v)", n, err)
	}
}
