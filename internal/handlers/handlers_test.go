package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/creatorlane/connect/internal/api/middleware"
	"github.com/creatorlane/connect/internal/models"
	"github.com/creatorlane/connect/internal/store"
)

// memStore is an in-memory DataStore for handler tests.
type memStore struct {
	profiles    map[uuid.UUID]*models.Profile
	connections []models.Connection
	messages    []models.Message
	failAll     bool
}

func newMemStore() *memStore {
	return &memStore{profiles: make(map[uuid.UUID]*models.Profile)}
}

var errStore = errors.New("store failure")

func (m *memStore) Close()                         {}
func (m *memStore) Ping(ctx context.Context) error { return nil }

func (m *memStore) CreateProfile(ctx context.Context, name, avatarURL, role, tier, bio string) (*models.Profile, error) {
	if m.failAll {
		return nil, errStore
	}
	now := time.Now()
	p := &models.Profile{
		ID:        uuid.New(),
		Name:      name,
		AvatarURL: avatarURL,
		Role:      role,
		Tier:      tier,
		Bio:       bio,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.profiles[p.ID] = p
	return p, nil
}

func (m *memStore) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if m.failAll {
		return nil, errStore
	}
	return m.profiles[id], nil
}

func (m *memStore) ListCreators(ctx context.Context, limit int) ([]models.Profile, error) {
	if m.failAll {
		return nil, errStore
	}
	var out []models.Profile
	for _, p := range m.profiles {
		if p.Role != models.RoleCreator {
			continue
		}
		c := *p
		for _, conn := range m.connections {
			if conn.CreatorID == p.ID {
				c.FollowerCount++
			}
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) CreateConnection(ctx context.Context, memberID, creatorID uuid.UUID, kind string, createdAt time.Time) (*models.Connection, error) {
	if m.failAll {
		return nil, errStore
	}
	for _, c := range m.connections {
		if c.MemberID == memberID && c.CreatorID == creatorID {
			return nil, store.ErrDuplicate
		}
	}
	conn := models.Connection{
		ID:        uuid.New(),
		MemberID:  memberID,
		CreatorID: creatorID,
		Kind:      kind,
		CreatedAt: createdAt,
	}
	m.connections = append(m.connections, conn)
	return &conn, nil
}

func (m *memStore) DeleteConnection(ctx context.Context, memberID, creatorID uuid.UUID) error {
	if m.failAll {
		return errStore
	}
	for i, c := range m.connections {
		if c.MemberID == memberID && c.CreatorID == creatorID {
			m.connections = append(m.connections[:i], m.connections[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) ListConnections(ctx context.Context, memberID uuid.UUID, limit int) ([]models.Connection, error) {
	if m.failAll {
		return nil, errStore
	}
	var out []models.Connection
	for _, c := range m.connections {
		if c.MemberID != memberID {
			continue
		}
		conn := c
		conn.Creator = m.profiles[c.CreatorID]
		out = append(out, conn)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) CreateMessage(ctx context.Context, senderID, recipientID uuid.UUID, body string, sentAt time.Time) (*models.Message, error) {
	if m.failAll {
		return nil, errStore
	}
	msg := models.Message{
		ID:          ulid.Make().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		SentAt:      sentAt.UnixMilli(),
	}
	if sender := m.profiles[senderID]; sender != nil {
		msg.SenderName = sender.Name
		msg.SenderAvatarURL = sender.AvatarURL
	} else {
		msg.SenderName = models.UnknownSenderName
	}
	// prepend: newest first
	m.messages = append([]models.Message{msg}, m.messages...)
	return &msg, nil
}

func (m *memStore) ListInbox(ctx context.Context, recipientID uuid.UUID, limit int) ([]models.Message, error) {
	if m.failAll {
		return nil, errStore
	}
	var out []models.Message
	for _, msg := range m.messages {
		if msg.RecipientID != recipientID {
			continue
		}
		out = append(out, msg)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) CountCreators(ctx context.Context) (int64, error) {
	var n int64
	for _, p := range m.profiles {
		if p.Role == models.RoleCreator {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountConnections(ctx context.Context) (int64, error) {
	return int64(len(m.connections)), nil
}

func (m *memStore) CountMessages(ctx context.Context) (int64, error) {
	return int64(len(m.messages)), nil
}

// newTestRouter mounts the handlers the way the real router does, with the
// given session injected in place of token verification.
func newTestRouter(db store.DataStore, session *middleware.Session) http.Handler {
	h := NewHandler(db, nil)

	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Get("/who/{id}", h.Who)
	r.Get("/stats", h.Stats)

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if session != nil {
					ctx := context.WithValue(req.Context(), middleware.SessionContextKey, session)
					req = req.WithContext(ctx)
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/creators", h.ListCreators)
		r.Get("/connections", h.ListConnections)
		r.Post("/connections/{id}", h.Follow)
		r.Delete("/connections/{id}", h.Unfollow)
		r.Get("/inbox", h.Inbox)
		r.Post("/dm/{id}", h.SendMessage)
	})

	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func seedProfile(t *testing.T, db *memStore, name, role, tier, bio string) *models.Profile {
	t.Helper()
	p, err := db.CreateProfile(context.Background(), name, "", role, tier, bio)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func memberSession(p *models.Profile) *middleware.Session {
	return &middleware.Session{ID: p.ID, Role: p.Role, Name: p.Name}
}

func TestRegisterValidation(t *testing.T) {
	db := newMemStore()
	router := newTestRouter(db, nil)

	tests := []struct {
		name   string
		req    RegisterRequest
		status int
	}{
		{"missing name", RegisterRequest{Role: "member"}, http.StatusBadRequest},
		{"whitespace name", RegisterRequest{Name: "   ", Role: "member"}, http.StatusBadRequest},
		{"bad role", RegisterRequest{Name: "Sam", Role: "admin"}, http.StatusBadRequest},
		{"tier on member", RegisterRequest{Name: "Sam", Role: "member", Tier: "featured"}, http.StatusBadRequest},
		{"bio too long", RegisterRequest{Name: "Sam", Role: "member", Bio: strings.Repeat("x", 501)}, http.StatusUnprocessableEntity},
		{"valid member", RegisterRequest{Name: "Sam", Role: "member"}, http.StatusCreated},
		{"valid creator with tier", RegisterRequest{Name: "Ava", Role: "creator", Tier: "featured"}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/register", tt.req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	if got := sanitizeName("  Ava\x00 Stone  "); got != "Ava Stone" {
		t.Fatalf("expected control chars and padding stripped, got %q", got)
	}

	// Truncation must not split a multibyte rune
	long := strings.Repeat("é", 150)
	got := sanitizeName(long)
	if utf8.RuneCountInString(got) != 100 {
		t.Fatalf("expected 100 runes, got %d", utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncated name should be valid UTF-8")
	}
}

func TestRegisterReturnsProfileURL(t *testing.T) {
	db := newMemStore()
	router := newTestRouter(db, nil)

	rec := doJSON(t, router, http.MethodPost, "/register", RegisterRequest{Name: "Ava", Role: "creator"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp RegisterResponse
	decode(t, rec, &resp)
	if resp.ProfileURL != "/who/"+resp.ID {
		t.Fatalf("profile URL should point at the new profile, got %q", resp.ProfileURL)
	}
}

func TestWho(t *testing.T) {
	db := newMemStore()
	creator := seedProfile(t, db, "Ava Stone", "creator", "featured", "Digital artist")
	router := newTestRouter(db, nil)

	rec := doJSON(t, router, http.MethodGet, "/who/"+creator.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp WhoResponse
	decode(t, rec, &resp)
	if resp.Name != "Ava Stone" || resp.Role != "creator" || resp.Tier != "featured" {
		t.Fatalf("unexpected profile response: %+v", resp)
	}

	rec = doJSON(t, router, http.MethodGet, "/who/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown profile, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/who/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed ID, got %d", rec.Code)
	}
}

func TestListCreatorsExcludesMembers(t *testing.T) {
	db := newMemStore()
	seedProfile(t, db, "Ava", "creator", "", "")
	seedProfile(t, db, "Ben", "creator", "", "")
	member := seedProfile(t, db, "Sam", "member", "", "")
	router := newTestRouter(db, memberSession(member))

	rec := doJSON(t, router, http.MethodGet, "/creators", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp CreatorListResponse
	decode(t, rec, &resp)
	if resp.Total != 2 {
		t.Fatalf("expected 2 creators, got %d", resp.Total)
	}
	for _, c := range resp.Creators {
		if c.Name == "Sam" {
			t.Fatal("member profiles must not appear in the directory")
		}
	}
}

func TestFollowLifecycle(t *testing.T) {
	db := newMemStore()
	creator := seedProfile(t, db, "Ava", "creator", "", "")
	member := seedProfile(t, db, "Sam", "member", "", "")
	router := newTestRouter(db, memberSession(member))

	rec := doJSON(t, router, http.MethodPost, "/connections/"+creator.ID.String(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var followResp FollowResponse
	decode(t, rec, &followResp)
	if followResp.CreatorID != creator.ID.String() {
		t.Fatalf("expected creator %s, got %s", creator.ID, followResp.CreatorID)
	}

	// Duplicate follow conflicts
	rec = doJSON(t, router, http.MethodPost, "/connections/"+creator.ID.String(), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate follow, got %d", rec.Code)
	}

	// The connection shows up in the network list with joined fields
	rec = doJSON(t, router, http.MethodGet, "/connections", nil)
	var listResp ConnectionListResponse
	decode(t, rec, &listResp)
	if listResp.Total != 1 || listResp.Connections[0].Name != "Ava" {
		t.Fatalf("unexpected connections: %+v", listResp)
	}

	rec = doJSON(t, router, http.MethodDelete, "/connections/"+creator.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on unfollow, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/connections/"+creator.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat unfollow, got %d", rec.Code)
	}
}

func TestFollowTargetValidation(t *testing.T) {
	db := newMemStore()
	member := seedProfile(t, db, "Sam", "member", "", "")
	other := seedProfile(t, db, "Pat", "member", "", "")
	router := newTestRouter(db, memberSession(member))

	rec := doJSON(t, router, http.MethodPost, "/connections/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown target, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/connections/"+other.ID.String(), nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 when following a member, got %d", rec.Code)
	}
}

func TestSendMessageAndInbox(t *testing.T) {
	db := newMemStore()
	creator := seedProfile(t, db, "Ava", "creator", "", "")
	member := seedProfile(t, db, "Sam", "member", "", "")

	memberRouter := newTestRouter(db, memberSession(member))

	rec := doJSON(t, memberRouter, http.MethodPost, "/dm/"+creator.ID.String(), SendMessageRequest{Body: "  loved your last piece  "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var sendResp SendMessageResponse
	decode(t, rec, &sendResp)
	if sendResp.ID == "" || sendResp.Timestamp == 0 {
		t.Fatalf("expected id and ts in response, got %+v", sendResp)
	}

	// The recipient sees the message with the body stored as sent
	creatorRouter := newTestRouter(db, &middleware.Session{ID: creator.ID, Role: creator.Role})
	rec = doJSON(t, creatorRouter, http.MethodGet, "/inbox", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var inbox InboxResponse
	decode(t, rec, &inbox)
	if len(inbox.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(inbox.Messages))
	}
	got := inbox.Messages[0]
	if got.Body != "  loved your last piece  " {
		t.Fatalf("body should not be trimmed in storage, got %q", got.Body)
	}
	if got.SenderID != member.ID.String() || got.SenderName != "Sam" {
		t.Fatalf("unexpected sender fields: %+v", got)
	}
}

func TestSendMessageValidation(t *testing.T) {
	db := newMemStore()
	creator := seedProfile(t, db, "Ava", "creator", "", "")
	member := seedProfile(t, db, "Sam", "member", "", "")
	router := newTestRouter(db, memberSession(member))

	rec := doJSON(t, router, http.MethodPost, "/dm/"+uuid.NewString(), SendMessageRequest{Body: "hi"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown recipient, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/dm/"+creator.ID.String(), SendMessageRequest{Body: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for whitespace body, got %d", rec.Code)
	}

	long := strings.Repeat("x", maxMessageLength+1)
	rec = doJSON(t, router, http.MethodPost, "/dm/"+creator.ID.String(), SendMessageRequest{Body: long})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for oversized body, got %d", rec.Code)
	}
}

func TestInboxNewestFirst(t *testing.T) {
	db := newMemStore()
	creator := seedProfile(t, db, "Ava", "creator", "", "")
	member := seedProfile(t, db, "Sam", "member", "", "")
	router := newTestRouter(db, memberSession(member))

	base := time.Now()
	for i := 0; i < 3; i++ {
		_, err := db.CreateMessage(context.Background(), creator.ID, member.ID, fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/inbox", nil)
	var inbox InboxResponse
	decode(t, rec, &inbox)
	if len(inbox.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(inbox.Messages))
	}
	for i := 1; i < len(inbox.Messages); i++ {
		if inbox.Messages[i-1].Timestamp < inbox.Messages[i].Timestamp {
			t.Fatal("inbox should be ordered newest first")
		}
	}
}

func TestStoreFailureReturns500(t *testing.T) {
	db := newMemStore()
	member := seedProfile(t, db, "Sam", "member", "", "")
	router := newTestRouter(db, memberSession(member))
	db.failAll = true

	rec := doJSON(t, router, http.MethodGet, "/creators", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp map[string]string
	decode(t, rec, &resp)
	if resp["error"] == "" {
		t.Fatal("error responses should carry an error field")
	}
}
