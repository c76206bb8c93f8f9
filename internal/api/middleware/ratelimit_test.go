package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/creatorlane/connect/internal/models"
)

func TestSessionKeyRequiresValidSignature(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{AuthSecret: testSecret})
	profileID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/creators", nil)
	req.RemoteAddr = "203.0.113.9:41234"

	// A properly signed token gets its own session bucket
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, profileID, models.RoleMember))
	if got, want := rl.sessionKey(req), "ratelimit:session:"+profileID.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	// A token signed with a different secret must not mint a bucket
	forged, err := SignToken([]byte("attacker-secret"), profileID, models.RoleMember, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+forged)
	if got, want := rl.sessionKey(req), "ratelimit:ip:203.0.113.9"; got != want {
		t.Fatalf("forged token should fall back to the IP bucket, got %q", got)
	}

	// No token at all keys by IP
	req.Header.Del("Authorization")
	if got, want := rl.sessionKey(req), "ratelimit:ip:203.0.113.9"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMatchPatterns(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{})

	tests := []struct {
		method, path string
		pattern      string
		ok           bool
	}{
		{http.MethodPost, "/register", "POST /register", true},
		{http.MethodGet, "/who/abc", "GET /who/", true},
		{http.MethodGet, "/who/", "", false}, // bare prefix does not match
		{http.MethodPost, "/dm/abc", "POST /dm/", true},
		{http.MethodDelete, "/connections/abc", "DELETE /connections/", true},
		{http.MethodGet, "/health", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		_, pattern, ok := rl.match(req)
		if ok != tt.ok || pattern != tt.pattern {
			t.Fatalf("%s %s: expected (%q, %v), got (%q, %v)", tt.method, tt.path, tt.pattern, tt.ok, pattern, ok)
		}
	}
}
