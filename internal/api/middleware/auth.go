package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/creatorlane/connect/internal/models"
	"github.com/creatorlane/connect/internal/store"
)

type contextKey string

const SessionContextKey contextKey = "session"

// RestrictedMessage is returned to authenticated non-member accounts. The
// Connect surface is all-or-nothing: no partial access for other roles.
const RestrictedMessage = "Connect is only available to member accounts"

// Session identifies the authenticated profile for the current request.
type Session struct {
	ID   uuid.UUID
	Role string
	Name string
}

// Claims is the JWT payload issued by the identity provider.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies bearer tokens and resolves sessions.
type AuthMiddleware struct {
	db     store.DataStore
	secret []byte
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(db store.DataStore, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		db:     db,
		secret: []byte(secret),
	}
}

// SignToken mints a session token for a profile. Used by cmd/token and tests.
func SignToken(secret []byte, profileID uuid.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// RequireAuth verifies the Authorization bearer token, confirms the profile
// still exists, and places a Session in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			jsonError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			jsonError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		profileID, err := uuid.Parse(claims.Subject)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "invalid subject")
			return
		}

		profile, err := m.db.GetProfileByID(r.Context(), profileID)
		if err != nil || profile == nil {
			jsonError(w, http.StatusUnauthorized, "profile not found")
			return
		}

		session := &Session{
			ID:   profile.ID,
			Role: profile.Role,
			Name: profile.Name,
		}
		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireMember denies any authenticated session whose role is not "member".
func (m *AuthMiddleware) RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session == nil {
			jsonError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if session.Role != models.RoleMember {
			jsonError(w, http.StatusForbidden, RestrictedMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetSessionFromContext retrieves the authenticated session from the request context.
func GetSessionFromContext(ctx context.Context) *Session {
	session, ok := ctx.Value(SessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return session
}
