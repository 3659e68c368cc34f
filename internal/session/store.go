package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/medicare-hq/staff-console/internal/model"
)

// DefaultTTL caps a session when the platform token carries no usable
// expiry claim.
const DefaultTTL = 12 * time.Hour

// Store holds staff sessions for the lifetime of their platform token.
// It replaces the browser-local ambient credential of the old dashboard
// with an explicit object injected wherever a session is read.
type Store struct {
	sessions *cache.Cache
}

func NewStore() *Store {
	return &Store{
		sessions: cache.New(DefaultTTL, 10*time.Minute),
	}
}

// Create registers a session and returns the console-side session ID
// handed back to the staff client.
func (s *Store) Create(sess model.Session) string {
	ttl := time.Until(sess.ExpiresAt)
	if sess.ExpiresAt.IsZero() || ttl <= 0 {
		ttl = DefaultTTL
		sess.ExpiresAt = time.Now().Add(ttl)
	}

	id := uuid.New().String()
	s.sessions.Set(id, sess, ttl)
	return id
}

// Get returns the session for a console session ID.
func (s *Store) Get(id string) (model.Session, bool) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return model.Session{}, false
	}
	return v.(model.Session), true
}

// Delete ends a session at logout.
func (s *Store) Delete(id string) {
	s.sessions.Delete(id)
}

// TokenExpiry extracts the exp claim from a platform JWT without
// verifying the signature; the platform re-checks the token on every
// call, the console only needs it to bound the session lifetime.
func TokenExpiry(token string) time.Time {
	claims := &model.TokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
