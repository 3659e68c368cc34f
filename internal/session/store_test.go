package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare-hq/staff-console/internal/model"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "staff-5",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSessionLifecycle(t *testing.T) {
	store := NewStore()

	id := store.Create(model.Session{
		Token: "platform-token",
		Name:  "Dr. Adams",
		Role:  model.RoleDoctor,
	})
	require.NotEmpty(t, id)

	sess, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "platform-token", sess.Token)
	assert.Equal(t, model.RoleDoctor, sess.Role)

	store.Delete(id)
	_, ok = store.Get(id)
	assert.False(t, ok, "logout must clear the session")
}

func TestUnknownSessionID(t *testing.T) {
	store := NewStore()
	_, ok := store.Get("not-a-session")
	assert.False(t, ok)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	got := TokenExpiry(signedToken(t, exp))
	assert.WithinDuration(t, exp, got, time.Second)
}

func TestTokenExpiryMalformedToken(t *testing.T) {
	assert.True(t, TokenExpiry("not-a-jwt").IsZero())
	assert.True(t, TokenExpiry("").IsZero())
}

func TestExpiredTokenSessionFallsBackToDefaultTTL(t *testing.T) {
	store := NewStore()

	id := store.Create(model.Session{
		Token:     "tok",
		Role:      model.RoleLab,
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	// A token with a past expiry still yields a usable session; the
	// platform rejects replayed calls if it truly expired.
	sess, ok := store.Get(id)
	require.True(t, ok)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
}
