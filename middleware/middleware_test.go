package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pictora/globals"
	"pictora/models"
)

func mintToken(t *testing.T, userID string, role models.Role, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		Email:  "a@example.com",
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

// stubSession points the session lookup at a fixed token for the test's
// duration.
func stubSession(t *testing.T, fn func(userID string) (string, error)) {
	t.Helper()
	prev := fetchSession
	fetchSession = fn
	t.Cleanup(func() { fetchSession = prev })
}

func sessionWith(token string) func(string) (string, error) {
	return func(string) (string, error) { return token, nil }
}

func TestAuthenticate(t *testing.T) {
	var seen *Claims
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token with live session reaches handler", func(t *testing.T) {
		seen = nil
		token := mintToken(t, "u1", models.RoleUser, time.Hour)
		stubSession(t, sessionWith(token))
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "u1", seen.UserID)
		assert.Equal(t, models.RoleUser, seen.Role)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, "u1", models.RoleUser, -time.Hour))
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked session rejected before expiry", func(t *testing.T) {
		seen = nil
		token := mintToken(t, "u1", models.RoleUser, time.Hour)
		stubSession(t, func(string) (string, error) { return "", redis.Nil })
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("superseded session token rejected", func(t *testing.T) {
		old := mintToken(t, "u1", models.RoleUser, time.Hour)
		stubSession(t, sessionWith(mintToken(t, "u1", models.RoleUser, 2*time.Hour)))
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer "+old)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session store failure is a server error", func(t *testing.T) {
		token := mintToken(t, "u1", models.RoleUser, time.Hour)
		stubSession(t, func(string) (string, error) { return "", errors.New("connection refused") })
		req := httptest.NewRequest("GET", "/api/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler(rec, req, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	handler := Authenticate(RequireAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}))

	run := func(t *testing.T, role models.Role) int {
		token := mintToken(t, "acct", role, time.Hour)
		stubSession(t, sessionWith(token))
		req := httptest.NewRequest("GET", "/api/auth/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		return rec.Code
	}

	t.Run("admin passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, run(t, models.RoleAdmin))
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, run(t, models.RoleUser))
	})

	t.Run("influencer forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, run(t, models.RoleInfluencer))
	})
}

func TestClaimsActor(t *testing.T) {
	c := &Claims{UserID: "u5", Role: models.RoleAdmin}
	actor := c.Actor()
	assert.Equal(t, "u5", actor.ID)
	assert.Equal(t, models.RoleAdmin, actor.Role)
}
