package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"

	"pictora/globals"
	"pictora/models"
	"pictora/policy"
	"pictora/rdx"
)

// JWT claims: the actor descriptor resolved once per request.
type Claims struct {
	Email  string      `json:"email"`
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// fetchSession resolves the active session token for a user. Indirect so
// tests can stub the session store.
var fetchSession = rdx.GetSession

// Authenticate validates the bearer token and threads the claims through the
// request context for downstream handlers. A token whose session record was
// revoked by logout is rejected even before it expires.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}
		raw := tokenString[7:]

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
			return globals.JwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		stored, err := fetchSession(claims.UserID)
		if err == redis.Nil || (err == nil && stored != raw) {
			http.Error(w, "Session expired or revoked", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, "Session lookup failed", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), globals.ActorKey, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireAdmin gates a route on the admin role. Must run inside Authenticate.
func RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != models.RoleAdmin {
			http.Error(w, "Forbidden: admin only", http.StatusForbidden)
			return
		}
		next(w, r, ps)
	}
}

// ClaimsFrom extracts the actor descriptor placed by Authenticate.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(globals.ActorKey).(*Claims)
	return claims, ok
}

// Actor converts the claims into the policy layer's actor descriptor.
func (c *Claims) Actor() policy.Actor {
	return policy.Actor{ID: c.UserID, Role: c.Role}
}
