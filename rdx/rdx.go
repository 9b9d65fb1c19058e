package rdx

import (
	"os"

	"github.com/redis/go-redis/v9"

	"pictora/globals"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

func RdxHset(hash, key, value string) error {
	return Conn.HSet(globals.Ctx, hash, key, value).Err()
}

func RdxHget(hash, key string) (string, error) {
	return Conn.HGet(globals.Ctx, hash, key).Result()
}

func RdxHdel(hash, key string) (int64, error) {
	return Conn.HDel(globals.Ctx, hash, key).Result()
}

// Session tokens live in a single hash keyed by user ID. Login writes the
// active token, logout removes it, and authentication only accepts a token
// whose record is still present.
const sessionsHash = "sessions"

func SetSession(userID, token string) error {
	return RdxHset(sessionsHash, userID, token)
}

// GetSession returns redis.Nil when the user has no live session.
func GetSession(userID string) (string, error) {
	return RdxHget(sessionsHash, userID)
}

func DelSession(userID string) (int64, error) {
	return RdxHdel(sessionsHash, userID)
}
