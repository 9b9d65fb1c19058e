package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestLimitBlocksBurst(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5000"

	rec := httptest.NewRecorder()
	handler(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "first request allowed")

	rec = httptest.NewRecorder()
	handler(rec, req, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "burst of one exhausted")
}

func TestLimitTracksPerIP(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest("POST", "/api/auth/login", nil)
	first.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()
	handler(rec, first, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	other := httptest.NewRequest("POST", "/api/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec = httptest.NewRecorder()
	handler(rec, other, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "separate IP has its own bucket")
}
