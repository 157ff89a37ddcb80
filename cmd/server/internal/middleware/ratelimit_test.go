package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, perMinute int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rl := NewRateLimiter(client, perMinute, zap.NewNop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return rl.Middleware(next), mr
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	h, _ := newLimitedHandler(t, 5)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiterBlocksExcess(t *testing.T) {
	h, _ := newLimitedHandler(t, 3)

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		h.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "Too many requests")
}

func TestRateLimiterKeysByClientIP(t *testing.T) {
	h, _ := newLimitedHandler(t, 1)

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", nil)
	req1.RemoteAddr = "10.0.0.1:50000"
	h.ServeHTTP(first, req1)
	require.Equal(t, http.StatusOK, first.Code)

	blocked := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", nil)
	req2.RemoteAddr = "10.0.0.1:50001" // same host, different port
	h.ServeHTTP(blocked, req2)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)

	other := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", nil)
	req3.RemoteAddr = "10.0.0.2:50000"
	h.ServeHTTP(other, req3)
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	h, mr := newLimitedHandler(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "redis outage must not block requests")
	}
}

func TestRateLimiterSetsHeaders(t *testing.T) {
	h, _ := newLimitedHandler(t, 10)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=a@b.edu", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	h.ServeHTTP(rec, req)

	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}
