package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMax    = 5
	testWindow = 60 * time.Second
)

func newTestLimiter(t *testing.T) *IPRateLimiter {
	rl := NewRateLimiter(testMax, testWindow)
	t.Cleanup(rl.Close)
	return rl
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := newTestLimiter(t)
	for i := range testMax {
		require.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "request beyond limit should be denied")
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := newTestLimiter(t)
	for range testMax {
		rl.Allow("10.0.0.1")
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "different client should not be affected")
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := newTestLimiter(t)

	// Fill up the limit by backdating timestamps
	rl.mu.Lock()
	past := time.Now().Add(-testWindow - time.Second)
	for range testMax {
		rl.requests["10.0.0.1"] = append(rl.requests["10.0.0.1"], past)
	}
	rl.mu.Unlock()

	assert.True(t, rl.Allow("10.0.0.1"), "should allow after old entries expire")
}

func TestRateLimiterPrune(t *testing.T) {
	rl := newTestLimiter(t)

	rl.mu.Lock()
	rl.requests["stale"] = []time.Time{time.Now().Add(-testWindow - time.Second)}
	rl.mu.Unlock()
	rl.Allow("fresh")

	rl.prune()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.requests, "stale")
	assert.Contains(t, rl.requests, "fresh")
}

func TestRateLimiterConcurrentAccess(t *testing.T) {
	rl := newTestLimiter(t)
	var wg sync.WaitGroup
	allowed := make([]int, 10)

	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ip := fmt.Sprintf("10.0.0.%d", i)
			for range testMax + 2 {
				if rl.Allow(ip) {
					allowed[i]++
				}
			}
		}()
	}
	wg.Wait()

	for i, count := range allowed {
		assert.Equal(t, testMax, count, "client %d should have exactly %d allowed requests", i, testMax)
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	t.Cleanup(rl.Close)
	h := RateLimit(rl)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Real-IP", "192.0.2.7")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth("secret")(okHandler())

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	APIKeyAuth("")(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://example.org"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	CORS(nil)(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMaxBody(t *testing.T) {
	var readErr error
	h := MaxBody(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}

func TestChainOrderAndLogging(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	h := Chain(okHandler(), RequestLogger(log), CacheControl("no-store"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/table", nil))

	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/api/v1/table")
	assert.Contains(t, buf.String(), "route=unmatched")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestRequestLoggerRouteAndAnnotations(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/convert", Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Annotate(r.Context(), slog.Int("legacy", 2), slog.Int("unmapped", 1))
		w.Write([]byte("converted"))
	}), RequestLogger(log)))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader("{}")))
	require.Equal(t, http.StatusOK, rec.Code)

	line := buf.String()
	assert.Contains(t, line, `route="POST /api/v1/convert"`)
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, "bytes=9")
	assert.Contains(t, line, "legacy=2")
	assert.Contains(t, line, "unmapped=1")
}

func TestAnnotateWithoutLogger(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotPanics(t, func() { Annotate(req.Context(), slog.Int("legacy", 1)) })
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:5555"
	assert.Equal(t, "198.51.100.4", ClientIP(req))

	req.Header.Set("X-Real-IP", " 203.0.113.9 ")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
