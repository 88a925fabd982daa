package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCache fakes the rate-limit counter. Only IncrWithExpiry matters.
type countingCache struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newCountingCache() *countingCache {
	return &countingCache{counts: make(map[string]int64)}
}

func (c *countingCache) IncrWithExpiry(_ context.Context, key string, _ time.Duration) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], nil
}

func (c *countingCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}
func (c *countingCache) Get(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil }
func (c *countingCache) Delete(_ context.Context, _ string) error              { return nil }
func (c *countingCache) Ping(_ context.Context) error                          { return nil }
func (c *countingCache) SetJobStatus(_ context.Context, _ uuid.UUID, _ string, _ time.Duration) error {
	return nil
}
func (c *countingCache) GetJobStatus(_ context.Context, _ uuid.UUID) (string, bool, error) {
	return "", false, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimit(newCountingCache(), 3, time.Minute)
	h := rl.Limit(okHandler())

	for i := range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimit(newCountingCache(), 2, time.Minute)
	h := rl.Limit(okHandler())

	var last *httptest.ResponseRecorder
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "Too many requests")
}

func TestRateLimit_PerClientBuckets(t *testing.T) {
	rl := NewRateLimit(newCountingCache(), 1, time.Minute)
	h := rl.Limit(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// A different client keeps its own budget.
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.2:9999"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_FailsOpenOnCacheError(t *testing.T) {
	c := newCountingCache()
	c.err = errors.New("redis down")
	rl := NewRateLimit(c, 1, time.Minute)
	h := rl.Limit(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateVideoURL_RejectsMalformed(t *testing.T) {
	h := ValidateVideoURL(okHandler())

	for _, raw := range []string{"not a url", "/relative/path", "missing-scheme.com/x"} {
		req := httptest.NewRequest(http.MethodPost, "/process",
			strings.NewReader(`{"videoUrl":"`+raw+`"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "url %q", raw)
		assert.Contains(t, rec.Body.String(), "Invalid video URL format")
	}
}

func TestValidateVideoURL_PassesValid(t *testing.T) {
	h := ValidateVideoURL(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/process",
		strings.NewReader(`{"videoUrl":"https://example.com/v.mp4"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateVideoURL_IgnoresBodiesWithoutField(t *testing.T) {
	h := ValidateVideoURL(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/voice/evaluate",
		strings.NewReader(`{"jobId":"abc","answers":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateVideoURL_SkipsNonJSON(t *testing.T) {
	h := ValidateVideoURL(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/transcript/transcribe",
		strings.NewReader("binary audio bytes"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateVideoURL_PreservesBodyForHandler(t *testing.T) {
	payload := `{"videoUrl":"https://example.com/v.mp4","extra":"kept"}`
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(b)
		w.WriteHeader(http.StatusOK)
	})
	h := ValidateVideoURL(inner)

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, seen)
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "An unexpected error occurred")
}

func TestLogger_PassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
