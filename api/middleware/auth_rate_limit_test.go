package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{counts: map[string]int64{}}
}

func (m *memoryLimiter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func loginRequest(email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = "203.0.113.7:51234"
	return req
}

func TestAuthRateLimitPerIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	store := newMemoryLimiter()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthRateLimit(policy, store, testLogger())(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("buyer@example.com"))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("buyer@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimitPerEmail(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	store := newMemoryLimiter()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthRateLimit(policy, store, testLogger())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("Buyer@Example.com"))
	require.Equal(t, http.StatusOK, rec.Code)

	// Same address, different casing and whitespace, still one counter.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(" buyer@example.com "))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different account is unaffected.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("other@example.com"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimitBodyStillReadable(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)
	store := newMemoryLimiter()

	var body string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(payload)
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthRateLimit(policy, store, testLogger())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("buyer@example.com"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `"email":"buyer@example.com"`)
}

func TestAuthRateLimitDisabledPolicy(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 10, 10)
	store := newMemoryLimiter()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthRateLimit(policy, store, testLogger())(next)

	for i := 0; i < 25; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("buyer@example.com"))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, store.counts)
}
