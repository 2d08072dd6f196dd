package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeLimiter struct {
	counts map[string]int64
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64)}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.counts[scope]++
	count := f.counts[scope]
	return count <= limit, count, nil
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewRateLimitPolicy("quotes", time.Minute, 2)
	handler := RateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithDealerID(req.Context(), "dealer-1"))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := serve(); code != http.StatusOK {
		t.Fatalf("first request expected 200 got %d", code)
	}
	if code := serve(); code != http.StatusOK {
		t.Fatalf("second request expected 200 got %d", code)
	}
	if code := serve(); code != http.StatusTooManyRequests {
		t.Fatalf("third request expected 429 got %d", code)
	}
}

func TestRateLimitScopesByDealer(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewRateLimitPolicy("quotes", time.Minute, 1)
	handler := RateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(dealer string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithDealerID(req.Context(), dealer))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := serve("dealer-1"); code != http.StatusOK {
		t.Fatalf("dealer-1 expected 200 got %d", code)
	}
	if code := serve("dealer-2"); code != http.StatusOK {
		t.Fatalf("dealer-2 should have its own window, got %d", code)
	}
	if code := serve("dealer-1"); code != http.StatusTooManyRequests {
		t.Fatalf("dealer-1 expected 429 got %d", code)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewRateLimitPolicy("quotes", 0, 0)
	var calls int
	handler := RateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 5 {
		t.Fatalf("disabled policy should never block, handler ran %d times", calls)
	}
}
