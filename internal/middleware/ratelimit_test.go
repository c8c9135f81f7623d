package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Varun5711/campusapi/internal/ratelimit"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func doRequest(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ratelimit.NewMemoryStore(), "auth", 5, 15*time.Minute)
	rl.now = func() time.Time { return now }
	h := rl.Middleware(okHandler)

	for i := 1; i <= 5; i++ {
		rec := doRequest(h, "10.0.0.1")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(5-i) {
			t.Errorf("request %d: expected remaining %d, got %s", i, 5-i, got)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "5" {
			t.Errorf("expected limit header 5, got %s", got)
		}
	}

	now = now.Add(time.Minute)
	rec := doRequest(h, "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	var body struct {
		Error      string `json:"error"`
		RetryAfter int64  `json:"retryAfter"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Too many requests, please try again later." {
		t.Errorf("unexpected error message %q", body.Error)
	}
	if body.RetryAfter != 14*60 {
		t.Errorf("expected retryAfter 840, got %d", body.RetryAfter)
	}
	if rec.Header().Get("Retry-After") != "840" {
		t.Errorf("expected Retry-After 840, got %s", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected remaining 0, got %s", rec.Header().Get("X-RateLimit-Remaining"))
	}

	if rec := doRequest(h, "10.0.0.2"); rec.Code != http.StatusOK {
		t.Errorf("other clients must not be affected, got %d", rec.Code)
	}
}

func TestRateLimiter_WindowRollsOver(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ratelimit.NewMemoryStore(), "general", 2, time.Minute)
	rl.now = func() time.Time { return now }
	h := rl.Middleware(okHandler)

	doRequest(h, "10.0.0.1")
	doRequest(h, "10.0.0.1")
	if rec := doRequest(h, "10.0.0.1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	now = now.Add(time.Minute + time.Second)
	rec := doRequest(h, "10.0.0.1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after window, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "1" {
		t.Errorf("expected counter reset, remaining %s", rec.Header().Get("X-RateLimit-Remaining"))
	}
	wantReset := strconv.FormatInt(now.Add(time.Minute).Unix(), 10)
	if rec.Header().Get("X-RateLimit-Reset") != wantReset {
		t.Errorf("expected reset %s, got %s", wantReset, rec.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimiter_SharedStoreSeparateLimiters(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	strict := NewRateLimiter(store, "auth", 1, time.Minute).Middleware(okHandler)
	general := NewRateLimiter(store, "general", 10, time.Minute).Middleware(okHandler)

	doRequest(strict, "10.0.0.9")
	if rec := doRequest(general, "10.0.0.9"); rec.Code != http.StatusOK {
		t.Errorf("general limiter must keep its own count, got %d", rec.Code)
	}
	if rec := doRequest(strict, "10.0.0.9"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected strict limiter to block, got %d", rec.Code)
	}
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration, time.Time) (ratelimit.Record, error) {
	return ratelimit.Record{}, errors.New("connection refused")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	h := NewRateLimiter(failingStore{}, "general", 1, time.Minute).Middleware(okHandler)

	for i := 0; i < 3; i++ {
		if rec := doRequest(h, "10.0.0.1"); rec.Code != http.StatusOK {
			t.Errorf("expected request to pass when store fails, got %d", rec.Code)
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		resetAt time.Time
		want    int64
	}{
		{now.Add(10 * time.Second), 10},
		{now.Add(1500 * time.Millisecond), 2},
		{now.Add(time.Millisecond), 1},
		{now, 1},
		{now.Add(-time.Second), 1},
	}

	for _, tt := range tests {
		if got := retryAfterSeconds(tt.resetAt, now); got != tt.want {
			t.Errorf("retryAfterSeconds(%v) = %d, want %d", tt.resetAt.Sub(now), got, tt.want)
		}
	}
}

func TestCeilUnix(t *testing.T) {
	base := time.Unix(1700000000, 0)
	if got := ceilUnix(base); got != 1700000000 {
		t.Errorf("expected exact second unchanged, got %d", got)
	}
	if got := ceilUnix(base.Add(time.Millisecond)); got != 1700000001 {
		t.Errorf("expected rounding up, got %d", got)
	}
}
