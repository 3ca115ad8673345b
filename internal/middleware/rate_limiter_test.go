package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToBurst(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour, 3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("request beyond burst should be denied")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour, 1, time.Hour)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("exhausted key should be denied")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("a different key must have its own budget")
	}
}

func TestRateLimiterExpiresIdleVisitors(t *testing.T) {
	current := time.Unix(1700000000, 0)
	limiter := NewRateLimiter(1, time.Hour, 1, time.Minute).(*keyRateLimiter).
		withNowFunc(func() time.Time { return current })

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("second request should be denied")
	}

	// Past the ttl the visitor entry is collected and the budget resets.
	current = current.Add(2 * time.Minute)
	limiter.Allow("10.0.0.2")
	if _, tracked := limiter.visitors["10.0.0.1"]; tracked {
		t.Fatal("idle visitor should have been evicted")
	}
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("evicted visitor should start with a fresh budget")
	}
}
