package http

import (
	"fmt"
	"testing"
	"time"
)

func TestRateLimiterDisabled(t *testing.T) {
	r := newRateLimiter(0, 5)
	if r != nil {
		t.Fatalf("expected nil limiter for rps 0")
	}
	for i := 0; i < 10; i++ {
		if !r.allow("192.0.2.1") {
			t.Fatalf("nil limiter must allow everything")
		}
	}
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	now := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	r := newRateLimiter(1, 1)
	r.now = func() time.Time { return now }

	for i := 0; i < 20; i++ {
		r.allow(fmt.Sprintf("10.0.0.%d", i))
	}
	if got := r.size(); got != 20 {
		t.Fatalf("expected 20 buckets, got %d", got)
	}

	now = now.Add(limiterIdleTTL + time.Second)
	if !r.allow("192.0.2.1") {
		t.Fatalf("fresh client should be allowed")
	}
	if got := r.size(); got != 1 {
		t.Fatalf("expected idle buckets evicted, got %d", got)
	}
}

func TestRateLimiterKeepsActiveBuckets(t *testing.T) {
	now := time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)
	r := newRateLimiter(0.001, 1)
	r.now = func() time.Time { return now }

	if !r.allow("192.0.2.1") {
		t.Fatalf("first request should pass")
	}

	now = now.Add(limiterIdleTTL / 2)
	if r.allow("192.0.2.1") {
		t.Fatalf("second request should be limited")
	}

	// The client kept sending, so the sweep must not hand it a fresh bucket.
	now = now.Add(limiterIdleTTL/2 + time.Second)
	if r.allow("192.0.2.1") {
		t.Fatalf("active client must stay limited after a sweep")
	}
}
