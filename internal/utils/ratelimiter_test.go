package utils

import (
	"testing"
	"time"
)

func TestSubmitLimiterAllowsUpToLimit(t *testing.T) {
	l := NewSubmitLimiter(3)

	for i := 0; i < 3; i++ {
		if !l.Allow("student") {
			t.Fatalf("submission %d should be allowed", i+1)
		}
	}
	if l.Allow("student") {
		t.Error("fourth submission inside the window must be refused")
	}
}

func TestSubmitLimiterIsPerSubmitter(t *testing.T) {
	l := NewSubmitLimiter(1)

	if !l.Allow("alice") {
		t.Fatal("alice's first submission should be allowed")
	}
	if !l.Allow("bob") {
		t.Error("bob must not be throttled by alice's submissions")
	}
	if l.Allow("alice") {
		t.Error("alice's second submission must be refused")
	}
}

func TestSubmitLimiterWindowSlides(t *testing.T) {
	l := NewSubmitLimiter(2)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	if !l.Allow("student") || !l.Allow("student") {
		t.Fatal("first two submissions should be allowed")
	}
	if l.Allow("student") {
		t.Fatal("third submission must be refused")
	}

	// Just past a minute since the first submission.
	clock = clock.Add(61 * time.Second)
	if !l.Allow("student") {
		t.Error("submission after the window slid must be allowed")
	}
}

func TestSubmitLimiterZeroRateFallsBack(t *testing.T) {
	l := NewSubmitLimiter(0)
	for i := 0; i < 3; i++ {
		if !l.Allow("student") {
			t.Fatalf("fallback limit must allow 3 submissions, refused at %d", i+1)
		}
	}
	if l.Allow("student") {
		t.Error("fallback limit must refuse the fourth submission")
	}
}
