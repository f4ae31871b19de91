package utils

import (
	"sync"
	"time"
)

// SubmitLimiter throttles report submissions per submitter using a
// sliding one-minute window. It exists to keep a single user from
// flooding the feedback log; the store itself never sees refused
// submissions.
type SubmitLimiter struct {
	perMinute int
	mu        sync.Mutex
	history   map[string][]time.Time
	now       func() time.Time
}

// NewSubmitLimiter creates a limiter allowing perMinute submissions per
// submitter. perMinute <= 0 falls back to 3.
func NewSubmitLimiter(perMinute int) *SubmitLimiter {
	if perMinute <= 0 {
		perMinute = 3
	}
	return &SubmitLimiter{
		perMinute: perMinute,
		history:   make(map[string][]time.Time),
		now:       time.Now,
	}
}

// Allow reports whether submitter may submit now, and records the
// submission if so.
func (l *SubmitLimiter) Allow(submitter string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-time.Minute)

	recent := l.history[submitter][:0]
	for _, t := range l.history[submitter] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.perMinute {
		l.history[submitter] = recent
		return false
	}
	l.history[submitter] = append(recent, now)
	return true
}
