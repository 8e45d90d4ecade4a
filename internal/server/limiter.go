package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiterSet holds one token bucket per session.
type limiterSet struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func newLimiterSet(limit rate.Limit, burst int) *limiterSet {
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &limiterSet{limit: limit, burst: burst, now: time.Now, entries: map[string]*limiterEntry{}}
}

func (l *limiterSet) allow(id string) bool {
	if l.limit == rate.Inf {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	e, ok := l.entries[id]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.entries[id] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// prune drops buckets not used within idle and returns how many went.
func (l *limiterSet) prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-idle)
	n := 0
	for id, e := range l.entries {
		if e.seen.Before(cutoff) {
			delete(l.entries, id)
			n++
		}
	}
	return n
}
