// Package ratelimit implements a fixed-window request counter keyed by
// caller identity and endpoint class. Windows are wall-clock aligned to their
// start, not sliding, which admits short bursts at window edges; that is
// acceptable for abuse deterrence.
package ratelimit

import (
	"sync"
	"time"

	"scoreboard-server/internal/domain"
)

// Class names a group of endpoints sharing one limit configuration.
type Class string

const (
	// ClassDefault applies to every call.
	ClassDefault Class = "default"
	// ClassSubmission applies the tighter score-submission limit.
	ClassSubmission Class = "submission"
)

// Limit configures one endpoint class: at most MaxRequests per Window.
type Limit struct {
	Window      time.Duration
	MaxRequests int
}

type window struct {
	start time.Time
	count int
}

// Limiter counts requests per (caller, class) key in fixed windows. The
// increment-and-compare runs under the mutex so concurrent calls on the same
// key never split the read-modify-write.
type Limiter struct {
	mu      sync.Mutex
	limits  map[Class]Limit
	windows map[string]*window
	now     func() time.Time
}

func New(limits map[Class]Limit) *Limiter {
	return &Limiter{
		limits:  limits,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records one request from caller against the given class and reports
// whether it is admitted. When denied, the returned error is a
// *domain.RateLimitError carrying the remaining window time.
func (l *Limiter) Allow(caller string, class Class) error {
	limit, ok := l.limits[class]
	if !ok || limit.MaxRequests <= 0 || limit.Window <= 0 {
		return nil
	}

	key := caller + ":" + string(class)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= limit.Window {
		l.windows[key] = &window{start: now, count: 1}
		return nil
	}

	w.count++
	if w.count <= limit.MaxRequests {
		return nil
	}
	return &domain.RateLimitError{RetryAfter: limit.Window - now.Sub(w.start)}
}
