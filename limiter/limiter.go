// Package limiter provides request admission by client key. The
// default implementation is a process-local fixed-window counter;
// multi-instance deployments should swap in a shared-store
// implementation behind the same interface.
package limiter

import (
	"sync"
	"time"
)

// RateLimiter decides whether a request identified by key may proceed.
// Allow is side-effecting: an allowed call consumes budget.
type RateLimiter interface {
	Allow(key string) bool
}

type window struct {
	count int
	reset time.Time
}

// FixedWindow counts calls per key and resets the counter when the
// window elapses. Bursts at window boundaries are possible; that is
// the accepted trade-off of fixed-window limiting.
type FixedWindow struct {
	mu      sync.Mutex
	max     int
	period  time.Duration
	now     func() time.Time
	buckets map[string]*window
}

// NewFixedWindow allows max calls per key every period.
func NewFixedWindow(max int, period time.Duration) *FixedWindow {
	return &FixedWindow{
		max:     max,
		period:  period,
		now:     time.Now,
		buckets: map[string]*window{},
	}
}

func (l *FixedWindow) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.reset) {
		l.sweep(now)
		l.buckets[key] = &window{count: 1, reset: now.Add(l.period)}
		return true
	}
	if b.count >= l.max {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets so the map does not grow unbounded.
// Called with the lock held, only on the reset path.
func (l *FixedWindow) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.After(b.reset) {
			delete(l.buckets, key)
		}
	}
}
