package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter enforces a minimum gap between allowed calls per key inside
// one process. Keys idle longer than the sweep window are dropped the next
// time any key is checked.
type MemoryLimiter struct {
	mu        sync.Mutex
	gap       time.Duration
	idle      time.Duration
	now       func() time.Time
	entries   map[string]*entry
	lastSweep time.Time
}

// Option customises a MemoryLimiter.
type Option func(*MemoryLimiter)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryLimiter) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryLimiter allows one call per gap for each key and forgets keys
// after idle. A non-positive gap allows everything.
func NewMemoryLimiter(gap, idle time.Duration, opts ...Option) *MemoryLimiter {
	m := &MemoryLimiter{
		gap:     gap,
		idle:    idle,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSweep = m.now()
	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if m.gap <= 0 {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	e, ok := m.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Every(m.gap), 1)}
		m.entries[key] = e
	}
	if !e.limiter.AllowN(now, 1) {
		return false, nil
	}
	e.lastSeen = now
	return true, nil
}

// Len reports how many keys are currently tracked.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryLimiter) sweepLocked(now time.Time) {
	if m.idle <= 0 || now.Sub(m.lastSweep) < m.idle {
		return
	}
	for key, e := range m.entries {
		if now.Sub(e.lastSeen) > m.idle {
			delete(m.entries, key)
		}
	}
	m.lastSweep = now
}
