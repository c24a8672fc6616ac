package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"seguraassina/internal/domain"
)

// ErrTooManyClients is returned when every tracked bucket is still draining
// and no new client can be admitted.
var ErrTooManyClients = errors.New("rate limiter is tracking too many clients")

const defaultMaxClients = 50000

type MemoryOptions struct {
	Now        func() time.Time
	MaxClients int
}

type MemoryLimiter struct {
	mu         sync.Mutex
	now        func() time.Time
	buckets    map[string]*bucket
	maxClients int
}

func NewMemoryLimiter(opts MemoryOptions) *MemoryLimiter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxClients <= 0 {
		opts.MaxClients = defaultMaxClients
	}
	return &MemoryLimiter{
		now:        opts.Now,
		buckets:    make(map[string]*bucket),
		maxClients: opts.MaxClients,
	}
}

func (m *MemoryLimiter) Take(_ context.Context, key string, cost int, budget domain.RateBudget) (domain.RateLimitDecision, error) {
	if budget.Units <= 0 {
		return unlimited(cost, budget), nil
	}
	budget = normalize(budget)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok {
		if len(m.buckets) >= m.maxClients {
			m.dropFull(now, budget)
		}
		if len(m.buckets) >= m.maxClients {
			return domain.RateLimitDecision{}, ErrTooManyClients
		}
		b = &bucket{tokens: capacity(budget), updated: now}
		m.buckets[key] = b
	} else if tokens, added := refill(b.tokens, now.Sub(b.updated), budget); added {
		b.tokens = tokens
		b.updated = now
	}

	allowed := b.tokens >= need(cost, budget)
	if allowed {
		b.tokens -= need(cost, budget)
	}
	return decide(allowed, b.tokens, cost, now, budget), nil
}

// dropFull forgets buckets that have refilled completely. They behave
// exactly like an untracked client.
func (m *MemoryLimiter) dropFull(now time.Time, budget domain.RateBudget) {
	for key, b := range m.buckets {
		if tokens, _ := refill(b.tokens, now.Sub(b.updated), budget); tokens >= capacity(budget) {
			delete(m.buckets, key)
		}
	}
}

var _ domain.RateLimiter = (*MemoryLimiter)(nil)
