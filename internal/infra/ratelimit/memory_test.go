package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"seguraassina/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
}

var tenPerMinute = domain.RateBudget{Units: 10, Window: time.Minute}

func take(t *testing.T, limiter domain.RateLimiter, key string, cost int, budget domain.RateBudget) domain.RateLimitDecision {
	t.Helper()
	decision, err := limiter.Take(context.Background(), key, cost, budget)
	if err != nil {
		t.Fatalf("take %s cost %d: %v", key, cost, err)
	}
	return decision
}

// exerciseWeightedSpending runs the same scenario against any limiter built
// on clock.
func exerciseWeightedSpending(t *testing.T, limiter domain.RateLimiter, clock *fakeClock) {
	t.Helper()
	start := clock.now

	if d := take(t, limiter, "ip:1", 4, tenPerMinute); !d.Allowed || d.Remaining != 6 || d.Cost != 4 || d.Limit != 10 {
		t.Fatalf("first take: %+v", d)
	}
	if d := take(t, limiter, "ip:1", 4, tenPerMinute); !d.Allowed || d.Remaining != 2 {
		t.Fatalf("second take: %+v", d)
	}
	denied := take(t, limiter, "ip:1", 4, tenPerMinute)
	if denied.Allowed || denied.Remaining != 2 {
		t.Fatalf("expected denial with balance kept, got %+v", denied)
	}
	// Two missing units at ten per minute take twelve seconds.
	if !denied.RetryAt.Equal(start.Add(12 * time.Second)) {
		t.Fatalf("unexpected retry time: %s", denied.RetryAt.Sub(start))
	}
	if !denied.ResetAt.Equal(start.Add(48 * time.Second)) {
		t.Fatalf("unexpected reset time: %s", denied.ResetAt.Sub(start))
	}

	// A cheap operation still fits in what is left.
	if d := take(t, limiter, "ip:1", 1, tenPerMinute); !d.Allowed || d.Remaining != 1 {
		t.Fatalf("cheap take: %+v", d)
	}
	if d := take(t, limiter, "ip:2", 10, tenPerMinute); !d.Allowed || d.Remaining != 0 {
		t.Fatalf("other clients have their own budget: %+v", d)
	}

	clock.Advance(30 * time.Second)
	if d := take(t, limiter, "ip:1", 4, tenPerMinute); !d.Allowed || d.Remaining != 2 {
		t.Fatalf("expected half a window of refill, got %+v", d)
	}

	clock.Advance(2 * time.Minute)
	if d := take(t, limiter, "ip:1", 1, tenPerMinute); !d.Allowed || d.Remaining != 9 {
		t.Fatalf("expected a full bucket after idling, got %+v", d)
	}
}

func TestMemoryLimiter_WeightedSpending(t *testing.T) {
	clock := newClock()
	exerciseWeightedSpending(t, NewMemoryLimiter(MemoryOptions{Now: clock.Now}), clock)
}

func TestMemoryLimiter_CostAboveBudgetDrainsBucket(t *testing.T) {
	clock := newClock()
	limiter := NewMemoryLimiter(MemoryOptions{Now: clock.Now})

	if d := take(t, limiter, "ip:1", 100, tenPerMinute); !d.Allowed || d.Remaining != 0 {
		t.Fatalf("expected an oversized cost to spend the full budget, got %+v", d)
	}
	if d := take(t, limiter, "ip:1", 1, tenPerMinute); d.Allowed {
		t.Fatalf("expected the drained bucket to deny, got %+v", d)
	}
	clock.Advance(time.Minute)
	if d := take(t, limiter, "ip:1", 100, tenPerMinute); !d.Allowed {
		t.Fatalf("expected the oversized operation once per window, got %+v", d)
	}
}

func TestMemoryLimiter_SlowRefillAccumulates(t *testing.T) {
	clock := newClock()
	limiter := NewMemoryLimiter(MemoryOptions{Now: clock.Now})
	budget := domain.RateBudget{Units: 1, Window: time.Minute}

	if d := take(t, limiter, "ip:1", 1, budget); !d.Allowed {
		t.Fatalf("first take: %+v", d)
	}
	// Each 30ms step refills less than one milli-unit. Polling must not
	// discard that progress.
	for i := 1; i <= 2000; i++ {
		clock.Advance(30 * time.Millisecond)
		d := take(t, limiter, "ip:1", 1, budget)
		if i < 2000 && d.Allowed {
			t.Fatalf("step %d: allowed before the window elapsed", i)
		}
		if i == 2000 && !d.Allowed {
			t.Fatalf("step %d: expected the unit to be back, got %+v", i, d)
		}
	}
}

func TestMemoryLimiter_MaxClients(t *testing.T) {
	clock := newClock()
	limiter := NewMemoryLimiter(MemoryOptions{Now: clock.Now, MaxClients: 1})
	ctx := context.Background()

	if _, err := limiter.Take(ctx, "a", 1, tenPerMinute); err != nil {
		t.Fatalf("first client: %v", err)
	}
	if _, err := limiter.Take(ctx, "b", 1, tenPerMinute); !errors.Is(err, ErrTooManyClients) {
		t.Fatalf("expected ErrTooManyClients, got %v", err)
	}
	clock.Advance(10 * time.Second)
	if _, err := limiter.Take(ctx, "b", 1, tenPerMinute); err != nil {
		t.Fatalf("a refilled bucket should be dropped for a new client: %v", err)
	}
}

func TestMemoryLimiter_ZeroBudgetIsUnlimited(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryOptions{})
	d := take(t, limiter, "k", 100, domain.RateBudget{})
	if !d.Allowed {
		t.Fatalf("zero budget must allow: %+v", d)
	}
}

func TestOperationCost(t *testing.T) {
	digest := domain.OperationCost(domain.OperationDigest, 0)
	verify := domain.OperationCost(domain.OperationVerify, 0)
	sign := domain.OperationCost(domain.OperationSign, 0)
	keys2048 := domain.OperationCost(domain.OperationGenerateKeys, domain.KeySize2048)
	keys4096 := domain.OperationCost(domain.OperationGenerateKeys, domain.KeySize4096)
	if !(digest <= verify && verify < sign && sign < keys2048 && keys2048 < keys4096) {
		t.Fatalf("costs must grow with work: digest=%d verify=%d sign=%d keys2048=%d keys4096=%d",
			digest, verify, sign, keys2048, keys4096)
	}
}
