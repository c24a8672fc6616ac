// Package ratelimit implements cost-weighted token buckets for
// domain.RateLimiter, in process memory or in Redis.
//
// A bucket holds up to RateBudget.Units and refills linearly, so a client
// that spends its whole budget gets it back over one Window. Balances are
// kept in milli-units so the Redis script can use integer arithmetic.
package ratelimit

import (
	"time"

	"seguraassina/internal/domain"
)

const milli = 1000

type bucket struct {
	tokens  int64
	updated time.Time
}

func capacity(budget domain.RateBudget) int64 {
	return int64(budget.Units) * milli
}

// need is the cost in milli-units. A cost larger than the whole budget is
// clamped so the operation stays possible once the bucket is full.
func need(cost int, budget domain.RateBudget) int64 {
	if cost < 1 {
		cost = 1
	}
	if cost > budget.Units {
		cost = budget.Units
	}
	return int64(cost) * milli
}

// refill returns the balance after elapsed time. The second result reports
// whether any units were added, so callers keep the old timestamp otherwise
// and sub-unit progress is not lost.
func refill(tokens int64, elapsed time.Duration, budget domain.RateBudget) (int64, bool) {
	full := capacity(budget)
	window := budget.Window.Milliseconds()
	if elapsed.Milliseconds() >= window {
		return full, true
	}
	if elapsed <= 0 {
		return tokens, false
	}
	added := elapsed.Milliseconds() * full / window
	if added == 0 {
		return tokens, false
	}
	if tokens+added > full {
		return full, true
	}
	return tokens + added, true
}

// until is how long refilling the given milli-units takes.
func until(missing int64, budget domain.RateBudget) time.Duration {
	if missing <= 0 {
		return 0
	}
	full := capacity(budget)
	window := budget.Window.Milliseconds()
	ms := (missing*window + full - 1) / full
	return time.Duration(ms) * time.Millisecond
}

func decide(allowed bool, tokens int64, cost int, now time.Time, budget domain.RateBudget) domain.RateLimitDecision {
	d := domain.RateLimitDecision{
		Allowed:   allowed,
		Cost:      cost,
		Limit:     budget.Units,
		Remaining: int(tokens / milli),
		ResetAt:   now.Add(until(capacity(budget)-tokens, budget)),
	}
	if !allowed {
		d.RetryAt = now.Add(until(need(cost, budget)-tokens, budget))
	}
	return d
}

func unlimited(cost int, budget domain.RateBudget) domain.RateLimitDecision {
	return domain.RateLimitDecision{Allowed: true, Cost: cost, Limit: budget.Units, Remaining: budget.Units}
}

func normalize(budget domain.RateBudget) domain.RateBudget {
	if budget.Window <= 0 {
		budget.Window = time.Minute
	}
	return budget
}
