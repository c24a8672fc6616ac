package domain

import (
	"context"
	"time"
)

// Operation names a rate limited API operation.
type Operation string

const (
	OperationGenerateKeys Operation = "keys:generate"
	OperationSign         Operation = "documents:sign"
	OperationVerify       Operation = "documents:verify"
	OperationDigest       Operation = "documents:hash"
)

// OperationCost is the number of budget units an operation spends. The
// weights follow CPU time: hashing and public-key checks are cheap, a
// private-key operation is a few times dearer, and prime search for a new
// key pair dominates everything else.
func OperationCost(op Operation, size KeySize) int {
	switch op {
	case OperationGenerateKeys:
		if size == KeySize4096 {
			return 100
		}
		return 20
	case OperationSign:
		return 2
	default:
		return 1
	}
}

// RateBudget is the number of units a client may spend per Window. Spent
// units flow back continuously over the window.
type RateBudget struct {
	Units  int
	Window time.Duration
}

type RateLimitDecision struct {
	Allowed   bool
	Cost      int
	Limit     int
	Remaining int
	// ResetAt is when the budget will be full again.
	ResetAt time.Time
	// RetryAt is the earliest time a denied request of the same cost fits.
	RetryAt time.Time
}

// RateLimiter spends cost units from the budget tracked under key.
type RateLimiter interface {
	Take(ctx context.Context, key string, cost int, budget RateBudget) (RateLimitDecision, error)
}
