package http

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"seguraassina/internal/domain"

	"github.com/gin-gonic/gin"
)

// enforceRateLimit charges the operation's cost to the caller's budget. All
// operations draw from the same per-client budget, so a client generating
// 4096-bit keys exhausts it far sooner than one hashing documents. It writes
// the rejection itself and reports whether the handler may continue.
func (s *Server) enforceRateLimit(c *gin.Context, op domain.Operation, size domain.KeySize) bool {
	if s.rateLimiter == nil || s.rateBudget.Units <= 0 {
		return true
	}
	key := "client:" + c.ClientIP()
	cost := domain.OperationCost(op, size)

	decision, err := s.rateLimiter.Take(c.Request.Context(), key, cost, s.rateBudget)
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", string(op)).Msg("rate limiter failed")
		if s.rateLimitFailClosed {
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
			return false
		}
		return true
	}
	writeRateLimitHeaders(c, decision, time.Now())
	if !decision.Allowed {
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
		return false
	}
	return true
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision, now time.Time) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	c.Header("RateLimit-Cost", strconv.Itoa(decision.Cost))
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(secondsUntil(decision.ResetAt, now), 10))
	}
	if !decision.Allowed && !decision.RetryAt.IsZero() {
		c.Header("Retry-After", strconv.FormatInt(secondsUntil(decision.RetryAt, now), 10))
	}
}

func secondsUntil(t, now time.Time) int64 {
	seconds := int64(math.Ceil(t.Sub(now).Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}
