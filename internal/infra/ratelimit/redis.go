package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seguraassina/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "seguraassina:bucket:"

// RedisLimiter keeps buckets in Redis hashes so several API instances share
// one budget per client. The caller's clock is passed to the script, which
// keeps instances consistent with each other as long as their clocks agree.
type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// KEYS[1] bucket hash. ARGV: capacity, need, now and window, all integers in
// milli-units or milliseconds. Returns {allowed, tokens}.
var takeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local need = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window = tonumber(ARGV[4])

local state = redis.call("HMGET", KEYS[1], "tokens", "updated")
local tokens = tonumber(state[1])
local updated = tonumber(state[2])
if tokens == nil or updated == nil then
  tokens = capacity
  updated = now
else
  local elapsed = now - updated
  if elapsed >= window then
    tokens = capacity
    updated = now
  elseif elapsed > 0 then
    local added = math.floor(elapsed * capacity / window)
    if added > 0 then
      tokens = math.min(capacity, tokens + added)
      updated = now
    end
  end
end

local allowed = 0
if tokens >= need then
  tokens = tokens - need
  allowed = 1
end
redis.call("HSET", KEYS[1], "tokens", tokens, "updated", updated)
redis.call("PEXPIRE", KEYS[1], window)
return {allowed, tokens}
`)

func NewRedisLimiter(addr, password string, db int, now func() time.Time) (*RedisLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisLimiterWithClient(client, now), nil
}

func NewRedisLimiterWithClient(client *redis.Client, now func() time.Time) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{client: client, now: now}
}

func (r *RedisLimiter) Take(ctx context.Context, key string, cost int, budget domain.RateBudget) (domain.RateLimitDecision, error) {
	if budget.Units <= 0 {
		return unlimited(cost, budget), nil
	}
	budget = normalize(budget)
	now := r.now()

	args := []any{capacity(budget), need(cost, budget), now.UnixMilli(), budget.Window.Milliseconds()}
	reply, err := takeScript.Run(ctx, r.client, []string{redisKeyPrefix + key}, args...).Int64Slice()
	if err != nil {
		return domain.RateLimitDecision{}, fmt.Errorf("redis bucket %s: %w", key, err)
	}
	if len(reply) != 2 {
		return domain.RateLimitDecision{}, fmt.Errorf("redis bucket %s: unexpected reply %v", key, reply)
	}
	return decide(reply[0] == 1, reply[1], cost, now, budget), nil
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}

var _ domain.RateLimiter = (*RedisLimiter)(nil)
