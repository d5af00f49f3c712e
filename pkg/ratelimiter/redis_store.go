package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript runs the refill and consume steps atomically. State lives in
// a hash with the token count and the last refill time in milliseconds.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local tokens = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call("HMGET", KEYS[1], "tokens", "refill")
local current = tonumber(state[1])
local refill = tonumber(state[2])
if current == nil or refill == nil then
	current = capacity
	refill = now
end

local intervals = math.floor((now - refill) / interval)
local cap = math.floor(capacity / rate) + 1
if intervals > cap then
	intervals = cap
end
if intervals > 0 then
	current = math.min(current + intervals * rate, capacity)
	refill = now
end

local remaining = current - tokens
if remaining >= 0 then
	current = remaining
end

redis.call("HSET", KEYS[1], "tokens", current, "refill", refill)
redis.call("PEXPIRE", KEYS[1], (cap + 1) * interval)
return {remaining, refill + interval}
`)

// RedisStore shares buckets between instances through Redis.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		tokens,
		time.Now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrStoreUnavailable
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
