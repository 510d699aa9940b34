package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementScript bumps the counter and sets its expiry only when the key is
// new, so the window is fixed from the first attempt.
var incrementScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RateLimitStore implements ratelimit.Store on top of INCR and PEXPIRE.
type RateLimitStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRateLimitStore(client redis.UniversalClient, prefix string) *RateLimitStore {
	return &RateLimitStore{client: client, prefix: prefix + "ratelimit:"}
}

func (s *RateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := incrementScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, errors.Join(ErrCommandFailed, err)
	}
	if len(res) != 2 {
		return 0, 0, ErrUnexpectedReply
	}
	return res[0], time.Duration(res[1]) * time.Millisecond, nil
}

func (s *RateLimitStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}
