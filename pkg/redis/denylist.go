package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist implements jwt.Denylist. Entries expire together with the token.
type Denylist struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewDenylist(client redis.UniversalClient, prefix string) *Denylist {
	return &Denylist{client: client, prefix: prefix + "revoked:", now: time.Now}
}

func (d *Denylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.prefix+jti, 1, ttl).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, errors.Join(ErrCommandFailed, err)
	}
	return n > 0, nil
}
