// Package redis connects to Redis and provides Redis-backed implementations
// of the attempt counter store and the session denylist.
package redis

import "time"

// Config is optional: an empty ConnectionURL means Redis is not used and
// in-memory stores take its place.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"rentdesk:"`
}

func (c Config) Enabled() bool { return c.ConnectionURL != "" }
