package main

import "time"

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Name           string        `env:"APP_NAME" envDefault:"rentdesk"`
	Storage        string        `env:"STORAGE" envDefault:"memory"` // memory | postgres
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:","`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`
	IPRateLimit    int           `env:"IP_RATE_LIMIT" envDefault:"60"` // per IP on pre-session routes, 0 disables
	IPRateWindow   time.Duration `env:"IP_RATE_WINDOW" envDefault:"1m"`
	HealthTimeout  time.Duration `env:"HEALTHCHECK_TIMEOUT" envDefault:"3s"`

	SeedEmail    string `env:"SEED_USER_EMAIL"`
	SeedPassword string `env:"SEED_USER_PASSWORD"`
	SeedRole     string `env:"SEED_USER_ROLE" envDefault:"owner"`
}
