// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv (reads .env once per process) with
// github.com/caarlos0/env/v11 (struct tag parsing). Each configuration type is
// parsed once and cached; subsequent Load calls copy the cached value.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
// Reset clears the cache so tests can re-read the environment.
package config
