package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rentdesk/pkg/config"
)

type defaultsConfig struct {
	Name   string `env:"RENTDESK_TEST_NAME" envDefault:"rentdesk"`
	Window int    `env:"RENTDESK_TEST_WINDOW" envDefault:"1"`
}

type requiredConfig struct {
	Value string `env:"RENTDESK_TEST_REQUIRED,required"`
}

type cachedConfig struct {
	Value string `env:"RENTDESK_TEST_CACHED"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "rentdesk", cfg.Name)
	assert.Equal(t, 1, cfg.Window)
}

func TestLoadRequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("RENTDESK_TEST_CACHED", "first")
	config.Reset()

	var a cachedConfig
	require.NoError(t, config.Load(&a))
	assert.Equal(t, "first", a.Value)

	t.Setenv("RENTDESK_TEST_CACHED", "second")
	var b cachedConfig
	require.NoError(t, config.Load(&b))
	assert.Equal(t, "first", b.Value, "cached value is returned")

	config.Reset()
	var c cachedConfig
	require.NoError(t, config.Load(&c))
	assert.Equal(t, "second", c.Value)
}

func TestLoadNil(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}
