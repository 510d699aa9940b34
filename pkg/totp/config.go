package totp

import (
	"errors"

	"github.com/dmitrymomot/rentdesk/pkg/config"
)

// Config holds process-wide TOTP settings.
type Config struct {
	EncryptionKey string `env:"TOTP_ENCRYPTION_KEY"`               // Base64 AES-256 key; secrets are stored unsealed when empty
	Issuer        string `env:"TOTP_ISSUER" envDefault:"RentDesk"` // Issuer shown in authenticator apps
	Window        int    `env:"TOTP_WINDOW" envDefault:"1"`        // Accepted clock skew in 30-second steps
}

// LoadConfig reads the TOTP configuration from the environment.
// A configured issuer is mandatory, the encryption key is optional.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Issuer == "" {
		return Config{}, errors.Join(config.ErrParsingConfig, ErrMissingIssuer)
	}
	if cfg.Window < 0 {
		cfg.Window = 0
	}
	return cfg, nil
}
