// Package binder decodes HTTP request bodies into typed request structs.
//
// Strings are bound verbatim: passwords and one-time codes must reach the
// handler byte for byte.
package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

const DefaultMaxJSONSize = 64 << 10

type jsonConfig struct {
	maxSize  int64
	optional bool
}

type JSONOption func(*jsonConfig)

func WithMaxSize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// Optional makes an empty body bind to the zero value instead of failing.
func Optional() JSONOption {
	return func(c *jsonConfig) { c.optional = true }
}

// JSON returns a binder for application/json bodies. A missing Content-Type
// is accepted; any other media type is rejected. Unknown fields are ignored.
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || !isJSON(mediaType) {
				return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
			}
		}
		if r.Body == nil || r.Body == http.NoBody {
			if cfg.optional {
				return nil
			}
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return errors.Join(ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return ErrBodyTooLarge
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			if cfg.optional {
				return nil
			}
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		if err := json.Unmarshal(body, v); err != nil {
			return errors.Join(ErrFailedToParseJSON, err)
		}
		return nil
	}
}

func isJSON(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
