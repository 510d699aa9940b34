package handler

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/rentdesk/pkg/logger"
)

// ErrorMapper translates a domain error into an HTTPError. It returns false
// for errors it does not know.
type ErrorMapper func(err error) (HTTPError, bool)

// NewErrorHandler logs the failure and writes {"success":false,"error":...}.
// Mappers are tried in order before falling back to HTTPError values found
// in the chain, then to 500.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx Context, err error) {
		httpErr := classify(err, mappers)

		level := slog.LevelWarn
		if httpErr.Code >= 500 {
			level = slog.LevelError
		}
		r := ctx.Request()
		log.LogAttrs(ctx, level, "request failed",
			logger.Component("http"),
			logger.Route(r.URL.Path),
			logger.Status(httpErr.Code),
			logger.Error(err),
		)

		writeError(ctx.ResponseWriter(), httpErr)
	}
}

func classify(err error, mappers []ErrorMapper) HTTPError {
	for _, m := range mappers {
		if e, ok := m(err); ok {
			return e
		}
	}
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return ErrInternal
}
