package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrBodyTooLarge         = errors.New("request body too large")
	// ErrBinderNotApplicable lets Wrap skip a binder that has nothing to do.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)
