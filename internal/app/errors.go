package service

import "errors"

var (
	// ErrSessionNotFound indicates the requested team session does not exist
	// or has been evicted.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMissingDependency indicates the service was started without a
	// required component.
	ErrMissingDependency = errors.New("missing dependency")
)
