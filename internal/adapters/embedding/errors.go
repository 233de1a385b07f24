package embedding

import "errors"

// Sentinel kinds for embedding errors.
var (
	ErrEmptyText   = errors.New("text must not be empty")
	ErrUnavailable = errors.New("embedding provider unavailable")
)
