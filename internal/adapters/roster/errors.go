package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound      = errors.New("expert not found")
	ErrLoadRoster    = errors.New("load roster failed")
	ErrInvalidRoster = errors.New("invalid roster")
)
