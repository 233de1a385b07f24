package team

import "errors"

// Sentinel kinds for team errors.
var (
	// ErrUnknownExpert marks a reassignment referencing an identifier
	// outside the roster. Fatal for that operation only.
	ErrUnknownExpert = errors.New("expert not in roster")
)
