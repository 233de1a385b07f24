package testmatch

import "errors"

// Sentinel kinds for test tool errors.
var (
	ErrNoTags = errors.New("service reported no roster tags")
)
