package similarity

import "errors"

// Sentinel kinds for similarity errors.
var (
	// ErrUnknownExpert marks a reference to an identifier outside the roster.
	ErrUnknownExpert = errors.New("unknown expert")
	// ErrEmbeddingUnavailable marks a failed or timed-out embedding
	// population. Per-expert and non-fatal: the expert is excluded from
	// ranking, the request continues.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)
