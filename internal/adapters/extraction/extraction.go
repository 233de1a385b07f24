// Package extraction declares the semantic extraction contract: turning a
// free-text problem statement into required tags and domain weights.
package extraction

import (
	"context"
	"errors"
)

// Result is what the extraction service derives from a problem statement.
type Result struct {
	// RequiredTags are the precise expertise areas, unique, ordered by
	// importance.
	RequiredTags []string `json:"required_tags"`
	// DomainWeights maps coarse domain names to positive importance
	// weights. Weights need not sum to 1.
	DomainWeights map[string]float64 `json:"key_domains"`
	// TagDomains maps each tag to its owning domain; may be sparse.
	TagDomains map[string]string `json:"tag_domains"`
	// Explanation is the service's reasoning, passed through for display.
	Explanation string `json:"explanation"`
}

// Extractor analyzes a problem statement. A failed extraction is fatal for
// the whole matching request: no partial matching happens without tags.
type Extractor interface {
	Extract(ctx context.Context, problem string) (Result, error)
}

// Sentinel kinds for extraction errors.
var (
	ErrExtraction   = errors.New("extraction failed")
	ErrEmptyProblem = errors.New("problem statement must not be empty")
)
