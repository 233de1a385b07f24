// Package similarity computes semantic closeness between a problem embedding
// and cached expert embeddings.
package similarity

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Default scorer configuration constants.
const (
	defaultFetchTimeout = 5 * time.Second
	maxScoreValue       = 100.0
)

// Source resolves the embedding vector for an expert identifier. It is the
// bridge to the profile store and, when a profile carries no precomputed
// vector, to the external embedding provider. Implementations must return
// ErrUnknownExpert for identifiers outside the roster and wrap provider
// failures in ErrEmbeddingUnavailable.
type Source interface {
	EmbeddingFor(ctx context.Context, expertID string) ([]float64, error)
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithFetchTimeout bounds a single embedding population call.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Scorer) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// Scorer maps cosine similarity onto a 0-100 scale. It owns the embedding
// cache: entries are populated lazily on first reference to an expert and
// survive until Invalidate is called for that expert.
type Scorer struct {
	source       Source
	cache        *cache
	fetchTimeout time.Duration
}

// New creates a Scorer backed by the given embedding source.
func New(source Source, opts ...Option) *Scorer {
	s := &Scorer{
		source:       source,
		cache:        newCache(),
		fetchTimeout: defaultFetchTimeout,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ScoreSemantic returns the semantic score in [0,100] between the problem
// embedding and the expert's cached embedding. A nil problem embedding scores
// 0 without touching the cache (degraded request).
func (s *Scorer) ScoreSemantic(ctx context.Context, problem []float64, expertID string) (float64, error) {
	if len(problem) == 0 {
		return 0, nil
	}

	vec, err := s.cache.get(ctx, expertID, func(ctx context.Context) ([]float64, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		return s.source.EmbeddingFor(fetchCtx, expertID)
	})
	if err != nil {
		return 0, fmt.Errorf("semantic score for %q: %w", expertID, err)
	}

	if len(vec) != len(problem) {
		return 0, fmt.Errorf("semantic score for %q: %w (dimension %d vs %d)",
			expertID, ErrEmbeddingUnavailable, len(vec), len(problem))
	}

	return Cosine(problem, vec) * maxScoreValue, nil
}

// Invalidate drops the cached embedding for an expert. It is the hook for
// external "profile changed" signals; the next reference repopulates lazily.
func (s *Scorer) Invalidate(expertID string) {
	s.cache.invalidate(expertID)
}

// CacheSize returns the number of populated cache entries.
func (s *Scorer) CacheSize() int {
	return s.cache.size()
}

// Cosine returns the cosine similarity of a and b clamped to [0,1]. Text
// embeddings nominally live in [-1,1] but cluster near [0,1] in practice;
// negative similarity is floored to zero.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (na * nb)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
