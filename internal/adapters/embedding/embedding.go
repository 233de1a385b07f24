// Package embedding declares the external embedding provider contract and
// its implementations.
package embedding

import "context"

// Provider produces fixed-dimensionality embedding vectors from text. It
// must be deterministic for identical input within a session; determinism
// across provider versions is not required. Calls may be slow and should be
// bounded by the caller's context.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
