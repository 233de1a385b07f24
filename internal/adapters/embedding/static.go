package embedding

import (
	"context"
	"hash/fnv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const defaultStaticDim = 256

// StaticProvider implements Provider without any external service: each
// lowercased token is hashed into a fixed number of buckets and the bucket
// counts are L2-normalized. Texts sharing vocabulary get similar vectors,
// which is enough for offline operation and deterministic tests. Not a
// substitute for a real embedding model.
type StaticProvider struct {
	dim int
}

// NewStatic creates a StaticProvider with the given dimensionality
// (defaulted when non-positive).
func NewStatic(dim int) *StaticProvider {
	if dim <= 0 {
		dim = defaultStaticDim
	}
	return &StaticProvider{dim: dim}
}

// Embed returns the deterministic bag-of-tokens vector for text.
func (p *StaticProvider) Embed(_ context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	vec := make([]float64, p.dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?()[]\"'")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%p.dim]++
	}

	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec, nil
}

// Dim returns the vector dimensionality.
func (p *StaticProvider) Dim() int {
	return p.dim
}
