// Package tagmatch scores the explicit tag overlap between a problem's
// required tags and an expert's declared tags.
package tagmatch

import (
	"github.com/okian/maven/internal/domain/model"
)

// Base weight constants: required tags are ordered by importance and their
// base weights descend linearly from the first to the last.
const (
	maxBaseWeight        = 1.0
	minBaseWeight        = 0.7
	maxScoreValue        = 100.0
	defaultDomainWeight  = 1.0
	minPositiveThreshold = 0.0
)

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithDefaultDomainWeight sets the multiplier for tags with no domain entry.
func WithDefaultDomainWeight(w float64) Option {
	return func(m *Matcher) {
		if w > minPositiveThreshold {
			m.defaultDomainWeight = w
		}
	}
}

// Matcher computes weighted tag-overlap scores.
type Matcher struct {
	defaultDomainWeight float64
}

// New creates a Matcher with configuration options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		defaultDomainWeight: defaultDomainWeight,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// BaseWeights returns the per-tag base weights for n required tags,
// descending linearly from 1.0 to 0.7 in importance order.
func BaseWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	w := make([]float64, n)
	if n == 1 {
		w[0] = maxBaseWeight
		return w
	}
	step := (maxBaseWeight - minBaseWeight) / float64(n-1)
	for i := range w {
		w[i] = maxBaseWeight - step*float64(i)
	}
	return w
}

// Score returns the weighted-match score in [0,100] for one expert, plus the
// required tags the expert actually covers, in required order.
//
// Each required tag the expert declares contributes its base weight times
// the owning domain's weight (tags without a domain entry use the default
// multiplier). The raw sum is normalized by the maximum possible sum, so an
// expert covering every required tag scores exactly 100 and an expert
// covering none scores 0. Ties between experts are not broken here; callers
// rely on roster insertion order for stability.
func (m *Matcher) Score(q *model.ProblemQuery, expertTags []string) (float64, []string) {
	if len(q.RequiredTags) == 0 {
		return 0, nil
	}

	declared := make(map[string]struct{}, len(expertTags))
	for _, t := range expertTags {
		declared[model.NormalizeTag(t)] = struct{}{}
	}

	base := BaseWeights(len(q.RequiredTags))

	var sum, maxPossible float64
	var matching []string
	for i, tag := range q.RequiredTags {
		weight := base[i] * m.domainMultiplier(tag, q)
		maxPossible += weight
		if _, ok := declared[model.NormalizeTag(tag)]; ok {
			sum += weight
			matching = append(matching, tag)
		}
	}

	if maxPossible <= minPositiveThreshold {
		return 0, matching
	}
	return sum / maxPossible * maxScoreValue, matching
}

// domainMultiplier looks up the importance weight of the tag's owning domain.
func (m *Matcher) domainMultiplier(tag string, q *model.ProblemQuery) float64 {
	domain, ok := q.TagDomains[tag]
	if !ok {
		return m.defaultDomainWeight
	}
	w, ok := q.DomainWeights[domain]
	if !ok || w <= minPositiveThreshold {
		return m.defaultDomainWeight
	}
	return w
}
