// Package model contains domain models passed between layers.
package model

import "strings"

// ExpertProfile describes one expert in the roster. Profiles are owned by the
// profile store and are immutable for the duration of a matching request.
type ExpertProfile struct {
	ID         string    // unique expert name
	Department string    // owning department
	Position   string    // declared position, may be empty
	ProfileURL string    // profile page
	ScholarID  string    // external scholar identifier, optional
	Tags       []string  // declared expertise tags, ordered
	Embedding  []float64 // precomputed profile embedding, may be nil
}

// ScholarURL renders the external scholar profile link, or "" when the
// expert has no scholar identifier.
func (e ExpertProfile) ScholarURL() string {
	if e.ScholarID == "" {
		return ""
	}
	return "https://scholar.google.com/citations?user=" + e.ScholarID + "&hl=en"
}

// HasTag reports whether the expert declares tag, using normalized comparison.
func (e ExpertProfile) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range e.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// NormalizeTag canonicalizes a tag for comparison across the engine.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// ProblemQuery is the per-request, read-only description of a problem
// statement after extraction. Created once per analysis request.
type ProblemQuery struct {
	Text          string             // raw problem statement, opaque to the engine
	RequiredTags  []string           // unique, ordered by importance
	DomainWeights map[string]float64 // domain name -> positive importance weight
	TagDomains    map[string]string  // tag -> owning domain, may be sparse
	Explanation   string             // extraction service's reasoning, passed through
	Embedding     []float64          // problem embedding; nil when the provider was unavailable
}

// ScoreRecord holds the per-(query, expert) scores. Ephemeral: recomputed on
// every request and never persisted.
type ScoreRecord struct {
	ExpertID     string
	Semantic     float64 // cosine-derived score in [0,100]
	Weighted     float64 // tag-overlap score in [0,100]
	Rank         float64 // fused ordering value, unbounded
	MatchingTags []string
}
