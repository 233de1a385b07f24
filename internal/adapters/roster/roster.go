// Package roster provides access to expert profiles and the per-request
// read-only snapshot the matching pipeline works from.
package roster

import (
	"context"

	"github.com/okian/maven/internal/domain/model"
)

// Store provides read access to expert profiles.
type Store interface {
	// List returns every profile in insertion order.
	List(ctx context.Context) ([]model.ExpertProfile, error)

	// Get returns the profile for id.
	// Returns ErrNotFound if the expert is unknown.
	Get(ctx context.Context, id string) (model.ExpertProfile, error)

	// Snapshot returns the immutable per-request view of the roster.
	Snapshot(ctx context.Context) *Snapshot
}

// Snapshot is an immutable view of the roster taken for one request: the
// profiles in insertion order plus the tag index. It replaces any ambient
// shared lookup state; every component receives it explicitly.
type Snapshot struct {
	experts  []model.ExpertProfile
	byID     map[string]model.ExpertProfile
	tagIndex map[string][]string // normalized tag -> expert ids, insertion order
	allTags  []string            // unique raw tags, sorted
}

// Experts returns the profiles in insertion order. Callers must not mutate.
func (s *Snapshot) Experts() []model.ExpertProfile {
	return s.experts
}

// Get returns the profile for id.
func (s *Snapshot) Get(id string) (model.ExpertProfile, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Profiles returns the id -> profile lookup map. Callers must not mutate.
func (s *Snapshot) Profiles() map[string]model.ExpertProfile {
	return s.byID
}

// IDsWithTag returns the identifiers of experts declaring tag, in roster
// insertion order.
func (s *Snapshot) IDsWithTag(tag string) []string {
	return s.tagIndex[model.NormalizeTag(tag)]
}

// AllTags returns every unique declared tag, sorted.
func (s *Snapshot) AllTags() []string {
	return s.allTags
}

// Len returns the number of experts in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.experts)
}
