package roster

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/maven/internal/domain/model"
)

// rosterFile mirrors the YAML roster document.
type rosterFile struct {
	Experts []expertRecord `yaml:"experts"`
}

type expertRecord struct {
	ID         string    `yaml:"id"`
	Department string    `yaml:"department"`
	Position   string    `yaml:"position"`
	ProfileURL string    `yaml:"profile_url"`
	ScholarID  string    `yaml:"scholar_id"`
	Tags       []string  `yaml:"tags"`
	Embedding  []float64 `yaml:"embedding"`
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithExperts seeds the store with profiles, mainly for tests.
func WithExperts(experts []model.ExpertProfile) Option {
	return func(s *MemStore) {
		s.snapshot = buildSnapshot(experts)
	}
}

// MemStore implements Store with an in-memory roster. The whole roster is
// replaced atomically on load; reads serve the current immutable snapshot.
type MemStore struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewMemStore creates an in-memory roster store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		snapshot: buildSnapshot(nil),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LoadFile reads a YAML roster document and replaces the current roster.
func (s *MemStore) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadRoster, err)
	}

	var doc rosterFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}

	experts := make([]model.ExpertProfile, 0, len(doc.Experts))
	seen := make(map[string]struct{}, len(doc.Experts))
	for _, rec := range doc.Experts {
		if rec.ID == "" {
			return fmt.Errorf("%w: expert with empty id", ErrInvalidRoster)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate expert id %q", ErrInvalidRoster, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if len(rec.Tags) == 0 {
			// Experts without declared expertise cannot be matched.
			continue
		}
		experts = append(experts, model.ExpertProfile{
			ID:         rec.ID,
			Department: rec.Department,
			Position:   rec.Position,
			ProfileURL: rec.ProfileURL,
			ScholarID:  rec.ScholarID,
			Tags:       rec.Tags,
			Embedding:  rec.Embedding,
		})
	}

	s.Replace(ctx, experts)
	return nil
}

// Replace swaps in a new roster atomically.
func (s *MemStore) Replace(_ context.Context, experts []model.ExpertProfile) {
	snap := buildSnapshot(experts)
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// List returns every profile in insertion order.
func (s *MemStore) List(ctx context.Context) ([]model.ExpertProfile, error) {
	return s.Snapshot(ctx).Experts(), nil
}

// Get returns the profile for id, or ErrNotFound.
func (s *MemStore) Get(ctx context.Context, id string) (model.ExpertProfile, error) {
	if p, ok := s.Snapshot(ctx).Get(id); ok {
		return p, nil
	}
	return model.ExpertProfile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Snapshot returns the current immutable roster view.
func (s *MemStore) Snapshot(_ context.Context) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// buildSnapshot precomputes the lookup structures for a roster.
func buildSnapshot(experts []model.ExpertProfile) *Snapshot {
	snap := &Snapshot{
		experts:  experts,
		byID:     make(map[string]model.ExpertProfile, len(experts)),
		tagIndex: make(map[string][]string),
	}

	uniqueTags := make(map[string]string) // normalized -> first raw spelling
	for _, p := range experts {
		snap.byID[p.ID] = p
		indexed := make(map[string]struct{}, len(p.Tags))
		for _, tag := range p.Tags {
			norm := model.NormalizeTag(tag)
			if norm == "" {
				continue
			}
			if _, ok := uniqueTags[norm]; !ok {
				uniqueTags[norm] = tag
			}
			// An expert declaring a tag twice is indexed once.
			if _, dup := indexed[norm]; dup {
				continue
			}
			indexed[norm] = struct{}{}
			snap.tagIndex[norm] = append(snap.tagIndex[norm], p.ID)
		}
	}

	snap.allTags = make([]string, 0, len(uniqueTags))
	for _, raw := range uniqueTags {
		snap.allTags = append(snap.allTags, raw)
	}
	sort.Strings(snap.allTags)

	return snap
}
