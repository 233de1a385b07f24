package extraction

import (
	"context"
	"sort"
	"strings"
)

// KeywordExtractor implements Extractor without any external service: it
// scans the problem statement for known roster tags. Tags are ordered by
// first occurrence in the text. No domain weights are produced. Useful for
// offline operation and hermetic end-to-end testing; not a replacement for
// a real extraction model.
type KeywordExtractor struct {
	knownTags []string
}

// NewKeyword creates a KeywordExtractor over the given tag vocabulary.
func NewKeyword(knownTags []string) *KeywordExtractor {
	return &KeywordExtractor{knownTags: append([]string(nil), knownTags...)}
}

// Extract finds known tags mentioned in the problem statement.
func (e *KeywordExtractor) Extract(_ context.Context, problem string) (Result, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return Result{}, ErrEmptyProblem
	}

	text := strings.ToLower(problem)

	type hit struct {
		tag string
		pos int
	}
	var hits []hit
	seen := make(map[string]struct{})
	for _, tag := range e.knownTags {
		needle := strings.ToLower(strings.TrimSpace(tag))
		if needle == "" {
			continue
		}
		if _, dup := seen[needle]; dup {
			continue
		}
		if pos := strings.Index(text, needle); pos >= 0 {
			seen[needle] = struct{}{}
			hits = append(hits, hit{tag: tag, pos: pos})
		}
	}
	if len(hits) == 0 {
		return Result{}, ErrExtraction
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	tags := make([]string, 0, len(hits))
	for _, h := range hits {
		tags = append(tags, h.tag)
		if len(tags) == maxRequiredTags {
			break
		}
	}

	return Result{
		RequiredTags: tags,
		Explanation:  "tags matched verbatim against the roster vocabulary",
	}, nil
}
