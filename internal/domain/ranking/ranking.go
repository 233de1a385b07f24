// Package ranking fuses semantic and weighted-match scores into a single
// ordering value per expert.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/maven/internal/domain/model"
)

// Fusion constants. Semantic similarity is noisy at low values, so it is
// boosted superlinearly to let strong semantic matches dominate weak numeric
// noise; the weighted tag score is a more reliable explicit signal and uses
// a milder quadratic.
const (
	semanticExponent = 2.1
	weightedExponent = 2.0
	fusionDivisor    = 2.0
	fullRelevance    = 1.0
)

// Fuse computes the rank score for one expert. departmentRelevance must be
// in (0,1]; 1.0 means no department penalty. The result is unbounded and
// used only for ordering, never displayed as a probability.
func Fuse(semantic, weighted, departmentRelevance float64) float64 {
	if departmentRelevance <= 0 || departmentRelevance > fullRelevance {
		departmentRelevance = fullRelevance
	}
	return (math.Pow(semantic, semanticExponent) + math.Pow(weighted, weightedExponent)) / fusionDivisor * departmentRelevance
}

// DepartmentRelevance derives the (0,1] relevance factor for an expert's
// department from the query's domain weights. When a domain name appears in
// the department (case-insensitive, parenthetical suffix stripped) the
// factor is that domain's weight relative to the most important domain;
// departments matching no domain carry no penalty.
func DepartmentRelevance(department string, domainWeights map[string]float64) float64 {
	if department == "" || len(domainWeights) == 0 {
		return fullRelevance
	}

	var maxWeight float64
	for _, w := range domainWeights {
		if w > maxWeight {
			maxWeight = w
		}
	}
	if maxWeight <= 0 {
		return fullRelevance
	}

	dept := strings.ToLower(department)
	matched := false
	var best float64
	for domain, w := range domainWeights {
		if w <= 0 {
			continue
		}
		name := normalizeDomain(domain)
		if name == "" || !strings.Contains(dept, name) {
			continue
		}
		// A department can straddle several listed domains; keep the
		// most favorable factor so iteration order does not matter.
		if !matched || w > best {
			matched = true
			best = w
		}
	}
	if !matched {
		return fullRelevance
	}

	rel := best / maxWeight
	if rel > fullRelevance {
		rel = fullRelevance
	}
	return rel
}

// normalizeDomain strips a trailing parenthetical abbreviation, e.g.
// "Materials Engineering (Mat. Eng.)" -> "materials engineering".
func normalizeDomain(domain string) string {
	if i := strings.Index(domain, "("); i >= 0 {
		domain = domain[:i]
	}
	return strings.ToLower(strings.TrimSpace(domain))
}

// Sort orders records descending by rank score; equal ranks are broken by
// ascending expert identifier for determinism.
func Sort(records []model.ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Rank != records[j].Rank {
			return records[i].Rank > records[j].Rank
		}
		return records[i].ExpertID < records[j].ExpertID
	})
}
