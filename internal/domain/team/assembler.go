package team

import "github.com/okian/maven/internal/domain/model"

// Candidate pairs an expert profile with its semantic score for the query.
type Candidate struct {
	Profile  model.ExpertProfile
	Semantic float64
}

// Assemble builds the initial covering team for the required tags.
//
// Minimum set cover is NP-hard; this is the usual greedy approximation:
// repeatedly pick the expert covering the most still-unassigned tags. Ties
// are broken by higher semantic score, then ascending identifier, which
// makes the result deterministic and independent of candidate order. Tags
// no candidate covers are recorded as not found rather than failing the
// assembly.
func Assemble(requiredTags []string, candidates []Candidate) *Assignment {
	a := &Assignment{required: append([]string(nil), requiredTags...)}

	// Normalized declared-tag sets per candidate.
	declared := make([]map[string]struct{}, len(candidates))
	for i, c := range candidates {
		set := make(map[string]struct{}, len(c.Profile.Tags))
		for _, t := range c.Profile.Tags {
			set[model.NormalizeTag(t)] = struct{}{}
		}
		declared[i] = set
	}

	uncovered := make(map[string]struct{}, len(requiredTags))
	for _, tag := range requiredTags {
		norm := model.NormalizeTag(tag)
		covered := false
		for i := range candidates {
			if _, ok := declared[i][norm]; ok {
				covered = true
				break
			}
		}
		if covered {
			uncovered[norm] = struct{}{}
		} else {
			a.notFound = append(a.notFound, tag)
		}
	}

	for len(uncovered) > 0 {
		best := -1
		bestGain := 0
		for i, c := range candidates {
			gain := 0
			for norm := range uncovered {
				if _, ok := declared[i][norm]; ok {
					gain++
				}
			}
			switch {
			case gain == 0:
				continue
			case best < 0 || gain > bestGain:
				best, bestGain = i, gain
			case gain == bestGain && c.Semantic > candidates[best].Semantic:
				best = i
			case gain == bestGain && c.Semantic == candidates[best].Semantic && c.Profile.ID < candidates[best].Profile.ID:
				best = i
			}
		}
		if best < 0 {
			break
		}

		m := memberFromProfile(candidates[best].Profile)
		// Assign the covered tags in required order.
		for _, tag := range requiredTags {
			norm := model.NormalizeTag(tag)
			if _, open := uncovered[norm]; !open {
				continue
			}
			if _, ok := declared[best][norm]; ok {
				m.Tags = append(m.Tags, tag)
				delete(uncovered, norm)
			}
		}
		a.members = append(a.members, m)
	}

	return a
}
