package testmatch

import (
	"context"
	"fmt"
	"log"
)

// verifyResults checks every successful match response against the engine's
// guarantees: score bounds, ranked ordering, and team coverage.
func verifyResults(ctx context.Context, config *Config, matches []MatchResponse, stats *Stats) error {
	log.Println("verifying results...")

	if len(matches) == 0 {
		return fmt.Errorf("no matches to verify")
	}

	violations := 0
	for i, m := range matches {
		for _, v := range verifyMatch(m) {
			violations++
			log.Printf("violation in match %d (session %s): %s", i, m.SessionID, v)
		}
	}

	stats.ViolationsFound = violations
	if violations > 0 {
		return fmt.Errorf("%d property violations found", violations)
	}

	log.Println("result verification completed")
	return nil
}

// verifyMatch returns all property violations found in one match response.
func verifyMatch(m MatchResponse) []string {
	var violations []string

	// Score bounds and ordering of the individual list
	for i, e := range m.Individual {
		if e.Semantic < -ScoreEpsilon || e.Semantic > PercentageMultiplier+ScoreEpsilon {
			violations = append(violations, fmt.Sprintf("expert %s semantic score %.3f out of [0,100]", e.ID, e.Semantic))
		}
		if e.Weighted < -ScoreEpsilon || e.Weighted > PercentageMultiplier+ScoreEpsilon {
			violations = append(violations, fmt.Sprintf("expert %s weighted score %.3f out of [0,100]", e.ID, e.Weighted))
		}
		if e.Score < -ScoreEpsilon {
			violations = append(violations, fmt.Sprintf("expert %s negative rank score %.3f", e.ID, e.Score))
		}
		if e.Rank != i+1 {
			violations = append(violations, fmt.Sprintf("expert %s has rank %d at position %d", e.ID, e.Rank, i+1))
		}
		if i > 0 && m.Individual[i-1].Score < e.Score-ScoreEpsilon {
			violations = append(violations, fmt.Sprintf("individual list not sorted at position %d", i))
		}
	}

	// Team coverage: assigned tags plus not-found tags must exactly cover
	// the requested tags, with no tag assigned twice.
	covered := make(map[string]string)
	for _, member := range m.Team {
		for _, tag := range member.Tags {
			if holder, dup := covered[tag]; dup {
				violations = append(violations, fmt.Sprintf("tag %q assigned to both %s and %s", tag, holder, member.ID))
			}
			covered[tag] = member.ID
		}
		if len(member.Tags) == 0 {
			violations = append(violations, fmt.Sprintf("team member %s holds no tags", member.ID))
		}
	}
	for _, tag := range m.NotFoundTags {
		if holder, dup := covered[tag]; dup {
			violations = append(violations, fmt.Sprintf("tag %q both assigned to %s and reported not found", tag, holder))
		}
		covered[tag] = ""
	}
	for _, tag := range m.Tags {
		if _, ok := covered[tag]; !ok {
			violations = append(violations, fmt.Sprintf("requested tag %q neither assigned nor reported not found", tag))
		}
	}

	return violations
}

// exerciseReassignments replays moves against live sessions: a legal move
// must apply, and repeating it must be rejected as already satisfied while
// leaving the team unchanged.
func exerciseReassignments(ctx context.Context, config *Config, matches []MatchResponse, stats *Stats) error {
	log.Println("exercising reassignments...")

	client := newHTTPClient(config.Timeout)

	for _, m := range matches {
		if len(m.Team) < 2 {
			continue
		}

		// Move the first member's tags to another teammate that also
		// declares at least one of them, when such a pair exists; the
		// self-move below is always available.
		from := m.Team[0].ID
		to := m.Team[1].ID

		stats.ReassignmentsTried++
		first, err := reassign(ctx, client, config.BaseURL, m.SessionID, nil, from, to)
		if err != nil {
			return fmt.Errorf("reassignment request failed: %w", err)
		}
		if first.Applied {
			stats.ReassignmentsApplied++

			// Replaying the same move must be a no-op rejection.
			stats.ReassignmentsTried++
			second, err := reassign(ctx, client, config.BaseURL, m.SessionID, first.Moved, from, to)
			if err != nil {
				return fmt.Errorf("replayed reassignment request failed: %w", err)
			}
			if second.Applied {
				stats.ViolationsFound++
				log.Printf("violation: replayed reassignment applied twice in session %s", m.SessionID)
			}
			if !sameTeams(first.Members, second.Members) {
				stats.ViolationsFound++
				log.Printf("violation: rejected reassignment changed the team in session %s", m.SessionID)
			}
		}
	}

	log.Printf("reassignment exercise completed: tried=%d applied=%d", stats.ReassignmentsTried, stats.ReassignmentsApplied)
	return nil
}

// sameTeams compares two team views member by member.
func sameTeams(a, b []TeamMember) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || len(a[i].Tags) != len(b[i].Tags) {
			return false
		}
		for j := range a[i].Tags {
			if a[i].Tags[j] != b[i].Tags[j] {
				return false
			}
		}
	}
	return true
}
