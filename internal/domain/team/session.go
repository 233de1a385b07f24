package team

import (
	"fmt"
	"sync"
	"time"

	"github.com/okian/maven/internal/domain/model"
)

// Rejection reasons surfaced to callers. Rejections are no-ops, not errors.
const (
	ReasonNoTagsHeld   = "source holds no tags in this team"
	ReasonNotHeld      = "tags are not currently assigned to source"
	ReasonNoOverlap    = "destination has no overlapping expertise"
	ReasonAlreadyThere = "tags already assigned to destination"
)

// MoveResult reports the outcome of a reassignment.
type MoveResult struct {
	Applied bool
	Moved   []string
	Reason  string
}

// Session owns a team assignment for the life of one interactive matching
// session. Single-writer: every mutation serializes on the session mutex,
// and the roster view it holds is read-only for the session's lifetime.
type Session struct {
	id        string
	createdAt time.Time

	mu         sync.Mutex
	assignment *Assignment
	roster     map[string]model.ExpertProfile
}

// NewSession wraps an assembled assignment with the roster lookup needed to
// validate reassignments.
func NewSession(id string, a *Assignment, roster map[string]model.ExpertProfile) *Session {
	return &Session{
		id:         id,
		createdAt:  time.Now(),
		assignment: a,
		roster:     roster,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// View returns a copy of the current team and the not-found tags.
func (s *Session) View() ([]Member, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignment.Members(), s.assignment.NotFound()
}

// Reassign moves tags currently held by expert from to expert to.
//
// With an explicit tag list, each listed tag moves when it is held by the
// source and declared by the destination. With an empty list the source's
// whole assigned set is considered and the subset the destination also
// declares moves — the expertise the two share — so a reassignment never
// dumps unrelated tags onto an expert. Zero overlap rejects the move as not
// applicable. Replaying an identical move finds the tags already at the
// destination and is a no-op, so the operation is idempotent.
//
// Returns ErrUnknownExpert when either identifier is outside the roster;
// every other failure mode is a rejection, not an error, and leaves the
// assignment untouched.
func (s *Session) Reassign(tags []string, from, to string) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	toProfile, ok := s.roster[to]
	if !ok {
		return MoveResult{}, fmt.Errorf("reassign to %q: %w", to, ErrUnknownExpert)
	}
	if _, ok := s.roster[from]; !ok {
		return MoveResult{}, fmt.Errorf("reassign from %q: %w", from, ErrUnknownExpert)
	}

	srcIdx := s.assignment.memberIndex(from)

	// The tag set under consideration: explicit, or everything the source
	// currently holds.
	var considered []string
	if len(tags) > 0 {
		considered = tags
	} else {
		if srcIdx < 0 {
			return MoveResult{Reason: ReasonNoTagsHeld}, nil
		}
		considered = append([]string(nil), s.assignment.members[srcIdx].Tags...)
	}
	if len(considered) == 0 {
		return MoveResult{Reason: ReasonNoTagsHeld}, nil
	}

	var movable []string
	heldBySource := false
	alreadyAtDest := false
	seen := make(map[string]struct{}, len(considered))
	for _, tag := range considered {
		// An explicit list may repeat a tag; a tag moves at most once.
		key := model.NormalizeTag(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		holder := s.assignment.holderIndex(tag)
		if holder >= 0 && s.assignment.members[holder].ID == to {
			alreadyAtDest = true
			continue
		}
		if holder < 0 || s.assignment.members[holder].ID != from {
			continue
		}
		heldBySource = true
		if toProfile.HasTag(tag) {
			movable = append(movable, tag)
		}
	}

	if len(movable) == 0 {
		switch {
		case alreadyAtDest:
			return MoveResult{Reason: ReasonAlreadyThere}, nil
		case !heldBySource:
			return MoveResult{Reason: ReasonNotHeld}, nil
		default:
			return MoveResult{Reason: ReasonNoOverlap}, nil
		}
	}

	dstIdx := s.assignment.memberIndex(to)
	if dstIdx < 0 {
		// New to the team: slot in immediately after the source.
		dstIdx = s.assignment.insertMemberAfter(srcIdx, memberFromProfile(toProfile))
	}

	for _, tag := range movable {
		s.assignment.removeTag(srcIdx, tag)
		s.assignment.members[dstIdx].Tags = append(s.assignment.members[dstIdx].Tags, tag)
	}

	// Removing the emptied source shifts later members left.
	if len(s.assignment.members[srcIdx].Tags) == 0 {
		s.assignment.removeIfEmpty(srcIdx)
	}

	return MoveResult{Applied: true, Moved: movable}, nil
}
