// Package team builds and mutates covering teams of experts for a problem's
// required tags.
package team

import "github.com/okian/maven/internal/domain/model"

// Member is one team entry: an expert and the tags currently assigned to
// them. Display fields are denormalized from the profile at insertion time.
type Member struct {
	ID         string
	Department string
	Position   string
	ProfileURL string
	ScholarURL string
	Tags       []string
}

// Assignment is the coverage state for one query: every required tag is held
// by exactly one member or recorded as not found. Member ordering is
// first-seen and stable across mutations. Mutation happens only through a
// Session; readers get copies.
type Assignment struct {
	required []string
	members  []Member
	notFound []string
}

// Members returns a deep copy of the current team in order.
func (a *Assignment) Members() []Member {
	out := make([]Member, len(a.members))
	for i, m := range a.members {
		out[i] = m
		out[i].Tags = append([]string(nil), m.Tags...)
	}
	return out
}

// NotFound returns the required tags no roster expert covers.
func (a *Assignment) NotFound() []string {
	return append([]string(nil), a.notFound...)
}

// Required returns the original required tag sequence.
func (a *Assignment) Required() []string {
	return append([]string(nil), a.required...)
}

// memberIndex returns the position of the member with the given id, or -1.
func (a *Assignment) memberIndex(id string) int {
	for i, m := range a.members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// holderIndex returns the position of the member currently holding tag, or -1.
func (a *Assignment) holderIndex(tag string) int {
	want := model.NormalizeTag(tag)
	for i, m := range a.members {
		for _, t := range m.Tags {
			if model.NormalizeTag(t) == want {
				return i
			}
		}
	}
	return -1
}

// insertMemberAfter places m immediately after position idx. A negative idx
// appends at the end. Returns the new member's position.
func (a *Assignment) insertMemberAfter(idx int, m Member) int {
	if idx < 0 || idx >= len(a.members)-1 {
		a.members = append(a.members, m)
		return len(a.members) - 1
	}
	pos := idx + 1
	a.members = append(a.members, Member{})
	copy(a.members[pos+1:], a.members[pos:])
	a.members[pos] = m
	return pos
}

// removeTag drops tag from the member at idx.
func (a *Assignment) removeTag(idx int, tag string) {
	want := model.NormalizeTag(tag)
	m := &a.members[idx]
	for i, t := range m.Tags {
		if model.NormalizeTag(t) == want {
			m.Tags = append(m.Tags[:i], m.Tags[i+1:]...)
			return
		}
	}
}

// removeIfEmpty drops the member at idx when its tag set became empty.
func (a *Assignment) removeIfEmpty(idx int) {
	if idx < 0 || idx >= len(a.members) {
		return
	}
	if len(a.members[idx].Tags) == 0 {
		a.members = append(a.members[:idx], a.members[idx+1:]...)
	}
}

// memberFromProfile denormalizes the display fields of a profile.
func memberFromProfile(p model.ExpertProfile) Member {
	return Member{
		ID:         p.ID,
		Department: p.Department,
		Position:   p.Position,
		ProfileURL: p.ProfileURL,
		ScholarURL: p.ScholarURL(),
	}
}
