// Package types contains common types used across the application
package types

// RankedExpert is one row of the individual-mode result list.
type RankedExpert struct {
	Rank         int      `json:"rank"`
	ID           string   `json:"id"`
	Department   string   `json:"department"`
	Position     string   `json:"position,omitempty"`
	ProfileURL   string   `json:"profile_url,omitempty"`
	ScholarURL   string   `json:"scholar_url,omitempty"`
	Semantic     float64  `json:"semantic"`
	Weighted     float64  `json:"weighted_match"`
	Score        float64  `json:"rank_score"`
	MatchingTags []string `json:"matching_tags,omitempty"`
}

// TeamMember is one entry of a team assignment.
type TeamMember struct {
	ID         string   `json:"id"`
	Department string   `json:"department"`
	Position   string   `json:"position,omitempty"`
	ProfileURL string   `json:"profile_url,omitempty"`
	ScholarURL string   `json:"scholar_url,omitempty"`
	Tags       []string `json:"tags"`
}

// TeamView is the caller-facing shape of a team assignment.
type TeamView struct {
	SessionID    string       `json:"session_id"`
	Members      []TeamMember `json:"members"`
	NotFoundTags []string     `json:"not_found_tags"`
}

// MatchResult is the response of a full match request.
type MatchResult struct {
	SessionID        string             `json:"session_id"`
	Tags             []string           `json:"tags"`
	DomainWeights    map[string]float64 `json:"domain_weights,omitempty"`
	Explanation      string             `json:"explanation,omitempty"`
	SemanticDegraded bool               `json:"semantic_degraded,omitempty"`
	Individual       []RankedExpert     `json:"individual"`
	Team             []TeamMember       `json:"team"`
	NotFoundTags     []string           `json:"not_found_tags"`
}

// ReassignResult is the response of a team reassignment request.
type ReassignResult struct {
	Applied      bool         `json:"applied"`
	Moved        []string     `json:"moved,omitempty"`
	Reason       string       `json:"reason,omitempty"`
	Members      []TeamMember `json:"members"`
	NotFoundTags []string     `json:"not_found_tags"`
}
