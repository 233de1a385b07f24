package testmatch

import "time"

// Config holds configuration for the match test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumProblems int           // Number of problem statements to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated problems
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Problem represents a generated problem statement and the tags it was
// built from.
type Problem struct {
	Text string   `json:"problem_statement"`
	Tags []string `json:"tags"`
}

// RankedExpert mirrors one row of the individual list.
type RankedExpert struct {
	Rank         int      `json:"rank"`
	ID           string   `json:"id"`
	Semantic     float64  `json:"semantic"`
	Weighted     float64  `json:"weighted_match"`
	Score        float64  `json:"rank_score"`
	MatchingTags []string `json:"matching_tags"`
}

// TeamMember mirrors one assembled team member.
type TeamMember struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// MatchResponse mirrors the response from POST /match.
type MatchResponse struct {
	SessionID    string         `json:"session_id"`
	Tags         []string       `json:"tags"`
	Individual   []RankedExpert `json:"individual"`
	Team         []TeamMember   `json:"team"`
	NotFoundTags []string       `json:"not_found_tags"`
}

// ReassignResponse mirrors the response from POST /sessions/{id}/reassign.
type ReassignResponse struct {
	Applied bool         `json:"applied"`
	Moved   []string     `json:"moved"`
	Reason  string       `json:"reason,omitempty"`
	Members []TeamMember `json:"members"`
}

// TagsResponse mirrors the response from GET /tags.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// Stats holds test statistics
type Stats struct {
	ProblemsGenerated    int
	MatchesSubmitted     int
	MatchesSuccessful    int
	MatchesFailed        int
	ReassignmentsTried   int
	ReassignmentsApplied int
	ViolationsFound      int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
