package testmatch

import "time"

// Shared constants for the match test tool.
const (
	StatusOK             = 200
	PercentageMultiplier = 100.0

	// MinProblemTags and MaxProblemTags bound how many roster tags a
	// generated problem statement weaves together.
	MinProblemTags = 2
	MaxProblemTags = 5

	// ScoreEpsilon tolerates float formatting noise when checking bounds.
	ScoreEpsilon = 1e-6

	// ReportInterval throttles progress output.
	ReportInterval = 1 * time.Second
)
