package testmatch

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/okian/maven/pkg/logger"
)

// Problem statement templates. Each weaves the sampled tags into prose the
// extraction backend can pick them back out of.
var problemTemplates = []string{
	"We are investigating %s and need guidance on experimental design and data interpretation.",
	"Our group has hit a wall combining %s in a single pipeline and needs outside expertise.",
	"Looking for collaborators with a strong background in %s for a funded two-year project.",
	"A recent pilot study surfaced open questions around %s that exceed our in-house skills.",
	"We want to build a prototype that applies %s to a real-world dataset from our partners.",
}

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateProblems creates problem statements by sampling roster tags into
// templates, so every problem is answerable by the loaded roster.
func generateProblems(ctx context.Context, config *Config, rosterTags []string, stats *Stats) ([]Problem, error) {
	logger.Get().Info(ctx, "generating problem statements",
		logger.Int("numProblems", config.NumProblems),
		logger.Int("rosterTags", len(rosterTags)))

	if len(rosterTags) == 0 {
		return nil, ErrNoTags
	}

	problems := make([]Problem, config.NumProblems)
	for i := range problems {
		problems[i] = generateSingleProblem(rosterTags)
	}

	stats.ProblemsGenerated = len(problems)
	logger.Get().Info(ctx, "generated problems successfully", logger.Int("count", len(problems)))
	return problems, nil
}

// generateSingleProblem samples 2-5 distinct tags and renders a template.
func generateSingleProblem(rosterTags []string) Problem {
	count := MinProblemTags + randomInt(MaxProblemTags-MinProblemTags+1)
	if count > len(rosterTags) {
		count = len(rosterTags)
	}

	// Partial Fisher-Yates over a copy for distinct tags
	pool := make([]string, len(rosterTags))
	copy(pool, rosterTags)
	for i := 0; i < count; i++ {
		j := i + randomInt(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	tags := pool[:count]

	template := problemTemplates[randomInt(len(problemTemplates))]
	text := strings.Replace(template, "%s", joinNaturally(tags), 1)

	return Problem{Text: text, Tags: tags}
}

// joinNaturally renders a tag list as English prose ("a, b and c").
func joinNaturally(tags []string) string {
	switch len(tags) {
	case 0:
		return ""
	case 1:
		return tags[0]
	default:
		return strings.Join(tags[:len(tags)-1], ", ") + " and " + tags[len(tags)-1]
	}
}
