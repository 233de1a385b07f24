package testmatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/maven/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete match test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting match test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("problems", config.NumProblems),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the declared roster tags
	tags, err := fetchTags(ctx, config)
	if err != nil {
		return fmt.Errorf("tag retrieval failed: %w", err)
	}

	// Step 3: Generate problem statements from roster tags
	problems, err := generateProblems(ctx, config, tags, stats)
	if err != nil {
		return fmt.Errorf("problem generation failed: %w", err)
	}

	// Step 4: Submit matches concurrently
	matches, err := submitMatches(ctx, config, problems, stats)
	if err != nil {
		return fmt.Errorf("match submission failed: %w", err)
	}

	// Step 5: Verify match properties
	if err := verifyResults(ctx, config, matches, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 6: Exercise team reassignment semantics
	if err := exerciseReassignments(ctx, config, matches, stats); err != nil {
		return fmt.Errorf("reassignment exercise failed: %w", err)
	}

	// Step 7: Save generated problems to file
	if err := saveProblemsToFile(ctx, config, problems); err != nil {
		logger.Get().Warn(ctx, "failed to save problems to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveProblemsToFile saves the generated problems to a JSON file.
func saveProblemsToFile(ctx context.Context, config *Config, problems []Problem) error {
	if len(problems) == 0 {
		return fmt.Errorf("no problems to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_problems_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(problems, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal problems: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "problems saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, matchesPerSecond float64

	if stats.MatchesSubmitted > 0 {
		successRate = float64(stats.MatchesSuccessful) / float64(stats.MatchesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("problemsGenerated", stats.ProblemsGenerated),
		logger.Int("matchesSubmitted", stats.MatchesSubmitted),
		logger.Int("matchesSuccessful", stats.MatchesSuccessful),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("reassignmentsTried", stats.ReassignmentsTried),
		logger.Int("reassignmentsApplied", stats.ReassignmentsApplied),
		logger.Int("violationsFound", stats.ViolationsFound),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("matchesPerSecond", matchesPerSecond))
}
