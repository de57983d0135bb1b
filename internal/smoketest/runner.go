package smoketest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/halcyard/pulse/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete evaluation smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting pulse evaluation smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate refresh requests
	requests, err := generateRefreshRequests(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("request generation failed: %w", err)
	}

	// Step 3: Submit refresh requests concurrently
	if err := submitRefreshes(ctx, config, requests, stats); err != nil {
		return fmt.Errorf("refresh submission failed: %w", err)
	}

	// Step 4: Wait for the refresh queue to drain
	if err := waitForQueueDrain(ctx, config); err != nil {
		logger.Get().Warn(ctx, "queue did not fully drain", logger.Error(err))
	}

	// Step 5: Retrieve evaluations concurrently
	results, err := retrieveEvaluations(ctx, config, requests, stats)
	if err != nil {
		return fmt.Errorf("evaluation retrieval failed: %w", err)
	}

	// Step 6: Get ranked overview
	overview, err := getOverview(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("overview retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(ctx, config, results, overview, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save results to file
	if err := saveResultsToFile(ctx, config, results); err != nil {
		logger.Get().Warn(ctx, "failed to save results to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
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

// serviceStats is the subset of the /stats payload the drain wait reads.
type serviceStats struct {
	QueueLength    int `json:"queueLength"`
	EvaluatedUsers int `json:"evaluatedUsers"`
}

// waitForQueueDrain polls /stats until the refresh queue is empty or the
// wait deadline passes.
func waitForQueueDrain(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "waiting for refresh queue to drain")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/stats"
	deadline := time.Now().Add(DrainWaitTimeout)

	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("queue did not drain within %s", DrainWaitTimeout)
		}

		resp, err := client.Get(ctx, url)
		if err != nil {
			return fmt.Errorf("stats request failed: %w", err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("failed to read stats response: %w", err)
		}

		var stats serviceStats
		if err := unmarshalJSON(body, &stats); err != nil {
			return fmt.Errorf("failed to parse stats response: %w", err)
		}

		if stats.QueueLength == 0 {
			logger.Get().Info(ctx, "refresh queue drained",
				logger.Int("evaluatedUsers", stats.EvaluatedUsers))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(DrainPollInterval):
		}
	}
}

// saveResultsToFile saves the retrieved evaluations to a JSON file.
func saveResultsToFile(ctx context.Context, config *Config, results []Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "evaluation_results_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write results to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, result := range results {
		jsonData, err := marshalJSON(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write result %d: %w", i, err)
		}

		// Add comma except for last result
		if i < len(results)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "results saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, refreshesPerSecond float64

	if stats.RefreshesSubmitted > 0 {
		successRate = float64(stats.RefreshesSuccessful) / float64(stats.RefreshesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		refreshesPerSecond = float64(stats.RefreshesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("refreshesGenerated", stats.RefreshesGenerated),
		logger.Int("refreshesSubmitted", stats.RefreshesSubmitted),
		logger.Int("refreshesSuccessful", stats.RefreshesSuccessful),
		logger.Int("refreshesDuplicate", stats.RefreshesDuplicate),
		logger.Int("refreshesFailed", stats.RefreshesFailed),
		logger.Int("evaluationsFetched", stats.EvaluationsFetched),
		logger.Int("overviewEntries", stats.OverviewEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("refreshesPerSecond", refreshesPerSecond))
}
