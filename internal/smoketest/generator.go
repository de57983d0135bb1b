package smoketest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/halcyard/pulse/pkg/logger"
)

// generateRefreshRequests creates the specified number of refresh requests
// with unique user IDs.
func generateRefreshRequests(ctx context.Context, config *Config, stats *Stats) ([]RefreshRequest, error) {
	logger.Get().Info(ctx, "generating refresh requests with unique user IDs", logger.Int("numUsers", config.NumUsers))

	requests := make([]RefreshRequest, config.NumUsers)

	// Pre-allocate user IDs to ensure uniqueness
	userIDs := make([]string, config.NumUsers)
	for i := 0; i < config.NumUsers; i++ {
		userIDs[i] = uuid.New().String()
	}

	// Generate requests concurrently
	type requestResult struct {
		index   int
		request RefreshRequest
		err     error
	}

	resultChan := make(chan requestResult, config.NumUsers)

	// Use worker pool for request generation
	workerCount := minInt(config.Workers, config.NumUsers)
	requestsPerWorker := config.NumUsers / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * requestsPerWorker
		end := start + requestsPerWorker
		if worker == workerCount-1 {
			end = config.NumUsers // Last worker gets remaining requests
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- requestResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- requestResult{index: i, request: RefreshRequest{UserID: userIDs[i]}}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumUsers; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during request generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate request %d: %w", result.index, result.err)
			}
			requests[result.index] = result.request
		}
	}

	stats.RefreshesGenerated = len(requests)
	logger.Get().Info(ctx, "generated refresh requests successfully", logger.Int("count", len(requests)))

	return requests, nil
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
