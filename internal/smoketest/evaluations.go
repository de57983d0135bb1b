package smoketest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveEvaluations retrieves the latest evaluation for all users concurrently.
func retrieveEvaluations(ctx context.Context, config *Config, requests []RefreshRequest, stats *Stats) ([]Result, error) {
	log.Printf("retrieving evaluations for %d users with %d workers...", len(requests), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Extract unique user IDs
	userIDs := make([]string, len(requests))
	for i, req := range requests {
		userIDs[i] = req.UserID
	}

	// Results storage
	results := make([]Result, len(userIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	userChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range userChan {
				select {
				case <-ctx.Done():
					return
				default:
					userID := userIDs[index]
					result, err := retrieveSingleEvaluation(ctx, client, config.BaseURL, userID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get evaluation for %s: %v", userID, err)
						}
					} else {
						results[index] = result
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("evaluation progress: %d/%d retrieved (success: %d, failed: %d)",
								total, len(userIDs), ret, fail)
						} else {
							log.Printf("\revaluations: %d/%d retrieved (success: %d, failed: %d)",
								total, len(userIDs), ret, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send user indices to workers
	go func() {
		defer close(userChan)
		for i := range userIDs {
			select {
			case <-ctx.Done():
				return
			case userChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		log.Println() // New line after progress indicator
	}

	// Filter out empty results (failed retrievals)
	validResults := make([]Result, 0, len(results))
	for _, result := range results {
		if result.UserID != "" { // Empty UserID indicates failed retrieval
			validResults = append(validResults, result)
		}
	}

	// Update stats
	stats.EvaluationsFetched = len(validResults)

	log.Printf(`evaluation retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validResults), int(atomic.LoadInt64(&failed)))

	return validResults, nil
}

// retrieveSingleEvaluation retrieves the latest evaluation for a single user.
func retrieveSingleEvaluation(ctx context.Context, client *HTTPClient, baseURL, userID string) (Result, error) {
	url := fmt.Sprintf("%s/evaluations/%s", baseURL, userID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return Result{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	var result Result
	if err := unmarshalJSON(body, &result); err != nil {
		return Result{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

// getOverview retrieves the top N overview entries.
func getOverview(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("getting top %d overview entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/overview?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var overview []Entry
	if err := unmarshalJSON(body, &overview); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.OverviewEntries = len(overview)
	log.Printf("retrieved %d overview entries", len(overview))

	return overview, nil
}
