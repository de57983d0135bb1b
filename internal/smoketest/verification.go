package smoketest

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// verifyResults verifies the consistency of evaluations and the ranked overview.
func verifyResults(ctx context.Context, config *Config, results []Result, overview []Entry, stats *Stats) error {
	log.Println("verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no results to verify")
	}

	// Sort results by score descending, ties by user ID ascending, to mirror
	// the overview ordering contract
	sortedResults := make([]Result, len(results))
	copy(sortedResults, results)
	sort.Slice(sortedResults, func(i, j int) bool {
		if sortedResults[i].Score.Value != sortedResults[j].Score.Value {
			return sortedResults[i].Score.Value > sortedResults[j].Score.Value
		}
		return sortedResults[i].UserID < sortedResults[j].UserID
	})

	// Verify overview consistency if we have overview data
	if len(overview) > 0 {
		if err := verifyOverviewConsistency(sortedResults, overview); err != nil {
			log.Printf("overview consistency warning: %v", err)
		} else {
			log.Println("overview consistency verified")
		}
	}

	// Display top users
	displayTopUsers(sortedResults, overview, config.Verbose)

	log.Println("result verification completed")
	return nil
}

// verifyOverviewConsistency checks that the overview matches the retrieved
// evaluations: correct top entry, sequential ranks, and stable ordering.
func verifyOverviewConsistency(sortedResults []Result, overview []Entry) error {
	if len(overview) == 0 {
		return fmt.Errorf("empty overview")
	}

	// Check if the top overview entry matches the highest scored user
	topResult := sortedResults[0]
	topOverview := overview[0]

	if topResult.UserID != topOverview.UserID {
		return fmt.Errorf("top overview entry (%s) does not match top scored user (%s)",
			topOverview.UserID, topResult.UserID)
	}

	if topResult.Score.Value != topOverview.Score {
		return fmt.Errorf("top overview score (%d) does not match top evaluation score (%d)",
			topOverview.Score, topResult.Score.Value)
	}

	// Check ordering: score descending, ties broken by user ID ascending
	for i := 1; i < len(overview); i++ {
		if overview[i].Score > overview[i-1].Score {
			return fmt.Errorf("overview not properly sorted: entry %d has higher score than entry %d",
				i, i-1)
		}
		if overview[i].Score == overview[i-1].Score && overview[i].UserID < overview[i-1].UserID {
			return fmt.Errorf("overview tie at score %d not broken by user ID: entry %d before entry %d",
				overview[i].Score, i-1, i)
		}
	}

	// Check that ranks are sequential starting at 1
	for i, entry := range overview {
		if entry.Rank != i+1 {
			return fmt.Errorf("overview entry %d has rank %d, expected %d", i, entry.Rank, i+1)
		}
	}

	return nil
}

// displayTopUsers shows the top users from evaluations and the overview.
func displayTopUsers(sortedResults []Result, overview []Entry, verbose bool) {
	topN := 10
	if len(sortedResults) < topN {
		topN = len(sortedResults)
	}

	log.Printf("top %d users from evaluations:", topN)
	for i := 0; i < topN; i++ {
		result := sortedResults[i]
		log.Printf("   %d. %s - Score: %d (%s)", i+1, result.UserID, result.Score.Value, result.Score.Status)
	}

	if len(overview) > 0 {
		overviewTopN := topN
		if len(overview) < overviewTopN {
			overviewTopN = len(overview)
		}

		log.Printf("top %d users from overview:", overviewTopN)
		for i := 0; i < overviewTopN; i++ {
			entry := overview[i]
			log.Printf("   %d. %s - Score: %d (%s)", entry.Rank, entry.UserID, entry.Score, entry.Status)
		}
	}

	if verbose {
		// Show some statistics
		if len(sortedResults) > 0 {
			avgScore := calculateAverageScore(sortedResults)
			maxScore := sortedResults[0].Score.Value
			minScore := sortedResults[len(sortedResults)-1].Score.Value

			log.Printf(`score statistics:
   Average: %.2f
   Maximum: %d
   Minimum: %d
`, avgScore, maxScore, minScore)
		}
	}
}

// calculateAverageScore calculates the average composite score.
func calculateAverageScore(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}

	sum := 0.0
	for _, result := range results {
		sum += float64(result.Score.Value)
	}

	return sum / float64(len(results))
}
