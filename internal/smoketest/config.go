package smoketest

import "time"

// Config holds configuration for the evaluation smoke test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumUsers   int           // Number of users to refresh
	TopN       int           // Number of overview entries to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for results
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// RefreshRequest represents a refresh request to be submitted
type RefreshRequest struct {
	UserID string `json:"user_id"`
}

// Result represents a retrieved per-user evaluation
type Result struct {
	UserID string `json:"user_id"`
	Score  Score  `json:"score"`
}

// Score is the composite score portion of an evaluation
type Score struct {
	Value  int    `json:"value"`
	Status string `json:"status"`
}

// Entry represents an overview entry
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
	Status string `json:"status"`
}

// AckResponse represents the response from refresh submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds test statistics
type Stats struct {
	RefreshesGenerated  int
	RefreshesSubmitted  int
	RefreshesSuccessful int
	RefreshesDuplicate  int
	RefreshesFailed     int
	EvaluationsFetched  int
	OverviewEntries     int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
