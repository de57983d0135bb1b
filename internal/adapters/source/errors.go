package source

import "errors"

// Sentinel kinds for provider errors.
var (
	// ErrNoData means the upstream has no payload for this user. The source
	// is treated as absent, which is a valid partial-evaluation input.
	ErrNoData = errors.New("no data for user")

	// ErrUnavailable means the upstream could not be reached.
	ErrUnavailable = errors.New("source unavailable")
)
