// Package repository keeps the latest evaluation per user and serves the
// ranked overview.
package repository

import (
	"context"

	"github.com/halcyard/pulse/internal/domain/model"
)

// Store provides read/write access to evaluation state.
type Store interface {
	// Put stores eval as the latest evaluation for its user.
	Put(ctx context.Context, eval model.Evaluation) error

	// Latest returns the most recent evaluation for a user.
	// Returns ErrNotFound if the user has never been evaluated.
	Latest(ctx context.Context, userID string) (model.Evaluation, error)

	// TopN returns up to n evaluations ordered by composite score desc,
	// then user ID asc for determinism. Position in the slice is the rank.
	TopN(ctx context.Context, n int) ([]model.Evaluation, error)

	// Count returns the number of users with a stored evaluation.
	Count(ctx context.Context) int
}
