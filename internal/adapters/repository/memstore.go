package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/halcyard/pulse/internal/domain/model"
	"github.com/halcyard/pulse/pkg/metrics"
)

// MemStore is an in-memory Store keyed by user ID. Latest state only; the
// engine itself never persists, so history is the caller's concern.
type MemStore struct {
	mu    sync.RWMutex
	byUID map[string]model.Evaluation
}

// NewMemStore creates an empty in-memory evaluation store.
func NewMemStore() *MemStore {
	return &MemStore{byUID: make(map[string]model.Evaluation)}
}

// Put stores eval as the latest evaluation for its user.
func (s *MemStore) Put(_ context.Context, eval model.Evaluation) error {
	if eval.UserID == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	s.byUID[eval.UserID] = eval
	count := len(s.byUID)
	s.mu.Unlock()

	metrics.UpdateEvaluatedUsers(count)
	return nil
}

// Latest returns the most recent evaluation for a user.
func (s *MemStore) Latest(_ context.Context, userID string) (model.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eval, ok := s.byUID[userID]
	if !ok {
		return model.Evaluation{}, ErrNotFound
	}
	return eval, nil
}

// TopN returns up to n evaluations, best composite score first.
func (s *MemStore) TopN(_ context.Context, n int) ([]model.Evaluation, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	evals := make([]model.Evaluation, 0, len(s.byUID))
	for _, e := range s.byUID {
		evals = append(evals, e)
	}
	s.mu.RUnlock()

	sort.Slice(evals, func(i, j int) bool {
		if evals[i].Score.Value != evals[j].Score.Value {
			return evals[i].Score.Value > evals[j].Score.Value
		}
		return evals[i].UserID < evals[j].UserID
	})

	if len(evals) > n {
		evals = evals[:n]
	}
	return evals, nil
}

// Count returns the number of users with a stored evaluation.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUID)
}
