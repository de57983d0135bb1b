// Package source defines the authenticated-source provider contract and the
// simulated providers used until real upstream integrations exist.
//
// Providers yield already-fetched, already-parsed raw payloads for a user;
// token acquisition and transport live behind them. The simulators derive
// deterministic pseudo-random payloads from a seed plus the user ID, so they
// are reproducible but vary per user. Tests inject Static providers instead.
package source

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"

	"github.com/halcyard/pulse/internal/domain/model"
)

// Provider yields one raw payload per fetch for its source kind.
type Provider interface {
	// Kind identifies which source this provider serves.
	Kind() model.SourceKind

	// Fetch returns the current raw payload for a user.
	// Returns ErrNoData when the upstream has nothing for this user; the
	// caller treats that as a missing source, not a failure.
	Fetch(ctx context.Context, userID string) (model.RawPayload, error)
}

// userRNG derives a per-user deterministic RNG from the simulator seed.
// rand.Rand is not safe for concurrent use, so each call gets its own.
func userRNG(seed int64, userID string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64()))) //nolint:gosec // simulation, not crypto
}

// Static is a fixed-payload provider for tests and canned demos.
type Static struct {
	mu      sync.RWMutex
	kind    model.SourceKind
	payload model.RawPayload
	err     error
}

// NewStatic creates a provider that always returns payload.
func NewStatic(kind model.SourceKind, payload model.RawPayload) *Static {
	payload.Kind = kind
	return &Static{kind: kind, payload: payload}
}

// NewStaticError creates a provider that always fails with err, defaulting
// to ErrUnavailable, which models an unreachable upstream.
func NewStaticError(kind model.SourceKind, err error) *Static {
	if err == nil {
		err = ErrUnavailable
	}
	return &Static{kind: kind, err: err}
}

// Kind identifies which source this provider serves.
func (s *Static) Kind() model.SourceKind { return s.kind }

// Fetch returns the configured payload or error.
func (s *Static) Fetch(_ context.Context, _ string) (model.RawPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return model.RawPayload{}, s.err
	}
	return s.payload, nil
}

// SetPayload swaps the payload served by subsequent fetches.
func (s *Static) SetPayload(payload model.RawPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload.Kind = s.kind
	s.payload = payload
	s.err = nil
}
