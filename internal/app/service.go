// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halcyard/pulse/internal/adapters/cache"
	jobqueue "github.com/halcyard/pulse/internal/adapters/mq/queue"
	workerpool "github.com/halcyard/pulse/internal/adapters/mq/worker"
	repository "github.com/halcyard/pulse/internal/adapters/repository"
	"github.com/halcyard/pulse/internal/adapters/source"
	"github.com/halcyard/pulse/internal/domain/dedupe"
	"github.com/halcyard/pulse/internal/domain/engine"
	"github.com/halcyard/pulse/internal/domain/model"
	"github.com/halcyard/pulse/internal/domain/types"
	"github.com/halcyard/pulse/pkg/logger"
	"github.com/halcyard/pulse/pkg/metrics"
)

// Service implements the API dependencies for the wellbeing system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	respCache  cache.Store
	providers  map[model.SourceKind]source.Provider
	engine     *engine.Engine
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	cacheTTL       time.Duration
	sourceSeed     int64
	enabledSources []model.SourceKind

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of refresh workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the refresh queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the refresh deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCacheTTL sets how long fetched source payloads stay fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSourceSeed seeds the simulated source providers.
func WithSourceSeed(seed int64) Option {
	return func(s *Service) {
		s.sourceSeed = seed
	}
}

// WithProviders replaces the default simulated providers.
func WithProviders(providers ...source.Provider) Option {
	return func(s *Service) {
		if len(providers) == 0 {
			return
		}
		s.providers = make(map[model.SourceKind]source.Provider, len(providers))
		for _, p := range providers {
			s.providers[p.Kind()] = p
		}
	}
}

// WithEnabledSources restricts evaluation to the named sources.
func WithEnabledSources(kinds ...model.SourceKind) Option {
	return func(s *Service) {
		if len(kinds) > 0 {
			s.enabledSources = kinds
		}
	}
}

// WithCacheStore injects a response cache implementation.
func WithCacheStore(store cache.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.respCache = store
		}
	}
}

// WithStore injects an evaluation store implementation.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      10_000,
		dedupeSize:     50_000,
		cacheTTL:       cache.DefaultTTL,
		sourceSeed:     1,
		enabledSources: model.KindOrder,
		engine:         engine.New(),
		stopCh:         make(chan struct{}),
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting wellbeing service...")

	// Initialize components not supplied by options
	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.respCache == nil {
		s.respCache = cache.NewMemoryStore(cache.WithTTL(s.cacheTTL))
	}
	if s.providers == nil {
		s.providers = map[model.SourceKind]source.Provider{
			model.SourceEmail:    source.NewEmailSimulator(s.sourceSeed),
			model.SourceCalendar: source.NewCalendarSimulator(s.sourceSeed + 1),
			model.SourceActivity: source.NewActivitySimulator(s.sourceSeed + 2),
		}
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)

	// The service itself evaluates; the store records.
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "wellbeing service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping wellbeing service...")

	// Close the queue first so workers blocked on dequeue wake up
	if s.jobQueue != nil {
		_ = s.jobQueue.Close()
	}

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "wellbeing service stopped")
}

// Evaluate fetches all enabled sources for a user, scores them, and stamps
// the result. Cached payloads are reused inside the cache window; sources
// with no data or a failed fetch drop out so the remaining subset still
// scores.
func (s *Service) Evaluate(ctx context.Context, userID string) (model.Evaluation, error) {
	if userID == "" {
		return model.Evaluation{}, ErrEmptyUserID
	}

	start := time.Now()
	payloads := s.fetchSources(ctx, userID)
	outcome := s.engine.Evaluate(payloads)

	eval := model.Evaluation{
		ID:              uuid.NewString(),
		UserID:          userID,
		Score:           outcome.Score,
		Adjustments:     outcome.Adjustments,
		Recommendations: outcome.Recommendations,
		Metrics:         outcome.Metrics,
		EvaluatedAt:     time.Now().UTC(),
	}

	metrics.RecordEvaluation(float64(time.Since(start).Milliseconds()))
	metrics.ObserveCompositeScore(eval.Score.Value)
	for _, rec := range eval.Recommendations {
		metrics.RecordRecommendation(string(rec.Priority))
	}
	for _, m := range eval.Metrics {
		if m.Degraded {
			metrics.RecordDegradedSource(string(m.Kind))
		}
	}

	return eval, nil
}

// Wellbeing computes a fresh evaluation for a user, records it, and returns
// the API view.
func (s *Service) Wellbeing(ctx context.Context, userID string) (types.Evaluation, error) {
	eval, err := s.Evaluate(ctx, userID)
	if err != nil {
		return types.Evaluation{}, err
	}
	if err := s.store.Put(ctx, eval); err != nil {
		return types.Evaluation{}, fmt.Errorf("storing evaluation: %w", err)
	}
	return toView(eval), nil
}

// Latest returns the most recent stored evaluation for a user.
func (s *Service) Latest(ctx context.Context, userID string) (types.Evaluation, error) {
	eval, err := s.store.Latest(ctx, userID)
	if err != nil {
		return types.Evaluation{}, err
	}
	return toView(eval), nil
}

// Overview returns the top n users ordered by composite score.
func (s *Service) Overview(ctx context.Context, n int) ([]types.OverviewEntry, error) {
	evals, err := s.store.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	entries := make([]types.OverviewEntry, len(evals))
	for i, eval := range evals {
		entries[i] = types.OverviewEntry{
			Rank:        i + 1,
			UserID:      eval.UserID,
			Score:       eval.Score.Value,
			Status:      eval.Score.Status,
			EvaluatedAt: eval.EvaluatedAt,
		}
	}
	return entries, nil
}

// EnqueueRefresh submits an asynchronous re-evaluation for a user.
// Repeat requests inside one cache window share a job ID and collapse into
// a single queued job. Returns whether the request was accepted and whether
// it was a duplicate.
func (s *Service) EnqueueRefresh(ctx context.Context, userID string) (accepted, duplicate bool) {
	if userID == "" {
		return false, false
	}

	jobID := s.refreshJobID(userID)

	if s.deduper.SeenAndRecord(ctx, jobID) {
		metrics.RecordRefreshDuplicate()
		s.logger.Debug(ctx, "duplicate refresh collapsed",
			logger.String("jobID", jobID),
			logger.String("userID", userID),
		)
		return true, true
	}

	job := model.RefreshJob{
		JobID:     jobID,
		UserID:    userID,
		Requested: time.Now().UTC(),
	}
	if !s.jobQueue.Enqueue(ctx, job) {
		// Allow a retry once there is room again.
		s.deduper.Unrecord(ctx, jobID)
		return false, false
	}
	return true, false
}

// refreshJobID buckets the job ID by the cache TTL so repeats inside one
// window dedupe to the same ID.
func (s *Service) refreshJobID(userID string) string {
	bucket := time.Now().UTC().Truncate(s.cacheTTL).Unix()
	return fmt.Sprintf("%s@%d", userID, bucket)
}

// fetchSources fetches every enabled source concurrently, cache-aside.
// Payloads come back in canonical kind order; absent sources leave gaps that
// are compacted out.
func (s *Service) fetchSources(ctx context.Context, userID string) []model.RawPayload {
	now := time.Now()
	slots := make([]*model.RawPayload, len(s.enabledSources))

	var wg sync.WaitGroup
	for i, kind := range s.enabledSources {
		provider, ok := s.providers[kind]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(i int, kind model.SourceKind, provider source.Provider) {
			defer wg.Done()

			key := cache.Key(userID, kind, now)
			if cached, ok := s.respCache.Get(ctx, key); ok {
				metrics.RecordCacheHit()
				slots[i] = &cached
				return
			}
			metrics.RecordCacheMiss()

			fetchStart := time.Now()
			payload, err := provider.Fetch(ctx, userID)
			metrics.ObserveSourceFetchLatency(string(kind), float64(time.Since(fetchStart).Milliseconds()))
			if err != nil {
				metrics.RecordSourceFetch(string(kind), "error")
				s.logger.Warn(ctx, "source fetch failed, evaluating without it",
					logger.String("source", string(kind)),
					logger.String("userID", userID),
					logger.Error(err),
				)
				return
			}
			metrics.RecordSourceFetch(string(kind), "ok")

			s.respCache.Set(ctx, key, payload)
			slots[i] = &payload
		}(i, kind, provider)
	}
	wg.Wait()

	payloads := make([]model.RawPayload, 0, len(slots))
	for _, p := range slots {
		if p != nil {
			payloads = append(payloads, *p)
		}
	}
	return payloads
}

// toView converts a domain evaluation into the API read shape.
func toView(eval model.Evaluation) types.Evaluation {
	adjustments := make([]types.Adjustment, len(eval.Adjustments))
	for i, a := range eval.Adjustments {
		adjustments[i] = types.Adjustment{
			Source: string(a.Kind),
			Delta:  a.Delta,
			Detail: a.Detail,
		}
	}

	recs := make([]types.Recommendation, len(eval.Recommendations))
	for i, r := range eval.Recommendations {
		recs[i] = types.Recommendation{
			Priority: string(r.Priority),
			Category: r.Category,
			Action:   r.Action,
			Reason:   r.Reason,
		}
	}

	sources := make([]types.SourceStatus, len(eval.Metrics))
	for i, m := range eval.Metrics {
		sources[i] = types.SourceStatus{
			Source:    string(m.Kind),
			Magnitude: m.Magnitude,
			Degraded:  m.Degraded,
		}
	}

	return types.Evaluation{
		EvaluationID:    eval.ID,
		UserID:          eval.UserID,
		Score:           types.Score{Value: eval.Score.Value, Status: eval.Score.Status},
		Adjustments:     adjustments,
		Recommendations: recs,
		Sources:         sources,
		EvaluatedAt:     eval.EvaluatedAt,
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		totalUsers := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["evaluatedUsers"] = totalUsers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateEvaluatedUsers(totalUsers)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
