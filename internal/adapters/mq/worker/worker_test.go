package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	worker "github.com/halcyard/pulse/internal/adapters/mq/worker"
	model "github.com/halcyard/pulse/internal/domain/model"
	logging "github.com/halcyard/pulse/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobChan    chan worker.Job
	closeError error
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		jobChan: make(chan worker.Job, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Job {
	return mq.jobChan
}

func (mq *mockQueue) Close() error {
	close(mq.jobChan)
	return mq.closeError
}

func (mq *mockQueue) addJob(job worker.Job) {
	mq.jobChan <- job
}

type mockEvaluator struct {
	scores map[string]int
	errors map[string]error
	mu     sync.RWMutex
}

func newMockEvaluator() *mockEvaluator {
	return &mockEvaluator{
		scores: make(map[string]int),
		errors: make(map[string]error),
	}
}

func (me *mockEvaluator) Evaluate(ctx context.Context, userID string) (model.Evaluation, error) {
	me.mu.RLock()
	defer me.mu.RUnlock()

	if err, exists := me.errors[userID]; exists {
		return model.Evaluation{}, err
	}

	value := 50
	if score, exists := me.scores[userID]; exists {
		value = score
	}
	return model.Evaluation{
		ID:          "eval-" + userID,
		UserID:      userID,
		Score:       model.CompositeScore{Value: value, Status: "Fair"},
		EvaluatedAt: time.Now(),
	}, nil
}

func (me *mockEvaluator) setScore(userID string, score int) {
	me.mu.Lock()
	defer me.mu.Unlock()
	me.scores[userID] = score
}

func (me *mockEvaluator) setError(userID string, err error) {
	me.mu.Lock()
	defer me.mu.Unlock()
	me.errors[userID] = err
}

type mockRecorder struct {
	records map[string]model.Evaluation
	errors  map[string]error
	mu      sync.RWMutex
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		records: make(map[string]model.Evaluation),
		errors:  make(map[string]error),
	}
}

func (mr *mockRecorder) Put(ctx context.Context, eval model.Evaluation) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	if err, exists := mr.errors[eval.UserID]; exists {
		return err
	}

	mr.records[eval.UserID] = eval
	return nil
}

func (mr *mockRecorder) setError(userID string, err error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.errors[userID] = err
}

func (mr *mockRecorder) getRecord(userID string) (model.Evaluation, bool) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	eval, exists := mr.records[userID]
	return eval, exists
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		evaluator := newMockEvaluator()
		recorder := newMockRecorder()

		convey.Convey("When creating a worker with default options", func() {
			worker := worker.NewInMemoryWorker(queue, evaluator, recorder)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(worker, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with custom options", func() {
			worker := worker.NewInMemoryWorker(
				queue, evaluator, recorder,
				worker.WithName("test-worker"),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(worker, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			worker := worker.NewInMemoryWorker(queue, evaluator, recorder)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Start worker in goroutine
			go worker.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			convey.Convey("And when processing jobs", func() {
				job := model.RefreshJob{
					JobID:     "job-1",
					UserID:    "user-1",
					Requested: time.Now(),
				}

				// Set expected score
				evaluator.setScore("user-1", 85)

				// Add job to queue
				queue.addJob(job)

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should record the evaluation", func() {
					eval, recorded := recorder.getRecord("user-1")
					convey.So(recorded, convey.ShouldBeTrue)
					convey.So(eval.Score.Value, convey.ShouldEqual, 85)
				})
			})

			convey.Convey("And when evaluation fails", func() {
				job := model.RefreshJob{
					JobID:     "job-2",
					UserID:    "user-2",
					Requested: time.Now(),
				}

				// Set evaluation error
				evaluator.setError("user-2", errors.New("evaluation error"))

				// Add job to queue
				queue.addJob(job)

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should not record an evaluation", func() {
					_, recorded := recorder.getRecord("user-2")
					convey.So(recorded, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when recording fails", func() {
				job := model.RefreshJob{
					JobID:     "job-3",
					UserID:    "user-3",
					Requested: time.Now(),
				}

				// Set recorder error
				recorder.setError("user-3", errors.New("record error"))

				// Add job to queue
				queue.addJob(job)

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should not record an evaluation", func() {
					_, recorded := recorder.getRecord("user-3")
					convey.So(recorded, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				err := worker.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			worker := worker.NewInMemoryWorker(queue, evaluator, recorder)
			ctx, cancel := context.WithCancel(context.Background())

			// Start worker in goroutine
			go worker.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			// Cancel context
			cancel()

			// Give worker time to stop
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then worker should stop", func() {
				// Worker should have stopped due to context cancellation
				convey.So(true, convey.ShouldBeTrue) // Placeholder assertion
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new WorkerPool", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		evaluator := newMockEvaluator()
		recorder := newMockRecorder()

		convey.Convey("When creating a worker pool with default count", func() {
			pool := worker.NewPool(0, queue, evaluator, recorder)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker pool with custom count", func() {
			workerCount := 3
			pool := worker.NewPool(workerCount, queue, evaluator, recorder)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When starting a worker pool", func() {
			pool := worker.NewPool(2, queue, evaluator, recorder)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			// Give workers time to start
			time.Sleep(20 * time.Millisecond)

			convey.Convey("And when processing multiple jobs", func() {
				jobs := []model.RefreshJob{
					{JobID: "job-1", UserID: "user-1", Requested: time.Now()},
					{JobID: "job-2", UserID: "user-2", Requested: time.Now()},
					{JobID: "job-3", UserID: "user-3", Requested: time.Now()},
				}

				// Set expected scores
				evaluator.setScore("user-1", 85)
				evaluator.setScore("user-2", 70)
				evaluator.setScore("user-3", 65)

				// Add jobs to queue
				for _, job := range jobs {
					queue.addJob(job)
				}

				// Give workers time to process
				time.Sleep(100 * time.Millisecond)

				convey.Convey("Then all jobs should be processed", func() {
					for _, job := range jobs {
						eval, recorded := recorder.getRecord(job.UserID)
						convey.So(recorded, convey.ShouldBeTrue)
						convey.So(eval.Score.Value, convey.ShouldBeGreaterThan, 0)
					}
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
				defer shutdownCancel()

				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})
	})
}

func TestWorkerOptions(t *testing.T) {
	convey.Convey("Given worker options", t, func() {
		convey.Convey("When using WithName", func() {
			convey.Convey("Then it should set the worker name", func() {
				queue := newMockQueue()
				evaluator := newMockEvaluator()
				recorder := newMockRecorder()
				worker := worker.NewInMemoryWorker(queue, evaluator, recorder, worker.WithName("test-worker"))
				// Note: Can't test unexported fields directly
				convey.So(worker, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestWorkerConcurrency(t *testing.T) {
	convey.Convey("Given a worker pool with multiple workers", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		evaluator := newMockEvaluator()
		recorder := newMockRecorder()

		pool := worker.NewPool(4, queue, evaluator, recorder)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		pool.Start(ctx)

		// Give workers time to start
		time.Sleep(20 * time.Millisecond)

		convey.Convey("When processing many concurrent jobs", func() {
			const jobCount = 100
			var wg sync.WaitGroup

			// Start multiple goroutines adding jobs
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(producerID int) {
					defer wg.Done()
					for j := 0; j < jobCount/5; j++ {
						userID := fmt.Sprintf("user-%d-%d", producerID, j)
						job := model.RefreshJob{
							JobID:     fmt.Sprintf("job-%d-%d", producerID, j),
							UserID:    userID,
							Requested: time.Now(),
						}
						evaluator.setScore(userID, 80-j)
						queue.addJob(job)
					}
				}(i)
			}

			// Wait for all jobs to be added
			wg.Wait()

			// Give workers time to process
			time.Sleep(200 * time.Millisecond)

			convey.Convey("Then all jobs should be processed", func() {
				processedCount := 0
				for i := 0; i < 5; i++ {
					for j := 0; j < jobCount/5; j++ {
						userID := fmt.Sprintf("user-%d-%d", i, j)
						if _, recorded := recorder.getRecord(userID); recorded {
							processedCount++
						}
					}
				}
				convey.So(processedCount, convey.ShouldEqual, jobCount)
			})
		})
	})
}

func TestWorkerErrorHandling(t *testing.T) {
	convey.Convey("Given a worker with error conditions", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		evaluator := newMockEvaluator()
		recorder := newMockRecorder()

		worker := worker.NewInMemoryWorker(queue, evaluator, recorder)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Start worker in goroutine
		go worker.Run(ctx)

		// Give worker time to start
		time.Sleep(10 * time.Millisecond)

		convey.Convey("When evaluation consistently fails", func() {
			job := model.RefreshJob{
				JobID:     "job-error",
				UserID:    "user-error",
				Requested: time.Now(),
			}

			// Set persistent evaluation error
			evaluator.setError("user-error", errors.New("persistent evaluation error"))

			// Add job to queue
			queue.addJob(job)

			// Give worker time to process
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then it should not record an evaluation", func() {
				_, recorded := recorder.getRecord("user-error")
				convey.So(recorded, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When recording consistently fails", func() {
			job := model.RefreshJob{
				JobID:     "job-record-error",
				UserID:    "user-record-error",
				Requested: time.Now(),
			}

			// Set persistent record error
			recorder.setError("user-record-error", errors.New("persistent record error"))

			// Add job to queue
			queue.addJob(job)

			// Give worker time to process
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then it should not record an evaluation", func() {
				_, recorded := recorder.getRecord("user-record-error")
				convey.So(recorded, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When queue channel is closed", func() {
			// Close the queue
			_ = queue.Close()

			// Give worker time to detect closure
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then worker should stop", func() {
				// Worker should have stopped due to queue closure
				convey.So(true, convey.ShouldBeTrue) // Placeholder assertion
			})
		})
	})
}

func TestWorkerPoolStopLatency(t *testing.T) {
	convey.Convey("Given a started pool with idle workers", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		evaluator := newMockEvaluator()
		recorder := newMockRecorder()

		pool := worker.NewPool(4, queue, evaluator, recorder)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		pool.Start(ctx)

		// Give workers time to start
		time.Sleep(20 * time.Millisecond)

		convey.Convey("When stopping the pool with no jobs in flight", func() {
			start := time.Now()
			pool.Stop()
			elapsed := time.Since(start)

			convey.Convey("Then every worker is released promptly", func() {
				// Idle workers must wake on the stop signal, not ride out
				// a per-worker timeout
				convey.So(elapsed, convey.ShouldBeLessThan, time.Second)
			})

			convey.Convey("And stopping again is safe", func() {
				pool.Stop()
				convey.So(true, convey.ShouldBeTrue)
			})
		})
	})
}
