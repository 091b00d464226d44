package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/antarv/tweetfeed/app/cfg"
	"github.com/antarv/tweetfeed/app/database"
	"github.com/antarv/tweetfeed/app/feed"
	"github.com/antarv/tweetfeed/app/timeline"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs the two recurring loops: timeline ingestion and feed
// materialization. Each loop keeps at most one task in flight, so a slow
// backlog drain never overlaps with the next tick of the same loop.
type Scheduler struct {
	statusRepo database.StatusRepository
	authorRepo database.AuthorRepository
	client     *timeline.Client
	classifier *feed.Classifier
	generator  *feed.Generator
	documents  *feed.DocumentManager
	index      *feed.IndexBuilder

	pollInterval    time.Duration
	refreshInterval time.Duration
	batchSize       int
	retention       time.Duration
	workerCount     int

	ingestInFlight      atomic.Bool
	materializeInFlight atomic.Bool

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(statusRepo database.StatusRepository, authorRepo database.AuthorRepository,
	client *timeline.Client, classifier *feed.Classifier, generator *feed.Generator,
	documents *feed.DocumentManager, index *feed.IndexBuilder) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		statusRepo:      statusRepo,
		authorRepo:      authorRepo,
		client:          client,
		classifier:      classifier,
		generator:       generator,
		documents:       documents,
		index:           index,
		pollInterval:    time.Duration(cfg.PollInterval) * time.Second,
		refreshInterval: time.Duration(cfg.RefreshInterval) * time.Second,
		batchSize:       cfg.BatchSize,
		retention:       time.Duration(cfg.RetentionSeconds) * time.Second,
		workerCount:     2,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 50),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		pollTicker := time.NewTicker(s.pollInterval)
		defer pollTicker.Stop()

		refreshTicker := time.NewTicker(s.refreshInterval)
		defer refreshTicker.Stop()

		s.enqueueIngestTask()
		s.enqueueMaterializeTask()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-pollTicker.C:
				s.enqueueIngestTask()
			case <-refreshTicker.C:
				s.enqueueMaterializeTask()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueIngestTask() {
	if !s.ingestInFlight.CompareAndSwap(false, true) {
		slog.Debug("Ingest task still in flight, skipping tick")
		return
	}

	task := NewIngestTimelineTask(s.statusRepo, s.client)
	task.SetDone(func() { s.ingestInFlight.Store(false) })

	if err := s.EnqueueTask(task); err != nil {
		s.ingestInFlight.Store(false)
		slog.Warn("Failed to enqueue IngestTimelineTask", "error", err)
	}
}

func (s *Scheduler) enqueueMaterializeTask() {
	if !s.materializeInFlight.CompareAndSwap(false, true) {
		slog.Debug("Materialize task still in flight, skipping tick")
		return
	}

	task := NewMaterializeFeedsTask(s.statusRepo, s.authorRepo, s.classifier, s.generator,
		s.documents, s.index, s.batchSize, s.retention)
	task.SetDone(func() { s.materializeInFlight.Store(false) })

	if err := s.EnqueueTask(task); err != nil {
		s.materializeInFlight.Store(false)
		slog.Warn("Failed to enqueue MaterializeFeedsTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err == nil {
		slog.Debug("Task completed", "worker_id", workerID, "type", string(task.GetType()), "duration", task.GetDuration().String())
		task.Done()
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		task.Done()
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		time.Sleep(retryDelay)
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			task.Done()
			return
		default:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				task.Done()
			}
		}
	}()
}
