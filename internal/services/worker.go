package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"uprise/meritmatch/internal/repositories"
)

// SubmissionProcessor grades one stored submission.
type SubmissionProcessor interface {
	Process(ctx context.Context, submissionID uuid.UUID) error
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(ctx context.Context, submissionID uuid.UUID) error
}

type worker struct {
	submissionRepo repositories.SubmissionRepository
	processor      SubmissionProcessor
	queue          GradingQueue
	concurrency    int
	pollInterval   time.Duration
	wg             sync.WaitGroup
	stopChan       chan struct{}
	stopOnce       sync.Once

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewWorker(
	submissionRepo repositories.SubmissionRepository,
	processor SubmissionProcessor,
	queue GradingQueue,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	return &worker{
		submissionRepo: submissionRepo,
		processor:      processor,
		queue:          queue,
		concurrency:    concurrency,
		pollInterval:   pollInterval,
		stopChan:       make(chan struct{}),
		inFlight:       make(map[uuid.UUID]struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting grading worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingSubmissions(ctx)
}

// Stop implements Worker. Jobs already running finish first.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping grading worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Grading worker stopped")
	})
}

// Enqueue implements Worker.
func (w *worker) Enqueue(ctx context.Context, submissionID uuid.UUID) error {
	select {
	case <-w.stopChan:
		return ErrQueueClosed
	default:
	}

	if err := w.queue.Enqueue(ctx, submissionID); err != nil {
		return err
	}
	log.Printf("📥 Submission %s enqueued\n", submissionID)
	return nil
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	jobs := w.queue.Jobs()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case submissionID, ok := <-jobs:
			if !ok {
				log.Printf("👷 Worker #%d: queue closed\n", workerID)
				return
			}
			w.run(ctx, workerID, submissionID)
		}
	}
}

func (w *worker) run(ctx context.Context, workerID int, submissionID uuid.UUID) {
	if !w.claim(submissionID) {
		return
	}
	defer w.release(submissionID)

	log.Printf("👷 Worker #%d grading submission %s\n", workerID, submissionID)
	if err := w.processor.Process(ctx, submissionID); err != nil {
		log.Printf("❌ Worker #%d failed submission %s: %v\n", workerID, submissionID, err)
		return
	}
	log.Printf("✅ Worker #%d finished submission %s\n", workerID, submissionID)
}

// claim reports false when another goroutine already holds the submission.
func (w *worker) claim(submissionID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, busy := w.inFlight[submissionID]; busy {
		return false
	}
	w.inFlight[submissionID] = struct{}{}
	return true
}

func (w *worker) release(submissionID uuid.UUID) {
	w.mu.Lock()
	delete(w.inFlight, submissionID)
	w.mu.Unlock()
}

func (w *worker) isInFlight(submissionID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, busy := w.inFlight[submissionID]
	return busy
}

func (w *worker) pollPendingSubmissions(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.submissionRepo.FindPending(ctx, 10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending submissions: %v\n", err)
				continue
			}

			for _, submission := range pending {
				if w.isInFlight(submission.ID) {
					continue
				}
				if err := w.Enqueue(ctx, submission.ID); err != nil {
					log.Printf("⚠️  Failed to re-enqueue submission %s: %v\n", submission.ID, err)
				}
			}
		}
	}
}
