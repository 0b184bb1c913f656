package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"uprise/meritmatch/internal/models"
	"uprise/meritmatch/internal/repositories"
)

type fakeProcessor struct {
	ProcessFunc func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeProcessor) Process(ctx context.Context, id uuid.UUID) error {
	return f.ProcessFunc(ctx, id)
}

func TestWorker_ProcessesEnqueuedSubmissions(t *testing.T) {
	processed := make(chan uuid.UUID, 4)
	processor := &fakeProcessor{ProcessFunc: func(_ context.Context, id uuid.UUID) error {
		processed <- id
		return nil
	}}

	repo := repositories.NewSubmissionRepository(newTestDB(t))
	w := NewWorker(repo, processor, NewChannelQueue(10), 2, time.Hour)
	w.Start(context.Background())
	defer w.Stop()

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	for _, id := range ids {
		require.NoError(t, w.Enqueue(context.Background(), id))
	}

	got := map[uuid.UUID]bool{}
	for range ids {
		select {
		case id := <-processed:
			got[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("submission not processed")
		}
	}
	assert.True(t, got[ids[0]])
	assert.True(t, got[ids[1]])
}

func TestWorker_PollerPicksUpPendingSubmissions(t *testing.T) {
	repo := repositories.NewSubmissionRepository(newTestDB(t))
	submission := &models.Submission{
		CandidateID:    uuid.New(),
		ChallengeTitle: "Todo API",
		ChallengeType:  "coding",
		Tasks:          datatypes.NewJSONType([]models.TaskResponse{{TaskTitle: "t", Response: "r"}}),
		Status:         models.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), submission))

	processed := make(chan uuid.UUID, 1)
	processor := &fakeProcessor{ProcessFunc: func(_ context.Context, id uuid.UUID) error {
		select {
		case processed <- id:
		default:
		}
		return nil
	}}

	w := NewWorker(repo, processor, NewChannelQueue(10), 1, 20*time.Millisecond)
	w.Start(context.Background())
	defer w.Stop()

	select {
	case id := <-processed:
		assert.Equal(t, submission.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("pending submission was not polled")
	}
}

func TestWorker_SkipsSubmissionAlreadyInFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	var once sync.Once
	started := make(chan struct{})
	processor := &fakeProcessor{ProcessFunc: func(context.Context, uuid.UUID) error {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return nil
	}}

	queue := NewChannelQueue(10)
	repo := repositories.NewSubmissionRepository(newTestDB(t))
	w := NewWorker(repo, processor, queue, 2, time.Hour)
	w.Start(context.Background())

	id := uuid.New()
	require.NoError(t, w.Enqueue(context.Background(), id))
	<-started
	require.NoError(t, w.Enqueue(context.Background(), id))

	assert.Eventually(t, func() bool { return len(queue.Jobs()) == 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	w.Stop()

	assert.EqualValues(t, 1, calls.Load())
}

func TestWorker_EnqueueAfterStop(t *testing.T) {
	repo := repositories.NewSubmissionRepository(newTestDB(t))
	w := NewWorker(repo, &fakeProcessor{ProcessFunc: func(context.Context, uuid.UUID) error { return nil }}, NewChannelQueue(1), 1, time.Hour)
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	assert.ErrorIs(t, w.Enqueue(context.Background(), uuid.New()), ErrQueueClosed)
}
