package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelQueue(t *testing.T) {
	queue := NewChannelQueue(2)
	id := uuid.New()

	require.NoError(t, queue.Enqueue(context.Background(), id))
	select {
	case got := <-queue.Jobs():
		assert.Equal(t, id, got)
	case <-time.After(time.Second):
		t.Fatal("job not delivered")
	}
}

func TestChannelQueue_FullHonorsContext(t *testing.T) {
	queue := NewChannelQueue(1)
	require.NoError(t, queue.Enqueue(context.Background(), uuid.New()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, queue.Enqueue(ctx, uuid.New()), context.DeadlineExceeded)
}

func TestChannelQueue_Closed(t *testing.T) {
	queue := NewChannelQueue(1)
	require.NoError(t, queue.Close())
	require.NoError(t, queue.Close())

	assert.ErrorIs(t, queue.Enqueue(context.Background(), uuid.New()), ErrQueueClosed)
}

type fakeAcknowledger struct {
	mu       sync.Mutex
	acked    []uint64
	requeued []uint64
	rejected []uint64
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if requeue {
		f.requeued = append(f.requeued, tag)
	}
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, tag)
	return nil
}

func (f *fakeAcknowledger) snapshot() (acked, requeued, rejected []uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.acked...), append([]uint64(nil), f.requeued...), append([]uint64(nil), f.rejected...)
}

func newConsumingRabbitQueue() (*rabbitQueue, chan amqp.Delivery) {
	r := &rabbitQueue{
		jobs: make(chan uuid.UUID),
		done: make(chan struct{}),
	}
	msgs := make(chan amqp.Delivery, 4)
	go r.consume(msgs)
	return r, msgs
}

func TestRabbitConsume_AcksDeliveredJobs(t *testing.T) {
	r, msgs := newConsumingRabbitQueue()
	ack := &fakeAcknowledger{}
	id := uuid.New()

	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`not json`)}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte(`{"submission_id":"` + id.String() + `"}`)}

	select {
	case got := <-r.Jobs():
		assert.Equal(t, id, got)
	case <-time.After(time.Second):
		t.Fatal("job not delivered")
	}

	close(msgs)
	assert.Eventually(t, func() bool {
		acked, _, rejected := ack.snapshot()
		return len(acked) == 1 && len(rejected) == 1
	}, time.Second, 5*time.Millisecond)

	acked, _, rejected := ack.snapshot()
	assert.Equal(t, []uint64{2}, acked)
	assert.Equal(t, []uint64{1}, rejected)

	_, open := <-r.Jobs()
	assert.False(t, open)
}

func TestRabbitConsume_StopRequeuesPendingDelivery(t *testing.T) {
	r, msgs := newConsumingRabbitQueue()
	ack := &fakeAcknowledger{}

	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: []byte(`{"submission_id":"` + uuid.NewString() + `"}`)}
	time.Sleep(20 * time.Millisecond)
	r.stop()
	r.stop()

	assert.Eventually(t, func() bool {
		_, requeued, _ := ack.snapshot()
		return len(requeued) == 1
	}, time.Second, 5*time.Millisecond)

	select {
	case _, open := <-r.Jobs():
		assert.False(t, open, "consumer exits without a reader")
	case <-time.After(time.Second):
		t.Fatal("consumer still blocked after stop")
	}

	acked, requeued, _ := ack.snapshot()
	assert.Empty(t, acked)
	assert.Equal(t, []uint64{7}, requeued)
}
