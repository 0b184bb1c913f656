package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrQueueClosed = errors.New("grading queue is closed")

// GradingQueue carries submission IDs from intake to the grading workers.
// Delivery is at least once; consumers must tolerate duplicates.
type GradingQueue interface {
	Enqueue(ctx context.Context, submissionID uuid.UUID) error
	Jobs() <-chan uuid.UUID
	Close() error
}

type channelQueue struct {
	jobs      chan uuid.UUID
	done      chan struct{}
	closeOnce sync.Once
}

func NewChannelQueue(size int) GradingQueue {
	if size <= 0 {
		size = 100
	}

	return &channelQueue{
		jobs: make(chan uuid.UUID, size),
		done: make(chan struct{}),
	}
}

func (q *channelQueue) Enqueue(ctx context.Context, submissionID uuid.UUID) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.jobs <- submissionID:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *channelQueue) Jobs() <-chan uuid.UUID {
	return q.jobs
}

func (q *channelQueue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}

// gradingMessage is the JSON body published to RabbitMQ.
type gradingMessage struct {
	SubmissionID uuid.UUID `json:"submission_id"`
}

type rabbitQueue struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queue     amqp.Queue
	jobs      chan uuid.UUID
	done      chan struct{}
	closeOnce sync.Once
}

func NewRabbitQueue(url, queueName string) (GradingQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	r := &rabbitQueue{
		conn:    conn,
		channel: ch,
		queue:   q,
		jobs:    make(chan uuid.UUID),
		done:    make(chan struct{}),
	}
	go r.consume(msgs)

	log.Printf("✅ Connected to RabbitMQ, consuming '%s'\n", q.Name)
	return r, nil
}

func (r *rabbitQueue) Enqueue(ctx context.Context, submissionID uuid.UUID) error {
	body, err := json.Marshal(gradingMessage{SubmissionID: submissionID})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (r *rabbitQueue) Jobs() <-chan uuid.UUID {
	return r.jobs
}

func (r *rabbitQueue) Close() error {
	r.stop()
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}

func (r *rabbitQueue) stop() {
	r.closeOnce.Do(func() { close(r.done) })
}

// consume acks a delivery once a worker has taken it. A delivery still
// waiting when the queue closes is requeued for the next consumer.
func (r *rabbitQueue) consume(msgs <-chan amqp.Delivery) {
	defer close(r.jobs)
	for d := range msgs {
		var msg gradingMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil || msg.SubmissionID == uuid.Nil {
			log.Printf("⚠️  Dropping invalid grading message: %s", d.Body)
			if err := d.Reject(false); err != nil {
				log.Printf("⚠️  Failed to reject grading message: %v", err)
			}
			continue
		}

		select {
		case r.jobs <- msg.SubmissionID:
			if err := d.Ack(false); err != nil {
				log.Printf("⚠️  Failed to ack submission %s: %v", msg.SubmissionID, err)
			}
		case <-r.done:
			if err := d.Nack(false, true); err != nil {
				log.Printf("⚠️  Failed to requeue submission %s: %v", msg.SubmissionID, err)
			}
			return
		}
	}
}
