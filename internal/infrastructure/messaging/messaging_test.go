package messaging

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"humanizer-api/internal/domain/entity"
	"humanizer-api/pkg/logger"
)

func newTestConsumer(t *testing.T, retryLimit int) (*redis.Client, *Producer, *Consumer) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	p := NewProducer(client, "", 100)
	c := NewConsumer(client, ConsumerConfig{
		ConsumerName: "worker-1",
		BlockTimeout: 20 * time.Millisecond,
		RetryLimit:   retryLimit,
	})
	if err := c.ensureGroup(context.Background()); err != nil {
		t.Fatalf("create group: %v", err)
	}
	return client, p, c
}

func pendingCount(t *testing.T, client *redis.Client) int64 {
	t.Helper()
	res, err := client.XPending(context.Background(), string(StreamHumanizeJobs), string(ConsumerGroupHumanizeWorker)).Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	return res.Count
}

func TestPublishAndConsumeHumanizeJob(t *testing.T) {
	client, p, c := newTestConsumer(t, 3)
	ctx := logger.WithContext(context.Background(), logger.RequestIDKey, "req-7")

	var got HumanizeJobMessage
	var requestID string
	c.RegisterHandler(TypeHumanize, func(_ context.Context, msg *Message) error {
		requestID = msg.GetMetadata(MetaRequestID)
		return msg.UnmarshalPayload(&got)
	})

	job := entity.NewHumanizeJob("job-1", "Furthermore, the results are optimal.", entity.DefaultSettings())
	if _, err := p.PublishHumanizeJob(ctx, job); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := c.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}

	if got.JobID != "job-1" || got.Text != job.Text || got.Settings != job.Settings {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if requestID != "req-7" {
		t.Fatalf("expected request id metadata, got %q", requestID)
	}
	if n := pendingCount(t, client); n != 0 {
		t.Fatalf("expected message acked, %d pending", n)
	}
}

func TestFailingHandlerMovesToDLQ(t *testing.T) {
	client, p, c := newTestConsumer(t, 1)
	ctx := context.Background()

	var calls atomic.Int32
	c.RegisterHandler(TypeHumanize, func(context.Context, *Message) error {
		calls.Add(1)
		return errors.New("boom")
	})

	if _, err := p.PublishHumanizeJob(ctx, entity.NewHumanizeJob("job-2", "text", entity.DefaultSettings())); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := c.poll(ctx); err != nil {
		t.Fatalf("poll: %v", err)
	}

	if calls.Load() != 1 {
		t.Fatalf("expected one handler call, got %d", calls.Load())
	}
	if n := pendingCount(t, client); n != 0 {
		t.Fatalf("dead-lettered message must be acked, %d pending", n)
	}
	n, err := client.XLen(ctx, StreamHumanizeJobs.DLQStream()).Result()
	if err != nil || n != 1 {
		t.Fatalf("expected one DLQ entry, got %d (%v)", n, err)
	}
}

func TestFailingHandlerLeavesMessagePending(t *testing.T) {
	client, p, c := newTestConsumer(t, 3)
	ctx := context.Background()

	c.RegisterHandler(TypeHumanize, func(context.Context, *Message) error {
		return errors.New("temporary")
	})
	if _, err := p.PublishHumanizeJob(ctx, entity.NewHumanizeJob("job-3", "text", entity.DefaultSettings())); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := c.poll(ctx); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if n := pendingCount(t, client); n != 1 {
		t.Fatalf("expected message left pending for retry, got %d", n)
	}
}

func TestUnknownTypeIsAcked(t *testing.T) {
	client, p, c := newTestConsumer(t, 3)
	ctx := context.Background()

	msg, err := NewMessage("m-1", "unknown", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	if _, err := p.Publish(ctx, StreamHumanizeJobs, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := c.poll(ctx); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if n := pendingCount(t, client); n != 0 {
		t.Fatalf("unhandled message must be acked, %d pending", n)
	}
}

func TestStartStop(t *testing.T) {
	_, p, c := newTestConsumer(t, 3)
	ctx := context.Background()

	handled := make(chan string, 1)
	c.RegisterHandler(TypeHumanize, func(_ context.Context, msg *Message) error {
		handled <- msg.ID
		return nil
	})
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(ctx); !errors.Is(err, ErrConsumerRunning) {
		t.Fatalf("expected already running error, got %v", err)
	}
	if _, err := p.PublishHumanizeJob(ctx, entity.NewHumanizeJob("job-4", "text", entity.DefaultSettings())); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case id := <-handled:
		if id != "job-4" {
			t.Fatalf("unexpected message id %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not consumed")
	}
	c.Stop()
	c.Stop()
}

func TestCalculateBackoff(t *testing.T) {
	b := BackoffConfig{Initial: time.Second, Max: 5 * time.Second, Multiplier: 2}
	cases := map[int]time.Duration{0: time.Second, 1: 2 * time.Second, 2: 4 * time.Second, 3: 5 * time.Second, 10: 5 * time.Second}
	for retry, want := range cases {
		if got := b.CalculateBackoff(retry); got != want {
			t.Errorf("retry %d: got %v, want %v", retry, got, want)
		}
	}
}
