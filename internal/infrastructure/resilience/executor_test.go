package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
	}
}

func retryable(error) Classification { return Classification{Retryable: true, RecordFailure: true} }
func permanent(error) Classification { return Classification{RecordFailure: true} }

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	exec := NewExecutor(fastConfig())
	attempts := 0
	err := exec.Execute(context.Background(), "cache.get", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("flaky")
		}
		return nil
	}, retryable)
	if err != nil || attempts != 3 {
		t.Fatalf("expected success on third attempt, got %v after %d attempts", err, attempts)
	}
}

func TestExecuteStopsOnPermanentError(t *testing.T) {
	exec := NewExecutor(fastConfig())
	attempts := 0
	boom := errors.New("boom")
	err := exec.Execute(context.Background(), "cache.get", func(context.Context) error {
		attempts++
		return boom
	}, permanent)
	if !errors.Is(err, boom) || attempts != 1 {
		t.Fatalf("expected single attempt with boom, got %v after %d", err, attempts)
	}
}

func TestExecuteOpensBreaker(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryMaxAttempts = 1
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	exec := NewExecutor(cfg)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_ = exec.Execute(context.Background(), "cache.set", func(context.Context) error { return boom }, permanent)
	}
	if exec.State("cache.set") != gobreaker.StateOpen {
		t.Fatalf("expected breaker to open, got %v", exec.State("cache.set"))
	}

	err := exec.Execute(context.Background(), "cache.set", func(context.Context) error {
		t.Fatalf("open breaker must not call the operation")
		return nil
	}, permanent)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit error, got %v", err)
	}
	if exec.State("cache.get") != gobreaker.StateClosed {
		t.Fatalf("breakers are per operation")
	}
}

func TestExecuteHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewExecutor(fastConfig()).Execute(ctx, "op", func(context.Context) error {
		t.Fatalf("operation must not run after cancellation")
		return nil
	}, retryable)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestRedisClassifier(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Classification
	}{
		{"nil", nil, Classification{}},
		{"miss", redis.Nil, Classification{}},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), Classification{}},
		{"deadline", context.DeadlineExceeded, Classification{RecordFailure: true}},
		{"network", &net.OpError{Op: "dial", Err: errors.New("refused")}, Classification{Retryable: true, RecordFailure: true}},
		{"other", errors.New("WRONGTYPE"), Classification{RecordFailure: true}},
	}
	for _, c := range cases {
		if got := RedisClassifier(c.err); got != c.want {
			t.Fatalf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}
