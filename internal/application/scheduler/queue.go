package scheduler

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"humanizer-api/internal/domain/entity"
	apperrors "humanizer-api/pkg/errors"
	"humanizer-api/pkg/logger"
	"humanizer-api/pkg/metrics"
	"humanizer-api/pkg/tracer"
)

type outcome struct {
	res *entity.HumanizationResult
	err error
}

// item 队列项，只会完成一次
type item struct {
	ctx      context.Context
	text     string
	settings entity.Settings
	done     chan outcome
	once     sync.Once
}

func (it *item) complete(res *entity.HumanizationResult, err error) {
	it.once.Do(func() {
		it.done <- outcome{res: res, err: err}
	})
}

// Queue 防抖队列：每次入队重置计时器，到期后取出最多 BatchSize 项并发处理
type Queue struct {
	fn  HumanizeFunc
	cfg Config

	mu      sync.Mutex
	pending []*item
	timer   *time.Timer
	closed  bool

	wg sync.WaitGroup
}

// NewQueue 创建防抖队列
func NewQueue(fn HumanizeFunc, cfg Config) *Queue {
	return &Queue{fn: fn, cfg: cfg.normalize()}
}

// HumanizeQueued 入队并等待结果。处理失败返回降级结果；
// 关闭或超时时同时返回降级结果与错误
func (q *Queue) HumanizeQueued(ctx context.Context, text string, settings entity.Settings) (*entity.HumanizationResult, error) {
	ctx, cancel := withTimeout(ctx, q.cfg.QueueTimeout)
	defer cancel()

	it := &item{ctx: ctx, text: text, settings: settings, done: make(chan outcome, 1)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return entity.FallbackHumanizationResult(text, apperrors.ErrQueueClosed), apperrors.ErrQueueClosed
	}
	q.pending = append(q.pending, it)
	metrics.QueueDepth.Set(float64(len(q.pending)))
	q.armLocked()
	q.mu.Unlock()

	select {
	case out := <-it.done:
		return out.res, out.err
	case <-ctx.Done():
		err := ctx.Err()
		it.complete(entity.FallbackHumanizationResult(text, err), err)
		out := <-it.done
		return out.res, out.err
	}
}

// Len 等待中的项数
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Shutdown 停止计时器，未处理的项以降级结果完成，并等待进行中的批次结束
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.wg.Wait()
		return
	}
	q.closed = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	pending := q.pending
	q.pending = nil
	metrics.QueueDepth.Set(0)
	q.mu.Unlock()

	for _, it := range pending {
		it.complete(entity.FallbackHumanizationResult(it.text, apperrors.ErrQueueClosed), apperrors.ErrQueueClosed)
	}
	q.wg.Wait()
}

func (q *Queue) armLocked() {
	if q.timer != nil {
		q.timer.Stop()
	}
	q.timer = time.AfterFunc(q.cfg.Debounce, q.drain)
}

// drain 取出一批并处理；队列未空时重新计时
func (q *Queue) drain() {
	q.mu.Lock()
	if q.closed || len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	n := min(q.cfg.BatchSize, len(q.pending))
	batch := make([]*item, n)
	copy(batch, q.pending[:n])
	q.pending = q.pending[n:]
	if len(q.pending) > 0 {
		q.armLocked()
	} else {
		q.pending = nil
		q.timer = nil
	}
	metrics.QueueDepth.Set(float64(len(q.pending)))
	q.wg.Add(1)
	q.mu.Unlock()
	defer q.wg.Done()

	metrics.QueueDrainsTotal.Inc()
	ctx, span := tracer.Start(context.Background(), "scheduler.drain",
		trace.WithAttributes(attribute.Int("batch.size", n)))
	defer span.End()
	logger.Debug(ctx, "queue drain", "items", n)

	var g errgroup.Group
	for _, it := range batch {
		g.Go(func() error {
			q.process(it)
			return nil
		})
	}
	_ = g.Wait()
}

func (q *Queue) process(it *item) {
	if err := it.ctx.Err(); err != nil {
		metrics.BatchItemsTotal.WithLabelValues("queue", "expired").Inc()
		it.complete(entity.FallbackHumanizationResult(it.text, err), err)
		return
	}

	res, err := q.fn(it.ctx, it.text, it.settings)
	if err != nil {
		metrics.BatchItemsTotal.WithLabelValues("queue", "failed").Inc()
		logger.Warn(it.ctx, "queued item failed", "error", err.Error())
		it.complete(entity.FallbackHumanizationResult(it.text, err), nil)
		return
	}
	metrics.BatchItemsTotal.WithLabelValues("queue", "ok").Inc()
	it.complete(res, nil)
}
