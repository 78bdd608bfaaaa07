package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"humanizer-api/internal/domain/entity"
	"humanizer-api/pkg/logger"
	"humanizer-api/pkg/metrics"
)

// Batcher 分块并发执行，块与块之间串行
type Batcher struct {
	fn  HumanizeFunc
	cfg Config
}

// NewBatcher 创建批量调度器
func NewBatcher(fn HumanizeFunc, cfg Config) *Batcher {
	return &Batcher{fn: fn, cfg: cfg.normalize()}
}

// HumanizeBatch 按输入顺序返回结果，失败项替换为降级结果
func (b *Batcher) HumanizeBatch(ctx context.Context, texts []string, settings entity.Settings) []*entity.HumanizationResult {
	results := make([]*entity.HumanizationResult, len(texts))
	if len(texts) == 0 {
		return results
	}

	ctx, cancel := withTimeout(ctx, b.cfg.BatchTimeout)
	defer cancel()

	failed := 0
	for start := 0; start < len(texts); start += b.cfg.BatchSize {
		end := min(start+b.cfg.BatchSize, len(texts))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = b.run(ctx, texts[i], settings)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results[start:end] {
			if r.Failed() {
				failed++
			}
		}
	}

	logger.Info(ctx, "batch humanize finished", "items", len(texts), "failed", failed)
	return results
}

func (b *Batcher) run(ctx context.Context, text string, settings entity.Settings) *entity.HumanizationResult {
	if err := ctx.Err(); err != nil {
		metrics.BatchItemsTotal.WithLabelValues("batch", "expired").Inc()
		return entity.FallbackHumanizationResult(text, err)
	}

	res, err := b.fn(ctx, text, settings)
	if err != nil {
		metrics.BatchItemsTotal.WithLabelValues("batch", "failed").Inc()
		logger.Warn(ctx, "batch item failed", "error", err.Error())
		return entity.FallbackHumanizationResult(text, err)
	}
	metrics.BatchItemsTotal.WithLabelValues("batch", "ok").Inc()
	return res
}
