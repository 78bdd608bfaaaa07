// Package scheduler 提供批量与防抖队列两种调度方式，单项失败互不影响
package scheduler

import (
	"context"
	"time"

	"humanizer-api/internal/domain/entity"
)

// 默认参数
const (
	DefaultBatchSize = 5
	DefaultDebounce  = 100 * time.Millisecond
)

// HumanizeFunc 单条文本的处理函数
type HumanizeFunc func(ctx context.Context, text string, settings entity.Settings) (*entity.HumanizationResult, error)

// Config 调度配置，超时为 0 表示不限制
type Config struct {
	BatchSize    int
	Debounce     time.Duration
	BatchTimeout time.Duration
	QueueTimeout time.Duration
}

// DefaultConfig 默认调度配置
func DefaultConfig() Config {
	return Config{BatchSize: DefaultBatchSize, Debounce: DefaultDebounce}
}

func (c Config) normalize() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	return c
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
