// Package engine 组合改写流水线、检测评分、结果缓存与调度器
package engine

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"humanizer-api/internal/application/detection"
	"humanizer-api/internal/application/humanize"
	"humanizer-api/internal/application/resultcache"
	"humanizer-api/internal/application/scheduler"
	"humanizer-api/internal/domain/entity"
	"humanizer-api/pkg/metrics"
	"humanizer-api/pkg/tracer"
)

const (
	humanizeCacheName = "humanize"
	analyzeCacheName  = "analyze"
)

// Config 引擎配置
type Config struct {
	Cache     resultcache.Config
	Scheduler scheduler.Config
}

// DefaultConfig 默认引擎配置
func DefaultConfig() Config {
	return Config{
		Cache:     resultcache.DefaultConfig(),
		Scheduler: scheduler.DefaultConfig(),
	}
}

type options struct {
	humanizeStore resultcache.Store[*entity.HumanizationResult]
	analyzeStore  resultcache.Store[*entity.DetectionResult]
}

// Option 引擎选项
type Option func(*options)

// WithHumanizeStore 改写结果的二级存储
func WithHumanizeStore(s resultcache.Store[*entity.HumanizationResult]) Option {
	return func(o *options) {
		o.humanizeStore = s
	}
}

// WithAnalyzeStore 检测结果的二级存储
func WithAnalyzeStore(s resultcache.Store[*entity.DetectionResult]) Option {
	return func(o *options) {
		o.analyzeStore = s
	}
}

// Engine 对外接口，持有缓存与队列状态
type Engine struct {
	pipeline      *humanize.Pipeline
	analyzer      *detection.Analyzer
	humanizeCache *resultcache.Cache[*entity.HumanizationResult]
	analyzeCache  *resultcache.Cache[*entity.DetectionResult]
	batcher       *scheduler.Batcher
	queue         *scheduler.Queue
}

// New 创建引擎
func New(p *humanize.Pipeline, a *detection.Analyzer, cfg Config, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var hopts []resultcache.Option[*entity.HumanizationResult]
	if o.humanizeStore != nil {
		hopts = append(hopts, resultcache.WithStore(o.humanizeStore))
	}
	var aopts []resultcache.Option[*entity.DetectionResult]
	if o.analyzeStore != nil {
		aopts = append(aopts, resultcache.WithStore(o.analyzeStore))
	}

	e := &Engine{
		pipeline:      p,
		analyzer:      a,
		humanizeCache: resultcache.New(humanizeCacheName, cfg.Cache, hopts...),
		analyzeCache:  resultcache.New(analyzeCacheName, cfg.Cache, aopts...),
	}
	e.batcher = scheduler.NewBatcher(e.Humanize, cfg.Scheduler)
	e.queue = scheduler.NewQueue(e.Humanize, cfg.Scheduler)
	return e
}

// Humanize 改写文本，命中缓存时返回副本并重新计时
func (e *Engine) Humanize(ctx context.Context, text string, settings entity.Settings) (*entity.HumanizationResult, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "engine.Humanize", trace.WithAttributes(attribute.Int("text.length", len(text))))
	defer span.End()

	if strings.TrimSpace(text) == "" {
		metrics.HumanizeTotal.WithLabelValues("empty").Inc()
		res := entity.EmptyHumanizationResult()
		res.ProcessingTime = time.Since(start)
		return res, nil
	}

	settings = settings.Normalize()
	key := e.humanizeCache.Key(text, settings)
	res, hit, err := e.humanizeCache.GetOrCompute(ctx, key, func(ctx context.Context) (*entity.HumanizationResult, error) {
		return e.pipeline.Humanize(ctx, text, settings)
	})
	if err != nil {
		metrics.HumanizeTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := res.Clone()
	status := "ok"
	if hit {
		status = "cached"
		out.ProcessingTime = time.Since(start)
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit))
	metrics.HumanizeTotal.WithLabelValues(status).Inc()
	metrics.HumanizeDuration.Observe(time.Since(start).Seconds())
	return out, nil
}

// Analyze 评估文本，不会失败
func (e *Engine) Analyze(ctx context.Context, text string) *entity.DetectionResult {
	ctx, span := tracer.Start(ctx, "engine.Analyze", trace.WithAttributes(attribute.Int("text.length", len(text))))
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return entity.EmptyDetectionResult()
	}

	res, hit, _ := e.analyzeCache.GetOrCompute(ctx, resultcache.Digest(text), func(context.Context) (*entity.DetectionResult, error) {
		return e.analyzer.Analyze(text), nil
	})
	if res == nil {
		res = e.analyzer.Analyze(text)
	}

	span.SetAttributes(
		attribute.Bool("cache.hit", hit),
		attribute.Float64("ai.score", res.AIDetectionScore),
	)
	metrics.AnalyzeTotal.WithLabelValues(string(res.RiskLevel)).Inc()
	metrics.AIScore.Observe(res.AIDetectionScore)
	return res.Clone()
}

// HumanizeBatch 批量改写，结果与输入一一对应
func (e *Engine) HumanizeBatch(ctx context.Context, texts []string, settings entity.Settings) []*entity.HumanizationResult {
	return e.batcher.HumanizeBatch(ctx, texts, settings)
}

// HumanizeQueued 经防抖队列改写
func (e *Engine) HumanizeQueued(ctx context.Context, text string, settings entity.Settings) (*entity.HumanizationResult, error) {
	return e.queue.HumanizeQueued(ctx, text, settings)
}

// Shutdown 关闭队列，等待中的请求以降级结果返回
func (e *Engine) Shutdown() {
	e.queue.Shutdown()
}
