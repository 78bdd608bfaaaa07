package wire

import (
	"context"
	"errors"
	"fmt"
	"os"

	"humanizer-api/internal/application/detection"
	"humanizer-api/internal/application/engine"
	"humanizer-api/internal/application/humanize"
	"humanizer-api/internal/application/jobs"
	"humanizer-api/internal/application/resultcache"
	"humanizer-api/internal/application/rules"
	"humanizer-api/internal/application/scheduler"
	"humanizer-api/internal/config"
	"humanizer-api/internal/domain/entity"
	"humanizer-api/internal/infrastructure/messaging"
	"humanizer-api/internal/infrastructure/persistence/redis"
	"humanizer-api/internal/infrastructure/resilience"
	"humanizer-api/internal/interfaces/http/handler"
	"humanizer-api/internal/interfaces/http/middleware"
	"humanizer-api/pkg/logger"
)

// ErrRedisRequired 任务执行器必须连接 Redis
var ErrRedisRequired = errors.New("redis is required: set cache.redis.enabled")

// Worker 任务执行器依赖容器
type Worker struct {
	Consumers []*messaging.Consumer
	Jobs      *jobs.Service
	Engine    *engine.Engine
}

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, running with in-process cache only")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRequiredRedisClient 提供 Redis 客户端，未启用时报错
func ProvideRequiredRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, nil, ErrRedisRequired
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideResilienceExecutor 提供 Redis 调用的重试熔断执行器
func ProvideResilienceExecutor(cfg *config.Config) *resilience.Executor {
	r := cfg.Resilience
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    r.RetryMaxAttempts,
		RetryInitialBackoff: r.RetryInitialBackoff,
		RetryMaxBackoff:     r.RetryMaxBackoff,
		BreakerEnabled:      r.BreakerEnabled,
		BreakerMinRequests:  r.BreakerMinRequests,
		BreakerFailureRatio: r.BreakerFailureRatio,
		BreakerOpenTimeout:  r.BreakerOpenTimeout,
	})
}

// ProvideRules 提供规则表，配置了覆盖文件时合并到内置规则
func ProvideRules(cfg *config.Config) (*rules.Tables, error) {
	if cfg.Humanizer.RulesFile == "" {
		return rules.Default(), nil
	}
	t, err := rules.LoadFile(cfg.Humanizer.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules file: %w", err)
	}
	return t, nil
}

// ProvidePipeline 提供改写流水线
func ProvidePipeline(cfg *config.Config, tables *rules.Tables) *humanize.Pipeline {
	opts := []humanize.Option{humanize.WithRules(tables)}
	if cfg.Humanizer.DefaultSeed != 0 {
		opts = append(opts, humanize.WithSeed(cfg.Humanizer.DefaultSeed))
	}
	return humanize.NewPipeline(opts...)
}

// ProvideAnalyzer 提供检测器，配置中的非零阈值覆盖默认值
func ProvideAnalyzer(cfg *config.Config, tables *rules.Tables) *detection.Analyzer {
	th := detection.DefaultThresholds()
	d := cfg.Detection
	if d.HighRisk > 0 {
		th.HighRisk = d.HighRisk
	}
	if d.MediumRisk > 0 {
		th.MediumRisk = d.MediumRisk
	}
	if d.PatternMatchPoints > 0 {
		th.PatternMatchPoints = d.PatternMatchPoints
	}
	if d.FormalDensity > 0 {
		th.FormalDensity = d.FormalDensity
	}
	if d.HumanSignatureMin > 0 {
		th.HumanSignatureMin = d.HumanSignatureMin
	}
	if d.HumanSignatureMinSentences > 0 {
		th.HumanSignatureMinSentences = d.HumanSignatureMinSentences
	}
	if d.NGramSize > 0 {
		th.NGramSize = d.NGramSize
	}
	return detection.NewAnalyzer(tables, th)
}

// ProvideEngine 提供引擎；Redis 可用时挂载二级结果存储
func ProvideEngine(cfg *config.Config, p *humanize.Pipeline, a *detection.Analyzer, client *redis.Client, exec *resilience.Executor) (*engine.Engine, func()) {
	ecfg := engine.Config{
		Cache: resultcache.Config{
			TTL:         cfg.Cache.Memory.TTL,
			MaxSize:     cfg.Cache.Memory.MaxSize,
			PrefixRunes: cfg.Cache.Memory.KeyPrefixRunes,
		},
		Scheduler: scheduler.Config{
			BatchSize:    cfg.Scheduler.BatchSize,
			Debounce:     cfg.Scheduler.Debounce,
			BatchTimeout: cfg.Scheduler.BatchTimeout,
			QueueTimeout: cfg.Scheduler.QueueTimeout,
		},
	}

	var opts []engine.Option
	if client != nil {
		opts = append(opts,
			engine.WithHumanizeStore(redis.NewResultStore[*entity.HumanizationResult](client, exec, "humanize")),
			engine.WithAnalyzeStore(redis.NewResultStore[*entity.DetectionResult](client, exec, "analyze")),
		)
	}

	e := engine.New(p, a, ecfg, opts...)
	return e, e.Shutdown
}

// ProvideRateLimiter Redis 可用时使用滑动窗口，否则使用进程内令牌桶
func ProvideRateLimiter(cfg *config.Config, client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return middleware.NewLocalRateLimiter(cfg.Security.RateLimit.Burst)
	}
	return redis.NewRateLimiter(client)
}

func jobStream(cfg *config.Config) messaging.Stream {
	if cfg.Messaging.Jobs.Stream != "" {
		return messaging.Stream(cfg.Messaging.Jobs.Stream)
	}
	return messaging.StreamHumanizeJobs
}

// ProvideProducer 提供任务生产者，Redis 未启用时返回 nil
func ProvideProducer(cfg *config.Config, client *redis.Client) *messaging.Producer {
	if client == nil {
		return nil
	}
	return messaging.NewProducer(client.Redis(), jobStream(cfg), int64(cfg.Messaging.RedisStream.MaxLen))
}

// ProvideJobStore 提供任务存储，Redis 未启用时返回 nil
func ProvideJobStore(cfg *config.Config, client *redis.Client, exec *resilience.Executor) *redis.JobStore {
	if client == nil {
		return nil
	}
	return redis.NewJobStore(client, exec, cfg.Messaging.Jobs.ResultTTL)
}

// ProvideJobService 提供任务服务，存储不可用时返回 nil
func ProvideJobService(store *redis.JobStore, producer *messaging.Producer, e *engine.Engine) *jobs.Service {
	if store == nil {
		return nil
	}
	var pub jobs.Publisher
	if producer != nil {
		pub = producer
	}
	return jobs.NewService(store, pub, e)
}

// ProvideConsumers 按 workers 数量创建同组消费者
func ProvideConsumers(cfg *config.Config, client *redis.Client) []*messaging.Consumer {
	rs := cfg.Messaging.RedisStream
	group := messaging.ConsumerGroup(cfg.Messaging.Jobs.Group)
	if group == "" {
		group = messaging.ConsumerGroupHumanizeWorker
	}
	if rs.ConsumerGroupPrefix != "" {
		group = messaging.ConsumerGroup(rs.ConsumerGroupPrefix) + group
	}

	n := max(cfg.Messaging.Jobs.Workers, 1)
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "job-worker"
	}

	consumers := make([]*messaging.Consumer, 0, n)
	for i := range n {
		consumers = append(consumers, messaging.NewConsumer(client.Redis(), messaging.ConsumerConfig{
			Stream:        jobStream(cfg),
			Group:         group,
			ConsumerName:  fmt.Sprintf("%s-%d-%d", host, os.Getpid(), i),
			BlockTimeout:  rs.BlockTimeout,
			ClaimInterval: rs.ClaimInterval,
			ProcessLimit:  cfg.Messaging.Jobs.ProcessLimit,
			RetryLimit:    rs.RetryLimit,
			Backoff: messaging.BackoffConfig{
				Initial:    rs.RetryBackoff.Initial,
				Max:        rs.RetryBackoff.Max,
				Multiplier: rs.RetryBackoff.Multiplier,
			},
		}))
	}
	return consumers
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, client *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(client, cfg.App.Version)
}

// ProvideHumanizeHandler 提供改写处理器
func ProvideHumanizeHandler(cfg *config.Config, e *engine.Engine) *handler.HumanizeHandler {
	return handler.NewHumanizeHandler(e, cfg.Server.HTTP.MaxBatchSize)
}
