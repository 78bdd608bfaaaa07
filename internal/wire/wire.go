//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"humanizer-api/internal/config"
	"humanizer-api/internal/interfaces/http/handler"
	"humanizer-api/internal/interfaces/http/router"
)

// CoreSet 引擎与 Redis 基础设施
var CoreSet = wire.NewSet(
	ProvideResilienceExecutor,
	ProvideRules,
	ProvidePipeline,
	ProvideAnalyzer,
	ProvideEngine,
	ProvideJobStore,
	ProvideProducer,
	ProvideJobService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideRateLimiter,
	ProvideHealthHandler,
	ProvideHumanizeHandler,
	handler.NewAnalyzeHandler,
	handler.NewJobHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化 API 网关（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		ProvideRedisClient,
		CoreSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化任务执行器
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		ProvideRequiredRedisClient,
		CoreSet,
		ProvideConsumers,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}
