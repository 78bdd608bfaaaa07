// Package main 异步改写任务执行器入口（job-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"humanizer-api/internal/application/jobs"
	"humanizer-api/internal/config"
	"humanizer-api/internal/infrastructure/messaging"
	"humanizer-api/internal/wire"
	"humanizer-api/pkg/logger"
	"humanizer-api/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "job-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	worker, cleanup, err := wire.InitializeWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	handle := humanizeHandler(worker.Jobs)
	for _, consumer := range worker.Consumers {
		consumer.RegisterHandler(messaging.TypeHumanize, handle)
		if err := consumer.Start(ctx); err != nil {
			logger.Fatal(ctx, "failed to start consumer", err)
		}
	}
	if len(worker.Consumers) > 0 {
		go worker.Consumers[0].MonitorDLQ(ctx, time.Minute, 0)
	}

	logger.Info(ctx, "job-worker started", "consumers", len(worker.Consumers))
	<-ctx.Done()

	logger.Info(context.Background(), "job-worker shutting down")
	for _, consumer := range worker.Consumers {
		consumer.Stop()
	}
}

// humanizeHandler 解析任务载荷并交给任务服务执行
func humanizeHandler(svc *jobs.Service) messaging.MessageHandler {
	return func(ctx context.Context, msg *messaging.Message) error {
		var payload messaging.HumanizeJobMessage
		if err := msg.UnmarshalPayload(&payload); err != nil {
			return err
		}
		if payload.JobID == "" {
			payload.JobID = msg.ID
		}
		return svc.Process(ctx, payload.JobID, payload.Text, payload.Settings)
	}
}
