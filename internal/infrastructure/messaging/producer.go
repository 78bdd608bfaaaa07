package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"humanizer-api/internal/domain/entity"
	"humanizer-api/pkg/logger"
	"humanizer-api/pkg/tracer"
)

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	stream Stream
	maxLen int64
}

// NewProducer 创建消息生产者，stream 为空时使用默认任务流
func NewProducer(client *redis.Client, stream Stream, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	if stream == "" {
		stream = StreamHumanizeJobs
	}
	return &Producer{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Stream 任务流名称
func (p *Producer) Stream() Stream {
	return p.stream
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishHumanizeJob 发布改写任务，附带请求与链路标识
func (p *Producer) PublishHumanizeJob(ctx context.Context, job *entity.HumanizeJob) (string, error) {
	msg, err := NewMessage(job.ID, TypeHumanize, &HumanizeJobMessage{
		JobID:    job.ID,
		Text:     job.Text,
		Settings: job.Settings,
	})
	if err != nil {
		return "", err
	}

	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok && reqID != "" {
		msg.SetMetadata(MetaRequestID, reqID)
	}
	if traceID := tracer.TraceID(ctx); traceID != "" {
		msg.SetMetadata(MetaTraceID, traceID)
	}

	return p.Publish(ctx, p.stream, msg)
}
