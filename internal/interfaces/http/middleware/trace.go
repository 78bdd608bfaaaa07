// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"

	"humanizer-api/internal/domain/entity"
	"humanizer-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Trace OpenTelemetry 追踪中间件
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceContext 把 trace_id 注入日志上下文，并给 span 补上路由与请求 ID
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if sc := span.SpanContext(); sc.IsValid() {
			traceID := sc.TraceID().String()
			spanID := sc.SpanID().String()
			c.Set("trace_id", traceID)
			c.Set("span_id", spanID)

			ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
			c.Request = c.Request.WithContext(ctx)
			c.Header("X-Trace-ID", traceID)

			span.SetAttributes(
				attribute.String("http.route", c.FullPath()),
				attribute.String("request.id", c.GetString("request_id")),
			)
			if id := c.GetString("job_id"); id != "" {
				span.SetAttributes(attribute.String("job.id", id))
			}
		}

		c.Next()
	}
}

// SettingsAttributes 改写参数中影响结果的字段
func SettingsAttributes(s entity.Settings) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("settings.tone", string(s.Tone)),
		attribute.Int("settings.formality", s.FormalityLevel),
		attribute.Int("settings.creativity", s.CreativityLevel),
		attribute.Int("settings.avoidance", s.AIDetectionAvoidance),
		attribute.Bool("settings.preserve_structure", s.PreserveStructure),
	}
}

// SetSettingsAttributes 把改写参数记到当前请求的 span 上
func SetSettingsAttributes(ctx context.Context, s entity.Settings) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(SettingsAttributes(s)...)
}
