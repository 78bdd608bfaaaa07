// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strings"

	"humanizer-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求 ID 头
	RequestIDHeader = "X-Request-ID"

	jobRoutePrefix = "/v1/jobs/"
)

// RequestID 注入请求 ID；任务查询路由额外注入任务 ID，便于按任务检索日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)

		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, requestID)
		if id := c.Param("id"); id != "" && strings.HasPrefix(c.FullPath(), jobRoutePrefix) {
			c.Set("job_id", id)
			ctx = logger.WithContext(ctx, logger.JobIDKey, id)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
