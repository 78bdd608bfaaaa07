// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"runtime/debug"

	"humanizer-api/internal/interfaces/http/dto"
	apperrors "humanizer-api/pkg/errors"
	"humanizer-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获 panic，按统一错误结构返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", r),
					"stack", string(debug.Stack()),
					"route", c.FullPath(),
					"method", c.Request.Method,
				)

				// 已经开始写响应时只能中断
				if !c.Writer.Written() {
					dto.FromError(c, apperrors.ErrInternalError)
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
