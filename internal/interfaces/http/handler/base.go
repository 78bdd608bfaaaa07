package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"humanizer-api/internal/interfaces/http/dto"
)

// bindJSON 绑定请求体，失败时写出 400 或 413
func bindJSON(c *gin.Context, v any, message string) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		dto.Error(c, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	dto.BadRequest(c, message)
	return false
}
