package handler

import (
	"github.com/gin-gonic/gin"

	"humanizer-api/internal/application/engine"
	"humanizer-api/internal/interfaces/http/dto"
)

// AnalyzeHandler 检测处理器
type AnalyzeHandler struct {
	engine *engine.Engine
}

// NewAnalyzeHandler 创建检测处理器
func NewAnalyzeHandler(e *engine.Engine) *AnalyzeHandler {
	return &AnalyzeHandler{engine: e}
}

// Analyze 评估文本的 AI 痕迹
// @Summary 检测文本
// @Tags Analyze
// @Accept json
// @Produce json
// @Param body body dto.AnalyzeRequest true "检测请求"
// @Success 200 {object} dto.Response[entity.DetectionResult]
// @Router /v1/analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	dto.Success(c, h.engine.Analyze(c.Request.Context(), req.Text))
}
