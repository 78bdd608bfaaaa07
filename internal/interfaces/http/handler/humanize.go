// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"humanizer-api/internal/application/engine"
	"humanizer-api/internal/domain/entity"
	"humanizer-api/internal/interfaces/http/dto"
	"humanizer-api/internal/interfaces/http/middleware"
	"humanizer-api/pkg/logger"
)

// HumanizeHandler 改写处理器
type HumanizeHandler struct {
	engine       *engine.Engine
	maxBatchSize int
}

// NewHumanizeHandler 创建改写处理器
func NewHumanizeHandler(e *engine.Engine, maxBatchSize int) *HumanizeHandler {
	return &HumanizeHandler{engine: e, maxBatchSize: maxBatchSize}
}

// BatchResponse 批量改写响应
type BatchResponse struct {
	Results []*entity.HumanizationResult `json:"results"`
	Failed  int                          `json:"failed"`
}

// Humanize 单条改写
// @Summary 改写文本
// @Tags Humanize
// @Accept json
// @Produce json
// @Param body body dto.HumanizeRequest true "改写请求"
// @Success 200 {object} dto.Response[entity.HumanizationResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/humanize [post]
func (h *HumanizeHandler) Humanize(c *gin.Context) {
	var req dto.HumanizeRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	settings, err := req.ResolveSettings()
	if err != nil {
		dto.FromError(c, err)
		return
	}
	middleware.SetSettingsAttributes(c.Request.Context(), settings)

	ctx := c.Request.Context()
	res, err := h.engine.Humanize(ctx, req.Text, settings)
	if err != nil {
		logger.Warn(ctx, "humanize failed", "error", err)
		dto.FromError(c, err)
		return
	}
	dto.Success(c, res)
}

// Batch 批量改写，单项失败以降级结果返回
// @Summary 批量改写
// @Tags Humanize
// @Accept json
// @Produce json
// @Param body body dto.BatchHumanizeRequest true "批量请求"
// @Success 200 {object} dto.Response[BatchResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/humanize/batch [post]
func (h *HumanizeHandler) Batch(c *gin.Context) {
	var req dto.BatchHumanizeRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	settings, err := req.Validate(h.maxBatchSize)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	middleware.SetSettingsAttributes(c.Request.Context(), settings)

	results := h.engine.HumanizeBatch(c.Request.Context(), req.Texts, settings)
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	dto.Success(c, BatchResponse{Results: results, Failed: failed})
}

// Queued 经防抖队列改写
// @Summary 队列改写
// @Tags Humanize
// @Accept json
// @Produce json
// @Param body body dto.HumanizeRequest true "改写请求"
// @Success 200 {object} dto.Response[entity.HumanizationResult]
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/humanize/queued [post]
func (h *HumanizeHandler) Queued(c *gin.Context) {
	var req dto.HumanizeRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}
	settings, err := req.ResolveSettings()
	if err != nil {
		dto.FromError(c, err)
		return
	}
	middleware.SetSettingsAttributes(c.Request.Context(), settings)

	res, err := h.engine.HumanizeQueued(c.Request.Context(), req.Text, settings)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, res)
}

// Loop 改写直到检测分数低于目标
// @Summary 反馈循环改写
// @Tags Humanize
// @Accept json
// @Produce json
// @Param body body dto.HumanizeLoopRequest true "循环请求"
// @Success 200 {object} dto.Response[engine.LoopResult]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/humanize/loop [post]
func (h *HumanizeHandler) Loop(c *gin.Context) {
	var req dto.HumanizeLoopRequest
	if !bindJSON(c, &req, "text is required") {
		return
	}
	settings, err := req.ResolveSettings()
	if err != nil {
		dto.FromError(c, err)
		return
	}
	middleware.SetSettingsAttributes(c.Request.Context(), settings)

	res, err := h.engine.HumanizeUntil(c.Request.Context(), req.Text, settings, req.Options())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, res)
}
