package handler

import (
	"github.com/gin-gonic/gin"

	"humanizer-api/internal/application/jobs"
	"humanizer-api/internal/interfaces/http/dto"
	"humanizer-api/internal/interfaces/http/middleware"
	"humanizer-api/pkg/logger"
)

// JobHandler 异步任务处理器
type JobHandler struct {
	jobs *jobs.Service
}

// NewJobHandler 创建任务处理器
func NewJobHandler(svc *jobs.Service) *JobHandler {
	return &JobHandler{jobs: svc}
}

// SubmitHumanize 提交异步改写任务
// @Summary 提交改写任务
// @Tags Jobs
// @Accept json
// @Produce json
// @Param body body dto.HumanizeRequest true "改写请求"
// @Success 202 {object} dto.Response[dto.SubmitJobResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/jobs/humanize [post]
func (h *JobHandler) SubmitHumanize(c *gin.Context) {
	if h.jobs == nil {
		dto.ServiceUnavailable(c, "job queue not configured")
		return
	}
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
	job, err := h.jobs.Submit(ctx, req.Text, settings)
	if err != nil {
		logger.Error(ctx, "failed to submit job", err)
		dto.FromError(c, err)
		return
	}
	dto.Accepted(c, dto.SubmitJobResponse{
		JobID:     job.ID,
		Status:    job.Status,
		StatusURL: "/v1/jobs/" + job.ID,
	})
}

// GetJob 获取任务详情
// @Summary 获取任务详情
// @Tags Jobs
// @Produce json
// @Param id path string true "任务 ID"
// @Success 200 {object} dto.Response[dto.JobResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	if h.jobs == nil {
		dto.ServiceUnavailable(c, "job queue not configured")
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), dto.BindJobID(c))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ToJobResponse(job))
}
