package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *Handlers) {
	humanize := v1.Group("/humanize")
	{
		humanize.POST("", h.Humanize.Humanize)
		humanize.POST("/batch", h.Humanize.Batch)
		humanize.POST("/queued", h.Humanize.Queued)
		humanize.POST("/loop", h.Humanize.Loop)
	}

	v1.POST("/analyze", h.Analyze.Analyze)

	jobs := v1.Group("/jobs")
	{
		jobs.POST("/humanize", h.Job.SubmitHumanize)
		jobs.GET("/:id", h.Job.GetJob)
	}
}
