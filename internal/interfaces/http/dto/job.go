package dto

import (
	"time"

	"humanizer-api/internal/domain/entity"
)

// SubmitJobResponse 任务提交响应
type SubmitJobResponse struct {
	JobID     string           `json:"job_id"`
	Status    entity.JobStatus `json:"status"`
	StatusURL string           `json:"status_url"`
}

// JobResponse 任务响应
type JobResponse struct {
	ID           string                     `json:"id"`
	Status       entity.JobStatus           `json:"status"`
	Result       *entity.HumanizationResult `json:"result,omitempty"`
	Analysis     *entity.DetectionResult    `json:"analysis,omitempty"`
	ErrorMessage string                     `json:"error_message,omitempty"`
	RetryCount   int                        `json:"retry_count"`
	DurationMs   int                        `json:"duration_ms,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	StartedAt    *time.Time                 `json:"started_at,omitempty"`
	CompletedAt  *time.Time                 `json:"completed_at,omitempty"`
}

// ToJobResponse 将领域实体转换为响应 DTO
func ToJobResponse(j *entity.HumanizeJob) *JobResponse {
	if j == nil {
		return nil
	}
	return &JobResponse{
		ID:           j.ID,
		Status:       j.Status,
		Result:       j.Result,
		Analysis:     j.Analysis,
		ErrorMessage: j.ErrorMessage,
		RetryCount:   j.RetryCount,
		DurationMs:   j.DurationMs,
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}
