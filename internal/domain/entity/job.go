package entity

import (
	"time"
)

// JobStatus 任务状态
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// HumanizeJob 异步改写任务
type HumanizeJob struct {
	ID           string              `json:"id"`
	Status       JobStatus           `json:"status"`
	Text         string              `json:"text,omitempty"`
	Settings     Settings            `json:"settings"`
	Result       *HumanizationResult `json:"result,omitempty"`
	Analysis     *DetectionResult    `json:"analysis,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	RetryCount   int                 `json:"retry_count"`
	DurationMs   int                 `json:"duration_ms,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	StartedAt    *time.Time          `json:"started_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}

// NewHumanizeJob 创建新任务
func NewHumanizeJob(id, text string, settings Settings) *HumanizeJob {
	return &HumanizeJob{
		ID:        id,
		Status:    JobStatusPending,
		Text:      text,
		Settings:  settings,
		CreatedAt: time.Now(),
	}
}

// Start 开始执行任务
func (j *HumanizeJob) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
}

// Complete 完成任务
func (j *HumanizeJob) Complete(result *HumanizationResult, analysis *DetectionResult) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.Result = result
	j.Analysis = analysis
	j.CompletedAt = &now
	j.Text = ""
	if j.StartedAt != nil {
		j.DurationMs = int(now.Sub(*j.StartedAt).Milliseconds())
	}
}

// Fail 任务失败
func (j *HumanizeJob) Fail(errMsg string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.CompletedAt = &now
	if j.StartedAt != nil {
		j.DurationMs = int(now.Sub(*j.StartedAt).Milliseconds())
	}
}

// Done 任务是否已结束
func (j *HumanizeJob) Done() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
