// Package jobs 异步改写任务的提交、执行与查询
package jobs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"humanizer-api/internal/domain/entity"
	apperrors "humanizer-api/pkg/errors"
	"humanizer-api/pkg/logger"
)

// Store 任务快照存储
type Store interface {
	Save(ctx context.Context, job *entity.HumanizeJob) error
	Get(ctx context.Context, id string) (*entity.HumanizeJob, error)
}

// Publisher 任务投递
type Publisher interface {
	PublishHumanizeJob(ctx context.Context, job *entity.HumanizeJob) (string, error)
}

// Humanizer 任务执行所需的引擎能力
type Humanizer interface {
	HumanizeQueued(ctx context.Context, text string, settings entity.Settings) (*entity.HumanizationResult, error)
	Analyze(ctx context.Context, text string) *entity.DetectionResult
}

// Service 任务服务
type Service struct {
	store     Store
	publisher Publisher
	engine    Humanizer
}

// NewService 创建任务服务；只提交任务时 engine 可为 nil，只执行任务时 publisher 可为 nil
func NewService(store Store, publisher Publisher, engine Humanizer) *Service {
	return &Service{store: store, publisher: publisher, engine: engine}
}

// Submit 保存 pending 任务并投递到任务流
func (s *Service) Submit(ctx context.Context, text string, settings entity.Settings) (*entity.HumanizeJob, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("text is required")
	}
	if s.publisher == nil {
		return nil, apperrors.ErrServiceUnavailable.WithDetail("job queue not configured")
	}

	job := entity.NewHumanizeJob(uuid.NewString(), text, settings.Normalize())
	ctx = logger.WithContext(ctx, logger.JobIDKey, job.ID)

	if err := s.store.Save(ctx, job); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "save job failed")
	}
	if _, err := s.publisher.PublishHumanizeJob(ctx, job); err != nil {
		job.Fail("enqueue failed")
		if saveErr := s.store.Save(ctx, job); saveErr != nil {
			logger.Error(ctx, "failed to mark job as failed", saveErr)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeMessagingError, "publish job failed")
	}

	logger.Info(ctx, "humanize job submitted", "text_length", len(text))
	return job, nil
}

// Get 查询任务
func (s *Service) Get(ctx context.Context, id string) (*entity.HumanizeJob, error) {
	return s.store.Get(ctx, id)
}

// Process 执行一条任务；返回错误时消息保留等待重投
func (s *Service) Process(ctx context.Context, jobID, text string, settings entity.Settings) error {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrJobNotFound) {
			return err
		}
		// 快照过期时按消息内容重建
		job = entity.NewHumanizeJob(jobID, text, settings)
	}
	if job.Done() {
		logger.Debug(ctx, "job already finished, skipping", "status", job.Status)
		return nil
	}

	if job.Status == entity.JobStatusRunning {
		job.RetryCount++
	}
	job.Start()
	if err := s.store.Save(ctx, job); err != nil {
		return err
	}

	res, err := s.engine.HumanizeQueued(ctx, text, settings)
	if err != nil {
		return err
	}

	if res.Failed() {
		job.Fail(strings.TrimPrefix(res.AppliedTechniques[0], entity.ErrorTechniquePrefix))
		logger.Warn(ctx, "humanize job failed", "reason", job.ErrorMessage)
	} else {
		job.Complete(res, s.engine.Analyze(ctx, res.Text))
		logger.Info(ctx, "humanize job completed", "confidence", res.Confidence, "duration_ms", job.DurationMs)
	}
	return s.store.Save(ctx, job)
}
