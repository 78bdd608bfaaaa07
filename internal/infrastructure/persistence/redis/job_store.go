package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"humanizer-api/internal/domain/entity"
	"humanizer-api/internal/infrastructure/resilience"
	apperrors "humanizer-api/pkg/errors"
)

// JobStore 异步任务状态存储，键为 job:<id>
type JobStore struct {
	client *Client
	exec   *resilience.Executor
	ttl    time.Duration
}

// NewJobStore 创建任务存储
func NewJobStore(client *Client, exec *resilience.Executor, ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JobStore{client: client, exec: exec, ttl: ttl}
}

func (s *JobStore) key(id string) string {
	return s.client.Key("job", id)
}

// Save 保存任务快照并刷新过期时间
func (s *JobStore) Save(ctx context.Context, job *entity.HumanizeJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return s.exec.Execute(ctx, "redis.job.save", func(ctx context.Context) error {
		return s.client.Set(ctx, s.key(job.ID), raw, s.ttl)
	}, resilience.RedisClassifier)
}

// Get 读取任务，不存在时返回 ErrJobNotFound
func (s *JobStore) Get(ctx context.Context, id string) (*entity.HumanizeJob, error) {
	var raw []byte
	err := s.exec.Execute(ctx, "redis.job.get", func(ctx context.Context) error {
		b, err := s.client.Get(ctx, s.key(id))
		raw = b
		return err
	}, resilience.RedisClassifier)
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrJobNotFound.WithDetail(id)
	}
	if err != nil {
		return nil, err
	}

	var job entity.HumanizeJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}
