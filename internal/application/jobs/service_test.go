package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"humanizer-api/internal/domain/entity"
	apperrors "humanizer-api/pkg/errors"
)

type memStore struct {
	mu   sync.Mutex
	jobs map[string]entity.HumanizeJob
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[string]entity.HumanizeJob)}
}

func (m *memStore) Save(_ context.Context, job *entity.HumanizeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*entity.HumanizeJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound.WithDetail(id)
	}
	return &job, nil
}

type recordingPublisher struct {
	published []*entity.HumanizeJob
	err       error
}

func (p *recordingPublisher) PublishHumanizeJob(_ context.Context, job *entity.HumanizeJob) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.published = append(p.published, job)
	return "1-0", nil
}

type fakeEngine struct {
	result *entity.HumanizationResult
	err    error
}

func (f *fakeEngine) HumanizeQueued(_ context.Context, text string, _ entity.Settings) (*entity.HumanizationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &entity.HumanizationResult{Text: text + "!", Confidence: 60, DetectionRisk: entity.RiskLow, AppliedTechniques: []string{"Echo"}}, nil
}

func (f *fakeEngine) Analyze(context.Context, string) *entity.DetectionResult {
	return entity.EmptyDetectionResult()
}

func TestSubmitSavesAndPublishes(t *testing.T) {
	store, pub := newMemStore(), &recordingPublisher{}
	svc := NewService(store, pub, nil)

	job, err := svc.Submit(context.Background(), "hello", entity.Settings{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.ID == "" || job.Status != entity.JobStatusPending {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.Settings.Tone != entity.ToneNeutral || job.Settings.FormalityLevel != 5 || job.Settings.SubjectArea != entity.SubjectGeneral {
		t.Fatalf("settings should be normalized, got %+v", job.Settings)
	}
	if len(pub.published) != 1 || pub.published[0].ID != job.ID {
		t.Fatalf("expected job published once")
	}
	stored, err := svc.Get(context.Background(), job.ID)
	if err != nil || stored.Status != entity.JobStatusPending {
		t.Fatalf("expected pending job in store, got %+v %v", stored, err)
	}
}

func TestSubmitRejectsBlankText(t *testing.T) {
	svc := NewService(newMemStore(), &recordingPublisher{}, nil)
	_, err := svc.Submit(context.Background(), "   ", entity.DefaultSettings())
	if !errors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("expected invalid param, got %v", err)
	}
}

func TestSubmitPublishFailureMarksJobFailed(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &recordingPublisher{err: errors.New("redis down")}, nil)

	_, err := svc.Submit(context.Background(), "hello", entity.DefaultSettings())
	if apperrors.AsAppError(err).Code != apperrors.CodeMessagingError {
		t.Fatalf("expected messaging error, got %v", err)
	}
	for _, job := range store.jobs {
		if job.Status != entity.JobStatusFailed {
			t.Fatalf("expected failed job, got %s", job.Status)
		}
	}
}

func TestProcessCompletesJob(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil, &fakeEngine{})
	ctx := context.Background()

	job := entity.NewHumanizeJob("job-1", "hello", entity.DefaultSettings())
	_ = store.Save(ctx, job)

	if err := svc.Process(ctx, job.ID, job.Text, job.Settings); err != nil {
		t.Fatalf("process: %v", err)
	}
	got, _ := svc.Get(ctx, job.ID)
	if got.Status != entity.JobStatusCompleted || got.Result == nil || got.Result.Text != "hello!" || got.Analysis == nil {
		t.Fatalf("unexpected job: %+v", got)
	}
	if got.Text != "" {
		t.Fatalf("completed job should drop the input text")
	}

	if err := svc.Process(ctx, job.ID, job.Text, job.Settings); err != nil {
		t.Fatalf("reprocessing a finished job should be a no-op, got %v", err)
	}
}

func TestProcessFallbackMarksJobFailed(t *testing.T) {
	store := newMemStore()
	fallback := entity.FallbackHumanizationResult("hello", errors.New("boom"))
	svc := NewService(store, nil, &fakeEngine{result: fallback})

	if err := svc.Process(context.Background(), "job-2", "hello", entity.DefaultSettings()); err != nil {
		t.Fatalf("process: %v", err)
	}
	got, _ := svc.Get(context.Background(), "job-2")
	if got.Status != entity.JobStatusFailed || got.ErrorMessage != "boom" {
		t.Fatalf("unexpected job: %+v", got)
	}
}

func TestProcessErrorLeavesJobRunning(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil, &fakeEngine{err: apperrors.ErrQueueClosed})
	ctx := context.Background()

	if err := svc.Process(ctx, "job-3", "hello", entity.DefaultSettings()); !errors.Is(err, apperrors.ErrQueueClosed) {
		t.Fatalf("expected queue closed error, got %v", err)
	}
	_ = svc.Process(ctx, "job-3", "hello", entity.DefaultSettings())
	got, _ := svc.Get(ctx, "job-3")
	if got.Status != entity.JobStatusRunning || got.RetryCount != 1 {
		t.Fatalf("expected running job with one retry, got %+v", got)
	}
}
