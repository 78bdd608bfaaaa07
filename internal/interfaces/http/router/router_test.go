package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"humanizer-api/internal/application/detection"
	"humanizer-api/internal/application/engine"
	"humanizer-api/internal/application/humanize"
	"humanizer-api/internal/application/jobs"
	"humanizer-api/internal/config"
	"humanizer-api/internal/domain/entity"
	"humanizer-api/internal/interfaces/http/handler"
	"humanizer-api/internal/interfaces/http/middleware"
	apperrors "humanizer-api/pkg/errors"
)

const machineText = "Furthermore, the implementation demonstrates significant improvements. Additionally, the analysis reveals optimal performance. Moreover, the results indicate enhanced efficiency."

type memJobStore struct {
	mu   sync.Mutex
	jobs map[string]entity.HumanizeJob
}

func (m *memJobStore) Save(_ context.Context, job *entity.HumanizeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memJobStore) Get(_ context.Context, id string) (*entity.HumanizeJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound.WithDetail(id)
	}
	return &job, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishHumanizeJob(context.Context, *entity.HumanizeJob) (string, error) {
	return "1-0", nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		ErrorCode string `json:"error_code"`
		Details   string `json:"details"`
	} `json:"error"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "humanizer-api"
	cfg.App.Env = "test"
	cfg.Server.HTTP.MaxBodyBytes = 4096
	cfg.Server.HTTP.MaxBatchSize = 3
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := engine.New(
		humanize.NewPipeline(humanize.WithSeed(5)),
		detection.NewAnalyzer(nil, detection.DefaultThresholds()),
		engine.DefaultConfig(),
	)
	t.Cleanup(e.Shutdown)

	svc := jobs.NewService(&memJobStore{jobs: make(map[string]entity.HumanizeJob)}, nopPublisher{}, e)
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(nil, "test"),
		Humanize: handler.NewHumanizeHandler(e, cfg.Server.HTTP.MaxBatchSize),
		Analyze:  handler.NewAnalyzeHandler(e),
		Job:      handler.NewJobHandler(svc),
	}
	limiter := middleware.NewLocalRateLimiter(cfg.Security.RateLimit.Burst)
	return New(cfg, handlers, limiter).Engine()
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t, testConfig())
	for _, path := range []string{"/health", "/live", "/ready"} {
		w, _ := do(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, w.Code, w.Body.String())
		}
	}
	w, _ := do(t, r, http.MethodGet, "/health", nil)
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestHumanizeEndpoint(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w, env := do(t, r, http.MethodPost, "/v1/humanize", map[string]any{"text": machineText})
	if w.Code != http.StatusOK || env.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Text              string   `json:"text"`
		Confidence        float64  `json:"confidence"`
		DetectionRisk     string   `json:"detectionRisk"`
		AppliedTechniques []string `json:"appliedTechniques"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Text == "" || res.DetectionRisk == "" || res.AppliedTechniques == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHumanizeRejectsUnknownEnum(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w, env := do(t, r, http.MethodPost, "/v1/humanize", map[string]any{
		"text":     machineText,
		"settings": map[string]any{"tone": "sarcastic"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if env.Error.ErrorCode != string(apperrors.CodeInvalidParam) || !strings.Contains(env.Error.Details, "sarcastic") {
		t.Fatalf("unexpected error body: %s", w.Body.String())
	}
}

func TestHumanizeRejectsMalformedBody(t *testing.T) {
	r := newTestRouter(t, testConfig())
	w, _ := do(t, r, http.MethodPost, "/v1/humanize", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	r := newTestRouter(t, testConfig())
	w, _ := do(t, r, http.MethodPost, "/v1/humanize", map[string]any{"text": strings.Repeat("word ", 2000)})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w, env := do(t, r, http.MethodPost, "/v1/analyze", map[string]any{"text": machineText})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res entity.DetectionResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if res.RiskLevel != entity.RiskHigh || res.Stats.Sentences != 3 {
		t.Fatalf("unexpected analysis: %+v", res)
	}
}

func TestBatchEndpoint(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w, env := do(t, r, http.MethodPost, "/v1/humanize/batch", map[string]any{"texts": []string{machineText, "", "Short one."}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res handler.BatchResponse
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if len(res.Results) != 3 || res.Failed != 0 {
		t.Fatalf("unexpected batch response: %+v", res)
	}

	w, env = do(t, r, http.MethodPost, "/v1/humanize/batch", map[string]any{"texts": []string{"a", "b", "c", "d"}})
	if w.Code != http.StatusBadRequest || env.Error.ErrorCode != string(apperrors.CodeInvalidParam) {
		t.Fatalf("expected oversize batch rejected, got %d: %s", w.Code, w.Body.String())
	}
}

func TestQueuedAndLoopEndpoints(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w, _ := do(t, r, http.MethodPost, "/v1/humanize/queued", map[string]any{"text": machineText})
	if w.Code != http.StatusOK {
		t.Fatalf("queued: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w, env := do(t, r, http.MethodPost, "/v1/humanize/loop", map[string]any{"text": machineText, "max_rounds": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("loop: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res engine.LoopResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode loop: %v", err)
	}
	if res.Initial == nil || res.Final == nil || len(res.Rounds) > 2 {
		t.Fatalf("unexpected loop result: %+v", res)
	}

	w, _ = do(t, r, http.MethodPost, "/v1/humanize/loop", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("loop without text: expected 400, got %d", w.Code)
	}
}

func TestJobEndpoints(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w, env := do(t, r, http.MethodPost, "/v1/jobs/humanize", map[string]any{"text": machineText})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var submitted struct {
		JobID     string `json:"job_id"`
		Status    string `json:"status"`
		StatusURL string `json:"status_url"`
	}
	if err := json.Unmarshal(env.Data, &submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}
	if submitted.JobID == "" || submitted.Status != string(entity.JobStatusPending) {
		t.Fatalf("unexpected submit response: %+v", submitted)
	}

	w, env = do(t, r, http.MethodGet, submitted.StatusURL, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(string(env.Data), submitted.JobID) {
		t.Fatalf("job response missing id: %s", env.Data)
	}

	w, env = do(t, r, http.MethodGet, "/v1/jobs/missing", nil)
	if w.Code != http.StatusNotFound || env.Error.ErrorCode != string(apperrors.CodeJobNotFound) {
		t.Fatalf("expected 404 job not found, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RequestsPerSecond = 1
	cfg.Security.RateLimit.Burst = 1
	r := newTestRouter(t, cfg)

	w, _ := do(t, r, http.MethodPost, "/v1/analyze", map[string]any{"text": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}
	w, _ = do(t, r, http.MethodPost, "/v1/analyze", map[string]any{"text": "hello"})
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("second request: expected 429, got %d", w.Code)
	}
	w, _ = do(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("system endpoints are not rate limited, got %d", w.Code)
	}
}
