package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"humanizer-api/internal/domain/entity"
	apperrors "humanizer-api/pkg/errors"
	"humanizer-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecoveryWritesErrorEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Error   struct {
			ErrorCode string `json:"error_code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Code != http.StatusInternalServerError || body.Error.ErrorCode != string(apperrors.CodeInternalError) {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Message != apperrors.ErrInternalError.Message {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestRecoveryKeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("after write")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))
	if w.Code != http.StatusAccepted || w.Body.String() != "partial" {
		t.Fatalf("written response must not be overwritten, got %d %q", w.Code, w.Body.String())
	}
}

func TestRequestIDAddsJobIDOnJobRoutes(t *testing.T) {
	var jobID, requestID any
	var ginJobID string
	r := gin.New()
	r.Use(RequestID())
	capture := func(c *gin.Context) {
		jobID = c.Request.Context().Value(logger.JobIDKey)
		requestID = c.Request.Context().Value(logger.RequestIDKey)
		ginJobID = c.GetString("job_id")
	}
	r.GET("/v1/jobs/:id", capture)
	r.GET("/v1/other/:id", capture)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/abc-123", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if jobID != "abc-123" || ginJobID != "abc-123" {
		t.Fatalf("job id not propagated: ctx=%v gin=%q", jobID, ginJobID)
	}
	if requestID != "req-1" || w.Header().Get(RequestIDHeader) != "req-1" {
		t.Fatalf("request id not propagated: %v", requestID)
	}

	jobID = nil
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/other/abc-123", nil))
	if jobID != nil {
		t.Fatalf("non-job routes must not carry a job id, got %v", jobID)
	}
	if id, _ := requestID.(string); id == "" || w.Header().Get(RequestIDHeader) != id {
		t.Fatalf("expected a generated request id, got %v", requestID)
	}
}

func TestSettingsAttributes(t *testing.T) {
	s := entity.DefaultSettings()
	s.CreativityLevel = 9
	attrs := SettingsAttributes(s)
	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[string(a.Key)] = a.Value.Emit()
	}
	if got["settings.creativity"] != "9" || got["settings.tone"] != string(entity.ToneNeutral) {
		t.Fatalf("unexpected attributes: %v", got)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(got))
	}
}
