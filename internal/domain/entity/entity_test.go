package entity

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "humanizer-api/pkg/errors"
)

func TestNormalizeClampsAndFillsDefaults(t *testing.T) {
	s := Settings{FormalityLevel: 42, CreativityLevel: -3, SubjectArea: "  Technology "}.Normalize()
	if s.FormalityLevel != 10 {
		t.Fatalf("expected formality clamped to 10, got %d", s.FormalityLevel)
	}
	if s.CreativityLevel != 1 {
		t.Fatalf("expected creativity clamped to 1, got %d", s.CreativityLevel)
	}
	if s.VocabularyComplexity != DefaultSettings().VocabularyComplexity {
		t.Fatalf("expected unset level to take the default, got %d", s.VocabularyComplexity)
	}
	if s.Tone != ToneNeutral || s.TargetAudience != AudienceGeneral || s.WritingStyle != StyleExpository {
		t.Fatalf("expected default enums, got %+v", s)
	}
	if s.SubjectArea != "technology" {
		t.Fatalf("expected normalized subject, got %q", s.SubjectArea)
	}
}

func TestValidateRejectsUnknownEnum(t *testing.T) {
	s := DefaultSettings()
	s.Tone = "sarcastic"
	err := s.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidParam {
		t.Fatalf("expected invalid param code, got %v", err)
	}
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestHumanizationResultJSONUsesMilliseconds(t *testing.T) {
	r := HumanizationResult{Text: "x", DetectionRisk: RiskLow, ProcessingTime: 1500 * time.Microsecond}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"processingTime":1.5`) {
		t.Fatalf("expected processing time in ms, got %s", data)
	}
	if !strings.Contains(string(data), `"appliedTechniques":[]`) {
		t.Fatalf("expected empty techniques array, got %s", data)
	}
}

func TestFallbackResultCarriesSentinel(t *testing.T) {
	r := FallbackHumanizationResult("b", errors.New("boom"))
	if !r.Failed() || r.Confidence != 0 || r.DetectionRisk != RiskHigh {
		t.Fatalf("unexpected fallback result: %+v", r)
	}
	if r.AppliedTechniques[0] != "Error: boom" {
		t.Fatalf("unexpected sentinel: %q", r.AppliedTechniques[0])
	}
	if EmptyHumanizationResult().Failed() {
		t.Fatalf("empty result must not look failed")
	}
}

func TestHumanizeJobLifecycle(t *testing.T) {
	job := NewHumanizeJob("job-1", "text", DefaultSettings())
	if job.Done() {
		t.Fatalf("new job must be pending")
	}
	job.Start()
	job.Complete(&HumanizationResult{Text: "out"}, nil)
	if !job.Done() || job.Status != JobStatusCompleted || job.Text != "" {
		t.Fatalf("unexpected job after completion: %+v", job)
	}
}
