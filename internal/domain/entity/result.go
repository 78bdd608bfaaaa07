package entity

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "humanizer-api/pkg/errors"
)

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ErrorTechniquePrefix 降级结果在 AppliedTechniques 中的标记前缀
const ErrorTechniquePrefix = "Error: "

// HumanizationResult 改写结果
type HumanizationResult struct {
	Text              string        `json:"text"`
	Confidence        float64       `json:"confidence"`
	DetectionRisk     RiskLevel     `json:"detectionRisk"`
	AppliedTechniques []string      `json:"appliedTechniques"`
	ProcessingTime    time.Duration `json:"-"`
}

type humanizationResultJSON struct {
	Text              string    `json:"text"`
	Confidence        float64   `json:"confidence"`
	DetectionRisk     RiskLevel `json:"detectionRisk"`
	AppliedTechniques []string  `json:"appliedTechniques"`
	ProcessingTimeMs  float64   `json:"processingTime"`
}

// MarshalJSON ProcessingTime 以毫秒输出
func (r HumanizationResult) MarshalJSON() ([]byte, error) {
	techniques := r.AppliedTechniques
	if techniques == nil {
		techniques = []string{}
	}
	return json.Marshal(humanizationResultJSON{
		Text:              r.Text,
		Confidence:        r.Confidence,
		DetectionRisk:     r.DetectionRisk,
		AppliedTechniques: techniques,
		ProcessingTimeMs:  float64(r.ProcessingTime.Microseconds()) / 1000.0,
	})
}

// UnmarshalJSON 解析毫秒格式的 ProcessingTime
func (r *HumanizationResult) UnmarshalJSON(data []byte) error {
	var raw humanizationResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Text = raw.Text
	r.Confidence = raw.Confidence
	r.DetectionRisk = raw.DetectionRisk
	r.AppliedTechniques = raw.AppliedTechniques
	r.ProcessingTime = time.Duration(raw.ProcessingTimeMs * float64(time.Millisecond))
	return nil
}

// Clone 深拷贝结果
func (r *HumanizationResult) Clone() *HumanizationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.AppliedTechniques = append([]string(nil), r.AppliedTechniques...)
	return &out
}

// Failed 是否为降级结果
func (r *HumanizationResult) Failed() bool {
	if r == nil {
		return true
	}
	for _, t := range r.AppliedTechniques {
		if strings.HasPrefix(t, ErrorTechniquePrefix) {
			return true
		}
	}
	return false
}

// EmptyHumanizationResult 空输入的零结果
func EmptyHumanizationResult() *HumanizationResult {
	return &HumanizationResult{
		Text:              "",
		Confidence:        0,
		DetectionRisk:     RiskLow,
		AppliedTechniques: []string{},
	}
}

// FallbackHumanizationResult 批量/队列中单项失败的降级结果，保留原文
func FallbackHumanizationResult(text string, err error) *HumanizationResult {
	msg := "unknown error"
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Err == nil:
		msg = appErr.Message
	case err != nil:
		msg = err.Error()
	}
	return &HumanizationResult{
		Text:              text,
		Confidence:        0,
		DetectionRisk:     RiskHigh,
		AppliedTechniques: []string{ErrorTechniquePrefix + msg},
	}
}

// QualityMetrics 质量指标，均为 0-100
type QualityMetrics struct {
	LexicalDiversity     float64 `json:"lexicalDiversity"`
	SentenceVariation    float64 `json:"sentenceVariation"`
	VocabularyComplexity float64 `json:"vocabularyComplexity"`
	CoherenceScore       float64 `json:"coherenceScore"`
}

// DetectionDetails 检测明细
type DetectionDetails struct {
	AIIndicators         []string       `json:"aiIndicators"`
	PlagiarismIndicators []string       `json:"plagiarismIndicators"`
	QualityMetrics       QualityMetrics `json:"qualityMetrics"`
}

// TextStats 文本统计
type TextStats struct {
	Words      int `json:"words"`
	Sentences  int `json:"sentences"`
	Paragraphs int `json:"paragraphs"`
	Characters int `json:"characters"`
}

// DetectionResult 检测评分结果
type DetectionResult struct {
	AIDetectionScore float64          `json:"aiDetectionScore"`
	PlagiarismRisk   float64          `json:"plagiarismRisk"`
	ReadabilityScore float64          `json:"readabilityScore"`
	UniquenessScore  float64          `json:"uniquenessScore"`
	RiskLevel        RiskLevel        `json:"riskLevel"`
	DetectionDetails DetectionDetails `json:"detectionDetails"`
	Recommendations  []string         `json:"recommendations"`
	Stats            TextStats        `json:"stats"`
}

// EmptyDetectionResult 空输入的零结果
func EmptyDetectionResult() *DetectionResult {
	return &DetectionResult{
		RiskLevel: RiskLow,
		DetectionDetails: DetectionDetails{
			AIIndicators:         []string{},
			PlagiarismIndicators: []string{},
		},
		Recommendations: []string{},
	}
}

// Clone 深拷贝结果
func (r *DetectionResult) Clone() *DetectionResult {
	if r == nil {
		return nil
	}
	out := *r
	out.DetectionDetails.AIIndicators = append([]string{}, r.DetectionDetails.AIIndicators...)
	out.DetectionDetails.PlagiarismIndicators = append([]string{}, r.DetectionDetails.PlagiarismIndicators...)
	out.Recommendations = append([]string{}, r.Recommendations...)
	return &out
}
