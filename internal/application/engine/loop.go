package engine

import (
	"context"

	"humanizer-api/internal/domain/entity"
	"humanizer-api/pkg/logger"
)

// 反馈循环参数
const (
	DefaultLoopRounds  = 3
	MaxLoopRounds      = 5
	DefaultTargetScore = 30
)

// LoopOptions 反馈循环选项
type LoopOptions struct {
	TargetScore float64 `json:"targetScore"`
	MaxRounds   int     `json:"maxRounds"`
}

func (o LoopOptions) normalize() LoopOptions {
	if o.TargetScore <= 0 || o.TargetScore > 100 {
		o.TargetScore = DefaultTargetScore
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultLoopRounds
	}
	o.MaxRounds = min(o.MaxRounds, MaxLoopRounds)
	return o
}

// LoopRound 单轮结果
type LoopRound struct {
	Round    int                        `json:"round"`
	Result   *entity.HumanizationResult `json:"result"`
	Analysis *entity.DetectionResult    `json:"analysis"`
}

// LoopResult 反馈循环结果
type LoopResult struct {
	Initial *entity.DetectionResult    `json:"initial"`
	Final   *entity.HumanizationResult `json:"final"`
	Rounds  []LoopRound                `json:"rounds"`
	Reached bool                       `json:"reached"`
}

// HumanizeUntil 改写后评分，分数高于目标时继续改写，每轮提高规避强度
func (e *Engine) HumanizeUntil(ctx context.Context, text string, settings entity.Settings, opts LoopOptions) (*LoopResult, error) {
	opts = opts.normalize()
	settings = settings.Normalize()

	analysis := e.Analyze(ctx, text)
	out := &LoopResult{Initial: analysis, Rounds: make([]LoopRound, 0, opts.MaxRounds)}

	current := text
	for round := 1; round <= opts.MaxRounds; round++ {
		if analysis.AIDetectionScore <= opts.TargetScore {
			break
		}
		res, err := e.Humanize(ctx, current, settings)
		if err != nil {
			return nil, err
		}
		analysis = e.Analyze(ctx, res.Text)
		out.Rounds = append(out.Rounds, LoopRound{Round: round, Result: res, Analysis: analysis})
		out.Final = res
		current = res.Text

		logger.Debug(ctx, "humanize loop round", "round", round, "ai_score", analysis.AIDetectionScore)
		settings.AIDetectionAvoidance = min(settings.AIDetectionAvoidance+1, 10)
	}

	if out.Final == nil {
		out.Final = &entity.HumanizationResult{
			Text:              text,
			Confidence:        0,
			DetectionRisk:     analysis.RiskLevel,
			AppliedTechniques: []string{},
		}
	}
	out.Reached = analysis.AIDetectionScore <= opts.TargetScore
	return out, nil
}
