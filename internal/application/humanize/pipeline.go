// Package humanize 实现按顺序执行的文本改写流水线
package humanize

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"humanizer-api/internal/application/rules"
	"humanizer-api/internal/domain/entity"
	apperrors "humanizer-api/pkg/errors"
	"humanizer-api/pkg/logger"
	"humanizer-api/pkg/metrics"
	"humanizer-api/pkg/tracer"
)

// Pipeline 改写流水线
type Pipeline struct {
	rules   *rules.Tables
	passes  []Pass
	newRand RandFactory
}

// Option 流水线选项
type Option func(*Pipeline)

// WithSeed 固定随机种子，相同输入与参数得到相同输出
func WithSeed(seed uint64) Option {
	return func(p *Pipeline) {
		p.newRand = SeededFactory(seed)
	}
}

// WithRandFactory 注入随机源
func WithRandFactory(f RandFactory) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.newRand = f
		}
	}
}

// WithRules 使用自定义规则表
func WithRules(t *rules.Tables) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.rules = t
		}
	}
}

// WithPasses 替换改写步骤
func WithPasses(passes ...Pass) Option {
	return func(p *Pipeline) {
		p.passes = passes
	}
}

// NewPipeline 创建改写流水线
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		rules:   rules.Default(),
		passes:  DefaultPasses(),
		newRand: NewRand,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rules 返回流水线使用的规则表
func (p *Pipeline) Rules() *rules.Tables {
	return p.rules
}

// Humanize 执行改写；空输入直接返回零结果
func (p *Pipeline) Humanize(ctx context.Context, text string, settings entity.Settings) (*entity.HumanizationResult, error) {
	start := time.Now()
	if strings.TrimSpace(text) == "" {
		res := entity.EmptyHumanizationResult()
		res.ProcessingTime = time.Since(start)
		return res, nil
	}

	settings = settings.Normalize()
	env := &Env{Settings: settings, Rules: p.rules, Rand: p.newRand()}

	current := text
	var lay *layout
	if settings.PreserveStructure {
		l, protected := snapshotLayout(text)
		lay, current = &l, protected
	}

	techniques := make([]string, 0, len(p.passes)+1)
	confidence := 0.0
	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pass.Enabled != nil && !pass.Enabled(settings) {
			continue
		}

		out, err := p.runPass(ctx, pass, current, env)
		if err != nil {
			logger.Warn(ctx, "humanize pass failed", "pass", pass.Name, "error", err.Error())
			return nil, err
		}
		current = out
		techniques = append(techniques, pass.Name)
		confidence += pass.Confidence
		metrics.PassAppliedTotal.WithLabelValues(pass.Name).Inc()
	}

	if lay != nil {
		current = lay.restore(current)
		techniques = append(techniques, TechniqueStructure)
	}

	return &entity.HumanizationResult{
		Text:              current,
		Confidence:        scaleConfidence(confidence, utf8.RuneCountInString(text)),
		DetectionRisk:     assessRisk(text, current, p.rules),
		AppliedTechniques: techniques,
		ProcessingTime:    time.Since(start),
	}, nil
}

// runPass 执行单个步骤，错误与 panic 均转换为 ProcessingError
func (p *Pipeline) runPass(ctx context.Context, pass Pass, text string, env *Env) (out string, err error) {
	_, span := tracer.Start(ctx, "pipeline.pass", trace.WithAttributes(attribute.String("pass.name", pass.Name)))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			err = &apperrors.ProcessingError{Pass: pass.Name, Err: fmt.Errorf("panic: %v", rec)}
		}
		if err != nil {
			span.RecordError(err)
		}
	}()

	out, err = pass.Apply(text, env)
	if err != nil {
		return "", &apperrors.ProcessingError{Pass: pass.Name, Err: err}
	}
	return out, nil
}
