// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"

	apperrors "humanizer-api/pkg/errors"
)

// Tone 语气
type Tone string

const (
	ToneFormal         Tone = "formal"
	ToneAcademic       Tone = "academic"
	ToneCasual         Tone = "casual"
	ToneTechnical      Tone = "technical"
	ToneCreative       Tone = "creative"
	ToneProfessional   Tone = "professional"
	ToneNeutral        Tone = "neutral"
	ToneConversational Tone = "conversational"
)

// TargetAudience 目标读者
type TargetAudience string

const (
	AudienceGeneral   TargetAudience = "general"
	AudienceAcademic  TargetAudience = "academic"
	AudienceBusiness  TargetAudience = "business"
	AudienceTechnical TargetAudience = "technical"
	AudienceStudents  TargetAudience = "students"
	AudienceChildren  TargetAudience = "children"
	AudienceExperts   TargetAudience = "experts"
)

// WritingStyle 写作风格
type WritingStyle string

const (
	StyleNarrative    WritingStyle = "narrative"
	StyleDescriptive  WritingStyle = "descriptive"
	StyleExpository   WritingStyle = "expository"
	StylePersuasive   WritingStyle = "persuasive"
	StyleAnalytical   WritingStyle = "analytical"
	StyleJournalistic WritingStyle = "journalistic"
	StyleBlog         WritingStyle = "blog"
)

// SubjectGeneral 表示不做学科术语替换
const SubjectGeneral = "general"

const (
	minLevel = 1
	maxLevel = 10
)

var (
	validTones = map[Tone]struct{}{
		ToneFormal: {}, ToneAcademic: {}, ToneCasual: {}, ToneTechnical: {},
		ToneCreative: {}, ToneProfessional: {}, ToneNeutral: {}, ToneConversational: {},
	}
	validAudiences = map[TargetAudience]struct{}{
		AudienceGeneral: {}, AudienceAcademic: {}, AudienceBusiness: {}, AudienceTechnical: {},
		AudienceStudents: {}, AudienceChildren: {}, AudienceExperts: {},
	}
	validStyles = map[WritingStyle]struct{}{
		StyleNarrative: {}, StyleDescriptive: {}, StyleExpository: {}, StylePersuasive: {},
		StyleAnalytical: {}, StyleJournalistic: {}, StyleBlog: {},
	}
)

// Settings 改写参数，按值传递，调用期间不可变
type Settings struct {
	Tone                     Tone           `json:"tone"`
	FormalityLevel           int            `json:"formalityLevel"`
	CreativityLevel          int            `json:"creativityLevel"`
	VocabularyComplexity     int            `json:"vocabularyComplexity"`
	SentenceComplexity       int            `json:"sentenceComplexity"`
	PersonalityStrength      int            `json:"personalityStrength"`
	AIDetectionAvoidance     int            `json:"aiDetectionAvoidance"`
	LinguisticFingerprinting int            `json:"linguisticFingerprinting"`
	TargetAudience           TargetAudience `json:"targetAudience"`
	WritingStyle             WritingStyle   `json:"writingStyle"`
	SubjectArea              string         `json:"subjectArea"`
	PreserveStructure        bool           `json:"preserveStructure"`
	AddTransitions           bool           `json:"addTransitions"`
	VaryingSentenceLength    bool           `json:"varyingSentenceLength"`
}

// DefaultSettings 返回默认改写参数
func DefaultSettings() Settings {
	return Settings{
		Tone:                     ToneNeutral,
		FormalityLevel:           5,
		CreativityLevel:          5,
		VocabularyComplexity:     5,
		SentenceComplexity:       5,
		PersonalityStrength:      5,
		AIDetectionAvoidance:     7,
		LinguisticFingerprinting: 5,
		TargetAudience:           AudienceGeneral,
		WritingStyle:             StyleExpository,
		SubjectArea:              SubjectGeneral,
		PreserveStructure:        true,
		AddTransitions:           true,
		VaryingSentenceLength:    true,
	}
}

// Normalize 将等级钳制到 1-10，并为空枚举填充默认值
func (s Settings) Normalize() Settings {
	def := DefaultSettings()

	s.FormalityLevel = clampLevel(s.FormalityLevel, def.FormalityLevel)
	s.CreativityLevel = clampLevel(s.CreativityLevel, def.CreativityLevel)
	s.VocabularyComplexity = clampLevel(s.VocabularyComplexity, def.VocabularyComplexity)
	s.SentenceComplexity = clampLevel(s.SentenceComplexity, def.SentenceComplexity)
	s.PersonalityStrength = clampLevel(s.PersonalityStrength, def.PersonalityStrength)
	s.AIDetectionAvoidance = clampLevel(s.AIDetectionAvoidance, def.AIDetectionAvoidance)
	s.LinguisticFingerprinting = clampLevel(s.LinguisticFingerprinting, def.LinguisticFingerprinting)

	if s.Tone == "" {
		s.Tone = def.Tone
	}
	if s.TargetAudience == "" {
		s.TargetAudience = def.TargetAudience
	}
	if s.WritingStyle == "" {
		s.WritingStyle = def.WritingStyle
	}
	s.SubjectArea = strings.ToLower(strings.TrimSpace(s.SubjectArea))
	if s.SubjectArea == "" {
		s.SubjectArea = SubjectGeneral
	}
	return s
}

// Validate 校验枚举字段
func (s Settings) Validate() error {
	if _, ok := validTones[s.Tone]; !ok {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown tone %q", s.Tone))
	}
	if _, ok := validAudiences[s.TargetAudience]; !ok {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown targetAudience %q", s.TargetAudience))
	}
	if _, ok := validStyles[s.WritingStyle]; !ok {
		return apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown writingStyle %q", s.WritingStyle))
	}
	return nil
}

// IsGeneralSubject 是否为通用学科
func (s Settings) IsGeneralSubject() bool {
	return s.SubjectArea == "" || strings.EqualFold(s.SubjectArea, SubjectGeneral)
}

// clampLevel 0 视为未设置
func clampLevel(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	if v < minLevel {
		return minLevel
	}
	if v > maxLevel {
		return maxLevel
	}
	return v
}
