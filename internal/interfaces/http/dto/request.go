package dto

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"humanizer-api/internal/application/engine"
	"humanizer-api/internal/domain/entity"
	apperrors "humanizer-api/pkg/errors"
)

// HumanizeRequest 单条改写请求，settings 省略时使用默认参数
type HumanizeRequest struct {
	Text     string           `json:"text"`
	Settings *entity.Settings `json:"settings,omitempty"`
}

// ResolveSettings 规范化并校验改写参数
func (r *HumanizeRequest) ResolveSettings() (entity.Settings, error) {
	return resolveSettings(r.Settings)
}

// AnalyzeRequest 检测请求
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// BatchHumanizeRequest 批量改写请求
type BatchHumanizeRequest struct {
	Texts    []string         `json:"texts" binding:"required"`
	Settings *entity.Settings `json:"settings,omitempty"`
}

// Validate 校验批量大小并返回规范化参数
func (r *BatchHumanizeRequest) Validate(maxItems int) (entity.Settings, error) {
	if maxItems > 0 && len(r.Texts) > maxItems {
		return entity.Settings{}, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("at most %d texts per batch", maxItems))
	}
	return resolveSettings(r.Settings)
}

// HumanizeLoopRequest 反馈循环改写请求
type HumanizeLoopRequest struct {
	Text        string           `json:"text" binding:"required"`
	Settings    *entity.Settings `json:"settings,omitempty"`
	TargetScore float64          `json:"target_score"`
	MaxRounds   int              `json:"max_rounds"`
}

// Options 循环参数
func (r *HumanizeLoopRequest) Options() engine.LoopOptions {
	return engine.LoopOptions{TargetScore: r.TargetScore, MaxRounds: r.MaxRounds}
}

// ResolveSettings 规范化并校验改写参数
func (r *HumanizeLoopRequest) ResolveSettings() (entity.Settings, error) {
	return resolveSettings(r.Settings)
}

func resolveSettings(s *entity.Settings) (entity.Settings, error) {
	if s == nil {
		return entity.DefaultSettings(), nil
	}
	out := s.Normalize()
	if err := out.Validate(); err != nil {
		return entity.Settings{}, err
	}
	return out, nil
}

// BindJobID 从 URI 绑定任务 ID
func BindJobID(c *gin.Context) string {
	return c.Param("id")
}
