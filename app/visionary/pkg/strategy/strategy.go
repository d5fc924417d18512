// Package strategy 基于公司概况和市场信息生成 AI 落地策略、实施计划和营收机会。
package strategy

import (
	"context"
	"fmt"

	"github.com/iWorld-y/visionary/app/visionary/pkg/llm"
	"github.com/iWorld-y/visionary/app/visionary/pkg/model"
	"github.com/iWorld-y/visionary/app/visionary/pkg/prompts"
)

// Synthesizer 策略生成器
type Synthesizer struct {
	llm *llm.Client
}

// New 创建 Synthesizer
func New(client *llm.Client) *Synthesizer {
	return &Synthesizer{llm: client}
}

// AdoptionStrategy 生成 AI 落地策略，市场信息缺失时以占位文本代替
func (s *Synthesizer) AdoptionStrategy(ctx context.Context, req model.AdoptionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("adoption strategy: %w", err)
	}
	out, err := s.llm.Render(ctx, prompts.AdoptionStrategy, map[string]any{
		prompts.VarProfile:    req.CompanyProfile,
		prompts.VarTrends:     prompts.OrNotAvailable(req.IndustryTrends),
		prompts.VarUseCases:   prompts.OrNotAvailable(req.AIUseCases),
		prompts.VarCompetitor: prompts.OrNotAvailable(req.CompetitorAnalysis),
	})
	if err != nil {
		return "", fmt.Errorf("adoption strategy: %w", err)
	}
	return out, nil
}

// IntegrationPlan 生成分阶段实施计划
func (s *Synthesizer) IntegrationPlan(ctx context.Context, req model.FollowUpRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("integration plan: %w", err)
	}
	out, err := s.llm.Render(ctx, prompts.IntegrationPlan, followUpVars(req))
	if err != nil {
		return "", fmt.Errorf("integration plan: %w", err)
	}
	return out, nil
}

// RevenueOpportunities 分析 AI 带来的营收机会
func (s *Synthesizer) RevenueOpportunities(ctx context.Context, req model.FollowUpRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("revenue opportunities: %w", err)
	}
	out, err := s.llm.Render(ctx, prompts.RevenueOpportunities, followUpVars(req))
	if err != nil {
		return "", fmt.Errorf("revenue opportunities: %w", err)
	}
	return out, nil
}

func followUpVars(req model.FollowUpRequest) map[string]any {
	return map[string]any{
		prompts.VarProfile:  req.CompanyProfile,
		prompts.VarStrategy: req.AdoptionStrategy,
	}
}
