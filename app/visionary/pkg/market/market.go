// Package market 收集行业 AI 趋势、行业用例和竞品 AI 策略。
//
// 三个操作相互独立，均为“搜索 + 模型整理”，输出带引用的叙述文本。
package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"

	"github.com/iWorld-y/visionary/app/visionary/pkg/llm"
	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
	"github.com/iWorld-y/visionary/app/visionary/pkg/model"
	"github.com/iWorld-y/visionary/app/visionary/pkg/prompts"
	"github.com/iWorld-y/visionary/app/visionary/pkg/search"
)

const maxSourceChars = 1500

// Gatherer 市场信息收集器
type Gatherer struct {
	llm               *llm.Client
	searcher          search.Searcher
	trendDomains      []string
	competitorDomains []string
	maxResults        int
}

// New 创建 Gatherer，站点白名单来自配置
func New(client *llm.Client, searcher search.Searcher, trendDomains, competitorDomains []string, maxResults int) *Gatherer {
	return &Gatherer{
		llm:               client,
		searcher:          searcher,
		trendDomains:      trendDomains,
		competitorDomains: competitorDomains,
		maxResults:        maxResults,
	}
}

// IndustryTrends 行业最新 AI 进展，只搜索新闻/财经站点
func (g *Gatherer) IndustryTrends(ctx context.Context, industry string) (string, error) {
	if err := required("industry", industry); err != nil {
		return "", fmt.Errorf("industry trends: %w", err)
	}
	resp, err := g.searcher.Search(ctx, &search.Request{
		Query:          fmt.Sprintf(prompts.TrendsQuery, industry),
		Topic:          "news",
		MaxResults:     g.maxResults,
		IncludeDomains: g.trendDomains,
	})
	if err != nil {
		return "", fmt.Errorf("industry trends: %w", err)
	}
	return g.narrate(ctx, "trends", prompts.IndustryTrends, map[string]any{prompts.VarIndustry: industry}, resp)
}

// AIUseCases 行业 AI 用例，不限站点
func (g *Gatherer) AIUseCases(ctx context.Context, industry string) (string, error) {
	if err := required("industry", industry); err != nil {
		return "", fmt.Errorf("ai use cases: %w", err)
	}
	resp, err := g.searcher.Search(ctx, &search.Request{
		Query:      fmt.Sprintf(prompts.UseCasesQuery, industry),
		Topic:      "general",
		MaxResults: g.maxResults,
	})
	if err != nil {
		return "", fmt.Errorf("ai use cases: %w", err)
	}
	return g.narrate(ctx, "use_cases", prompts.AIUseCases, map[string]any{prompts.VarIndustry: industry}, resp)
}

// CompetitorStrategy 竞品 AI 策略，合并全网搜索与科技媒体搜索的结果
func (g *Gatherer) CompetitorStrategy(ctx context.Context, company string) (string, error) {
	if err := required("competitor", company); err != nil {
		return "", fmt.Errorf("competitor strategy: %w", err)
	}
	query := fmt.Sprintf(prompts.CompetitorQuery, company)

	open, err := g.searcher.Search(ctx, &search.Request{Query: query, Topic: "general", MaxResults: g.maxResults})
	if err != nil {
		return "", fmt.Errorf("competitor strategy: %w", err)
	}
	media, err := g.searcher.Search(ctx, &search.Request{
		Query:          query,
		Topic:          "news",
		MaxResults:     g.maxResults,
		IncludeDomains: g.competitorDomains,
	})
	if err != nil {
		return "", fmt.Errorf("competitor strategy: %w", err)
	}
	return g.narrate(ctx, "competitor", prompts.CompetitorStrategy, map[string]any{prompts.VarCompany: company}, search.Merge(open, media))
}

// Gather 依次收集市场信息，行业或竞品为空时跳过对应部分，任一失败即返回
func (g *Gatherer) Gather(ctx context.Context, industry, competitor string) (*model.MarketContext, error) {
	var (
		mc  model.MarketContext
		err error
	)
	if strings.TrimSpace(industry) == "" && strings.TrimSpace(competitor) == "" {
		return nil, fmt.Errorf("%w: industry or competitor", model.ErrMissingInput)
	}
	if strings.TrimSpace(industry) != "" {
		if mc.IndustryTrends, err = g.IndustryTrends(ctx, industry); err != nil {
			return nil, err
		}
		if mc.AIUseCases, err = g.AIUseCases(ctx, industry); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(competitor) != "" {
		if mc.CompetitorAnalysis, err = g.CompetitorStrategy(ctx, competitor); err != nil {
			return nil, err
		}
	}
	return &mc, nil
}

func (g *Gatherer) narrate(ctx context.Context, stage string, tpl prompt.ChatTemplate, vars map[string]any, resp *search.Response) (string, error) {
	logger.Stage(stage).WithField("results", len(resp.Results)).Info("搜索完成")
	vars[prompts.VarSources] = search.FormatSources(resp, maxSourceChars)
	out, err := g.llm.Render(ctx, tpl, vars)
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ReplaceAll(stage, "_", " "), err)
	}
	return out, nil
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s", model.ErrMissingInput, field)
	}
	return nil
}
