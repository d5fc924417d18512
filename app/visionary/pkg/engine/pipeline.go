package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// RunOptions 完整流水线的输入
type RunOptions struct {
	Source      dm.CompanySource
	CompanyName string
	Industry    string
	Competitor  string

	// 以下字段只用于会话记录
	Name   string
	Email  string
	Mobile string
	// Record 为 true 时运行结束后保存会话记录
	Record bool

	ProgressCallback func(status string, progress int)
}

// RunResult 完整流水线的输出
type RunResult struct {
	Profile  dm.CompanyProfile
	Market   dm.MarketContext
	Strategy dm.StrategyBundle
	Report   *dm.ReportArtifact
	Session  *dm.SessionRecord
}

// runState 在任务图各节点间传递
type runState struct {
	opts   RunOptions
	result RunResult
}

// 并行节点的输出键
const (
	keyState = "state"
)

// Run 按依赖顺序执行全部阶段：
// 解析公司 → 三项市场信息并行 → 落地策略 → 实施计划与营收分析并行 → 报告。
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if strings.TrimSpace(opts.CompanyName) == "" {
		return nil, fmt.Errorf("%w: company name", dm.ErrMissingInput)
	}
	if err := opts.Source.Validate(); err != nil {
		return nil, err
	}
	logger.Log.Infof("开始为公司 [%s] 生成 AI 策略报告", opts.CompanyName)

	p := &progress{fn: opts.ProgressCallback}
	p.report("starting", 0)

	// 并行节点的构建错误由 Compile 统一返回
	runnable, err := e.buildChain(p).Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile pipeline: %w", err)
	}

	st, err := runnable.Invoke(ctx, &runState{opts: opts})
	if err != nil {
		return nil, err
	}

	if opts.Record {
		rec, err := e.RecordSession(ctx, dm.SessionRecord{
			Name:                 opts.Name,
			Email:                opts.Email,
			Mobile:               opts.Mobile,
			CompanyName:          opts.CompanyName,
			CompanyData:          st.result.Profile.Text,
			Industry:             opts.Industry,
			Competitor:           opts.Competitor,
			AIStrategy:           st.result.Strategy.AdoptionStrategy,
			AIIntegration:        st.result.Strategy.IntegrationPlan,
			RevenueOpportunities: st.result.Strategy.RevenueOpportunities,
		})
		if err != nil {
			return nil, err
		}
		st.result.Session = &rec
	}

	p.report("completed", 100)
	logger.Log.Infof("报告已生成: %s", st.result.Report.Path)
	return &st.result, nil
}

func (e *Engine) buildChain(p *progress) *compose.Chain[*runState, *runState] {
	chain := compose.NewChain[*runState, *runState]()

	// 1. 解析公司信息
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, st *runState) (*runState, error) {
		p.report("resolving company", 5)
		profile, err := e.ResolveCompany(ctx, st.opts.Source)
		if err != nil {
			return nil, err
		}
		st.result.Profile = *profile
		return st, nil
	}))

	// 2. 市场信息三项并行
	market := compose.NewParallel()
	market.AddLambda(keyState, passthrough())
	market.AddLambda(StageTrends, e.marketLambda(p, StageTrends, func(ctx context.Context, st *runState) (string, error) {
		return e.IndustryTrends(ctx, st.opts.Industry)
	}))
	market.AddLambda(StageUseCases, e.marketLambda(p, StageUseCases, func(ctx context.Context, st *runState) (string, error) {
		return e.AIUseCases(ctx, st.opts.Industry)
	}))
	market.AddLambda(StageCompetitor, e.marketLambda(p, StageCompetitor, func(ctx context.Context, st *runState) (string, error) {
		return e.CompetitorStrategy(ctx, st.opts.Competitor)
	}))
	chain.AppendParallel(market)

	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, out map[string]any) (*runState, error) {
		st := out[keyState].(*runState)
		st.result.Market = dm.MarketContext{
			IndustryTrends:     out[StageTrends].(string),
			AIUseCases:         out[StageUseCases].(string),
			CompetitorAnalysis: out[StageCompetitor].(string),
		}
		return st, nil
	}))

	// 3. 落地策略
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, st *runState) (*runState, error) {
		p.report("generating adoption strategy", 45)
		out, err := e.AdoptionStrategy(ctx, dm.AdoptionRequest{
			CompanyProfile:     st.result.Profile.Text,
			IndustryTrends:     st.result.Market.IndustryTrends,
			AIUseCases:         st.result.Market.AIUseCases,
			CompetitorAnalysis: st.result.Market.CompetitorAnalysis,
		})
		if err != nil {
			return nil, err
		}
		st.result.Strategy.AdoptionStrategy = out
		return st, nil
	}))

	// 4. 实施计划与营收分析只依赖落地策略，并行执行
	followUp := compose.NewParallel()
	followUp.AddLambda(keyState, passthrough())
	followUp.AddLambda(StageIntegration, compose.InvokableLambda(func(ctx context.Context, st *runState) (string, error) {
		p.report("generating integration plan", 60)
		return e.IntegrationPlan(ctx, followUpRequest(st))
	}))
	followUp.AddLambda(StageRevenue, compose.InvokableLambda(func(ctx context.Context, st *runState) (string, error) {
		p.report("identifying revenue opportunities", 60)
		return e.RevenueOpportunities(ctx, followUpRequest(st))
	}))
	chain.AppendParallel(followUp)

	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, out map[string]any) (*runState, error) {
		st := out[keyState].(*runState)
		st.result.Strategy.IntegrationPlan = out[StageIntegration].(string)
		st.result.Strategy.RevenueOpportunities = out[StageRevenue].(string)
		return st, nil
	}))

	// 5. 生成报告
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, st *runState) (*runState, error) {
		p.report("rendering report", 85)
		art, err := e.GenerateReport(ctx, dm.ReportRequest{
			CompanyName:          st.opts.CompanyName,
			AdoptionStrategy:     st.result.Strategy.AdoptionStrategy,
			IntegrationPlan:      st.result.Strategy.IntegrationPlan,
			RevenueOpportunities: st.result.Strategy.RevenueOpportunities,
		})
		if err != nil {
			return nil, err
		}
		st.result.Report = art
		return st, nil
	}))

	return chain
}

// marketLambda 市场信息节点：非严格模式下失败只告警并返回空文本
func (e *Engine) marketLambda(p *progress, stage string, fn func(ctx context.Context, st *runState) (string, error)) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *runState) (string, error) {
		out, err := fn(ctx, st)
		if err != nil {
			if e.cfg != nil && e.cfg.Pipeline.StrictMarket {
				return "", err
			}
			logger.Stage(stage).WithError(err).Warn("市场信息获取失败，按缺失处理")
			return "", nil
		}
		p.report("gathered "+stage, 30)
		return out, nil
	})
}

func passthrough() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, st *runState) (*runState, error) {
		return st, nil
	})
}

func followUpRequest(st *runState) dm.FollowUpRequest {
	return dm.FollowUpRequest{
		CompanyProfile:   st.result.Profile.Text,
		AdoptionStrategy: st.result.Strategy.AdoptionStrategy,
	}
}
