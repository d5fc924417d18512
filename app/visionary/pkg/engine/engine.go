package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iWorld-y/visionary/app/visionary/pkg/browser"
	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
	"github.com/iWorld-y/visionary/app/visionary/pkg/knowledge"
	"github.com/iWorld-y/visionary/app/visionary/pkg/llm"
	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
	"github.com/iWorld-y/visionary/app/visionary/pkg/market"
	"github.com/iWorld-y/visionary/app/visionary/pkg/metrics"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
	"github.com/iWorld-y/visionary/app/visionary/pkg/report"
	"github.com/iWorld-y/visionary/app/visionary/pkg/resolver"
	"github.com/iWorld-y/visionary/app/visionary/pkg/scraper"
	"github.com/iWorld-y/visionary/app/visionary/pkg/search/factory"
	"github.com/iWorld-y/visionary/app/visionary/pkg/session"
	"github.com/iWorld-y/visionary/app/visionary/pkg/storage"
	"github.com/iWorld-y/visionary/app/visionary/pkg/strategy"
)

// 阶段名，用于日志和指标
const (
	StageResolve     = "resolve"
	StageIngest      = "ingest"
	StageMarket      = "market"
	StageTrends      = "trends"
	StageUseCases    = "use_cases"
	StageCompetitor  = "competitor"
	StageAdoption    = "adoption"
	StageIntegration = "integration"
	StageRevenue     = "revenue"
	StageReport      = "report"
	StageSession     = "session"
)

// Components 引擎依赖的各组件
type Components struct {
	Resolver *resolver.Resolver
	Market   *market.Gatherer
	Strategy *strategy.Synthesizer
	Report   *report.Emitter
	Ingestor *knowledge.Ingestor
	Recorder session.Recorder
	// Records 用于读回会话记录，可为空
	Records *session.JSONLRecorder
	// Closers 引擎关闭时按顺序调用
	Closers []func(ctx context.Context) error
}

// Engine 核心处理引擎，每个用户操作对应一个方法
type Engine struct {
	cfg *config.Config
	c   Components
}

// New 使用已构造好的组件创建引擎
func New(cfg *config.Config, c Components) *Engine {
	return &Engine{cfg: cfg, c: c}
}

// NewEngine 根据配置创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	// 初始化 LLM
	client, err := llm.NewFromConfig(ctx, cfg.LLM, cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	// 初始化搜索客户端
	searcher, err := factory.NewSearcher(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	// 浏览器按需启动
	mgr := browser.NewManager(cfg.Browser)

	store, err := knowledge.OpenStore(cfg.Knowledge.Dir, cfg.Knowledge.Table)
	if err != nil {
		return nil, fmt.Errorf("知识库初始化失败: %w", err)
	}
	ingestor := knowledge.NewIngestor(store, knowledge.NewOpenAIEmbedder(cfg.Embedding),
		cfg.Knowledge.UploadDir, cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)

	sc := scraper.New(cfg.Pipeline.ScrapeMode, cfg.Pipeline.MinPageText, scraper.WithBrowser(mgr))

	jsonl := session.NewJSONLRecorder(cfg.Session.JSONFile)
	recorders := session.Multi{session.NewCSVRecorder(cfg.Session.CSVFile), jsonl}
	closers := []func(context.Context) error{
		mgr.Shutdown,
		func(context.Context) error { return store.Close() },
	}

	if cfg.DB.Host != "" {
		pg, err := storage.NewStorage(cfg.DB)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("数据库初始化失败: %w", err)
		}
		recorders = append(recorders, pg)
		closers = append(closers, func(context.Context) error { return pg.Close() })
	}

	return New(cfg, Components{
		Resolver: resolver.New(client, searcher, sc, ingestor, cfg.Search.MaxResults, cfg.Knowledge.TopK),
		Market:   market.New(client, searcher, cfg.Search.TrendDomains, cfg.Search.CompetitorDomains, cfg.Search.MaxResults),
		Strategy: strategy.New(client),
		Report:   report.NewEmitter(cfg.Report.Dir, mgr),
		Ingestor: ingestor,
		Recorder: recorders,
		Records:  jsonl,
		Closers:  closers,
	}), nil
}

// Close 释放浏览器、索引和数据库连接
func (e *Engine) Close(ctx context.Context) error {
	var errs []error
	for _, c := range e.c.Closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// observe 记录阶段耗时与失败，错误只在这里打一次日志
func observe[T any](stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	metrics.Observe(stage, start, err)

	log := logger.Stage(stage).WithField("elapsed", time.Since(start).Round(time.Millisecond).String())
	if err != nil {
		log.WithError(err).Error("阶段失败")
	} else {
		log.Debug("阶段完成")
	}
	return out, err
}

// ResolveCompany 解析公司信息
func (e *Engine) ResolveCompany(ctx context.Context, src dm.CompanySource) (*dm.CompanyProfile, error) {
	return observe(StageResolve, func() (*dm.CompanyProfile, error) {
		return e.c.Resolver.Resolve(ctx, src)
	})
}

// Ingest 将文档加入知识库
func (e *Engine) Ingest(ctx context.Context, src knowledge.DocumentSource) (*knowledge.IngestResult, error) {
	return observe(StageIngest, func() (*knowledge.IngestResult, error) {
		return e.c.Ingestor.Ingest(ctx, src)
	})
}

// Market 收集行业趋势、行业用例与竞品策略，空输入对应的部分留空
func (e *Engine) Market(ctx context.Context, industry, competitor string) (*dm.MarketContext, error) {
	return observe(StageMarket, func() (*dm.MarketContext, error) {
		return e.c.Market.Gather(ctx, industry, competitor)
	})
}

// IndustryTrends 行业 AI 趋势
func (e *Engine) IndustryTrends(ctx context.Context, industry string) (string, error) {
	return observe(StageTrends, func() (string, error) {
		return e.c.Market.IndustryTrends(ctx, industry)
	})
}

// AIUseCases 行业 AI 用例
func (e *Engine) AIUseCases(ctx context.Context, industry string) (string, error) {
	return observe(StageUseCases, func() (string, error) {
		return e.c.Market.AIUseCases(ctx, industry)
	})
}

// CompetitorStrategy 竞品 AI 策略
func (e *Engine) CompetitorStrategy(ctx context.Context, company string) (string, error) {
	return observe(StageCompetitor, func() (string, error) {
		return e.c.Market.CompetitorStrategy(ctx, company)
	})
}

// AdoptionStrategy 生成 AI 落地策略
func (e *Engine) AdoptionStrategy(ctx context.Context, req dm.AdoptionRequest) (string, error) {
	return observe(StageAdoption, func() (string, error) {
		return e.c.Strategy.AdoptionStrategy(ctx, req)
	})
}

// IntegrationPlan 生成实施计划
func (e *Engine) IntegrationPlan(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return observe(StageIntegration, func() (string, error) {
		return e.c.Strategy.IntegrationPlan(ctx, req)
	})
}

// RevenueOpportunities 分析营收机会
func (e *Engine) RevenueOpportunities(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return observe(StageRevenue, func() (string, error) {
		return e.c.Strategy.RevenueOpportunities(ctx, req)
	})
}

// GenerateReport 生成 PDF 报告
func (e *Engine) GenerateReport(ctx context.Context, req dm.ReportRequest) (*dm.ReportArtifact, error) {
	return observe(StageReport, func() (*dm.ReportArtifact, error) {
		return e.c.Report.Emit(ctx, req)
	})
}

// ReportPath 公司报告的存放路径
func (e *Engine) ReportPath(company string) string {
	return e.c.Report.Path(company)
}

// RecordSession 保存会话记录
func (e *Engine) RecordSession(ctx context.Context, rec dm.SessionRecord) (dm.SessionRecord, error) {
	rec = session.Stamp(rec)
	return observe(StageSession, func() (dm.SessionRecord, error) {
		return rec, e.c.Recorder.Record(ctx, rec)
	})
}

// Records 读取已保存的会话记录
func (e *Engine) Records() ([]dm.SessionRecord, error) {
	if e.c.Records == nil {
		return nil, nil
	}
	return e.c.Records.Records()
}

// progress 串行化进度回调，并行节点可能同时上报
type progress struct {
	mu sync.Mutex
	fn func(status string, progress int)
}

func (p *progress) report(status string, pct int) {
	if p == nil || p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn(status, pct)
}
