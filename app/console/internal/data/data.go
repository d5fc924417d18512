package data

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/visionary/app/console/internal/conf"
	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
	"github.com/iWorld-y/visionary/app/visionary/pkg/engine"
	advLogger "github.com/iWorld-y/visionary/app/visionary/pkg/logger"
)

// Data 持有顾问引擎及其外部资源（浏览器、向量索引、数据库）
type Data struct {
	engine *engine.Engine
}

// NewData 初始化 visionary 引擎
func NewData(c *conf.Advisor, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	cfg := ToConfig(c)

	// 初始化日志
	if err := advLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init visionary logger: %v", err)
		_ = advLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the advisor engine")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eng.Close(ctx); err != nil {
			helper.Errorf("close engine: %v", err)
		}
	}
	return &Data{engine: eng}, cleanup, nil
}

// ToConfig 将 conf.Advisor 转换为 config.Config 并填充默认值
func ToConfig(c *conf.Advisor) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.ApplyDefaults()
		return cfg
	}

	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{BaseURL: c.Llm.BaseUrl, APIKey: c.Llm.ApiKey, Model: c.Llm.Model}
	}
	if c.Embedding != nil {
		cfg.Embedding = config.EmbeddingConfig{BaseURL: c.Embedding.BaseUrl, APIKey: c.Embedding.ApiKey, Model: c.Embedding.Model}
	}
	if s := c.Search; s != nil {
		cfg.Search = config.SearchConfig{
			Provider:          s.Provider,
			TrendDomains:      s.TrendDomains,
			CompetitorDomains: s.CompetitorDomains,
			MaxResults:        int(s.MaxResults),
		}
		if s.Tavily != nil {
			cfg.Search.Tavily.APIKey = s.Tavily.ApiKey
		}
		if s.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{BaseURL: s.Searxng.BaseUrl, Timeout: int(s.Searxng.Timeout)}
		}
	}
	if b := c.Browser; b != nil {
		cfg.Browser = config.BrowserConfig{
			DebuggerURL:       b.DebuggerUrl,
			Bin:               b.Bin,
			Headless:          b.Headless,
			NoSandbox:         b.NoSandbox,
			Flags:             b.Flags,
			NavigationTimeout: int(b.NavigationTimeout),
		}
	}
	if k := c.Knowledge; k != nil {
		cfg.Knowledge = config.KnowledgeConfig{
			Dir:          k.Dir,
			Table:        k.Table,
			UploadDir:    k.UploadDir,
			ChunkSize:    int(k.ChunkSize),
			ChunkOverlap: int(k.ChunkOverlap),
			TopK:         int(k.TopK),
		}
	}
	if c.Report != nil {
		cfg.Report.Dir = c.Report.Dir
	}
	if c.Session != nil {
		cfg.Session = config.SessionConfig{CSVFile: c.Session.CsvFile, JSONFile: c.Session.JsonFile}
	}
	if p := c.Pipeline; p != nil {
		cfg.Pipeline = config.PipelineConfig{StrictMarket: p.StrictMarket, ScrapeMode: p.ScrapeMode, MinPageText: int(p.MinPageText)}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{QPS: int(c.Concurrency.Qps), RPM: int(c.Concurrency.Rpm)}
	}
	if d := c.Db; d != nil {
		cfg.DB = config.DBConfig{Host: d.Host, Port: int(d.Port), User: d.User, Password: d.Password, Name: d.Name}
	}

	cfg.ApplyDefaults()
	return cfg
}
