package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
	"github.com/iWorld-y/visionary/app/visionary/pkg/knowledge"
	"github.com/iWorld-y/visionary/app/visionary/pkg/llm"
	"github.com/iWorld-y/visionary/app/visionary/pkg/market"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
	"github.com/iWorld-y/visionary/app/visionary/pkg/report"
	"github.com/iWorld-y/visionary/app/visionary/pkg/resolver"
	"github.com/iWorld-y/visionary/app/visionary/pkg/scraper"
	"github.com/iWorld-y/visionary/app/visionary/pkg/search"
	"github.com/iWorld-y/visionary/app/visionary/pkg/session"
	"github.com/iWorld-y/visionary/app/visionary/pkg/strategy"
)

type htmlRenderer struct{}

func (htmlRenderer) RenderPDF(ctx context.Context, html string, w io.Writer) error {
	_, err := io.WriteString(w, html)
	return err
}

type staticScraper struct{}

func (staticScraper) Scrape(ctx context.Context, url string) (*scraper.Page, error) {
	return &scraper.Page{URL: url, Title: "Acme", Text: "Acme builds solar panels."}, nil
}

// stageReply 根据提示词内容判断阶段并返回可识别的文本
func stageReply(m []*schema.Message) (string, error) {
	p := llm.UserPrompt(m)
	switch {
	case strings.Contains(p, "AI adoption strategy that includes"):
		return "ADOPTION", nil
	case strings.Contains(p, "structured AI implementation plan"):
		return "INTEGRATION", nil
	case strings.Contains(p, "revenue growth opportunities"):
		return "REVENUE", nil
	case strings.Contains(p, "latest AI advancements"):
		return "TRENDS", nil
	case strings.Contains(p, "most impactful AI use cases"):
		return "USE_CASES", nil
	case strings.Contains(p, "leveraging AI in its business"):
		return "COMPETITOR", nil
	}
	return "PROFILE", nil
}

type fixture struct {
	engine   *Engine
	chat     *llm.FakeChatModel
	searcher *search.FakeSearcher
	dir      string
}

func newFixture(t *testing.T, cfg *config.Config, searcher *search.FakeSearcher) *fixture {
	t.Helper()
	dir := t.TempDir()
	chat := &llm.FakeChatModel{Respond: stageReply}
	client := llm.NewClient(chat, nil)

	store, err := knowledge.OpenStore(filepath.Join(dir, "lancedb"), "company_docs")
	require.NoError(t, err)
	ingestor := knowledge.NewIngestor(store, knowledge.HashEmbedder{}, filepath.Join(dir, "tmp"), 500, 50)

	jsonl := session.NewJSONLRecorder(filepath.Join(dir, "user_data.jsonl"))
	e := New(cfg, Components{
		Resolver: resolver.New(client, searcher, staticScraper{}, ingestor, 5, 4),
		Market:   market.New(client, searcher, []string{"reuters.com"}, []string{"forbes.com"}, 5),
		Strategy: strategy.New(client),
		Report:   report.NewEmitter(dir, htmlRenderer{}),
		Ingestor: ingestor,
		Recorder: session.Multi{session.NewCSVRecorder(filepath.Join(dir, "user_data.csv")), jsonl},
		Records:  jsonl,
		Closers:  []func(context.Context) error{func(context.Context) error { return store.Close() }},
	})
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return &fixture{engine: e, chat: chat, searcher: searcher, dir: dir}
}

func defaultConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func runOptions() RunOptions {
	return RunOptions{
		Source:      dm.CompanySource{Kind: dm.SourceName, Value: "Tesla"},
		CompanyName: "Tesla",
		Industry:    "Automotive",
		Competitor:  "Ford",
		Name:        "Ada",
		Email:       "ada@example.com",
		Record:      true,
	}
}

func TestRun_FullPipeline(t *testing.T) {
	f := newFixture(t, defaultConfig(), &search.FakeSearcher{})

	var (
		mu       sync.Mutex
		statuses []string
	)
	opts := runOptions()
	opts.ProgressCallback = func(status string, progress int) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, status)
	}

	res, err := f.engine.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "PROFILE", res.Profile.Text)
	assert.Equal(t, dm.MarketContext{IndustryTrends: "TRENDS", AIUseCases: "USE_CASES", CompetitorAnalysis: "COMPETITOR"}, res.Market)
	assert.Equal(t, dm.StrategyBundle{AdoptionStrategy: "ADOPTION", IntegrationPlan: "INTEGRATION", RevenueOpportunities: "REVENUE"}, res.Strategy)

	require.NotNil(t, res.Report)
	assert.Equal(t, filepath.Join(f.dir, "Tesla_AI_Report.pdf"), res.Report.Path)
	data, err := os.ReadFile(res.Report.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>AI Strategy Report for Tesla</h1>")

	// 1 公司 + 3 市场 + 3 策略
	assert.Equal(t, 7, f.chat.CallCount())

	recs, err := f.engine.Records()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ADOPTION", recs[0].AIStrategy)
	assert.Equal(t, "PROFILE", recs[0].CompanyData)
	assert.Equal(t, res.Session.ID, recs[0].ID)

	assert.Equal(t, "starting", statuses[0])
	assert.Equal(t, "completed", statuses[len(statuses)-1])
}

func TestRun_AdoptionPromptCarriesMarketContext(t *testing.T) {
	f := newFixture(t, defaultConfig(), &search.FakeSearcher{})
	_, err := f.engine.Run(context.Background(), runOptions())
	require.NoError(t, err)

	var adoptionPrompt string
	for _, call := range f.chat.Calls {
		if p := llm.UserPrompt(call); strings.Contains(p, "AI adoption strategy that includes") {
			adoptionPrompt = p
		}
	}
	assert.Contains(t, adoptionPrompt, "- **Company Overview:** PROFILE")
	assert.Contains(t, adoptionPrompt, "- **Industry Trends:** TRENDS")
	assert.Contains(t, adoptionPrompt, "- **Competitor AI Strategies:** COMPETITOR")
}

func TestRun_MarketFailureIsOptional(t *testing.T) {
	searcher := &search.FakeSearcher{Respond: func(req *search.Request) (*search.Response, error) {
		if len(req.IncludeDomains) > 0 && req.IncludeDomains[0] == "reuters.com" {
			return nil, errors.New("search quota exceeded")
		}
		return &search.Response{}, nil
	}}
	f := newFixture(t, defaultConfig(), searcher)

	res, err := f.engine.Run(context.Background(), runOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Market.IndustryTrends)
	assert.Equal(t, "USE_CASES", res.Market.AIUseCases)
}

func TestRun_StrictMarketFails(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pipeline.StrictMarket = true
	searcher := &search.FakeSearcher{Respond: func(req *search.Request) (*search.Response, error) {
		if len(req.IncludeDomains) > 0 && req.IncludeDomains[0] == "reuters.com" {
			return nil, errors.New("search quota exceeded")
		}
		return &search.Response{}, nil
	}}
	f := newFixture(t, cfg, searcher)

	_, err := f.engine.Run(context.Background(), runOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search quota exceeded")

	_, statErr := os.Stat(filepath.Join(f.dir, "Tesla_AI_Report.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_ValidatesInput(t *testing.T) {
	f := newFixture(t, defaultConfig(), &search.FakeSearcher{})

	opts := runOptions()
	opts.CompanyName = ""
	_, err := f.engine.Run(context.Background(), opts)
	assert.ErrorIs(t, err, dm.ErrMissingInput)

	opts = runOptions()
	opts.Source = dm.CompanySource{Kind: dm.SourceURL}
	_, err = f.engine.Run(context.Background(), opts)
	assert.ErrorIs(t, err, dm.ErrInvalidSource)

	assert.Zero(t, f.chat.CallCount())
}

func TestStages_Standalone(t *testing.T) {
	f := newFixture(t, defaultConfig(), &search.FakeSearcher{})
	ctx := context.Background()

	_, err := f.engine.IntegrationPlan(ctx, dm.FollowUpRequest{CompanyProfile: "Acme"})
	assert.ErrorIs(t, err, dm.ErrMissingInput)

	out, err := f.engine.RevenueOpportunities(ctx, dm.FollowUpRequest{CompanyProfile: "Acme", AdoptionStrategy: "s"})
	require.NoError(t, err)
	assert.Equal(t, "REVENUE", out)

	res, err := f.engine.Ingest(ctx, knowledge.DocumentSource{Path: writeFile(t, f.dir, "notes.txt", "Acme notes about AI.")})
	require.NoError(t, err)
	assert.Positive(t, res.Chunks)

	rec, err := f.engine.RecordSession(ctx, dm.SessionRecord{Name: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	assert.Equal(t, filepath.Join(f.dir, "AT_T_AI_Report.pdf"), f.engine.ReportPath("AT/T"))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestMarket_IndustryOnly(t *testing.T) {
	f := newFixture(t, defaultConfig(), &search.FakeSearcher{})

	mc, err := f.engine.Market(context.Background(), "Automotive", "")
	require.NoError(t, err)
	assert.Equal(t, dm.MarketContext{IndustryTrends: "TRENDS", AIUseCases: "USE_CASES"}, *mc)
	assert.Equal(t, 2, f.chat.CallCount())
}
