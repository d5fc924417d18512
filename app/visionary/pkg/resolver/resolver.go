// Package resolver 将用户提供的公司标识（名称、网址、描述或文档）转换为公司概况文本。
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iWorld-y/visionary/app/visionary/pkg/knowledge"
	"github.com/iWorld-y/visionary/app/visionary/pkg/llm"
	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
	"github.com/iWorld-y/visionary/app/visionary/pkg/model"
	"github.com/iWorld-y/visionary/app/visionary/pkg/prompts"
	"github.com/iWorld-y/visionary/app/visionary/pkg/scraper"
	"github.com/iWorld-y/visionary/app/visionary/pkg/search"
)

// maxSourceChars 每条搜索结果交给模型的最大字符数
const maxSourceChars = 1500

// maxPageChars 网站正文交给模型的最大字符数
const maxPageChars = 20000

// PageScraper 抓取网站正文
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Page, error)
}

// DocumentIndex 文档入库与检索
type DocumentIndex interface {
	SaveUpload(name string, data []byte) (string, error)
	Ingest(ctx context.Context, src knowledge.DocumentSource) (*knowledge.IngestResult, error)
	Query(ctx context.Context, question string, filter knowledge.Filter, topK int) ([]knowledge.Result, error)
}

// Resolver 公司信息解析器
type Resolver struct {
	llm        *llm.Client
	searcher   search.Searcher
	scraper    PageScraper
	docs       DocumentIndex
	maxResults int
	topK       int
}

// New 创建 Resolver
func New(client *llm.Client, searcher search.Searcher, sc PageScraper, docs DocumentIndex, maxResults, topK int) *Resolver {
	return &Resolver{
		llm:        client,
		searcher:   searcher,
		scraper:    sc,
		docs:       docs,
		maxResults: maxResults,
		topK:       topK,
	}
}

// Resolve 按来源类型分派
func (r *Resolver) Resolve(ctx context.Context, src model.CompanySource) (*model.CompanyProfile, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	var (
		text string
		err  error
	)
	switch src.Kind {
	case model.SourceName:
		text, err = r.SearchCompany(ctx, src.Value)
	case model.SourceURL:
		text, err = r.ScrapeWebsite(ctx, src.Value)
	case model.SourceText:
		text, err = r.DescribeCompany(ctx, src.Value)
	case model.SourceDocument:
		text, err = r.AnalyzeDocument(ctx, src.Value, src.Content)
	}
	if err != nil {
		return nil, err
	}
	return &model.CompanyProfile{Kind: src.Kind, Source: src.Value, Text: text}, nil
}

// SearchCompany 搜索公司公开信息并整理，保留来源链接
func (r *Resolver) SearchCompany(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("search company: %w: empty name", model.ErrInvalidSource)
	}

	resp, err := r.searcher.Search(ctx, &search.Request{
		Query:      fmt.Sprintf(prompts.CompanySearchQuery, name),
		Topic:      "general",
		MaxResults: r.maxResults,
	})
	if err != nil {
		return "", fmt.Errorf("search company: %w", err)
	}
	logger.Stage("search").WithField("company", name).WithField("results", len(resp.Results)).Info("公司搜索完成")

	out, err := r.llm.Render(ctx, prompts.CompanySearch, map[string]any{
		prompts.VarCompany: name,
		prompts.VarSources: search.FormatSources(resp, maxSourceChars),
	})
	if err != nil {
		return "", fmt.Errorf("search company: %w", err)
	}
	return out, nil
}

// ScrapeWebsite 抓取网站并抽取业务信息
func (r *Resolver) ScrapeWebsite(ctx context.Context, url string) (string, error) {
	page, err := r.scraper.Scrape(ctx, url)
	if err != nil {
		return "", fmt.Errorf("scrape website: %w", err)
	}
	text := page.Text
	if rs := []rune(text); len(rs) > maxPageChars {
		text = string(rs[:maxPageChars])
	}
	logger.Stage("scrape").WithField("url", page.URL).WithField("mode", page.Mode).Info("网站抓取完成")

	out, err := r.llm.Render(ctx, prompts.WebsiteExtract, map[string]any{
		prompts.VarURL:         page.URL,
		prompts.VarPageTitle:   prompts.OrNotAvailable(page.Title),
		prompts.VarDescription: prompts.OrNotAvailable(page.Description),
		prompts.VarText:        prompts.OrNotAvailable(text),
	})
	if err != nil {
		return "", fmt.Errorf("scrape website: %w", err)
	}
	return out, nil
}

type companySummary struct {
	Summary string `json:"summary"`
}

// DescribeCompany 总结用户手写的描述，取 JSON 中的 summary 字段
func (r *Resolver) DescribeCompany(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("describe company: %w: empty description", model.ErrInvalidSource)
	}

	out, err := r.llm.Render(ctx, prompts.DescriptionSummary, map[string]any{prompts.VarText: text})
	if err != nil {
		return "", fmt.Errorf("describe company: %w", err)
	}

	var s companySummary
	if err := json.Unmarshal([]byte(llm.StripFence(out)), &s); err != nil {
		// 模型未按要求输出 JSON 时直接使用原文
		logger.Stage("describe").WithError(err).Warn("摘要不是 JSON，使用原始回复")
		return out, nil
	}
	if strings.TrimSpace(s.Summary) == "" {
		return "", fmt.Errorf("describe company: %w", llm.ErrEmptyCompletion)
	}
	return strings.TrimSpace(s.Summary), nil
}

// AnalyzeDocument 保存并索引上传的文档，再基于检索到的片段提炼要点
func (r *Resolver) AnalyzeDocument(ctx context.Context, fileName string, content []byte) (string, error) {
	name := filepath.Base(fileName)
	p, err := r.docs.SaveUpload(name, content)
	if err != nil {
		return "", fmt.Errorf("analyze document: %w", err)
	}

	if _, err := r.docs.Ingest(ctx, knowledge.DocumentSource{Path: p, Name: name}); err != nil {
		return "", fmt.Errorf("analyze document: %w", err)
	}

	question := fmt.Sprintf("Business operations, AI-related discussions, financial details, and strategic insights in %s", name)
	hits, err := r.docs.Query(ctx, question, knowledge.Filter{Source: name}, r.topK)
	if err != nil {
		return "", fmt.Errorf("analyze document: %w", err)
	}

	out, err := r.llm.Render(ctx, prompts.DocumentInsights, map[string]any{
		prompts.VarFileName: name,
		prompts.VarContext:  prompts.OrNotAvailable(knowledge.JoinResults(hits)),
	})
	if err != nil {
		return "", fmt.Errorf("analyze document: %w", err)
	}
	return out, nil
}
