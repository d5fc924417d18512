package search

import (
	"context"
	"fmt"
	"strings"
)

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query             string
	Topic             string // "news" or "general"
	MaxResults        int
	IncludeRawContent bool
	// IncludeDomains 非空时只返回这些站点的结果
	IncludeDomains []string
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}

// Merge 按顺序拼接多次搜索的结果，不去重
func Merge(responses ...*Response) *Response {
	merged := &Response{}
	for _, r := range responses {
		if r == nil {
			continue
		}
		merged.Results = append(merged.Results, r.Results...)
	}
	return merged
}

// FormatSources 将搜索结果整理为带来源编号的文本，供 LLM 引用
func FormatSources(resp *Response, maxContent int) string {
	if resp == nil || len(resp.Results) == 0 {
		return "No search results."
	}
	var sb strings.Builder
	for i, r := range resp.Results {
		content := r.Content
		if r.RawContent != "" && len(r.RawContent) > len(content) {
			content = r.RawContent
		}
		if rs := []rune(content); maxContent > 0 && len(rs) > maxContent {
			content = string(rs[:maxContent])
		}
		fmt.Fprintf(&sb, "[%d] %s\nURL: %s\n", i+1, r.Title, r.URL)
		if r.PublishedDate != "" {
			fmt.Fprintf(&sb, "Published: %s\n", r.PublishedDate)
		}
		fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(content))
	}
	return strings.TrimSpace(sb.String())
}
