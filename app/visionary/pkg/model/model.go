package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingInput 必填的上游文本为空
	ErrMissingInput = errors.New("missing required input")
	// ErrInvalidSource 公司信息来源不合法
	ErrInvalidSource = errors.New("invalid company source")
)

// SourceKind 公司信息来源类型
type SourceKind string

const (
	SourceName     SourceKind = "name"
	SourceURL      SourceKind = "url"
	SourceText     SourceKind = "text"
	SourceDocument SourceKind = "document"
)

// ParseSourceKind 兼容界面上的选项文案
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "search by name":
		return SourceName, nil
	case "url", "website url", "website":
		return SourceURL, nil
	case "text", "manual description", "description":
		return SourceText, nil
	case "document", "upload document", "file":
		return SourceDocument, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidSource, s)
}

// CompanySource 用户提供的公司标识，四种来源只取其一
type CompanySource struct {
	Kind  SourceKind
	Value string // 公司名 / URL / 描述文本 / 文件名

	// Content 上传文档的原始字节，仅 SourceDocument 使用
	Content []byte
}

// Validate 校验来源
func (s CompanySource) Validate() error {
	switch s.Kind {
	case SourceName, SourceURL, SourceText:
		if strings.TrimSpace(s.Value) == "" {
			return fmt.Errorf("%w: empty %s", ErrInvalidSource, s.Kind)
		}
	case SourceDocument:
		if strings.TrimSpace(s.Value) == "" {
			return fmt.Errorf("%w: document without file name", ErrInvalidSource)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSource, s.Kind)
	}
	return nil
}

// CompanyProfile 公司概况，阶段之间原样传递
type CompanyProfile struct {
	Kind   SourceKind
	Source string
	Text   string
}

// MarketContext 市场信息，三部分相互独立且均可为空
type MarketContext struct {
	IndustryTrends     string `json:"industry_trends"`
	AIUseCases         string `json:"ai_use_cases"`
	CompetitorAnalysis string `json:"competitor_analysis"`
}

// StrategyBundle 三段依次依赖的策略输出
type StrategyBundle struct {
	AdoptionStrategy     string `json:"ai_strategy"`
	IntegrationPlan      string `json:"ai_integration"`
	RevenueOpportunities string `json:"revenue_opportunities"`
}

// AdoptionRequest 生成 AI 落地策略的输入
type AdoptionRequest struct {
	CompanyProfile     string
	IndustryTrends     string
	AIUseCases         string
	CompetitorAnalysis string
}

// Validate 公司概况必填，市场信息可选
func (r AdoptionRequest) Validate() error {
	return requireText("company profile", r.CompanyProfile)
}

// FollowUpRequest 实施计划与营收分析的输入
type FollowUpRequest struct {
	CompanyProfile   string
	AdoptionStrategy string
}

// Validate 公司概况与落地策略都必填
func (r FollowUpRequest) Validate() error {
	if err := requireText("company profile", r.CompanyProfile); err != nil {
		return err
	}
	return requireText("adoption strategy", r.AdoptionStrategy)
}

// ReportRequest 生成报告的输入
type ReportRequest struct {
	CompanyName          string
	AdoptionStrategy     string
	IntegrationPlan      string
	RevenueOpportunities string
}

// Validate 报告需要三段内容齐全
func (r ReportRequest) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"company name", r.CompanyName},
		{"adoption strategy", r.AdoptionStrategy},
		{"integration plan", r.IntegrationPlan},
		{"revenue opportunities", r.RevenueOpportunities},
	} {
		if err := requireText(f.name, f.val); err != nil {
			return err
		}
	}
	return nil
}

// ReportArtifact 生成的报告文件
type ReportArtifact struct {
	CompanyName string
	Path        string
	Markdown    string
}

// SessionRecord 一次会话的输入与输出，只追加不修改
type SessionRecord struct {
	ID                   string    `json:"id,omitempty"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Mobile               string    `json:"mobile"`
	CompanyName          string    `json:"company_name"`
	CompanyData          string    `json:"company_data"`
	Industry             string    `json:"industry"`
	Competitor           string    `json:"competitor"`
	AIStrategy           string    `json:"ai_strategy"`
	AIIntegration        string    `json:"ai_integration"`
	RevenueOpportunities string    `json:"revenue_opportunities"`
}

// SessionColumns CSV 表头，与 Row 的顺序一致
var SessionColumns = []string{
	"name", "email", "mobile", "company_name", "company_data",
	"industry", "competitor", "ai_strategy", "ai_integration", "revenue_opportunities",
}

// Row 按 SessionColumns 顺序输出字段
func (r SessionRecord) Row() []string {
	return []string{
		r.Name, r.Email, r.Mobile, r.CompanyName, r.CompanyData,
		r.Industry, r.Competitor, r.AIStrategy, r.AIIntegration, r.RevenueOpportunities,
	}
}

func requireText(field, val string) error {
	if strings.TrimSpace(val) == "" {
		return fmt.Errorf("%w: %s", ErrMissingInput, field)
	}
	return nil
}
