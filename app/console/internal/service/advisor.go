package service

import (
	"context"
	stderrors "errors"
	"net/url"
	"path/filepath"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/visionary/app/console/internal/usecase"
	"github.com/iWorld-y/visionary/app/visionary/pkg/docparse"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// CompanyReq 三种文本来源只取对应字段
type CompanyReq struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type TextReply struct {
	Text string `json:"text"`
}

type MarketReq struct {
	Industry   string `json:"industry"`
	Competitor string `json:"competitor"`
}

type AdoptionReq struct {
	CompanyData        string `json:"company_data"`
	IndustryTrends     string `json:"industry_trends"`
	AIUseCases         string `json:"ai_use_cases"`
	CompetitorAnalysis string `json:"competitor_analysis"`
}

type FollowUpReq struct {
	CompanyData string `json:"company_data"`
	AIStrategy  string `json:"ai_strategy"`
}

type ReportReq struct {
	CompanyName          string `json:"company_name"`
	AIStrategy           string `json:"ai_strategy"`
	AIIntegration        string `json:"ai_integration"`
	RevenueOpportunities string `json:"revenue_opportunities"`
}

type ReportReply struct {
	CompanyName string `json:"company_name"`
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url"`
}

type UploadReply struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
}

// SessionReq 表单字段，ID 与创建时间由服务端生成
type SessionReq struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Mobile               string `json:"mobile"`
	CompanyName          string `json:"company_name"`
	CompanyData          string `json:"company_data"`
	Industry             string `json:"industry"`
	Competitor           string `json:"competitor"`
	AIStrategy           string `json:"ai_strategy"`
	AIIntegration        string `json:"ai_integration"`
	RevenueOpportunities string `json:"revenue_opportunities"`
}

type SessionReply struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type AdvisorService struct {
	uc  *usecase.AdvisorUseCase
	log *log.Helper
}

func NewAdvisorService(uc *usecase.AdvisorUseCase, logger log.Logger) *AdvisorService {
	return &AdvisorService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *AdvisorService) SearchCompany(ctx context.Context, req *CompanyReq) (*TextReply, error) {
	return s.text(s.uc.SearchCompany(ctx, req.Name))
}

func (s *AdvisorService) ScrapeWebsite(ctx context.Context, req *CompanyReq) (*TextReply, error) {
	return s.text(s.uc.ScrapeWebsite(ctx, req.URL))
}

func (s *AdvisorService) DescribeCompany(ctx context.Context, req *CompanyReq) (*TextReply, error) {
	return s.text(s.uc.DescribeCompany(ctx, req.Description))
}

func (s *AdvisorService) UploadDocument(ctx context.Context, fileName string, content []byte) (*UploadReply, error) {
	out, err := s.uc.UploadDocument(ctx, fileName, content)
	if err != nil {
		return nil, s.toError(err)
	}
	return &UploadReply{FileName: filepath.Base(fileName), Text: out}, nil
}

func (s *AdvisorService) IndustryTrends(ctx context.Context, req *MarketReq) (*TextReply, error) {
	return s.text(s.uc.IndustryTrends(ctx, req.Industry))
}

func (s *AdvisorService) AIUseCases(ctx context.Context, req *MarketReq) (*TextReply, error) {
	return s.text(s.uc.AIUseCases(ctx, req.Industry))
}

func (s *AdvisorService) CompetitorStrategy(ctx context.Context, req *MarketReq) (*TextReply, error) {
	return s.text(s.uc.CompetitorStrategy(ctx, req.Competitor))
}

func (s *AdvisorService) AdoptionStrategy(ctx context.Context, req *AdoptionReq) (*TextReply, error) {
	return s.text(s.uc.AdoptionStrategy(ctx, dm.AdoptionRequest{
		CompanyProfile:     req.CompanyData,
		IndustryTrends:     req.IndustryTrends,
		AIUseCases:         req.AIUseCases,
		CompetitorAnalysis: req.CompetitorAnalysis,
	}))
}

func (s *AdvisorService) IntegrationPlan(ctx context.Context, req *FollowUpReq) (*TextReply, error) {
	return s.text(s.uc.IntegrationPlan(ctx, followUp(req)))
}

func (s *AdvisorService) RevenueOpportunities(ctx context.Context, req *FollowUpReq) (*TextReply, error) {
	return s.text(s.uc.RevenueOpportunities(ctx, followUp(req)))
}

func (s *AdvisorService) GenerateReport(ctx context.Context, req *ReportReq) (*ReportReply, error) {
	art, err := s.uc.GenerateReport(ctx, dm.ReportRequest{
		CompanyName:          req.CompanyName,
		AdoptionStrategy:     req.AIStrategy,
		IntegrationPlan:      req.AIIntegration,
		RevenueOpportunities: req.RevenueOpportunities,
	})
	if err != nil {
		return nil, s.toError(err)
	}
	return &ReportReply{
		CompanyName: art.CompanyName,
		FileName:    filepath.Base(art.Path),
		DownloadURL: "/api/report/download?company=" + url.QueryEscape(art.CompanyName),
	}, nil
}

// ReportFile 下载接口使用的报告路径
func (s *AdvisorService) ReportFile(company string) (string, error) {
	p, err := s.uc.ReportFile(company)
	if err != nil {
		return "", s.toError(err)
	}
	return p, nil
}

func (s *AdvisorService) SubmitSession(ctx context.Context, req *SessionReq) (*SessionReply, error) {
	rec, err := s.uc.SubmitSession(ctx, dm.SessionRecord{
		Name:                 req.Name,
		Email:                req.Email,
		Mobile:               req.Mobile,
		CompanyName:          req.CompanyName,
		CompanyData:          req.CompanyData,
		Industry:             req.Industry,
		Competitor:           req.Competitor,
		AIStrategy:           req.AIStrategy,
		AIIntegration:        req.AIIntegration,
		RevenueOpportunities: req.RevenueOpportunities,
	})
	if err != nil {
		return nil, s.toError(err)
	}
	return &SessionReply{ID: rec.ID, CreatedAt: rec.CreatedAt}, nil
}

func (s *AdvisorService) text(out string, err error) (*TextReply, error) {
	if err != nil {
		return nil, s.toError(err)
	}
	return &TextReply{Text: out}, nil
}

// toError 校验类错误返回 400，报告缺失返回 404，其余 500
func (s *AdvisorService) toError(err error) error {
	switch {
	case stderrors.Is(err, dm.ErrMissingInput):
		return errors.BadRequest("MISSING_INPUT", err.Error())
	case stderrors.Is(err, dm.ErrInvalidSource):
		return errors.BadRequest("INVALID_SOURCE", err.Error())
	case stderrors.Is(err, docparse.ErrEmptyDocument):
		return errors.BadRequest("EMPTY_DOCUMENT", err.Error())
	case stderrors.Is(err, docparse.ErrUnsupportedFormat):
		return errors.BadRequest("UNSUPPORTED_FORMAT", err.Error())
	case stderrors.Is(err, usecase.ErrReportNotFound):
		return errors.NotFound("REPORT_NOT_FOUND", err.Error())
	}
	s.log.Errorf("advisor request failed: %v", err)
	return errors.InternalServer("ADVISOR_FAILED", err.Error())
}

func followUp(req *FollowUpReq) dm.FollowUpRequest {
	return dm.FollowUpRequest{CompanyProfile: req.CompanyData, AdoptionStrategy: req.AIStrategy}
}
