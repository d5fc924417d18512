package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/visionary/app/console/internal/repo"
	"github.com/iWorld-y/visionary/app/visionary/pkg/docparse"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// ErrReportNotFound 报告尚未生成
var ErrReportNotFound = errors.New("report not found")

// AdvisorUseCase 顾问业务逻辑
type AdvisorUseCase struct {
	repo repo.AdvisorRepo
	log  *log.Helper
}

// NewAdvisorUseCase 创建顾问业务逻辑实例
func NewAdvisorUseCase(repo repo.AdvisorRepo, logger log.Logger) *AdvisorUseCase {
	return &AdvisorUseCase{repo: repo, log: log.NewHelper(logger)}
}

// SearchCompany 按公司名搜索
func (uc *AdvisorUseCase) SearchCompany(ctx context.Context, name string) (string, error) {
	return uc.resolve(ctx, dm.CompanySource{Kind: dm.SourceName, Value: strings.TrimSpace(name)})
}

// ScrapeWebsite 抓取公司官网
func (uc *AdvisorUseCase) ScrapeWebsite(ctx context.Context, url string) (string, error) {
	return uc.resolve(ctx, dm.CompanySource{Kind: dm.SourceURL, Value: strings.TrimSpace(url)})
}

// DescribeCompany 整理手写描述
func (uc *AdvisorUseCase) DescribeCompany(ctx context.Context, text string) (string, error) {
	return uc.resolve(ctx, dm.CompanySource{Kind: dm.SourceText, Value: text})
}

// UploadDocument 校验格式后解析并索引上传的文档
func (uc *AdvisorUseCase) UploadDocument(ctx context.Context, fileName string, content []byte) (string, error) {
	if !docparse.Supported(fileName) {
		return "", fmt.Errorf("%w: %s", docparse.ErrUnsupportedFormat, fileName)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: %s is zero bytes", docparse.ErrEmptyDocument, fileName)
	}
	uc.log.Infof("document uploaded: %s (%d bytes)", fileName, len(content))
	return uc.resolve(ctx, dm.CompanySource{Kind: dm.SourceDocument, Value: fileName, Content: content})
}

func (uc *AdvisorUseCase) resolve(ctx context.Context, src dm.CompanySource) (string, error) {
	p, err := uc.repo.ResolveCompany(ctx, src)
	if err != nil {
		return "", err
	}
	return p.Text, nil
}

// IndustryTrends 行业 AI 趋势
func (uc *AdvisorUseCase) IndustryTrends(ctx context.Context, industry string) (string, error) {
	return uc.repo.IndustryTrends(ctx, strings.TrimSpace(industry))
}

// AIUseCases 行业 AI 用例
func (uc *AdvisorUseCase) AIUseCases(ctx context.Context, industry string) (string, error) {
	return uc.repo.AIUseCases(ctx, strings.TrimSpace(industry))
}

// CompetitorStrategy 竞品 AI 策略
func (uc *AdvisorUseCase) CompetitorStrategy(ctx context.Context, competitor string) (string, error) {
	return uc.repo.CompetitorStrategy(ctx, strings.TrimSpace(competitor))
}

// AdoptionStrategy 生成落地策略
func (uc *AdvisorUseCase) AdoptionStrategy(ctx context.Context, req dm.AdoptionRequest) (string, error) {
	return uc.repo.AdoptionStrategy(ctx, req)
}

// IntegrationPlan 生成实施计划
func (uc *AdvisorUseCase) IntegrationPlan(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return uc.repo.IntegrationPlan(ctx, req)
}

// RevenueOpportunities 分析营收机会
func (uc *AdvisorUseCase) RevenueOpportunities(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return uc.repo.RevenueOpportunities(ctx, req)
}

// GenerateReport 生成报告
func (uc *AdvisorUseCase) GenerateReport(ctx context.Context, req dm.ReportRequest) (*dm.ReportArtifact, error) {
	return uc.repo.GenerateReport(ctx, req)
}

// ReportFile 返回已生成报告的路径
func (uc *AdvisorUseCase) ReportFile(company string) (string, error) {
	if strings.TrimSpace(company) == "" {
		return "", fmt.Errorf("%w: company name", dm.ErrMissingInput)
	}
	p := uc.repo.ReportPath(company)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrReportNotFound, company)
		}
		return "", err
	}
	return p, nil
}

// SubmitSession 保存表单内容，字段允许为空。ID 与创建时间一律由存储层重新生成
func (uc *AdvisorUseCase) SubmitSession(ctx context.Context, rec dm.SessionRecord) (dm.SessionRecord, error) {
	rec.ID = ""
	rec.CreatedAt = time.Time{}
	return uc.repo.RecordSession(ctx, rec)
}
