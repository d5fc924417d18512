package repo

import (
	"context"

	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// AdvisorRepo 顾问引擎接口，每个方法对应界面上的一个操作
type AdvisorRepo interface {
	// ResolveCompany 按来源类型获取公司概况
	ResolveCompany(ctx context.Context, src dm.CompanySource) (*dm.CompanyProfile, error)
	IndustryTrends(ctx context.Context, industry string) (string, error)
	AIUseCases(ctx context.Context, industry string) (string, error)
	CompetitorStrategy(ctx context.Context, company string) (string, error)
	AdoptionStrategy(ctx context.Context, req dm.AdoptionRequest) (string, error)
	IntegrationPlan(ctx context.Context, req dm.FollowUpRequest) (string, error)
	RevenueOpportunities(ctx context.Context, req dm.FollowUpRequest) (string, error)
	// GenerateReport 生成 PDF 报告，同名公司覆盖旧文件
	GenerateReport(ctx context.Context, req dm.ReportRequest) (*dm.ReportArtifact, error)
	// ReportPath 公司报告的存放路径，文件不一定存在
	ReportPath(company string) string
	// RecordSession 追加一条会话记录
	RecordSession(ctx context.Context, rec dm.SessionRecord) (dm.SessionRecord, error)
}
