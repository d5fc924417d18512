package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/visionary/app/console/internal/repo"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

type advisorRepo struct {
	data *Data
	log  *log.Helper
}

func NewAdvisorRepo(data *Data, logger log.Logger) repo.AdvisorRepo {
	return &advisorRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *advisorRepo) ResolveCompany(ctx context.Context, src dm.CompanySource) (*dm.CompanyProfile, error) {
	return r.data.engine.ResolveCompany(ctx, src)
}

func (r *advisorRepo) IndustryTrends(ctx context.Context, industry string) (string, error) {
	return r.data.engine.IndustryTrends(ctx, industry)
}

func (r *advisorRepo) AIUseCases(ctx context.Context, industry string) (string, error) {
	return r.data.engine.AIUseCases(ctx, industry)
}

func (r *advisorRepo) CompetitorStrategy(ctx context.Context, company string) (string, error) {
	return r.data.engine.CompetitorStrategy(ctx, company)
}

func (r *advisorRepo) AdoptionStrategy(ctx context.Context, req dm.AdoptionRequest) (string, error) {
	return r.data.engine.AdoptionStrategy(ctx, req)
}

func (r *advisorRepo) IntegrationPlan(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return r.data.engine.IntegrationPlan(ctx, req)
}

func (r *advisorRepo) RevenueOpportunities(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return r.data.engine.RevenueOpportunities(ctx, req)
}

func (r *advisorRepo) GenerateReport(ctx context.Context, req dm.ReportRequest) (*dm.ReportArtifact, error) {
	art, err := r.data.engine.GenerateReport(ctx, req)
	if err != nil {
		return nil, err
	}
	r.log.Infof("report written: %s", art.Path)
	return art, nil
}

func (r *advisorRepo) ReportPath(company string) string {
	return r.data.engine.ReportPath(company)
}

func (r *advisorRepo) RecordSession(ctx context.Context, rec dm.SessionRecord) (dm.SessionRecord, error) {
	return r.data.engine.RecordSession(ctx, rec)
}
