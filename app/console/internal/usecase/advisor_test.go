package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/iWorld-y/visionary/app/visionary/pkg/docparse"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// mockAdvisorRepo 模拟顾问引擎
type mockAdvisorRepo struct {
	sources []dm.CompanySource
	records []dm.SessionRecord
	dir     string
}

func (m *mockAdvisorRepo) ResolveCompany(ctx context.Context, src dm.CompanySource) (*dm.CompanyProfile, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	m.sources = append(m.sources, src)
	return &dm.CompanyProfile{Kind: src.Kind, Source: src.Value, Text: "profile of " + src.Value}, nil
}

func (m *mockAdvisorRepo) IndustryTrends(ctx context.Context, industry string) (string, error) {
	return "trends for " + industry, nil
}

func (m *mockAdvisorRepo) AIUseCases(ctx context.Context, industry string) (string, error) {
	return "use cases for " + industry, nil
}

func (m *mockAdvisorRepo) CompetitorStrategy(ctx context.Context, company string) (string, error) {
	return "strategy of " + company, nil
}

func (m *mockAdvisorRepo) AdoptionStrategy(ctx context.Context, req dm.AdoptionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return "adoption", nil
}

func (m *mockAdvisorRepo) IntegrationPlan(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return "integration", req.Validate()
}

func (m *mockAdvisorRepo) RevenueOpportunities(ctx context.Context, req dm.FollowUpRequest) (string, error) {
	return "revenue", req.Validate()
}

func (m *mockAdvisorRepo) GenerateReport(ctx context.Context, req dm.ReportRequest) (*dm.ReportArtifact, error) {
	p := m.ReportPath(req.CompanyName)
	if err := os.WriteFile(p, []byte("%PDF"), 0644); err != nil {
		return nil, err
	}
	return &dm.ReportArtifact{CompanyName: req.CompanyName, Path: p}, nil
}

func (m *mockAdvisorRepo) ReportPath(company string) string {
	return filepath.Join(m.dir, company+"_AI_Report.pdf")
}

func (m *mockAdvisorRepo) RecordSession(ctx context.Context, rec dm.SessionRecord) (dm.SessionRecord, error) {
	m.records = append(m.records, rec)
	if rec.ID == "" {
		rec.ID = "id-1"
	}
	return rec, nil
}

func newUseCase(t *testing.T) (*AdvisorUseCase, *mockAdvisorRepo) {
	repo := &mockAdvisorRepo{dir: t.TempDir()}
	return NewAdvisorUseCase(repo, log.DefaultLogger), repo
}

func TestAdvisorUseCase_Company(t *testing.T) {
	uc, repo := newUseCase(t)
	ctx := context.Background()

	got, err := uc.SearchCompany(ctx, "  Tesla ")
	if err != nil {
		t.Fatalf("SearchCompany() error = %v", err)
	}
	if got != "profile of Tesla" {
		t.Errorf("SearchCompany() = %q", got)
	}

	if _, err := uc.ScrapeWebsite(ctx, ""); !errors.Is(err, dm.ErrInvalidSource) {
		t.Errorf("ScrapeWebsite(\"\") error = %v, want ErrInvalidSource", err)
	}

	if _, err := uc.DescribeCompany(ctx, "We sell solar panels."); err != nil {
		t.Fatalf("DescribeCompany() error = %v", err)
	}
	if len(repo.sources) != 2 || repo.sources[1].Kind != dm.SourceText {
		t.Errorf("sources = %+v", repo.sources)
	}
}

func TestAdvisorUseCase_UploadDocument(t *testing.T) {
	uc, repo := newUseCase(t)
	ctx := context.Background()

	if _, err := uc.UploadDocument(ctx, "deck.docx", []byte("x")); !errors.Is(err, docparse.ErrUnsupportedFormat) {
		t.Errorf("unsupported upload error = %v", err)
	}
	if _, err := uc.UploadDocument(ctx, "deck.pdf", nil); !errors.Is(err, docparse.ErrEmptyDocument) {
		t.Errorf("empty upload error = %v", err)
	}
	if len(repo.sources) != 0 {
		t.Fatalf("rejected uploads reached the engine: %+v", repo.sources)
	}

	got, err := uc.UploadDocument(ctx, "notes.md", []byte("# Acme"))
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if got != "profile of notes.md" || string(repo.sources[0].Content) != "# Acme" {
		t.Errorf("UploadDocument() = %q, source = %+v", got, repo.sources[0])
	}
}

func TestAdvisorUseCase_ReportFile(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	if _, err := uc.ReportFile("Acme"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("ReportFile() before generate error = %v", err)
	}
	if _, err := uc.ReportFile(" "); !errors.Is(err, dm.ErrMissingInput) {
		t.Errorf("ReportFile(blank) error = %v", err)
	}

	art, err := uc.GenerateReport(ctx, dm.ReportRequest{CompanyName: "Acme", AdoptionStrategy: "a", IntegrationPlan: "b", RevenueOpportunities: "c"})
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	p, err := uc.ReportFile("Acme")
	if err != nil || p != art.Path {
		t.Errorf("ReportFile() = %q, %v, want %q", p, err, art.Path)
	}
}

func TestAdvisorUseCase_SubmitSession(t *testing.T) {
	uc, repo := newUseCase(t)

	rec, err := uc.SubmitSession(context.Background(), dm.SessionRecord{Name: "Ada", CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("SubmitSession() error = %v", err)
	}
	if rec.ID == "" || len(repo.records) != 1 || repo.records[0].CompanyName != "Acme" {
		t.Errorf("SubmitSession() = %+v, records = %+v", rec, repo.records)
	}
}

func TestAdvisorUseCase_SubmitSession_DropsClientIdentity(t *testing.T) {
	uc, repo := newUseCase(t)

	forged := dm.SessionRecord{
		ID:          "not-a-uuid",
		CreatedAt:   time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		CompanyName: "Acme",
	}
	rec, err := uc.SubmitSession(context.Background(), forged)
	if err != nil {
		t.Fatalf("SubmitSession() error = %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("records = %d, want 1", len(repo.records))
	}
	if got := repo.records[0]; got.ID != "" || !got.CreatedAt.IsZero() {
		t.Errorf("repo received ID=%q CreatedAt=%v, want both cleared", got.ID, got.CreatedAt)
	}
	if rec.ID != "id-1" {
		t.Errorf("SubmitSession() ID = %q, want id-1", rec.ID)
	}
}
