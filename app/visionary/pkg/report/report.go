// Package report 将策略内容渲染为 Markdown、HTML 并打印为 PDF 报告。
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
	"github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// PDFRenderer 把 HTML 打印为 PDF，由 browser.Manager 实现
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string, w io.Writer) error
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>AI Strategy Report for {{.Company}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 40px; line-height: 1.5; color: #222; }
h1 { border-bottom: 2px solid #333; padding-bottom: 8px; }
h2 { margin-top: 32px; color: #1a4d8f; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 8px; }
code { background: #f4f4f4; padding: 1px 4px; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var page = template.Must(template.New("report").Parse(pageTemplate))

// Emitter 报告生成器
type Emitter struct {
	dir      string
	renderer PDFRenderer
	md       goldmark.Markdown
}

// NewEmitter 创建 Emitter，报告写入 dir
func NewEmitter(dir string, renderer PDFRenderer) *Emitter {
	return &Emitter{
		dir:      dir,
		renderer: renderer,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Compose 生成固定章节顺序的 Markdown
func Compose(req model.ReportRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# AI Strategy Report for %s\n\n", req.CompanyName)
	fmt.Fprintf(&sb, "## AI Adoption Strategy\n\n%s\n\n", strings.TrimSpace(req.AdoptionStrategy))
	fmt.Fprintf(&sb, "## AI Implementation Plan\n\n%s\n\n", strings.TrimSpace(req.IntegrationPlan))
	fmt.Fprintf(&sb, "## Revenue Growth Opportunities\n\n%s\n", strings.TrimSpace(req.RevenueOpportunities))
	return sb.String()
}

// FileName 报告文件名，公司名中的路径分隔符替换为下划线
func FileName(company string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "")
	name := strings.TrimSpace(r.Replace(company))
	if name == "" || name == "." || name == ".." {
		name = "company"
	}
	return name + "_AI_Report.pdf"
}

// Path 报告文件的完整路径
func (e *Emitter) Path(company string) string {
	return filepath.Join(e.dir, FileName(company))
}

// HTML 将 Markdown 渲染为完整的 HTML 页面
func (e *Emitter) HTML(company, markdown string) (string, error) {
	var body bytes.Buffer
	if err := e.md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("markdown to html: %w", err)
	}
	var out bytes.Buffer
	if err := page.Execute(&out, struct {
		Company string
		Body    template.HTML
	}{company, template.HTML(body.String())}); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return out.String(), nil
}

// Emit 生成 PDF 报告，同名报告直接覆盖
func (e *Emitter) Emit(ctx context.Context, req model.ReportRequest) (*model.ReportArtifact, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	markdown := Compose(req)
	html, err := e.HTML(req.CompanyName, markdown)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	if e.dir != "" {
		if err := os.MkdirAll(e.dir, 0755); err != nil {
			return nil, fmt.Errorf("report: %w", err)
		}
	}
	path := e.Path(req.CompanyName)

	// 先写临时文件，成功后再替换，避免渲染失败留下半个文件
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := e.renderer.RenderPDF(ctx, html, tmp); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	logger.Stage("report").WithField("path", path).Info("报告已生成")
	return &model.ReportArtifact{CompanyName: req.CompanyName, Path: path, Markdown: markdown}, nil
}
