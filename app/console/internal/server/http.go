package server

import (
	"context"
	"embed"
	"fmt"
	"io"
	nethttp "net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/iWorld-y/visionary/app/console/internal/conf"
	"github.com/iWorld-y/visionary/app/console/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed assets/*
var assets embed.FS

const (
	// 每个阶段都要等待模型返回，默认超时放宽
	defaultTimeout     = 5 * time.Minute
	defaultMaxUploadMB = 32
)

func NewHTTPServer(c *conf.Server, s *service.AdvisorService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		http.Timeout(defaultTimeout),
	}
	maxUpload := int64(defaultMaxUploadMB) << 20
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
		if c.Http.MaxUploadMB > 0 {
			maxUpload = int64(c.Http.MaxUploadMB) << 20
		}
	}

	srv := http.NewServer(opts...)
	registerAdvisorHTTPServer(srv, s, maxUpload)

	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/" {
			nethttp.NotFound(w, r)
			return
		}
		content, _ := assets.ReadFile("assets/index.html")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(content)
	})

	return srv
}

func registerAdvisorHTTPServer(srv *http.Server, s *service.AdvisorService, maxUpload int64) {
	r := srv.Route("/api")

	r.POST("/company/search", bind(s.SearchCompany))
	r.POST("/company/scrape", bind(s.ScrapeWebsite))
	r.POST("/company/describe", bind(s.DescribeCompany))
	r.POST("/company/upload", upload(s, maxUpload))

	r.POST("/market/trends", bind(s.IndustryTrends))
	r.POST("/market/use-cases", bind(s.AIUseCases))
	r.POST("/market/competitor", bind(s.CompetitorStrategy))

	r.POST("/strategy/adoption", bind(s.AdoptionStrategy))
	r.POST("/strategy/integration", bind(s.IntegrationPlan))
	r.POST("/strategy/revenue", bind(s.RevenueOpportunities))

	r.POST("/report", bind(s.GenerateReport))
	r.GET("/report/download", download(s))

	r.POST("/session", bind(s.SubmitSession))
}

// bind 解码 JSON 请求体并经过服务端中间件调用 fn
func bind[Req, Reply any](fn func(context.Context, *Req) (*Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in Req
		if err := ctx.Bind(&in); err != nil {
			return errors.BadRequest("BAD_REQUEST", err.Error())
		}
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

// upload 接收 multipart 表单中的 file 字段
func upload(s *service.AdvisorService, maxBytes int64) http.HandlerFunc {
	return func(ctx http.Context) error {
		req := ctx.Request()
		req.Body = nethttp.MaxBytesReader(ctx.Response(), req.Body, maxBytes+1<<20)
		if err := req.ParseMultipartForm(maxBytes); err != nil {
			return errors.BadRequest("BAD_UPLOAD", err.Error())
		}
		f, hdr, err := req.FormFile("file")
		if err != nil {
			return errors.BadRequest("MISSING_FILE", err.Error())
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		if err != nil {
			return errors.BadRequest("BAD_UPLOAD", err.Error())
		}
		if int64(len(data)) > maxBytes {
			return errors.BadRequest("FILE_TOO_LARGE", fmt.Sprintf("%s exceeds %d bytes", hdr.Filename, maxBytes))
		}

		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return s.UploadDocument(c, hdr.Filename, data)
		})
		out, err := h(ctx, hdr.Filename)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func download(s *service.AdvisorService) http.HandlerFunc {
	return func(ctx http.Context) error {
		p, err := s.ReportFile(ctx.Query().Get("company"))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return errors.InternalServer("REPORT_UNREADABLE", err.Error())
		}
		defer f.Close()

		ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(p)))
		return ctx.Stream(200, "application/pdf", f)
	}
}
