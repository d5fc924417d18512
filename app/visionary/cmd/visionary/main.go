package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
	"github.com/iWorld-y/visionary/app/visionary/pkg/engine"
	"github.com/iWorld-y/visionary/app/visionary/pkg/knowledge"
	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
	dm "github.com/iWorld-y/visionary/app/visionary/pkg/model"
	"github.com/iWorld-y/visionary/app/visionary/pkg/storage"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "visionary",
		Short:        "AI adoption strategy advisor",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "config file path")
	root.AddCommand(newRunCmd(), newResolveCmd(), newMarketCmd(), newIngestCmd(), newRecordsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup 加载配置、初始化日志并创建引擎
func setup(ctx context.Context) (*engine.Engine, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}
	return engine.NewEngine(ctx, cfg)
}

func newRunCmd() *cobra.Command {
	var (
		opts       engine.RunOptions
		sourceKind string
		sourceVal  string
		noRecord   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and write the PDF report",
		Example: `  visionary run --company Tesla --source-kind name --industry Automotive --competitor Ford
  visionary run --company Acme --source-kind url --source https://acme.example
  visionary run --company Acme --source-kind document --source ./deck.pptx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := buildSource(sourceKind, sourceVal, opts.CompanyName)
			if err != nil {
				return err
			}
			opts.Source = src
			opts.Record = !noRecord
			opts.ProgressCallback = func(status string, progress int) {
				logger.Log.Infof("[%3d%%] %s", progress, status)
			}

			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close(context.Background())

			res, err := e.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Report.Path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.CompanyName, "company", "", "company name used in the report title")
	f.StringVar(&sourceKind, "source-kind", "name", "how the company is identified: name, url, text, document")
	f.StringVar(&sourceVal, "source", "", "company name, website URL, description text or document path")
	f.StringVar(&opts.Industry, "industry", "", "industry, e.g. Healthcare")
	f.StringVar(&opts.Competitor, "competitor", "", "competitor name")
	f.StringVar(&opts.Name, "name", "", "requester name for the session record")
	f.StringVar(&opts.Email, "email", "", "requester email for the session record")
	f.StringVar(&opts.Mobile, "mobile", "", "requester mobile for the session record")
	f.BoolVar(&noRecord, "no-record", false, "do not append a session record")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

// buildSource 按来源类型组装输入，document 类型读取本地文件
func buildSource(kind, value, company string) (dm.CompanySource, error) {
	k, err := dm.ParseSourceKind(kind)
	if err != nil {
		return dm.CompanySource{}, err
	}
	src := dm.CompanySource{Kind: k, Value: value}
	if src.Value == "" && k == dm.SourceName {
		src.Value = company
	}
	if k == dm.SourceDocument {
		data, err := os.ReadFile(value)
		if err != nil {
			return dm.CompanySource{}, fmt.Errorf("read document: %w", err)
		}
		src.Content = data
	}
	return src, nil
}

func newResolveCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "resolve <name|url|text|path>",
		Short: "Print the company profile for one source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := buildSource(kind, args[0], "")
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close(context.Background())

			p, err := e.ResolveCompany(cmd.Context(), src)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "source-kind", "name", "name, url, text or document")
	return cmd
}

func newMarketCmd() *cobra.Command {
	var industry, competitor string
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Print industry trends, AI use cases and competitor strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close(context.Background())

			mc, err := e.Market(cmd.Context(), industry, competitor)
			if err != nil {
				return err
			}
			writeMarket(cmd.OutOrStdout(), mc)
			return nil
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "industry, e.g. Healthcare")
	cmd.Flags().StringVar(&competitor, "competitor", "", "competitor name")
	cmd.MarkFlagsOneRequired("industry", "competitor")
	return cmd
}

// writeMarket 以 Markdown 小节输出非空的市场信息
func writeMarket(w io.Writer, mc *dm.MarketContext) {
	sections := []struct{ title, body string }{
		{"Industry Trends", mc.IndustryTrends},
		{"AI Use Cases", mc.AIUseCases},
		{"Competitor AI Strategies", mc.CompetitorAnalysis},
	}
	for _, s := range sections {
		if s.body != "" {
			fmt.Fprintf(w, "## %s\n\n%s\n\n", s.title, s.body)
		}
	}
}

func newIngestCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "ingest <path|url>...",
		Short: "Add documents to the knowledge index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close(context.Background())

			for _, arg := range args {
				src := knowledge.DocumentSource{Path: arg, Name: name}
				if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
					src = knowledge.DocumentSource{URL: arg, Name: name}
				}
				res, err := e.Ingest(cmd.Context(), src)
				if err != nil {
					return fmt.Errorf("ingest %s: %w", arg, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d chunks\n", res.DocumentID, res.Source, res.Chunks)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "source name stored with the chunks (defaults to the file name)")
	return cmd
}

func newRecordsCmd() *cobra.Command {
	var (
		fromDB bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print saved session records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				recs []dm.SessionRecord
				err  error
			)
			if fromDB {
				recs, err = recentFromDB(cmd.Context(), limit)
			} else {
				var e *engine.Engine
				if e, err = setup(cmd.Context()); err != nil {
					return err
				}
				defer e.Close(context.Background())
				recs, err = e.Records()
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		},
	}
	cmd.Flags().BoolVar(&fromDB, "db", false, "read from the Postgres mirror instead of the JSON Lines log")
	cmd.Flags().IntVar(&limit, "limit", 20, "max records to read from Postgres")
	return cmd
}

// recentFromDB 读取 Postgres 中最近的会话记录
func recentFromDB(ctx context.Context, limit int) ([]dm.SessionRecord, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if cfg.DB.Host == "" {
		return nil, fmt.Errorf("db.host is not configured")
	}
	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Recent(ctx, limit)
}
