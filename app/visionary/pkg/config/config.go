package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Search      SearchConfig      `yaml:"search"`
	Browser     BrowserConfig     `yaml:"browser"`
	Knowledge   KnowledgeConfig   `yaml:"knowledge"`
	Report      ReportConfig      `yaml:"report"`
	Session     SessionConfig     `yaml:"session"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// EmbeddingConfig 向量化模型配置，BaseURL/APIKey 为空时沿用 LLM 配置
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
	// 行业趋势搜索限定的新闻/财经站点
	TrendDomains []string `yaml:"trend_domains"`
	// 竞品分析搜索限定的科技/商业媒体
	CompetitorDomains []string `yaml:"competitor_domains"`
	MaxResults        int      `yaml:"max_results"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// BrowserConfig 无头浏览器配置
type BrowserConfig struct {
	// DebuggerURL 已运行 Chrome 的 DevTools 地址，为空时自动启动
	DebuggerURL string   `yaml:"debugger_url"`
	Bin         string   `yaml:"bin"`
	Headless    *bool    `yaml:"headless"`
	NoSandbox   bool     `yaml:"no_sandbox"`
	Flags       []string `yaml:"flags"`
	// NavigationTimeout 页面加载超时（秒）
	NavigationTimeout int `yaml:"navigation_timeout"`
}

// IsHeadless 默认无头运行
func (c BrowserConfig) IsHeadless() bool {
	if c.Headless == nil {
		return true
	}
	return *c.Headless
}

// KnowledgeConfig 文档知识库配置
type KnowledgeConfig struct {
	Dir          string `yaml:"dir"`
	Table        string `yaml:"table"`
	UploadDir    string `yaml:"upload_dir"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
}

// ReportConfig 报告输出配置
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// SessionConfig 会话记录配置
type SessionConfig struct {
	CSVFile  string `yaml:"csv_file"`
	JSONFile string `yaml:"json_file"`
}

// PipelineConfig 流水线行为配置
type PipelineConfig struct {
	// StrictMarket 为 true 时市场信息抓取失败会中断后续分析
	StrictMarket bool `yaml:"strict_market"`
	// ScrapeMode: auto / static / dynamic
	ScrapeMode string `yaml:"scrape_mode"`
	// MinPageText 静态抓取正文少于该长度时改用浏览器抓取
	MinPageText int `yaml:"min_page_text"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用节流配置，RPM 为 0 时不限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults 填充未配置项的默认值
func (c *Config) ApplyDefaults() {
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = c.LLM.BaseURL
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = c.LLM.APIKey
	}
	if len(c.Search.TrendDomains) == 0 {
		c.Search.TrendDomains = []string{"cnbc.com", "reuters.com", "bloomberg.com"}
	}
	if len(c.Search.CompetitorDomains) == 0 {
		c.Search.CompetitorDomains = []string{"techcrunch.com", "forbes.com", "businessinsider.com"}
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 8
	}
	if c.Browser.NavigationTimeout == 0 {
		c.Browser.NavigationTimeout = 30
	}
	if c.Knowledge.Dir == "" {
		c.Knowledge.Dir = "tmp/lancedb"
	}
	if c.Knowledge.Table == "" {
		c.Knowledge.Table = "company_docs"
	}
	if c.Knowledge.UploadDir == "" {
		c.Knowledge.UploadDir = "tmp"
	}
	if c.Knowledge.ChunkSize == 0 {
		c.Knowledge.ChunkSize = 1000
	}
	if c.Knowledge.ChunkOverlap == 0 {
		c.Knowledge.ChunkOverlap = 100
	}
	if c.Knowledge.TopK == 0 {
		c.Knowledge.TopK = 6
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "."
	}
	if c.Session.CSVFile == "" {
		c.Session.CSVFile = "user_data.csv"
	}
	if c.Session.JSONFile == "" {
		c.Session.JSONFile = "user_data.jsonl"
	}
	if c.Pipeline.ScrapeMode == "" {
		c.Pipeline.ScrapeMode = "auto"
	}
	if c.Pipeline.MinPageText == 0 {
		c.Pipeline.MinPageText = 500
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
