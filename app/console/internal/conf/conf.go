package conf

type Bootstrap struct {
	Server  *Server
	Advisor *Advisor
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
	// MaxUploadMB 上传文件大小上限
	MaxUploadMB int32 `json:"max_upload_mb"`
}

type Advisor struct {
	Llm         *LLM         `json:"llm"`
	Embedding   *LLM         `json:"embedding"`
	Search      *Search      `json:"search"`
	Browser     *Browser     `json:"browser"`
	Knowledge   *Knowledge   `json:"knowledge"`
	Report      *Report      `json:"report"`
	Session     *Session     `json:"session"`
	Pipeline    *Pipeline    `json:"pipeline"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Search struct {
	Provider          string   `json:"provider"`
	Tavily            *Tavily  `json:"tavily"`
	Searxng           *SearXNG `json:"searxng"`
	TrendDomains      []string `json:"trend_domains"`
	CompetitorDomains []string `json:"competitor_domains"`
	MaxResults        int32    `json:"max_results"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Browser struct {
	DebuggerUrl       string   `json:"debugger_url"`
	Bin               string   `json:"bin"`
	Headless          *bool    `json:"headless"`
	NoSandbox         bool     `json:"no_sandbox"`
	Flags             []string `json:"flags"`
	NavigationTimeout int32    `json:"navigation_timeout"`
}

type Knowledge struct {
	Dir          string `json:"dir"`
	Table        string `json:"table"`
	UploadDir    string `json:"upload_dir"`
	ChunkSize    int32  `json:"chunk_size"`
	ChunkOverlap int32  `json:"chunk_overlap"`
	TopK         int32  `json:"top_k"`
}

type Report struct {
	Dir string `json:"dir"`
}

type Session struct {
	CsvFile  string `json:"csv_file"`
	JsonFile string `json:"json_file"`
}

type Pipeline struct {
	StrictMarket bool   `json:"strict_market"`
	ScrapeMode   string `json:"scrape_mode"`
	MinPageText  int32  `json:"min_page_text"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
