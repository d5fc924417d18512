package data

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/visionary/app/console/internal/conf"
)

func TestToConfig(t *testing.T) {
	headless := false
	cfg := ToConfig(&conf.Advisor{
		Llm:         &conf.LLM{BaseUrl: "http://llm", ApiKey: "k", Model: "m"},
		Search:      &conf.Search{Provider: "searxng", Searxng: &conf.SearXNG{BaseUrl: "http://sx", Timeout: 5}},
		Browser:     &conf.Browser{Headless: &headless, NoSandbox: true},
		Pipeline:    &conf.Pipeline{StrictMarket: true},
		Concurrency: &conf.Concurrency{Rpm: 60},
		Db:          &conf.DB{Host: "db", Port: 5433},
	})

	assert.Equal(t, "m", cfg.LLM.Model)
	// 向量化配置沿用 LLM
	assert.Equal(t, "http://llm", cfg.Embedding.BaseURL)
	assert.Equal(t, "k", cfg.Embedding.APIKey)
	assert.Equal(t, "http://sx", cfg.Search.SearXNG.BaseURL)
	assert.Equal(t, 5, cfg.Search.SearXNG.Timeout)
	assert.False(t, cfg.Browser.IsHeadless())
	assert.True(t, cfg.Pipeline.StrictMarket)
	assert.Equal(t, 60, cfg.Concurrency.RPM)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, "company_docs", cfg.Knowledge.Table)
}

func TestToConfig_Nil(t *testing.T) {
	cfg := ToConfig(nil)
	assert.Equal(t, "user_data.csv", cfg.Session.CSVFile)
	assert.Equal(t, "auto", cfg.Pipeline.ScrapeMode)
	assert.True(t, cfg.Browser.IsHeadless())
}
