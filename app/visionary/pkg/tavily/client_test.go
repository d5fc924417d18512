package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/visionary/app/visionary/pkg/search"
)

func TestClient_Search(t *testing.T) {
	var got SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tvly-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{
			{Title: "AI in banking", URL: "https://reuters.com/a", Content: "banks adopt LLMs", Score: 0.9},
		}})
	}))
	defer srv.Close()

	c := NewClient("tvly-key", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), &search.Request{
		Query:          "AI in Finance",
		IncludeDomains: []string{"reuters.com", "cnbc.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "AI in Finance", got.Query)
	assert.Equal(t, []string{"reuters.com", "cnbc.com"}, got.IncludeDomains)
	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, "general", got.Topic)
	assert.Equal(t, 5, got.MaxResults)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://reuters.com/a", resp.Results[0].URL)
}

func TestClient_SearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Search(context.Background(), &search.Request{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
