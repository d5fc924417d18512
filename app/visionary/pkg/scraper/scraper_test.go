package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	html  string
	err   error
	calls int
}

func (f *fakeBrowser) FetchHTML(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.html, f.err
}

func articlePage(body string) string {
	return fmt.Sprintf(`<html><head><title>Acme Solar</title>
<meta name="description" content="Solar panels for everyone"></head>
<body><article><h1>About Acme</h1><p>%s</p></article></body></html>`, body)
}

func TestScrape_Static(t *testing.T) {
	long := strings.Repeat("Acme builds residential solar solutions with AI-driven monitoring. ", 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage(long)))
	}))
	defer srv.Close()

	b := &fakeBrowser{}
	page, err := New(ModeAuto, 200, WithBrowser(b)).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, ModeStatic, page.Mode)
	assert.Equal(t, "Acme Solar", page.Title)
	assert.Equal(t, "Solar panels for everyone", page.Description)
	assert.Contains(t, page.Text, "AI-driven monitoring")
	assert.Zero(t, b.calls)
}

func TestScrape_FallsBackToBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Loading</title></head><body><div id="root"></div></body></html>`))
	}))
	defer srv.Close()

	b := &fakeBrowser{html: articlePage(strings.Repeat("Rendered content about our AI platform and services. ", 10))}
	page, err := New(ModeAuto, 200, WithBrowser(b)).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, b.calls)
	assert.Equal(t, ModeDynamic, page.Mode)
	assert.Equal(t, "Acme Solar", page.Title)
	assert.Contains(t, page.Text, "Rendered content about our AI platform")
}

func TestScrape_BrowserFailureKeepsStaticText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("Short text.")))
	}))
	defer srv.Close()

	b := &fakeBrowser{err: errors.New("chrome crashed")}
	page, err := New(ModeAuto, 200, WithBrowser(b)).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, ModeStatic, page.Mode)
	assert.Contains(t, page.Text, "Short text.")
}

func TestScrape_StaticErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(ModeStatic, 0).Scrape(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 403")
}

func TestScrape_InvalidURL(t *testing.T) {
	_, err := New(ModeAuto, 0).Scrape(context.Background(), "not a url")
	assert.Error(t, err)

	_, err = New(ModeDynamic, 0).Scrape(context.Background(), "https://example.com")
	assert.ErrorContains(t, err, "requires a browser")
}

func TestMeta_OpenGraphFallback(t *testing.T) {
	title, desc := Meta([]byte(`<html><head><title> T </title><meta property="og:description" content="og desc"></head></html>`))
	assert.Equal(t, "T", title)
	assert.Equal(t, "og desc", desc)
}

func TestBodyText(t *testing.T) {
	raw := []byte(`<html><body><script>var x = 1;</script><p>Hello
	  world</p><style>p{}</style></body></html>`)
	assert.Equal(t, "Hello world", BodyText(raw))
}
