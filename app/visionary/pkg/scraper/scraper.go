// Package scraper 抓取公司网站正文。
//
// 先做静态抓取并用 readability 提取正文，正文过短或配置为 dynamic 时改用浏览器渲染。
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
)

// 抓取模式
const (
	ModeAuto    = "auto"
	ModeStatic  = "static"
	ModeDynamic = "dynamic"
)

// maxPageBytes 单页最大读取字节数
const maxPageBytes = 8 << 20

// Fetcher 渲染页面并返回 HTML，由 browser.Manager 实现
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// Page 抓取结果
type Page struct {
	URL         string
	Title       string
	Description string
	Text        string
	Mode        string
}

// Option 配置项
type Option func(*Scraper)

// WithHTTPClient 自定义 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.httpClient = c }
}

// WithBrowser 设置动态抓取使用的浏览器
func WithBrowser(f Fetcher) Option {
	return func(s *Scraper) { s.browser = f }
}

// Scraper 网站抓取器
type Scraper struct {
	mode       string
	minText    int
	httpClient *http.Client
	browser    Fetcher
}

// New 创建抓取器，mode 为空时使用 auto
func New(mode string, minText int, opts ...Option) *Scraper {
	if mode == "" {
		mode = ModeAuto
	}
	s := &Scraper{
		mode:       mode,
		minText:    minText,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape 按配置的模式抓取页面
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}
	log := logger.Stage("scrape").WithField("url", u.String())

	switch s.mode {
	case ModeStatic:
		return s.static(ctx, u)
	case ModeDynamic:
		return s.dynamic(ctx, u)
	}

	page, err := s.static(ctx, u)
	if err == nil && len([]rune(strings.TrimSpace(page.Text))) >= s.minText {
		return page, nil
	}
	if s.browser == nil {
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	if err != nil {
		log.WithError(err).Warn("静态抓取失败，改用浏览器")
	} else {
		log.WithField("chars", len(page.Text)).Info("正文过短，改用浏览器")
	}
	dyn, dynErr := s.dynamic(ctx, u)
	if dynErr != nil {
		if page != nil && strings.TrimSpace(page.Text) != "" {
			log.WithError(dynErr).Warn("浏览器抓取失败，使用静态结果")
			return page, nil
		}
		return nil, dynErr
	}
	return dyn, nil
}

func (s *Scraper) static(ctx context.Context, u *url.URL) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; VisionaryBot/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	page := &Page{URL: u.String(), Mode: ModeStatic}
	page.Title, page.Description = Meta(raw)

	article, err := readability.FromReader(bytes.NewReader(raw), u)
	if err != nil {
		// 正文识别失败时退回整页可见文本
		logger.Stage("scrape").WithError(err).Debug("readability 解析失败")
		page.Text = BodyText(raw)
		return page, nil
	}
	page.Text = strings.TrimSpace(article.TextContent)
	if page.Text == "" {
		page.Text = BodyText(raw)
	}
	if page.Title == "" {
		page.Title = article.Title
	}
	if page.Description == "" {
		page.Description = article.Excerpt
	}
	return page, nil
}

func (s *Scraper) dynamic(ctx context.Context, u *url.URL) (*Page, error) {
	if s.browser == nil {
		return nil, fmt.Errorf("dynamic scrape requires a browser")
	}
	html, err := s.browser.FetchHTML(ctx, u.String())
	if err != nil {
		return nil, err
	}

	page := &Page{URL: u.String(), Mode: ModeDynamic}
	page.Title, page.Description = Meta([]byte(html))

	// 优先转换 readability 清洗后的正文，失败时转换整页
	content := html
	if article, err := readability.FromReader(strings.NewReader(html), u); err == nil && strings.TrimSpace(article.Content) != "" {
		content = article.Content
	}
	md, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}
	page.Text = strings.TrimSpace(md)
	return page, nil
}

// Meta 提取页面标题和 meta description
func Meta(raw []byte) (title, description string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", ""
	}
	title = strings.TrimSpace(doc.Find("title").First().Text())
	description, _ = doc.Find(`meta[name="description"]`).Attr("content")
	if description == "" {
		description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}
	return title, strings.TrimSpace(description)
}

// BodyText 页面 body 中的可见文本，空白折叠为单个空格
func BodyText(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	doc.Find("script,style,noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}
