// Package browser 管理无头 Chrome，用于动态页面抓取和 PDF 打印。
//
// 进程内只启动一次 Chrome；每次操作使用独立的隐身上下文和页面，操作结束即释放。
package browser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
)

// Manager 持有 Chrome 连接
type Manager struct {
	cfg config.BrowserConfig

	mu         sync.RWMutex
	browser    *rod.Browser
	launch     *launcher.Launcher
	controlURL string
}

// NewManager 创建管理器，不会立即启动 Chrome
func NewManager(cfg config.BrowserConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Start 连接已有的 Chrome 或启动新实例
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		logger.Log.Warn("浏览器连接失效，重新连接")
		_ = m.browser.Close()
		m.browser = nil
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		l := m.newLauncher()
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		m.launch = l
		controlURL = u
	}

	// 浏览器生命周期跟随 Manager，不绑定调用方的 ctx
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	m.browser = b
	m.controlURL = controlURL
	logger.Log.WithField("control_url", controlURL).Info("浏览器已就绪")
	return nil
}

func (m *Manager) newLauncher() *launcher.Launcher {
	l := launcher.New().Headless(m.cfg.IsHeadless()).NoSandbox(m.cfg.NoSandbox)
	if m.cfg.Bin != "" {
		l = l.Bin(m.cfg.Bin)
	}
	for _, f := range ParseFlags(m.cfg.Flags) {
		l = l.Set(flags.Flag(f.Name), f.Values...)
	}
	return l
}

func (m *Manager) ensureStarted(ctx context.Context) error {
	m.mu.RLock()
	if m.browser != nil {
		m.mu.RUnlock()
		return nil
	}
	m.mu.RUnlock()
	return m.Start(ctx)
}

// IsConnected 是否已连接
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser != nil
}

// Shutdown 关闭浏览器，自行启动的 Chrome 进程一并结束
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launch != nil {
		m.launch.Kill()
		m.launch = nil
	}
	m.controlURL = ""
	return err
}

func (m *Manager) navigationTimeout() time.Duration {
	if m.cfg.NavigationTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(m.cfg.NavigationTimeout) * time.Second
}

// withPage 在独立隐身上下文中打开页面执行 fn
func (m *Manager) withPage(ctx context.Context, url string, fn func(page *rod.Page) error) error {
	if err := m.ensureStarted(ctx); err != nil {
		return err
	}

	m.mu.RLock()
	b := m.browser
	m.mu.RUnlock()
	if b == nil {
		return fmt.Errorf("browser not started")
	}

	incognito, err := b.Incognito()
	if err != nil {
		return fmt.Errorf("create incognito context: %w", err)
	}
	defer func() { _ = incognito.Close() }()

	page, err := incognito.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	p := page.Context(ctx).Timeout(m.navigationTimeout())
	defer p.CancelTimeout()
	return fn(p)
}

// FetchHTML 打开页面，等待加载完成后返回渲染后的 HTML
func (m *Manager) FetchHTML(ctx context.Context, url string) (string, error) {
	var html string
	err := m.withPage(ctx, url, func(page *rod.Page) error {
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("wait load: %w", err)
		}
		var err error
		html, err = page.HTML()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return html, nil
}

// RenderPDF 将 HTML 打印为 PDF 写入 w
func (m *Manager) RenderPDF(ctx context.Context, html string, w io.Writer) error {
	err := m.withPage(ctx, "about:blank", func(page *rod.Page) error {
		if err := page.SetDocumentContent(html); err != nil {
			return fmt.Errorf("set content: %w", err)
		}
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("wait load: %w", err)
		}
		stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
		if err != nil {
			return fmt.Errorf("print to pdf: %w", err)
		}
		_, err = io.Copy(w, stream)
		return err
	})
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// LaunchFlag 额外的 Chrome 启动参数
type LaunchFlag struct {
	Name   string
	Values []string
}

// ParseFlags 解析 "--name=value" 形式的启动参数
func ParseFlags(raw []string) []LaunchFlag {
	out := make([]LaunchFlag, 0, len(raw))
	for _, r := range raw {
		s := strings.TrimLeft(strings.TrimSpace(r), "-")
		if s == "" {
			continue
		}
		name, val, hasVal := strings.Cut(s, "=")
		f := LaunchFlag{Name: name}
		if hasVal {
			f.Values = []string{val}
		}
		out = append(out, f)
	}
	return out
}
