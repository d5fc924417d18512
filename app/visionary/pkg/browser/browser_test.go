package browser

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
)

func TestParseFlags(t *testing.T) {
	got := ParseFlags([]string{"--disable-gpu", "  --window-size=1280,800", "", "--"})
	assert.Equal(t, []LaunchFlag{
		{Name: "disable-gpu"},
		{Name: "window-size", Values: []string{"1280,800"}},
	}, got)
}

func TestManager_ShutdownWithoutStart(t *testing.T) {
	m := NewManager(config.BrowserConfig{})
	assert.False(t, m.IsConnected())
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_NavigationTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewManager(config.BrowserConfig{}).navigationTimeout())
	assert.Equal(t, 5*time.Second, NewManager(config.BrowserConfig{NavigationTimeout: 5}).navigationTimeout())
}

func TestManager_WithPageReleasesTimeout(t *testing.T) {
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("chrome not installed")
	}
	m := NewManager(config.BrowserConfig{Bin: bin, NoSandbox: true, NavigationTimeout: 60})
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	var page *rod.Page
	err := m.withPage(context.Background(), "about:blank", func(p *rod.Page) error {
		page = p
		return p.GetContext().Err()
	})
	require.NoError(t, err)
	assert.ErrorIs(t, page.GetContext().Err(), context.Canceled)
}
