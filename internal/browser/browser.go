// Package browser hosts gestures in a Chromium page driven over the DevTools
// protocol. It supplies the viewport, scrolling, overlay drawing, link
// following and tab actions the recognizer and edge controller need.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/gesturenav/internal/gesture"
)

var (
	// ErrNoPage is returned when no tab is attached.
	ErrNoPage = errors.New("browser: no page")
	// ErrLastTab is returned when closing the only tab.
	ErrLastTab = errors.New("browser: refusing to close the last tab")
)

// Options configures the launched browser.
type Options struct {
	Width      int
	Height     int
	Timeout    time.Duration
	Headless   bool
	ProfileDir string // Chrome/Chromium profile directory for authenticated sessions
	Logger     *slog.Logger
}

// Browser wraps the Rod browser and the tabs opened through it. The active
// tab receives all page operations.
type Browser struct {
	browser *rod.Browser
	opts    Options
	log     *slog.Logger

	mu     sync.Mutex
	tabs   []*rod.Page
	active int

	// onTab is called for every tab opened after Launch.
	onTab func(*rod.Page)
	tints map[string]string
	done  chan struct{}
}

// Launch starts Chromium and opens url in the first tab.
func Launch(ctx context.Context, target string, opts Options) (*Browser, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = 1280, 720
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	rb := rod.New().ControlURL(u).Context(ctx)
	if err := rb.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	b := &Browser{
		browser: rb,
		opts:    opts,
		log:     logger.With("component", "browser"),
		done:    make(chan struct{}),
	}
	page, err := b.open(target)
	if err != nil {
		_ = rb.Close()
		return nil, err
	}
	b.tabs = []*rod.Page{page}
	b.watchTabs()
	return b, nil
}

// watchTabs drops tabs the user closes. Done is closed with the last one.
func (b *Browser) watchTabs() {
	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(b.browser); err != nil {
		b.log.Warn("tab discovery unavailable", "err", err)
		return
	}
	go b.browser.EachEvent(func(e *proto.TargetTargetDestroyed) bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, p := range b.tabs {
			if p.TargetID == e.TargetID {
				b.removeTab(i)
				break
			}
		}
		if len(b.tabs) == 0 {
			close(b.done)
			return true
		}
		return false
	})()
}

// Done is closed once every tab is gone.
func (b *Browser) Done() <-chan struct{} {
	return b.done
}

func (b *Browser) open(target string) (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", target, err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.opts.Width,
		Height:            b.opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if target != "" && target != "about:blank" {
		b.settle(page)
	}
	return page, nil
}

// settle waits for load and a short network idle without hanging on
// persistent connections.
func (b *Browser) settle(page *rod.Page) {
	if err := page.Timeout(b.opts.Timeout).WaitLoad(); err != nil {
		b.log.Warn("page load wait failed", "err", err)
	}
	page.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
}

// Close cleans up browser resources.
func (b *Browser) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
}

// Page returns the active tab.
func (b *Browser) Page() (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.tabs) == 0 {
		return nil, ErrNoPage
	}
	return b.tabs[b.active], nil
}

// Host returns the hostname of the active tab, or "" when unknown.
func (b *Browser) Host() string {
	page, err := b.Page()
	if err != nil {
		return ""
	}
	info, err := page.Info()
	if err != nil {
		return ""
	}
	u, err := url.Parse(info.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// OnTab registers fn to run for every tab opened later. It is used to
// install the event bridge.
func (b *Browser) OnTab(fn func(*rod.Page)) {
	b.mu.Lock()
	b.onTab = fn
	b.mu.Unlock()
}

// Dispatch runs a tab or history action against the active tab.
func (b *Browser) Dispatch(ctx context.Context, action gesture.Action, payload gesture.Payload) error {
	page, err := b.Page()
	if err != nil {
		return err
	}
	page = page.Context(ctx)

	switch action {
	case gesture.NewTab:
		return b.newTab(payload.URL)
	case gesture.NextTab:
		return b.cycle(1)
	case gesture.PrevTab:
		return b.cycle(-1)
	case gesture.CloseTab:
		return b.closeActive()
	case gesture.Reload:
		return page.Reload()
	case gesture.Back:
		return page.NavigateBack()
	case gesture.Forward:
		return page.NavigateForward()
	}
	return fmt.Errorf("browser: unsupported action %q", action)
}

func (b *Browser) newTab(target string) error {
	if target == "" {
		target = "about:blank"
	}
	page, err := b.open(target)
	if err != nil {
		return err
	}

	b.mu.Lock()
	idx := b.active + 1
	if idx > len(b.tabs) {
		idx = len(b.tabs)
	}
	b.tabs = append(b.tabs[:idx], append([]*rod.Page{page}, b.tabs[idx:]...)...)
	b.active = idx
	hook := b.onTab
	b.mu.Unlock()

	if hook != nil {
		hook(page)
	}
	_, err = page.Activate()
	b.log.Info("tab opened", "url", target, "index", idx)
	return err
}

func (b *Browser) cycle(delta int) error {
	b.mu.Lock()
	if len(b.tabs) == 0 {
		b.mu.Unlock()
		return ErrNoPage
	}
	b.active = wrapIndex(b.active+delta, len(b.tabs))
	page := b.tabs[b.active]
	b.mu.Unlock()

	_, err := page.Activate()
	return err
}

func (b *Browser) closeActive() error {
	b.mu.Lock()
	if len(b.tabs) <= 1 {
		b.mu.Unlock()
		return ErrLastTab
	}
	page := b.tabs[b.active]
	b.removeTab(b.active)
	next := b.tabs[b.active]
	b.mu.Unlock()

	if err := page.Close(); err != nil {
		return fmt.Errorf("close tab: %w", err)
	}
	_, err := next.Activate()
	return err
}

// removeTab deletes tab i, keeping the active tab active when it survives.
// b.mu must be held.
func (b *Browser) removeTab(i int) {
	b.tabs = append(b.tabs[:i], b.tabs[i+1:]...)
	if i < b.active {
		b.active--
	}
	if b.active >= len(b.tabs) {
		b.active = len(b.tabs) - 1
	}
	if b.active < 0 {
		b.active = 0
	}
}

// wrapIndex maps i into [0, n).
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
