package config

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Enabled)
	assert.False(t, cfg.EdgeScrollEnabled)

	target, ok := cfg.Actions().Lookup("UR")
	require.True(t, ok)
	assert.Equal(t, "nexttab", target)
	assert.Equal(t, 2500*time.Millisecond, cfg.EdgeScroll.Interval)
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
enabled: true
edge_scroll_enabled: true
trail:
  enabled: false
  color: "#00ff00"
  width: 4
gestures:
  nextpage: RU
  "https://example.com/": DL
  prevtab: ""
disabled_domains: ["*.bank.example"]
edge_scroll:
  threshold: 0.05
  step: 20
  tiers: [8, 4, 2, 1]
  interval: 500ms
  indicator: false
extras:
  next_patterns: "onward,forth"
  language: de
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.True(t, cfg.EdgeScrollEnabled)
	assert.False(t, cfg.Trail.Enabled)
	rgba, err := cfg.Trail.RGBA()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, rgba)

	assert.Equal(t, []string{"DL", "RU"}, cfg.Actions().Codes(), "file gestures replace defaults, empty codes skipped")
	target, _ := cfg.Actions().Lookup("DL")
	assert.Equal(t, "https://example.com/", target)

	assert.Equal(t, [4]int{8, 4, 2, 1}, cfg.EdgeScroll.Tiers)
	assert.Equal(t, 500*time.Millisecond, cfg.EdgeScroll.Interval)
	assert.Equal(t, 20, cfg.EdgeScroll.Step)
	assert.Equal(t, "onward,forth", cfg.Extras.NextPatterns)

	assert.False(t, cfg.EnabledFor("www.bank.example"))
	assert.True(t, cfg.EnabledFor("example.org"))
}

func TestParseKeepsDefaultGestures(t *testing.T) {
	cfg, err := Parse([]byte("rocker_enabled: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.RockerEnabled)
	_, ok := cfg.Actions().Lookup("UR")
	assert.True(t, ok)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"threshold", "edge_scroll:\n  threshold: 0.9\n"},
		{"step", "edge_scroll:\n  step: 0\n"},
		{"tiers", "edge_scroll:\n  tiers: [1, 0, 1, 1]\n"},
		{"trail width", "trail:\n  width: 0\n"},
		{"trail color", "trail:\n  color: nope\n"},
		{"glob", "disabled_domains: [\"[\"]\n"},
		{"provider", "fallback:\n  provider: bard\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}

	_, err := Parse([]byte("enabled: [oops"))
	assert.Error(t, err)
}

func TestParseNormalizesProvider(t *testing.T) {
	cfg, err := Parse([]byte("fallback:\n  provider: \" Claude \"\n"))
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.Fallback.Provider)
}

func TestInvertSkipsMalformedCodes(t *testing.T) {
	m := invert(map[string]string{
		"newtab":  "d",
		"reload":  "UUD",
		"back":    "XY",
		"forward": " ",
		"b":       "L",
		"a":       "L",
	})

	assert.Equal(t, ActionMap{"D": "newtab", "L": "a"}, m)
}

func TestDomainMatcher(t *testing.T) {
	dm, err := NewDomainMatcher([]string{"*.example.com", "example.com"}, []string{"admin.example.com"})
	require.NoError(t, err)

	assert.True(t, dm.Allowed("example.com"))
	assert.True(t, dm.Allowed("WWW.Example.com"))
	assert.False(t, dm.Allowed("admin.example.com"))
	assert.False(t, dm.Allowed("example.org"))

	open, err := NewDomainMatcher(nil, nil)
	require.NoError(t, err)
	assert.True(t, open.Allowed("anything.test"))
}

func TestEnabledForDisabled(t *testing.T) {
	cfg, err := Parse([]byte("enabled: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.EnabledFor("example.com"))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("f00")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, c)

	c, err = ParseColor("#11223344")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, c)

	_, err = ParseColor("12345")
	assert.Error(t, err)
}

func TestStoreNotifies(t *testing.T) {
	store := NewStore(nil)
	require.NotNil(t, store.Current())

	changes := store.Changes()
	next := Default()
	next.Enabled = false
	store.Set(next)
	store.Set(next)

	select {
	case <-changes:
	default:
		t.Fatal("expected a change notification")
	}
	assert.False(t, store.Current().Enabled)

	store.Set(nil)
	assert.Same(t, next, store.Current())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gesturenav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enabled: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	store := NewStore(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, Watch(ctx, path, store, nil))

	require.NoError(t, os.WriteFile(path, []byte("enabled: false\n"), 0o644))

	// A truncate and a write may arrive as separate events.
	require.Eventually(t, func() bool {
		return !store.Current().Enabled
	}, 5*time.Second, 20*time.Millisecond)
}
