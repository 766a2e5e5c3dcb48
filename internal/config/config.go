// Package config loads the gesture and edge-scroll configuration.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configuration that parses but cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config is a read-only snapshot of the user's settings.
type Config struct {
	Enabled           bool              `yaml:"enabled"`
	RockerEnabled     bool              `yaml:"rocker_enabled"`
	EdgeScrollEnabled bool              `yaml:"edge_scroll_enabled"`
	Trail             Trail             `yaml:"trail"`
	Gestures          map[string]string `yaml:"gestures"` // action or URL -> gesture code
	DisabledDomains   []string          `yaml:"disabled_domains"`
	AllowedDomains    []string          `yaml:"allowed_domains"`
	Extras            Extras            `yaml:"extras"`
	EdgeScroll        EdgeScroll        `yaml:"edge_scroll"`
	Fallback          Fallback          `yaml:"fallback"`

	actions ActionMap
	domains *DomainMatcher
}

// Trail configures drawing of the drag path.
type Trail struct {
	Enabled bool   `yaml:"enabled"`
	Color   string `yaml:"color"` // hex, with or without '#'
	Width   int    `yaml:"width"`
}

// RGBA parses the trail colour.
func (t Trail) RGBA() (color.RGBA, error) {
	return ParseColor(t.Color)
}

// Extras holds the phrase overrides used to find next/previous links.
type Extras struct {
	NextPatterns string `yaml:"next_patterns"`
	PrevPatterns string `yaml:"prev_patterns"`
	Language     string `yaml:"language"`
}

// EdgeScroll holds the tunables of the edge-scroll controller.
type EdgeScroll struct {
	// Threshold is the band thickness as a fraction of the viewport size.
	Threshold float64 `yaml:"threshold"`
	Step      int     `yaml:"step"`
	// Tiers multiply Step per quarter of the band, outermost quarter first.
	Tiers     [4]int        `yaml:"tiers"`
	Interval  time.Duration `yaml:"interval"`
	Indicator bool          `yaml:"indicator"`
}

// Fallback configures the LLM link picker used when heuristics find nothing.
type Fallback struct {
	Provider string `yaml:"provider"` // "", claude, openai
	Model    string `yaml:"model"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Enabled:           true,
		RockerEnabled:     true,
		EdgeScrollEnabled: false,
		Trail: Trail{
			Enabled: true,
			Color:   "ff0000",
			Width:   2,
		},
		Gestures: map[string]string{
			"newtab":   "D",
			"nexttab":  "UR",
			"prevtab":  "UL",
			"nextpage": "R",
			"prevpage": "L",
			"closetab": "DR",
			"reload":   "UD",
		},
		EdgeScroll: EdgeScroll{
			Threshold: 0.1,
			Step:      10,
			Tiers:     [4]int{16, 8, 4, 2},
			Interval:  2500 * time.Millisecond,
			Indicator: true,
		},
	}
	// Defaults always compile.
	_ = cfg.compile()
	return cfg
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	defaults := cfg.Gestures
	// A gestures table in the file replaces the defaults instead of merging.
	cfg.Gestures = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Gestures == nil {
		cfg.Gestures = defaults
	}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) compile() error {
	if c.Trail.Width <= 0 {
		return fmt.Errorf("%w: trail width must be positive, got %d", ErrInvalid, c.Trail.Width)
	}
	if _, err := c.Trail.RGBA(); err != nil {
		return fmt.Errorf("%w: trail color: %v", ErrInvalid, err)
	}
	es := c.EdgeScroll
	if es.Threshold <= 0 || es.Threshold > 0.5 {
		return fmt.Errorf("%w: edge_scroll.threshold must be in (0, 0.5], got %v", ErrInvalid, es.Threshold)
	}
	if es.Step <= 0 {
		return fmt.Errorf("%w: edge_scroll.step must be positive, got %d", ErrInvalid, es.Step)
	}
	for i, m := range es.Tiers {
		if m <= 0 {
			return fmt.Errorf("%w: edge_scroll.tiers[%d] must be positive, got %d", ErrInvalid, i, m)
		}
	}
	if es.Interval <= 0 {
		return fmt.Errorf("%w: edge_scroll.interval must be positive", ErrInvalid)
	}
	c.Fallback.Provider = strings.ToLower(strings.TrimSpace(c.Fallback.Provider))
	switch c.Fallback.Provider {
	case "", "claude", "anthropic", "openai", "gpt":
	default:
		return fmt.Errorf("%w: unknown fallback provider %q", ErrInvalid, c.Fallback.Provider)
	}

	domains, err := NewDomainMatcher(c.AllowedDomains, c.DisabledDomains)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c.domains = domains
	c.actions = invert(c.Gestures)
	return nil
}

// Actions returns the gesture code to action table.
func (c *Config) Actions() ActionMap {
	return c.actions
}

// EnabledFor reports whether gestures are active on the given host.
func (c *Config) EnabledFor(host string) bool {
	if !c.Enabled {
		return false
	}
	if c.domains == nil {
		return true
	}
	return c.domains.Allowed(host)
}

// ActionMap maps a gesture code such as "RU" to an action identifier or a
// literal URL.
type ActionMap map[string]string

// Lookup returns the target bound to code.
func (m ActionMap) Lookup(code string) (string, bool) {
	target, ok := m[code]
	return target, ok
}

// Codes returns the bound codes in sorted order.
func (m ActionMap) Codes() []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// invert turns the stored target -> code table into code -> target. Entries
// with an empty or malformed code are skipped. When two targets share a code
// the lexically smaller target wins so the result is deterministic.
func invert(gestures map[string]string) ActionMap {
	targets := make([]string, 0, len(gestures))
	for target := range gestures {
		targets = append(targets, target)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(targets)))

	m := make(ActionMap, len(gestures))
	for _, target := range targets {
		code := strings.ToUpper(strings.TrimSpace(gestures[target]))
		if !validCode(code) || strings.TrimSpace(target) == "" {
			continue
		}
		m[code] = strings.TrimSpace(target)
	}
	return m
}

func validCode(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case 'U', 'D', 'L', 'R':
		default:
			return false
		}
		if i > 0 && code[i] == code[i-1] {
			// Repeated tokens can never be produced by a drag.
			return false
		}
	}
	return true
}

// ParseColor parses "rgb", "rrggbb" or "rrggbbaa" hex, with an optional '#'.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
