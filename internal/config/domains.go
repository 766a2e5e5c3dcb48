package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DomainMatcher decides on which hosts gestures are active.
type DomainMatcher struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewDomainMatcher compiles host patterns such as "*.example.com". Patterns
// are matched case-insensitively with '.' as separator.
func NewDomainMatcher(allowed, denied []string) (*DomainMatcher, error) {
	dm := &DomainMatcher{}

	for _, pattern := range allowed {
		g, err := compileHost(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed domain '%s': %w", pattern, err)
		}
		dm.allowed = append(dm.allowed, g)
	}

	for _, pattern := range denied {
		g, err := compileHost(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid disabled domain '%s': %w", pattern, err)
		}
		dm.denied = append(dm.denied, g)
	}

	return dm, nil
}

func compileHost(pattern string) (glob.Glob, error) {
	return glob.Compile(strings.ToLower(strings.TrimSpace(pattern)), '.')
}

// Allowed returns true if the host is not denied and, when an allow list is
// present, matches it.
func (dm *DomainMatcher) Allowed(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))

	// Denied patterns take precedence
	for _, pattern := range dm.denied {
		if pattern.Match(host) {
			return false
		}
	}

	if len(dm.allowed) == 0 {
		return true
	}

	for _, pattern := range dm.allowed {
		if pattern.Match(host) {
			return true
		}
	}

	return false
}
