package gesture

import (
	"context"
	"net/url"
	"strings"

	"github.com/v0xg/gesturenav/internal/config"
)

// Action identifies what a gesture does.
type Action string

const (
	NewTab   Action = "newtab"
	NextTab  Action = "nexttab"
	PrevTab  Action = "prevtab"
	NextPage Action = "nextpage"
	PrevPage Action = "prevpage"
	CloseTab Action = "closetab"
	Reload   Action = "reload"
	Back     Action = "back"
	Forward  Action = "forward"
)

// Payload accompanies a dispatched action.
type Payload struct {
	// URL is the link under the pointer when the drag started, or the
	// literal URL bound to the gesture.
	URL string
}

// Dispatcher executes tab and history actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, action Action, p Payload) error
}

// PageNavigator follows the page's own next/previous links.
type PageNavigator interface {
	NextPage(ctx context.Context) bool
	PrevPage(ctx context.Context) bool
}

// Settings supplies the current configuration snapshot.
type Settings interface {
	Current() *config.Config
}

// Node is a page element; the recognizer walks parents to find the link a
// drag started on.
type Node interface {
	Link() (string, bool)
	Parent() (Node, bool)
}

// maxLinkDepth bounds the ancestor walk.
const maxLinkDepth = 10

// linkOf returns the first link found on n or up to maxLinkDepth of its
// ancestors.
func linkOf(n Node) string {
	for depth := 0; n != nil; depth++ {
		if href, ok := n.Link(); ok && href != "" {
			return href
		}
		if depth >= maxLinkDepth {
			break
		}
		parent, ok := n.Parent()
		if !ok {
			break
		}
		n = parent
	}
	return ""
}

// resolveTarget turns an ActionMap entry into an action and optional URL.
func resolveTarget(target string) (Action, string) {
	if u, ok := literalURL(target); ok {
		return NewTab, u
	}
	return Action(strings.ToLower(target)), ""
}

func literalURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "www.") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		if u.Host == "" {
			return "", false
		}
	case "file", "about", "chrome", "data":
	default:
		return "", false
	}
	return s, true
}
