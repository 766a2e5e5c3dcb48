// Package navigate follows a page's next and previous links.
package navigate

import (
	"context"
	"log/slog"

	"github.com/v0xg/gesturenav/internal/config"
	"github.com/v0xg/gesturenav/internal/linkfind"
)

// maxPickerCandidates caps how many elements are offered to the fallback
// picker, taken from the end of the page.
const maxPickerCandidates = 40

// Page exposes the parts of a document the navigator needs.
type Page interface {
	// Language returns the document language, e.g. "en-US".
	Language(ctx context.Context) string
	// RelLinks returns link, a and area elements carrying a rel attribute.
	RelLinks(ctx context.Context) ([]linkfind.Element, error)
	// InteractiveElements returns anchors, buttons and clickable elements in
	// document order.
	InteractiveElements(ctx context.Context) ([]linkfind.Element, error)
	// Follow loads a link's href or clicks the element.
	Follow(ctx context.Context, el linkfind.Element) error
}

// Picker chooses a link when the heuristics find nothing.
type Picker interface {
	PickLink(ctx context.Context, candidates []linkfind.Element, phrases []string, h linkfind.Heading) (linkfind.Element, bool, error)
}

// Settings supplies the current configuration snapshot.
type Settings interface {
	Current() *config.Config
}

// Navigator tries rel links, then the phrase heuristics, then the optional
// picker.
type Navigator struct {
	page     Page
	settings Settings
	picker   Picker
	log      *slog.Logger
}

// New creates a Navigator. picker and logger may be nil.
func New(page Page, settings Settings, picker Picker, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Navigator{page: page, settings: settings, picker: picker, log: logger.With("component", "navigate")}
}

// NextPage follows the page's next link.
func (n *Navigator) NextPage(ctx context.Context) bool {
	return n.follow(ctx, linkfind.Next)
}

// PrevPage follows the page's previous link.
func (n *Navigator) PrevPage(ctx context.Context) bool {
	return n.follow(ctx, linkfind.Prev)
}

// Find returns the element that NextPage or PrevPage would follow.
func (n *Navigator) Find(ctx context.Context, h linkfind.Heading) (linkfind.Element, bool) {
	if rels, err := n.page.RelLinks(ctx); err != nil {
		n.log.Warn("rel links unavailable", "err", err)
	} else if el, ok := linkfind.FindRel(rels, h.String()); ok {
		n.log.Debug("rel link found", "heading", h, "href", el.Href)
		return el, true
	}

	elements, err := n.page.InteractiveElements(ctx)
	if err != nil {
		n.log.Warn("page elements unavailable", "err", err)
		return linkfind.Element{}, false
	}

	phrases := n.phrases(ctx, h)
	if c, ok := linkfind.Resolve(elements, phrases); ok {
		n.log.Debug("link resolved", "heading", h, "text", c.Element.Text, "words", c.WordCount)
		return c.Element, true
	}

	if n.picker == nil {
		return linkfind.Element{}, false
	}
	el, ok, err := n.picker.PickLink(ctx, pickerCandidates(elements), phrases, h)
	if err != nil {
		n.log.Warn("link picker failed", "err", err)
		return linkfind.Element{}, false
	}
	if ok {
		n.log.Debug("link picked", "heading", h, "text", el.Text)
	}
	return el, ok
}

func (n *Navigator) follow(ctx context.Context, h linkfind.Heading) bool {
	el, ok := n.Find(ctx, h)
	if !ok {
		return false
	}
	if err := n.page.Follow(ctx, el); err != nil {
		n.log.Error("failed to follow link", "heading", h, "err", err)
		return false
	}
	return true
}

func (n *Navigator) phrases(ctx context.Context, h linkfind.Heading) []string {
	extras := n.settings.Current().Extras
	override := extras.NextPatterns
	if h == linkfind.Prev {
		override = extras.PrevPatterns
	}
	lang := extras.Language
	if lang == "" {
		lang = n.page.Language(ctx)
	}
	return linkfind.Phrases(lang, h, override)
}

// pickerCandidates keeps visible elements, the last maxPickerCandidates in
// document order.
func pickerCandidates(elements []linkfind.Element) []linkfind.Element {
	var out []linkfind.Element
	for _, el := range elements {
		if el.Hidden || el.Rect.Empty() {
			continue
		}
		out = append(out, el)
	}
	if len(out) > maxPickerCandidates {
		out = out[len(out)-maxPickerCandidates:]
	}
	return out
}
