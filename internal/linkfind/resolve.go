// Package linkfind picks the most plausible "next page" or "previous page"
// element out of a snapshot of a page's interactive elements.
package linkfind

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/v0xg/gesturenav/internal/geometry"
)

// Element is one interactive element of a page snapshot.
type Element struct {
	ID     int           `json:"id"`
	Tag    string        `json:"tag"`
	Href   string        `json:"href,omitempty"`
	Rel    string        `json:"rel,omitempty"`
	Text   string        `json:"text,omitempty"`
	Value  string        `json:"value,omitempty"`
	Title  string        `json:"title,omitempty"`
	Label  string        `json:"label,omitempty"`
	Rect   geometry.Rect `json:"rect"`
	Hidden bool          `json:"hidden,omitempty"`
}

// IsLink reports whether following e means loading its href rather than
// clicking it.
func (e Element) IsLink() bool {
	switch strings.ToLower(e.Tag) {
	case "link", "a", "area":
		return e.Href != ""
	}
	return false
}

// visible reports whether the element occupies screen space.
func (e Element) visible() bool {
	return !e.Hidden && !e.Rect.Empty()
}

// fields returns the strings a phrase is matched against.
func (e Element) fields() [4]string {
	return [4]string{e.Text, e.Value, e.Title, e.Label}
}

// Candidate is an element that survived the substring prefilter.
type Candidate struct {
	Element   Element
	WordCount int
	// Order is the position in reverse document order among candidates.
	Order int
}

// Resolve returns the best candidate for the given phrases. elements must be
// in document order. Phrases are tried in the order given.
func Resolve(elements []Element, phrases []string) (Candidate, bool) {
	phrases = normalize(phrases)
	if len(phrases) == 0 {
		return Candidate{}, false
	}

	var candidates []Candidate
	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		if !el.visible() {
			continue
		}
		if !containsAny(el, phrases) {
			continue
		}
		candidates = append(candidates, Candidate{
			Element:   el,
			WordCount: wordCount(el.Text),
			Order:     len(candidates),
		})
	}
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].WordCount != candidates[j].WordCount {
			return candidates[i].WordCount < candidates[j].WordCount
		}
		return candidates[i].Order < candidates[j].Order
	})
	candidates = Shortest(candidates)

	for _, phrase := range phrases {
		match := matcher(phrase)
		for _, c := range candidates {
			for _, f := range c.Element.fields() {
				if f != "" && match(f) {
					return c, true
				}
			}
		}
	}
	return Candidate{}, false
}

// Shortest keeps the candidates at most one word longer than the first one.
// candidates must already be sorted by word count.
func Shortest(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return candidates
	}
	limit := candidates[0].WordCount + 1
	kept := candidates[:0:0]
	for _, c := range candidates {
		if c.WordCount <= limit {
			kept = append(kept, c)
		}
	}
	return kept
}

// FindRel returns the first link, anchor or area element whose rel attribute
// carries value.
func FindRel(elements []Element, value string) (Element, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return Element{}, false
	}
	for _, tag := range []string{"link", "a", "area"} {
		for _, el := range elements {
			if !strings.EqualFold(el.Tag, tag) || el.Href == "" {
				continue
			}
			for _, token := range strings.Fields(strings.ToLower(el.Rel)) {
				if token == value {
					return el, true
				}
			}
		}
	}
	return Element{}, false
}

func normalize(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(el Element, phrases []string) bool {
	for _, f := range el.fields() {
		if f == "" {
			continue
		}
		lower := strings.ToLower(f)
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// wordCount counts whitespace separated tokens. Blank text counts as one
// word.
func wordCount(text string) int {
	n := len(strings.Fields(text))
	if n == 0 {
		return 1
	}
	return n
}

// matcher builds the strict match used for the final pick: whole word when
// the phrase starts or ends with a word character, substring otherwise.
func matcher(phrase string) func(string) bool {
	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)
	if isWordRune(first) || isWordRune(last) {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		return re.MatchString
	}
	return func(s string) bool {
		return strings.Contains(strings.ToLower(s), phrase)
	}
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
