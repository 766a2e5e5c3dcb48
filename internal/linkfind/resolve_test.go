package linkfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/gesturenav/internal/geometry"
)

var box = geometry.Rect{Width: 40, Height: 12}

func anchor(id int, text string) Element {
	return Element{ID: id, Tag: "a", Href: "https://example.com/" + text, Text: text, Rect: box}
}

func TestResolveShortestFilter(t *testing.T) {
	elements := []Element{
		anchor(1, "Next page with lots of extra text"),
		anchor(2, "Next »"),
	}

	c, ok := Resolve(elements, []string{"next"})
	require.True(t, ok)
	assert.Equal(t, 2, c.Element.ID)
	assert.Equal(t, 2, c.WordCount)
}

func TestResolveLongCandidateDropped(t *testing.T) {
	// The only whole-word match is the long paragraph, which the length filter
	// removes, so nothing is returned.
	elements := []Element{
		anchor(1, "read the next chapter of this very long story now"),
		anchor(2, "nextgen"),
	}

	_, ok := Resolve(elements, []string{"next"})
	assert.False(t, ok)
}

func TestResolvePrefersLaterInPage(t *testing.T) {
	elements := []Element{
		anchor(1, "Next"),
		anchor(2, "Next"),
		anchor(3, "Next"),
	}

	c, ok := Resolve(elements, []string{"next"})
	require.True(t, ok)
	assert.Equal(t, 3, c.Element.ID)
	assert.Equal(t, 0, c.Order)
}

func TestResolveStableAmongEqualLengths(t *testing.T) {
	elements := []Element{
		anchor(1, "older posts"),
		anchor(2, "next"),
		anchor(3, "newer posts"),
		anchor(4, "more"),
	}

	// Candidates in reverse order: 4 "more"(1), 3 "newer posts"(2), 2 "next"(1).
	// Sorted: 4, 2, 3. "next" is tried first and hits element 2 even though
	// element 4 is earlier in the sorted list.
	c, ok := Resolve(elements, []string{"next", "more", "newer"})
	require.True(t, ok)
	assert.Equal(t, 2, c.Element.ID)

	c, ok = Resolve(elements, []string{"newer", "more"})
	require.True(t, ok)
	assert.Equal(t, 3, c.Element.ID)

	// Equal word counts keep reverse document order.
	elements = []Element{anchor(1, "go »"), anchor(2, "more »")}
	c, ok = Resolve(elements, []string{"»"})
	require.True(t, ok)
	assert.Equal(t, 2, c.Element.ID)
}

func TestResolveSkipsInvisible(t *testing.T) {
	hidden := anchor(2, "Next")
	hidden.Hidden = true
	flat := anchor(3, "Next")
	flat.Rect = geometry.Rect{Width: 10}

	elements := []Element{anchor(1, "Next"), hidden, flat}
	c, ok := Resolve(elements, []string{"next"})
	require.True(t, ok)
	assert.Equal(t, 1, c.Element.ID)
}

func TestResolveWholeWord(t *testing.T) {
	elements := []Element{
		anchor(1, "Next"),
		anchor(2, "Nextcloud"),
	}

	c, ok := Resolve(elements, []string{"next"})
	require.True(t, ok)
	assert.Equal(t, 1, c.Element.ID)
}

func TestResolveSymbolSubstring(t *testing.T) {
	elements := []Element{
		anchor(1, "Page 2"),
		anchor(2, "2»"),
	}

	c, ok := Resolve(elements, []string{"»"})
	require.True(t, ok)
	assert.Equal(t, 2, c.Element.ID)
}

func TestResolveMatchesAttributes(t *testing.T) {
	tests := []struct {
		name string
		el   Element
	}{
		{"title", Element{ID: 1, Tag: "a", Title: "Next page", Rect: box}},
		{"label", Element{ID: 1, Tag: "button", Label: "NEXT", Rect: box}},
		{"value", Element{ID: 1, Tag: "input", Value: "Next", Rect: box}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Resolve([]Element{tt.el}, []string{"next"})
			require.True(t, ok)
			assert.Equal(t, 1, c.Element.ID)
			assert.Equal(t, 1, c.WordCount)
		})
	}
}

func TestResolveRegexpMetacharacters(t *testing.T) {
	elements := []Element{anchor(1, "a.b next")}
	_, ok := Resolve(elements, []string{"a+b"})
	assert.False(t, ok)

	c, ok := Resolve(elements, []string{"a.b"})
	require.True(t, ok)
	assert.Equal(t, 1, c.Element.ID)
}

func TestResolveNoPhrases(t *testing.T) {
	elements := []Element{anchor(1, "Next")}
	_, ok := Resolve(elements, nil)
	assert.False(t, ok)
	_, ok = Resolve(elements, []string{"  ", ""})
	assert.False(t, ok)
	_, ok = Resolve(nil, []string{"next"})
	assert.False(t, ok)
}

func TestShortest(t *testing.T) {
	in := []Candidate{{WordCount: 1}, {WordCount: 2}, {WordCount: 2}, {WordCount: 3}}
	out := Shortest(in)
	assert.Len(t, out, 3)
	assert.Len(t, in, 4)
}

func TestFindRel(t *testing.T) {
	elements := []Element{
		{ID: 1, Tag: "a", Rel: "nofollow", Href: "/x"},
		{ID: 2, Tag: "a", Rel: "Next nofollow", Href: "/2"},
		{ID: 3, Tag: "link", Rel: "next", Href: "/page/2"},
		{ID: 4, Tag: "link", Rel: "prev", Href: ""},
	}

	el, ok := FindRel(elements, "next")
	require.True(t, ok)
	assert.Equal(t, 3, el.ID, "link elements are checked before anchors")

	_, ok = FindRel(elements, "prev")
	assert.False(t, ok)
}

func TestPhrases(t *testing.T) {
	en := Phrases("en-US", Next, "")
	require.NotEmpty(t, en)
	assert.Equal(t, "next", en[0])

	assert.Equal(t, "zurück", Phrases("de_DE", Prev, "")[0])
	assert.Equal(t, en, Phrases("xx", Next, ""))
	assert.Equal(t, []string{"onward", " go "}, Phrases("en", Next, "onward,, go ,"))
}
