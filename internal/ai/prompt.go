package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/v0xg/gesturenav/internal/linkfind"
)

const systemPrompt = `You pick the pagination link on a web page.

You will receive:
1. Which way the user wants to go: "next" or "prev" (previous)
2. Phrases that usually label such links in the page's language
3. A JSON array of candidate elements in document order, each with an "id"

Pick the element that moves to the next (or previous) page, chapter, post or
result set of the same series. Ignore links to unrelated pages, sign-in, ads
and social sharing.

Respond ONLY with a JSON object {"id": <id>}. If no candidate fits, respond
{"id": -1}.`

// candidateView is what the model sees of an element.
type candidateView struct {
	ID    int    `json:"id"`
	Tag   string `json:"tag"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
	Label string `json:"label,omitempty"`
	Href  string `json:"href,omitempty"`
}

const maxFieldLen = 80

func buildUserPrompt(candidates []linkfind.Element, phrases []string, h linkfind.Heading) (string, error) {
	views := make([]candidateView, len(candidates))
	for i, el := range candidates {
		views[i] = candidateView{
			ID:    el.ID,
			Tag:   el.Tag,
			Text:  clip(firstNonEmpty(el.Text, el.Value)),
			Title: clip(el.Title),
			Label: clip(el.Label),
			Href:  clip(el.Href),
		}
	}
	data, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("failed to marshal candidates: %w", err)
	}
	return fmt.Sprintf("Direction: %s\nPhrases: %s\n\nCandidates:\n%s",
		h, strings.Join(phrases, ", "), data), nil
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxFieldLen {
		return string(r[:maxFieldLen])
	}
	return s
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
