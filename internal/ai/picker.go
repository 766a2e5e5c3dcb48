// Package ai asks a language model to pick the next or previous page link
// when the phrase heuristics find none.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/v0xg/gesturenav/internal/linkfind"
)

// ErrNoChoice is returned when the model's reply names no candidate.
var ErrNoChoice = errors.New("ai: no usable choice in response")

// Picker chooses among page elements with a Provider.
type Picker struct {
	provider Provider
	log      *slog.Logger
}

// NewPicker wraps provider. logger may be nil.
func NewPicker(provider Provider, logger *slog.Logger) *Picker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Picker{provider: provider, log: logger.With("component", "ai")}
}

// PickLink returns the candidate the model picked. A reply of -1 means the
// model found nothing and is not an error.
func (p *Picker) PickLink(ctx context.Context, candidates []linkfind.Element, phrases []string, h linkfind.Heading) (linkfind.Element, bool, error) {
	if len(candidates) == 0 {
		return linkfind.Element{}, false, nil
	}
	user, err := buildUserPrompt(candidates, phrases, h)
	if err != nil {
		return linkfind.Element{}, false, err
	}

	reply, err := p.provider.Complete(ctx, systemPrompt, user)
	if err != nil {
		return linkfind.Element{}, false, err
	}

	id, err := parseChoiceJSON(reply)
	if err != nil {
		return linkfind.Element{}, false, fmt.Errorf("%w: %v\nResponse: %s", ErrNoChoice, err, reply)
	}
	if id < 0 {
		p.log.Debug("model found no link", "heading", h)
		return linkfind.Element{}, false, nil
	}
	for _, el := range candidates {
		if el.ID == id {
			return el, true, nil
		}
	}
	return linkfind.Element{}, false, fmt.Errorf("%w: id %d is not a candidate", ErrNoChoice, id)
}

type choice struct {
	ID *int `json:"id"`
}

// parseChoiceJSON extracts and parses a {"id": n} object from a response
// that may contain surrounding text
func parseChoiceJSON(response string) (int, error) {
	var c choice
	if err := json.Unmarshal([]byte(response), &c); err == nil && c.ID != nil {
		return *c.ID, nil
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return 0, fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	end := -1
	for i := start; i < len(response) && end == -1; i++ {
		switch response[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
	}
	if end == -1 {
		return 0, fmt.Errorf("no matching closing brace found")
	}

	c = choice{}
	if err := json.Unmarshal([]byte(response[start:end]), &c); err != nil {
		return 0, fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	if c.ID == nil {
		return 0, fmt.Errorf("missing id")
	}
	return *c.ID, nil
}
