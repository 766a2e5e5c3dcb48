// Package replay drives the input router from a scripted pointer path and
// records a frame per step.
package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/v0xg/gesturenav/internal/input"
)

// StepType is one of the script actions.
type StepType string

const (
	StepDown  StepType = "down"
	StepUp    StepType = "up"
	StepMove  StepType = "move"
	StepWait  StepType = "wait"
	StepLeave StepType = "leave"
	StepBlur  StepType = "blur"
)

// Step represents a single scripted pointer action
type Step struct {
	Type   StepType `yaml:"action"`           // down, up, move, wait, leave, blur
	Button string   `yaml:"button,omitempty"` // left, middle, right (default right)
	X      float64  `yaml:"x,omitempty"`      // client coordinates
	Y      float64  `yaml:"y,omitempty"`
	Frames int      `yaml:"frames,omitempty"` // move: frames to interpolate over
	Link   string   `yaml:"link,omitempty"`   // down: href of the element under the pointer
	Wait   int      `yaml:"wait,omitempty"`   // ms to record after the step
}

// Script is a replayable pointer session.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	switch st.Type {
	case StepDown, StepUp:
		if _, err := parseButton(st.Button); err != nil {
			return err
		}
	case StepMove, StepWait, StepLeave, StepBlur:
	default:
		return fmt.Errorf("unknown action %q", st.Type)
	}
	if st.Frames < 0 || st.Wait < 0 {
		return fmt.Errorf("negative frames or wait")
	}
	return nil
}

func parseButton(s string) (input.Button, error) {
	switch s {
	case "", "right":
		return input.ButtonRight, nil
	case "left":
		return input.ButtonLeft, nil
	case "middle":
		return input.ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// heldBit maps a button to its bit in the held mask.
func heldBit(b input.Button) int {
	switch b {
	case input.ButtonLeft:
		return input.HeldLeft
	case input.ButtonRight:
		return input.HeldRight
	case input.ButtonMiddle:
		return input.HeldMiddle
	}
	return 0
}
