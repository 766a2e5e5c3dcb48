// Package input routes pointer and window events to the gesture recognizer
// and the edge-scroll controller.
package input

import (
	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/gesture"
)

// Kind is the type of an Event.
type Kind int

const (
	KindDown Kind = iota
	KindUp
	KindMove
	KindContextMenu
	KindLeave
	KindBlur
	KindPageHide
	KindHashChange
	KindScroll
)

var kindNames = map[Kind]string{
	KindDown:        "down",
	KindUp:          "up",
	KindMove:        "move",
	KindContextMenu: "contextmenu",
	KindLeave:       "leave",
	KindBlur:        "blur",
	KindPageHide:    "pagehide",
	KindHashChange:  "hashchange",
	KindScroll:      "scroll",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a DOM event type to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "mousedown", "pointerdown":
		return KindDown, true
	case "mouseup", "pointerup":
		return KindUp, true
	case "mousemove", "pointermove":
		return KindMove, true
	case "mouseleave":
		return KindLeave, true
	}
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Button is the DOM MouseEvent.button value.
type Button int

const (
	ButtonLeft   Button = 0
	ButtonMiddle Button = 1
	ButtonRight  Button = 2
)

// Held button bits, as in DOM MouseEvent.buttons.
const (
	HeldLeft   = 1
	HeldRight  = 2
	HeldMiddle = 4
)

// Event is one pointer or window event.
type Event struct {
	Kind   Kind
	Button Button
	// Buttons is the mask of buttons still held after the event.
	Buttons int
	// Page is the pointer in page coordinates, Client in viewport
	// coordinates.
	Page   geometry.Point
	Client geometry.Point
	Target gesture.Node
}
