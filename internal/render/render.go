// Package render declares the drawing surface used for drag trails and
// edge indicators.
package render

import (
	"image/color"

	"github.com/v0xg/gesturenav/internal/geometry"
)

// Handle identifies an overlay created on a Surface.
type Handle string

// Stroke describes how a segment is drawn.
type Stroke struct {
	Color color.RGBA
	Width int
}

// Surface creates overlays in page coordinates and draws on them. Failures
// are never fatal to callers; they log and carry on.
type Surface interface {
	CreateOverlay(id string, r geometry.Rect) (Handle, error)
	PlaceOverlay(h Handle, r geometry.Rect) error
	DestroyOverlay(h Handle) error
	DrawSegment(h Handle, from, to geometry.Point, s Stroke) error
}
