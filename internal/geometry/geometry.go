package geometry

import "math"

// Point is a position in page or client coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{DX: p.X - q.X, DY: p.Y - q.Y}
}

// Add offsets p by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Vector is a 2-D displacement.
type Vector struct {
	DX float64
	DY float64
}

// Len returns the Euclidean magnitude of v.
func (v Vector) Len() float64 {
	return math.Hypot(v.DX, v.DY)
}

// Scale multiplies both components by k.
func (v Vector) Scale(k float64) Vector {
	return Vector{DX: v.DX * k, DY: v.DY * k}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the rectangle's area, zero for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether r has no visible area.
func (r Rect) Empty() bool {
	return r.Area() == 0
}

// Viewport describes the visible part of a page.
type Viewport struct {
	Width  float64
	Height float64
	// PageLeft and PageTop are the scroll offsets of the viewport in page
	// coordinates.
	PageLeft float64
	PageTop  float64
}

// Empty reports whether the viewport has no usable size.
func (v Viewport) Empty() bool {
	return !(v.Width > 0 && v.Height > 0)
}

// Axis is a scroll axis.
type Axis int

const (
	AxisAny Axis = iota - 1
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "any"
	}
}

// Viewporter reports the current viewport of a page.
type Viewporter interface {
	Viewport() (Viewport, error)
}
