package overlay

import (
	"image"
	"image/color"
	"math"
)

// CursorSize is the size of the cursor sprite
const CursorSize = 20

// Cursor is the pointer state drawn on a frame, in viewport pixels.
type Cursor struct {
	X, Y int
	// Right marks the right button as held; the sprite is tinted.
	Right bool
	Click bool
}

// drawCursor draws a simple arrow cursor
func drawCursor(img *image.RGBA, cur Cursor) {
	outline := color.RGBA{0, 0, 0, 255}
	fill := color.RGBA{255, 255, 255, 255}
	if cur.Right {
		fill = color.RGBA{255, 210, 120, 255}
	}

	points := []struct{ dx, dy int }{
		{0, 0},
		{0, 16},
		{4, 12},
		{7, 18},
		{10, 17},
		{7, 11},
		{12, 11},
	}

	for dy := 0; dy < 18; dy++ {
		for dx := 0; dx < 13; dx++ {
			if isInsideCursor(dx, dy) {
				setPixelSafe(img, cur.X+dx, cur.Y+dy, fill)
			}
		}
	}
	for i := range points {
		p1 := points[i]
		p2 := points[(i+1)%len(points)]
		drawLine(img, cur.X+p1.dx, cur.Y+p1.dy, cur.X+p2.dx, cur.Y+p2.dy, 1, outline)
	}
}

// isInsideCursor checks if a point is inside the cursor shape
func isInsideCursor(dx, dy int) bool {
	if dy < 0 || dy > 16 || dx < 0 {
		return false
	}
	if dy <= 11 {
		return dx <= dy*12/16
	}
	return dx <= 4
}

// drawLine draws a line between two points using Bresenham's algorithm,
// stamping a width-sized square at each step.
func drawLine(img *image.RGBA, x1, y1, x2, y2, width int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		stamp(img, x1, y1, width, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func stamp(img *image.RGBA, x, y, width int, c color.RGBA) {
	if width <= 1 {
		setPixelSafe(img, x, y, c)
		return
	}
	lo := -(width / 2)
	for oy := lo; oy < lo+width; oy++ {
		for ox := lo; ox < lo+width; ox++ {
			setPixelSafe(img, x+ox, y+oy, c)
		}
	}
}

// drawClickRipple draws a circle ripple around a click
func drawClickRipple(img *image.RGBA, x, y int) {
	rippleColor := color.RGBA{66, 133, 244, 100}
	radius := 15

	for angle := 0.0; angle < 360; angle++ {
		rad := angle * math.Pi / 180
		px := x + int(float64(radius)*math.Cos(rad))
		py := y + int(float64(radius)*math.Sin(rad))
		setPixelSafe(img, px, py, rippleColor)
		setPixelSafe(img, px+1, py, rippleColor)
		setPixelSafe(img, px, py+1, rippleColor)
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{x, y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
