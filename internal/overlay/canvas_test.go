package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/render"
)

var red = color.RGBA{R: 255, A: 255}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestTrailComposite(t *testing.T) {
	c := NewCanvas()
	h, err := c.CreateOverlay("simplegesture", geometry.Rect{Y: 100, Width: 200, Height: 100})
	require.NoError(t, err)
	require.NoError(t, c.DrawSegment(h, geometry.Point{X: 10, Y: 150}, geometry.Point{X: 60, Y: 150}, render.Stroke{Color: red, Width: 3}))

	// The viewport is scrolled to page y=100, so page y=150 is frame row 50.
	out := c.Composite(blank(200, 100), geometry.Viewport{Width: 200, Height: 100, PageTop: 100}, nil)
	assert.Equal(t, red, rgba(out, 30, 50))
	assert.Equal(t, red, rgba(out, 30, 51))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(out, 30, 60))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(out, 100, 50))
}

func TestDestroyAndUnknownHandles(t *testing.T) {
	c := NewCanvas()
	h, err := c.CreateOverlay("a", geometry.Rect{Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.DestroyOverlay(h))
	require.NoError(t, c.DestroyOverlay(h))
	assert.Equal(t, 0, c.Len())

	assert.Error(t, c.PlaceOverlay(h, geometry.Rect{}))
	assert.Error(t, c.DrawSegment(h, geometry.Point{}, geometry.Point{X: 1}, render.Stroke{}))
	_, err = c.CreateOverlay("b", geometry.Rect{Width: -1})
	assert.Error(t, err)
}

func TestTintedIndicatorFollowsPlacement(t *testing.T) {
	c := NewCanvas()
	c.SetTint("bottomArea", red)
	h, err := c.CreateOverlay("bottomArea", geometry.Rect{Y: 90, Width: 100, Height: 10})
	require.NoError(t, err)

	vp := geometry.Viewport{Width: 100, Height: 100}
	out := c.Composite(blank(100, 100), vp, nil)
	assert.Equal(t, red, rgba(out, 50, 95))
	assert.NotEqual(t, red, rgba(out, 50, 85))

	// After the page scrolls by 40, the indicator is re-placed at the new
	// bottom and still renders at the frame's bottom edge.
	require.NoError(t, c.PlaceOverlay(h, geometry.Rect{Y: 130, Width: 100, Height: 10}))
	out = c.Composite(blank(100, 100), geometry.Viewport{Width: 100, Height: 100, PageTop: 40}, nil)
	assert.Equal(t, red, rgba(out, 50, 95))
}

func TestCursorDrawn(t *testing.T) {
	c := NewCanvas()
	out := c.Composite(blank(50, 50), geometry.Viewport{Width: 50, Height: 50}, &Cursor{X: 10, Y: 10})
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, rgba(out, 10, 10))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(out, 11, 15))
}

func TestFrameNotModified(t *testing.T) {
	c := NewCanvas()
	h, _ := c.CreateOverlay("t", geometry.Rect{Width: 20, Height: 20})
	_ = c.DrawSegment(h, geometry.Point{}, geometry.Point{X: 19, Y: 19}, render.Stroke{Color: red, Width: 1})

	frame := blank(20, 20)
	c.Composite(frame, geometry.Viewport{Width: 20, Height: 20}, nil)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba(frame, 5, 5))
}
