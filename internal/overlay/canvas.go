// Package overlay keeps drag trails and edge indicators in memory and
// composites them, with a cursor sprite, onto captured frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"
	"sync"

	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/render"
)

type layer struct {
	id   string
	rect geometry.Rect
	img  *image.RGBA
	seq  int
}

// Canvas is an in-memory render.Surface. It is safe for concurrent use.
type Canvas struct {
	mu     sync.Mutex
	layers map[render.Handle]*layer
	tints  map[string]color.RGBA
	seq    int
}

// NewCanvas returns an empty Canvas.
func NewCanvas() *Canvas {
	return &Canvas{
		layers: make(map[render.Handle]*layer),
		tints:  make(map[string]color.RGBA),
	}
}

// SetTint fills overlays created with id in c.
func (c *Canvas) SetTint(id string, col color.RGBA) {
	c.mu.Lock()
	c.tints[id] = col
	c.mu.Unlock()
}

// CreateOverlay adds a transparent layer covering r. Creating an id that
// already exists replaces it.
func (c *Canvas) CreateOverlay(id string, r geometry.Rect) (render.Handle, error) {
	if r.Width < 0 || r.Height < 0 {
		return "", fmt.Errorf("overlay %s: negative size", id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	h := render.Handle(id)
	l := &layer{id: id, seq: c.seq}
	c.layers[h] = l
	c.resize(l, r)
	return h, nil
}

// PlaceOverlay moves a layer to r, clearing it.
func (c *Canvas) PlaceOverlay(h render.Handle, r geometry.Rect) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.layers[h]
	if !ok {
		return fmt.Errorf("overlay %s: not found", h)
	}
	c.resize(l, r)
	return nil
}

func (c *Canvas) resize(l *layer, r geometry.Rect) {
	l.rect = r
	w, h := int(math.Ceil(r.Width)), int(math.Ceil(r.Height))
	l.img = image.NewRGBA(image.Rect(0, 0, w, h))
	if tint, ok := c.tints[l.id]; ok {
		draw.Draw(l.img, l.img.Bounds(), image.NewUniform(tint), image.Point{}, draw.Src)
	}
}

// DestroyOverlay removes a layer. Unknown handles are ignored.
func (c *Canvas) DestroyOverlay(h render.Handle) error {
	c.mu.Lock()
	delete(c.layers, h)
	c.mu.Unlock()
	return nil
}

// DrawSegment draws a line between two page points on a layer.
func (c *Canvas) DrawSegment(h render.Handle, from, to geometry.Point, s render.Stroke) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.layers[h]
	if !ok {
		return fmt.Errorf("overlay %s: not found", h)
	}
	x1, y1 := l.local(from)
	x2, y2 := l.local(to)
	drawLine(l.img, x1, y1, x2, y2, s.Width, s.Color)
	return nil
}

func (l *layer) local(p geometry.Point) (int, int) {
	return int(math.Round(p.X - l.rect.X)), int(math.Round(p.Y - l.rect.Y))
}

// Len returns the number of live layers.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.layers)
}

// Composite returns a copy of frame with the live layers, in creation
// order, and the cursor drawn over it. vp maps page coordinates to frame
// pixels.
func (c *Canvas) Composite(frame image.Image, vp geometry.Viewport, cur *Cursor) image.Image {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	c.mu.Lock()
	layers := make([]*layer, 0, len(c.layers))
	for _, l := range c.layers {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].seq < layers[j].seq })

	for _, l := range layers {
		origin := image.Point{
			X: bounds.Min.X + int(math.Round(l.rect.X-vp.PageLeft)),
			Y: bounds.Min.Y + int(math.Round(l.rect.Y-vp.PageTop)),
		}
		dst := l.img.Bounds().Add(origin)
		draw.Draw(out, dst, l.img, image.Point{}, draw.Over)
	}
	c.mu.Unlock()

	if cur != nil {
		if cur.Click {
			drawClickRipple(out, cur.X, cur.Y)
		}
		drawCursor(out, *cur)
	}
	return out
}
