package browser

import (
	"fmt"
	"image/color"

	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/render"
)

// overlayPrefix namespaces overlay element ids in the page.
const overlayPrefix = "gesturenav-"

// SetTint fills overlays created with id in c, e.g. the edge indicators.
func (b *Browser) SetTint(id string, c color.RGBA) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tints == nil {
		b.tints = make(map[string]string)
	}
	b.tints[id] = cssColor(render.Stroke{Color: c})
}

// CreateOverlay inserts a click-through canvas over the page area r.
func (b *Browser) CreateOverlay(id string, r geometry.Rect) (render.Handle, error) {
	page, err := b.Page()
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	tint := b.tints[id]
	b.mu.Unlock()

	h := render.Handle(overlayPrefix + id)
	_, err = page.Eval(`(id, x, y, w, h, tint) => {
		let c = document.getElementById(id);
		if (!c) {
			c = document.createElement('canvas');
			c.id = id;
			c.style.cssText = 'position:absolute;pointer-events:none;z-index:2147483647;margin:0;padding:0;border:0';
			document.body.appendChild(c);
		}
		c.width = Math.max(1, Math.round(w));
		c.height = Math.max(1, Math.round(h));
		c.style.left = x + 'px';
		c.style.top = y + 'px';
		c.dataset.x = x;
		c.dataset.y = y;
		c.style.background = tint;
	}`, string(h), r.X, r.Y, r.Width, r.Height, tint)
	if err != nil {
		return "", fmt.Errorf("create overlay %s: %w", id, err)
	}
	return h, nil
}

// PlaceOverlay moves an overlay to r, clearing its contents.
func (b *Browser) PlaceOverlay(h render.Handle, r geometry.Rect) error {
	page, err := b.Page()
	if err != nil {
		return err
	}
	_, err = page.Eval(`(id, x, y, w, h) => {
		const c = document.getElementById(id);
		if (!c) throw new Error('no overlay ' + id);
		c.width = Math.max(1, Math.round(w));
		c.height = Math.max(1, Math.round(h));
		c.style.left = x + 'px';
		c.style.top = y + 'px';
		c.dataset.x = x;
		c.dataset.y = y;
	}`, string(h), r.X, r.Y, r.Width, r.Height)
	return err
}

// DestroyOverlay removes an overlay. Unknown handles are ignored.
func (b *Browser) DestroyOverlay(h render.Handle) error {
	page, err := b.Page()
	if err != nil {
		return err
	}
	_, err = page.Eval(`(id) => { const c = document.getElementById(id); if (c) c.remove(); }`, string(h))
	return err
}

// DrawSegment strokes a line between two page points on an overlay.
func (b *Browser) DrawSegment(h render.Handle, from, to geometry.Point, s render.Stroke) error {
	page, err := b.Page()
	if err != nil {
		return err
	}
	_, err = page.Eval(`(id, x1, y1, x2, y2, color, width) => {
		const c = document.getElementById(id);
		if (!c) throw new Error('no overlay ' + id);
		const ox = parseFloat(c.dataset.x) || 0, oy = parseFloat(c.dataset.y) || 0;
		const g = c.getContext('2d');
		g.strokeStyle = color;
		g.lineWidth = width;
		g.lineCap = 'round';
		g.beginPath();
		g.moveTo(x1 - ox, y1 - oy);
		g.lineTo(x2 - ox, y2 - oy);
		g.stroke();
	}`, string(h), from.X, from.Y, to.X, to.Y, cssColor(s), s.Width)
	return err
}

func cssColor(s render.Stroke) string {
	c := s.Color
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, float64(c.A)/255)
}
