package browser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"strconv"

	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/linkfind"
)

// idxAttr tags snapshot elements so Follow can find them again.
const idxAttr = "data-gesturenav-idx"

// Viewport reports the active tab's visible size and scroll offsets.
func (b *Browser) Viewport() (geometry.Viewport, error) {
	page, err := b.Page()
	if err != nil {
		return geometry.Viewport{}, err
	}
	res, err := page.Eval(`() => ({
		width: window.innerWidth,
		height: window.innerHeight,
		left: window.scrollX,
		top: window.scrollY
	})`)
	if err != nil {
		return geometry.Viewport{}, fmt.Errorf("read viewport: %w", err)
	}
	v := res.Value
	return geometry.Viewport{
		Width:    v.Get("width").Num(),
		Height:   v.Get("height").Num(),
		PageLeft: v.Get("left").Num(),
		PageTop:  v.Get("top").Num(),
	}, nil
}

// ScrollBy scrolls the active tab's window.
func (b *Browser) ScrollBy(axis geometry.Axis, amount int) error {
	page, err := b.Page()
	if err != nil {
		return err
	}
	dx, dy := 0, amount
	if axis == geometry.AxisX {
		dx, dy = amount, 0
	}
	_, err = page.Eval(`(dx, dy) => window.scrollBy(dx, dy)`, dx, dy)
	return err
}

// Language returns the document language, falling back to the browser's.
func (b *Browser) Language(ctx context.Context) string {
	page, err := b.Page()
	if err != nil {
		return ""
	}
	res, err := page.Context(ctx).Eval(`() => document.documentElement.lang || navigator.language || ''`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// RelLinks returns link, a and area elements carrying a rel attribute.
func (b *Browser) RelLinks(ctx context.Context) ([]linkfind.Element, error) {
	return b.snapshot(ctx, `link[rel][href], a[rel][href], area[rel][href]`)
}

// InteractiveElements returns anchors, buttons and clickable elements in
// document order.
func (b *Browser) InteractiveElements(ctx context.Context) ([]linkfind.Element, error) {
	return b.snapshot(ctx, `a, button, area, input[type="button"], input[type="submit"], [role="button"], [role="link"], [onclick]`)
}

func (b *Browser) snapshot(ctx context.Context, selector string) ([]linkfind.Element, error) {
	page, err := b.Page()
	if err != nil {
		return nil, err
	}
	res, err := page.Context(ctx).Eval(`(selector, attr) => {
		const out = [];
		let i = 0;
		document.querySelectorAll(selector).forEach(el => {
			const r = el.getBoundingClientRect();
			const style = getComputedStyle(el);
			el.setAttribute(attr, String(i));
			out.push({
				id: i++,
				tag: el.tagName.toLowerCase(),
				href: el.href ? String(el.href) : '',
				rel: el.getAttribute('rel') || '',
				text: (el.innerText || el.textContent || '').trim().slice(0, 200),
				value: el.value != null ? String(el.value) : '',
				title: el.getAttribute('title') || '',
				label: el.getAttribute('aria-label') || '',
				x: r.left + window.scrollX, y: r.top + window.scrollY,
				width: r.width, height: r.height,
				hidden: style.visibility === 'hidden' || style.display === 'none'
			});
		});
		return out;
	}`, selector, idxAttr)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", selector, err)
	}
	return parseElements(res.Value), nil
}

func parseElements(v gson.JSON) []linkfind.Element {
	var elements []linkfind.Element
	for _, e := range v.Arr() {
		elements = append(elements, linkfind.Element{
			ID:    e.Get("id").Int(),
			Tag:   e.Get("tag").Str(),
			Href:  e.Get("href").Str(),
			Rel:   e.Get("rel").Str(),
			Text:  e.Get("text").Str(),
			Value: e.Get("value").Str(),
			Title: e.Get("title").Str(),
			Label: e.Get("label").Str(),
			Rect: geometry.Rect{
				X:      e.Get("x").Num(),
				Y:      e.Get("y").Num(),
				Width:  e.Get("width").Num(),
				Height: e.Get("height").Num(),
			},
			Hidden: e.Get("hidden").Bool(),
		})
	}
	return elements
}

// Follow loads a link's href, or scrolls to and clicks any other element.
func (b *Browser) Follow(ctx context.Context, el linkfind.Element) error {
	page, err := b.Page()
	if err != nil {
		return err
	}
	page = page.Context(ctx)

	if el.IsLink() {
		if err := page.Navigate(el.Href); err != nil {
			return fmt.Errorf("navigate %s: %w", el.Href, err)
		}
		b.settle(page)
		return nil
	}

	target, err := page.Element(`[` + idxAttr + `="` + strconv.Itoa(el.ID) + `"]`)
	if err != nil {
		return fmt.Errorf("element %d not found: %w", el.ID, err)
	}
	if err := target.ScrollIntoView(); err != nil {
		return err
	}
	return target.Click(proto.InputMouseButtonLeft, 1)
}

// Screenshot captures the active tab's viewport.
func (b *Browser) Screenshot() (image.Image, error) {
	page, err := b.Page()
	if err != nil {
		return nil, err
	}
	quality := 90
	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatPng,
		Quality: &quality,
	})
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
