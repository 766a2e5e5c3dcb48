// Package edgescroll scrolls the page continuously while the pointer rests
// near a viewport edge.
package edgescroll

import (
	"log/slog"

	"github.com/v0xg/gesturenav/internal/clock"
	"github.com/v0xg/gesturenav/internal/config"
	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/render"
)

// indicatorHeight is the thickness of the edge indicator overlay.
const indicatorHeight = 10

// Overlay ids of the edge indicators.
const (
	IndicatorTop    = "topArea"
	IndicatorBottom = "bottomArea"
)

// Scroller scrolls the page by amount along axis.
type Scroller interface {
	ScrollBy(axis geometry.Axis, amount int) error
}

// Settings supplies the current configuration snapshot.
type Settings interface {
	Current() *config.Config
}

// State is the controller's scroll state. The zero value is idle.
type State struct {
	Active bool
	Axis   geometry.Axis
	Amount int
}

// Options wires a Controller. Surface may be nil.
type Options struct {
	Settings  Settings
	Viewport  geometry.Viewporter
	Scroller  Scroller
	Scheduler clock.Scheduler
	Surface   render.Surface
	Logger    *slog.Logger
}

// Controller owns at most one repeating scroll timer.
type Controller struct {
	opts   Options
	log    *slog.Logger
	state  State
	cancel func()

	indicator   render.Handle
	indicatorID string
}

// New creates an idle controller. A nil Scheduler uses clock.Real.
func New(opts Options) *Controller {
	if opts.Scheduler == nil {
		opts.Scheduler = clock.Real{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{opts: opts, log: logger.With("component", "edgescroll")}
}

// State returns the current scroll state.
func (c *Controller) State() State {
	return c.state
}

// Track evaluates a client-space pointer position against the edge bands
// and starts, keeps or stops scrolling. It reports whether edge tracking is
// active.
func (c *Controller) Track(p geometry.Point) bool {
	cfg := c.opts.Settings.Current()
	if !cfg.EdgeScrollEnabled {
		if c.state.Active {
			c.Stop(geometry.AxisAny)
		}
		return false
	}

	vp, err := c.opts.Viewport.Viewport()
	if err != nil || vp.Empty() {
		c.log.Debug("viewport unavailable", "err", err)
		c.Stop(geometry.AxisAny)
		return false
	}

	es := cfg.EdgeScroll
	bandY := vp.Height * es.Threshold
	bandX := vp.Width * es.Threshold

	switch {
	case p.Y < bandY:
		c.showIndicator(IndicatorTop, vp)
		c.Start(geometry.AxisY, -Jump(p.Y, 0, bandY, Top, es.Tiers, es.Step))
	case p.Y > vp.Height-bandY:
		c.showIndicator(IndicatorBottom, vp)
		c.Start(geometry.AxisY, Jump(p.Y, vp.Height-bandY, bandY, Bottom, es.Tiers, es.Step))
	case p.X > vp.Width-bandX:
		c.hideIndicator()
		c.Start(geometry.AxisX, es.Step)
	case p.X < bandX:
		c.hideIndicator()
		c.Start(geometry.AxisX, -es.Step)
	default:
		c.Stop(geometry.AxisAny)
	}
	return true
}

// Start scrolls by amount along axis now and then every configured
// interval. Identical parameters while active are a no-op; different ones
// replace the running timer.
func (c *Controller) Start(axis geometry.Axis, amount int) {
	if c.state.Active && c.state.Axis == axis && c.state.Amount == amount {
		return
	}
	c.stopTimer()

	c.state = State{Active: true, Axis: axis, Amount: amount}
	c.log.Debug("scroll start", "axis", axis, "amount", amount)

	c.scroll(axis, amount)
	interval := c.opts.Settings.Current().EdgeScroll.Interval
	c.cancel = c.opts.Scheduler.Every(interval, func() {
		c.scroll(axis, amount)
	})
}

// scroll may run on the scheduler's goroutine; it must not touch state.
func (c *Controller) scroll(axis geometry.Axis, amount int) {
	if err := c.opts.Scroller.ScrollBy(axis, amount); err != nil {
		c.log.Warn("scroll failed", "axis", axis, "amount", amount, "err", err)
	}
}

// Stop cancels scrolling when it runs along axis, or unconditionally for
// geometry.AxisAny.
func (c *Controller) Stop(axis geometry.Axis) {
	if axis != geometry.AxisAny && c.state.Active && c.state.Axis != axis {
		return
	}
	if c.state.Active {
		c.log.Debug("scroll stop", "axis", c.state.Axis)
	}
	c.stopTimer()
	c.state = State{}
	c.hideIndicator()
}

// Cancel stops any scrolling because the page lost the pointer or focus.
func (c *Controller) Cancel(reason string) {
	if c.state.Active {
		c.log.Debug("scroll cancelled", "reason", reason)
	}
	c.Stop(geometry.AxisAny)
}

func (c *Controller) stopTimer() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Reposition keeps the indicator pinned to the viewport after the page
// scrolled.
func (c *Controller) Reposition() {
	if c.indicatorID == "" {
		return
	}
	vp, err := c.opts.Viewport.Viewport()
	if err != nil {
		return
	}
	if err := c.opts.Surface.PlaceOverlay(c.indicator, indicatorRect(c.indicatorID, vp)); err != nil {
		c.log.Warn("indicator not placed", "err", err)
	}
}

func (c *Controller) showIndicator(id string, vp geometry.Viewport) {
	if c.opts.Surface == nil || !c.opts.Settings.Current().EdgeScroll.Indicator {
		return
	}
	if c.indicatorID == id {
		if err := c.opts.Surface.PlaceOverlay(c.indicator, indicatorRect(id, vp)); err != nil {
			c.log.Warn("indicator not placed", "err", err)
		}
		return
	}
	c.hideIndicator()

	h, err := c.opts.Surface.CreateOverlay(id, indicatorRect(id, vp))
	if err != nil {
		c.log.Warn("indicator not created", "id", id, "err", err)
		return
	}
	c.indicator = h
	c.indicatorID = id
}

func (c *Controller) hideIndicator() {
	if c.indicatorID == "" {
		return
	}
	if err := c.opts.Surface.DestroyOverlay(c.indicator); err != nil {
		c.log.Warn("indicator not destroyed", "err", err)
	}
	c.indicator = ""
	c.indicatorID = ""
}

func indicatorRect(id string, vp geometry.Viewport) geometry.Rect {
	y := vp.PageTop
	if id == IndicatorBottom {
		y += vp.Height - indicatorHeight
	}
	return geometry.Rect{X: vp.PageLeft, Y: y, Width: vp.Width, Height: indicatorHeight}
}
