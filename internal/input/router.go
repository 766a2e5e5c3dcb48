package input

import (
	"context"
	"log/slog"

	"github.com/v0xg/gesturenav/internal/config"
	"github.com/v0xg/gesturenav/internal/edgescroll"
	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/gesture"
)

// Settings supplies the current configuration snapshot.
type Settings interface {
	Current() *config.Config
}

// Router sends moves to the recognizer while a drag is live and to the edge
// controller otherwise. Handle must be called from a single goroutine.
type Router struct {
	settings   Settings
	host       func() string
	gestures   *gesture.Recognizer
	edges      *edgescroll.Controller
	dispatcher gesture.Dispatcher
	log        *slog.Logger

	suppressMenu bool
}

// NewRouter wires a Router. host returns the hostname of the page the events
// come from.
func NewRouter(settings Settings, host func() string, g *gesture.Recognizer, e *edgescroll.Controller, d gesture.Dispatcher, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{
		settings:   settings,
		host:       host,
		gestures:   g,
		edges:      e,
		dispatcher: d,
		log:        logger.With("component", "input"),
	}
}

// Handle processes one event and reports whether the page's default
// handling should be suppressed.
func (r *Router) Handle(ctx context.Context, ev Event) bool {
	cfg := r.settings.Current()
	if !cfg.EnabledFor(r.host()) {
		r.gestures.Cancel()
		r.edges.Cancel("disabled")
		r.suppressMenu = false
		return false
	}

	switch ev.Kind {
	case KindDown:
		return r.down(ev)
	case KindUp:
		return r.up(ctx, ev, cfg)
	case KindMove:
		if r.gestures.Dragging() {
			r.gestures.Sample(ev.Page)
			return true
		}
		r.edges.Track(ev.Client)
		return false
	case KindContextMenu:
		suppress := r.suppressMenu
		r.suppressMenu = false
		return suppress
	case KindLeave, KindHashChange:
		r.edges.Cancel(ev.Kind.String())
	case KindBlur, KindPageHide:
		r.gestures.Cancel()
		r.edges.Cancel(ev.Kind.String())
	case KindScroll:
		r.edges.Reposition()
	}
	return false
}

// Reconfigure applies a new configuration snapshot to work already in
// progress: a host that is no longer enabled cancels the drag and any
// scrolling, and disabled edge scrolling stops its timer.
func (r *Router) Reconfigure() {
	cfg := r.settings.Current()
	if !cfg.EnabledFor(r.host()) {
		r.gestures.Cancel()
		r.edges.Cancel("config")
		r.suppressMenu = false
		return
	}
	if !cfg.EdgeScrollEnabled {
		r.edges.Cancel("config")
	}
}

func (r *Router) down(ev Event) bool {
	if ev.Button != ButtonRight {
		return false
	}
	r.edges.Stop(geometry.AxisAny)
	r.gestures.Start(ev.Page, ev.Target)
	return true
}

func (r *Router) up(ctx context.Context, ev Event, cfg *config.Config) bool {
	switch ev.Button {
	case ButtonRight:
		if cfg.RockerEnabled && ev.Buttons&HeldLeft != 0 {
			r.gestures.Cancel()
			r.rocker(ctx, gesture.NextTab)
			return true
		}
		out := r.gestures.Release(ctx)
		switch out.Kind {
		case gesture.KindIdle:
		case gesture.KindClick:
			r.suppressMenu = false
		default:
			r.suppressMenu = true
			r.log.Debug("gesture", "code", out.Code, "action", out.Action, "result", out.Kind)
		}
		return out.Kind != gesture.KindClick && out.Kind != gesture.KindIdle
	case ButtonLeft:
		if cfg.RockerEnabled && ev.Buttons&HeldRight != 0 {
			r.gestures.Cancel()
			r.rocker(ctx, gesture.PrevTab)
			return true
		}
	}
	return false
}

func (r *Router) rocker(ctx context.Context, action gesture.Action) {
	r.suppressMenu = true
	if r.dispatcher == nil {
		return
	}
	if err := r.dispatcher.Dispatch(ctx, action, gesture.Payload{}); err != nil {
		r.log.Error("failed to dispatch rocker action", "action", action, "err", err)
	}
}
