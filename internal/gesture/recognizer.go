// Package gesture turns a pointer drag into a direction code and runs the
// action bound to it.
package gesture

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/render"
)

// trailOverlayID names the overlay the drag trail is drawn on.
const trailOverlayID = "simplegesture"

// DragSession is the state of one drag, from button press to release.
type DragSession struct {
	ID            string
	Origin        geometry.Point
	Current       geometry.Point
	LastSampled   geometry.Point
	Code          []geometry.Direction
	LastToken     geometry.Direction
	HasMoved      bool
	CandidateLink string

	trail    render.Handle
	hasTrail bool
}

// CodeString returns the collapsed direction code, e.g. "UR".
func (s *DragSession) CodeString() string {
	b := make([]byte, len(s.Code))
	for i, d := range s.Code {
		b[i] = byte(d)
	}
	return string(b)
}

// Kind classifies what a release did.
type Kind int

const (
	KindIdle       Kind = iota // release without a drag
	KindClick                  // no movement recorded
	KindUnbound                // code has no action
	KindDispatched             // sent to the dispatcher
	KindNavigated              // followed a next/previous page link
	KindFailed                 // dispatch or navigation did not happen
)

func (k Kind) String() string {
	switch k {
	case KindClick:
		return "click"
	case KindUnbound:
		return "unbound"
	case KindDispatched:
		return "dispatched"
	case KindNavigated:
		return "navigated"
	case KindFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Outcome reports the result of Release.
type Outcome struct {
	Kind   Kind
	Code   string
	Action Action
	URL    string
}

// Options wires a Recognizer to its collaborators. Surface, Viewport and
// Pages may be nil.
type Options struct {
	Settings   Settings
	Dispatcher Dispatcher
	Pages      PageNavigator
	Surface    render.Surface
	Viewport   geometry.Viewporter
	Logger     *slog.Logger
}

// Recognizer owns at most one DragSession.
type Recognizer struct {
	opts    Options
	log     *slog.Logger
	session *DragSession
}

// New creates an idle Recognizer.
func New(opts Options) *Recognizer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recognizer{opts: opts, log: logger.With("component", "gesture")}
}

// Dragging reports whether a session is live.
func (r *Recognizer) Dragging() bool {
	return r.session != nil
}

// Session returns the live session or nil.
func (r *Recognizer) Session() *DragSession {
	return r.session
}

// Start begins a drag at origin. target is the element under the pointer
// and may be nil. A second Start while dragging is ignored and reports
// false.
func (r *Recognizer) Start(origin geometry.Point, target Node) bool {
	if r.session != nil {
		r.log.Warn("drag start ignored, already dragging", "session", r.session.ID)
		return false
	}
	r.session = &DragSession{
		ID:            uuid.NewString(),
		Origin:        origin,
		Current:       origin,
		LastSampled:   origin,
		CandidateLink: linkOf(target),
	}
	r.log.Debug("drag start", "session", r.session.ID, "origin", origin, "link", r.session.CandidateLink)
	return true
}

// Sample feeds one pointer position while dragging.
func (r *Recognizer) Sample(p geometry.Point) {
	s := r.session
	if s == nil {
		return
	}

	token, ok := geometry.Quantize(p.Sub(s.Current))
	if !ok {
		return
	}
	if token != s.LastToken {
		s.Code = append(s.Code, token)
		s.LastToken = token
	}

	r.drawTrail(s, p)
	s.HasMoved = true
	s.Current = p
}

func (r *Recognizer) drawTrail(s *DragSession, p geometry.Point) {
	cfg := r.opts.Settings.Current()
	if !cfg.Trail.Enabled || r.opts.Surface == nil {
		return
	}

	if !s.HasMoved && !s.hasTrail {
		rect := geometry.Rect{}
		if r.opts.Viewport != nil {
			vp, err := r.opts.Viewport.Viewport()
			if err != nil {
				r.log.Warn("viewport unavailable for trail", "err", err)
			} else {
				rect = geometry.Rect{X: vp.PageLeft, Y: vp.PageTop, Width: vp.Width, Height: vp.Height}
			}
		}
		h, err := r.opts.Surface.CreateOverlay(trailOverlayID, rect)
		if err != nil {
			r.log.Warn("trail overlay not created", "err", err)
		} else {
			s.trail = h
			s.hasTrail = true
		}
	}
	if !s.hasTrail {
		return
	}

	c, err := cfg.Trail.RGBA()
	if err != nil {
		r.log.Warn("bad trail color", "err", err)
		return
	}
	stroke := render.Stroke{Color: c, Width: cfg.Trail.Width}
	if err := r.opts.Surface.DrawSegment(s.trail, s.LastSampled, p, stroke); err != nil {
		r.log.Warn("trail segment not drawn", "err", err)
	}
	s.LastSampled = p
}

// Release ends the drag and runs the bound action, if any. The session and
// trail are always torn down.
func (r *Recognizer) Release(ctx context.Context) Outcome {
	s := r.session
	if s == nil {
		return Outcome{Kind: KindIdle}
	}
	defer r.teardown()

	code := s.CodeString()
	if !s.HasMoved {
		return Outcome{Kind: KindClick}
	}

	target, ok := r.opts.Settings.Current().Actions().Lookup(code)
	if !ok {
		r.log.Debug("no action for gesture", "code", code)
		return Outcome{Kind: KindUnbound, Code: code}
	}

	action, url := resolveTarget(target)
	if url == "" {
		url = s.CandidateLink
	}
	out := Outcome{Code: code, Action: action, URL: url}

	switch action {
	case NextPage, PrevPage:
		out.URL = ""
		if r.navigate(ctx, action) {
			out.Kind = KindNavigated
		} else {
			r.log.Info("no page link found", "action", action)
			out.Kind = KindFailed
		}
		return out
	}

	if r.opts.Dispatcher == nil {
		r.log.Warn("no dispatcher, dropping action", "action", action)
		out.Kind = KindFailed
		return out
	}
	if err := r.opts.Dispatcher.Dispatch(ctx, action, Payload{URL: url}); err != nil {
		r.log.Error("failed to dispatch action", "action", action, "err", err)
		out.Kind = KindFailed
		return out
	}
	r.log.Debug("gesture dispatched", "code", code, "action", action, "url", url)
	out.Kind = KindDispatched
	return out
}

func (r *Recognizer) navigate(ctx context.Context, action Action) bool {
	if r.opts.Pages == nil {
		return false
	}
	if action == NextPage {
		return r.opts.Pages.NextPage(ctx)
	}
	return r.opts.Pages.PrevPage(ctx)
}

// Cancel aborts the drag without running any action.
func (r *Recognizer) Cancel() {
	if r.session == nil {
		return
	}
	r.log.Debug("drag cancelled", "session", r.session.ID)
	r.teardown()
}

func (r *Recognizer) teardown() {
	s := r.session
	r.session = nil
	if s == nil || !s.hasTrail || r.opts.Surface == nil {
		return
	}
	if err := r.opts.Surface.DestroyOverlay(s.trail); err != nil {
		r.log.Warn("trail overlay not destroyed", "err", err)
	}
}
