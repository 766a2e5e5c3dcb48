package replay

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/gesture"
	"github.com/v0xg/gesturenav/internal/input"
	"github.com/v0xg/gesturenav/internal/overlay"
)

// maxWaitFrames caps the frames recorded for one wait.
const maxWaitFrames = 60

// Handler consumes input events; *input.Router satisfies it.
type Handler interface {
	Handle(ctx context.Context, ev input.Event) bool
}

// FrameSource captures the visible page.
type FrameSource interface {
	Screenshot() (image.Image, error)
}

// Options configures a Runner.
type Options struct {
	Handler  Handler
	Viewport geometry.Viewporter
	Frames   FrameSource
	// Canvas holds the overlays drawn during the run. Nil records frames
	// without overlays or cursor.
	Canvas *overlay.Canvas
	FPS    int
	// Sleep paces the run so timers fire; nil uses time.Sleep.
	Sleep  func(time.Duration)
	Logger *slog.Logger
}

// Result is what a run recorded.
type Result struct {
	Frames []image.Image
	// MenusShown counts context menus the page would have shown.
	MenusShown int
}

// Runner replays scripts.
type Runner struct {
	opts Options
	log  *slog.Logger

	cursor   overlay.Cursor
	held     int
	lastView geometry.Viewport
	result   Result
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.FPS <= 0 {
		opts.FPS = 20
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{opts: opts, log: logger.With("component", "replay")}
}

// Run plays every step and returns the recorded frames.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	r.result = Result{}
	frameInterval := time.Second / time.Duration(r.opts.FPS)

	if err := r.capture(ctx); err != nil {
		return nil, fmt.Errorf("failed to capture initial frame: %w", err)
	}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.log.Debug("step", "index", i+1, "action", st.Type, "x", st.X, "y", st.Y)

		if err := r.step(ctx, st, frameInterval); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, st.Type, err)
		}
		if err := r.wait(ctx, st.Wait, frameInterval); err != nil {
			return nil, err
		}
	}
	return &r.result, nil
}

func (r *Runner) step(ctx context.Context, st Step, frameInterval time.Duration) error {
	switch st.Type {
	case StepMove:
		return r.move(ctx, st, frameInterval)
	case StepDown, StepUp:
		button, err := parseButton(st.Button)
		if err != nil {
			return err
		}
		r.cursor.X, r.cursor.Y = int(st.X), int(st.Y)
		ev, err := r.event(input.KindDown, geometry.Point{X: st.X, Y: st.Y})
		if err != nil {
			return err
		}
		ev.Button = button
		if st.Type == StepDown {
			r.held |= heldBit(button)
			ev.Buttons = r.held
			if st.Link != "" {
				ev.Target = linkNode(st.Link)
			}
		} else {
			r.held &^= heldBit(button)
			ev.Kind = input.KindUp
			ev.Buttons = r.held
		}
		r.cursor.Right = r.held&input.HeldRight != 0
		r.cursor.Click = st.Type == StepDown
		r.opts.Handler.Handle(ctx, ev)

		if st.Type == StepUp && button == input.ButtonRight {
			if !r.opts.Handler.Handle(ctx, input.Event{Kind: input.KindContextMenu}) {
				r.result.MenusShown++
			}
		}
		err = r.capture(ctx)
		r.cursor.Click = false
		return err
	case StepLeave, StepBlur:
		kind := input.KindLeave
		if st.Type == StepBlur {
			kind = input.KindBlur
		}
		r.opts.Handler.Handle(ctx, input.Event{Kind: kind})
		return r.capture(ctx)
	case StepWait:
		return nil
	}
	return fmt.Errorf("unknown action %q", st.Type)
}

// move interpolates from the current cursor to the step's point with
// ease-in-out timing, one event and frame per step.
func (r *Runner) move(ctx context.Context, st Step, frameInterval time.Duration) error {
	n := st.Frames
	if n < 1 {
		n = 1
	}
	fromX, fromY := float64(r.cursor.X), float64(r.cursor.Y)
	for i := 1; i <= n; i++ {
		t := easeInOutQuad(float64(i) / float64(n))
		p := geometry.Point{X: fromX + t*(st.X-fromX), Y: fromY + t*(st.Y-fromY)}

		ev, err := r.event(input.KindMove, p)
		if err != nil {
			return err
		}
		ev.Buttons = r.held
		r.cursor.X, r.cursor.Y = int(p.X), int(p.Y)
		r.opts.Handler.Handle(ctx, ev)

		if err := r.capture(ctx); err != nil {
			return err
		}
		r.opts.Sleep(frameInterval / 2)
	}
	return nil
}

// event builds an event at client point p, deriving the page point from
// the current scroll offsets.
func (r *Runner) event(kind input.Kind, p geometry.Point) (input.Event, error) {
	vp, err := r.opts.Viewport.Viewport()
	if err != nil {
		return input.Event{}, err
	}
	return input.Event{
		Kind:   kind,
		Client: p,
		Page:   p.Add(geometry.Vector{DX: vp.PageLeft, DY: vp.PageTop}),
	}, nil
}

// wait records frames for waitMs while timers run.
func (r *Runner) wait(ctx context.Context, waitMs int, frameInterval time.Duration) error {
	if waitMs <= 0 {
		return nil
	}
	n := int(time.Duration(waitMs) * time.Millisecond / frameInterval)
	if n < 1 {
		n = 1
	}
	if n > maxWaitFrames {
		n = maxWaitFrames
	}
	for i := 0; i < n; i++ {
		r.opts.Sleep(frameInterval)
		if err := r.capture(ctx); err != nil {
			return err
		}
	}
	return nil
}

// capture takes one frame. A changed scroll offset is reported to the
// handler first so overlays follow the page.
func (r *Runner) capture(ctx context.Context) error {
	vp, err := r.opts.Viewport.Viewport()
	if err != nil {
		return err
	}
	if vp.PageLeft != r.lastView.PageLeft || vp.PageTop != r.lastView.PageTop {
		r.opts.Handler.Handle(ctx, input.Event{Kind: input.KindScroll})
	}
	r.lastView = vp

	frame, err := r.opts.Frames.Screenshot()
	if err != nil {
		return err
	}
	if r.opts.Canvas != nil {
		cur := r.cursor
		frame = r.opts.Canvas.Composite(frame, vp, &cur)
	}
	r.result.Frames = append(r.result.Frames, frame)
	return nil
}

// easeInOutQuad provides smooth acceleration/deceleration
func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - (-2*t+2)*(-2*t+2)/2
}

// linkNode is a link element with no ancestors.
type linkNode string

func (n linkNode) Link() (string, bool) { return string(n), n != "" }
func (n linkNode) Parent() (gesture.Node, bool) { return nil, false }
