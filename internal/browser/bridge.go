package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/google/uuid"
	"github.com/ysmood/gson"

	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/input"
)

// binding is the page function the listener script reports events through.
const binding = "gesturenavEvent"

// listenerJS forwards pointer and window events to the binding. The page
// cannot wait for Go before deciding on the context menu, so it applies the
// same rule locally: the menu is kept only after a right click that did not
// move past the motion threshold and was not part of a rocker.
const listenerJS = `(binding, threshold) => {
	if (window.__gesturenav) return;
	window.__gesturenav = true;
	const send = (e) => { const f = window[binding]; if (f) f(e); };
	const chain = (el) => {
		const out = [];
		for (let n = el, i = 0; n && i <= 10; n = n.parentElement, i++) {
			const tag = n.tagName;
			out.push((tag === 'A' || tag === 'AREA') && n.href ? String(n.href) : '');
		}
		return out;
	};
	const ptr = (type, e, links) => send({
		type, links,
		button: e.button, buttons: e.buttons,
		pageX: e.pageX, pageY: e.pageY,
		clientX: e.clientX, clientY: e.clientY
	});
	let right = false, moved = false, rocked = false, ox = 0, oy = 0;
	addEventListener('mousedown', e => {
		if (e.button === 2) { right = true; moved = false; ox = e.pageX; oy = e.pageY; }
		ptr('mousedown', e, e.button === 2 ? chain(e.target) : undefined);
	}, true);
	addEventListener('mousemove', e => {
		if (right && Math.hypot(e.pageX - ox, e.pageY - oy) > threshold) moved = true;
		ptr('mousemove', e);
	}, true);
	addEventListener('mouseup', e => {
		if ((e.button === 2 && (e.buttons & 1)) || (e.button === 0 && (e.buttons & 2))) rocked = true;
		if (e.button === 2) right = false;
		ptr('mouseup', e);
	}, true);
	addEventListener('contextmenu', e => {
		if (moved || rocked) e.preventDefault();
		moved = false; rocked = false;
		send({type: 'contextmenu'});
	}, true);
	addEventListener('mouseout', e => { if (!e.relatedTarget) send({type: 'mouseleave'}); });
	addEventListener('blur', () => send({type: 'blur'}));
	addEventListener('pagehide', () => send({type: 'pagehide'}));
	addEventListener('hashchange', () => send({type: 'hashchange'}));
	addEventListener('scroll', () => send({type: 'scroll'}), {passive: true});
}`

// Session bridges page events of every attached tab into a Router. Events
// are handled one at a time on the goroutine calling Run.
type Session struct {
	ID      string
	b       *Browser
	router  *input.Router
	changes <-chan struct{}
	events  chan tabEvent
	done    chan struct{}
	log     *slog.Logger
}

type tabEvent struct {
	tab string
	ev  input.Event
}

// NewSession creates a session for b. Call Attach for each existing tab;
// tabs opened later are attached automatically. A value on changes, e.g.
// from config.Store.Changes, makes Run reapply the configuration to the
// drag and scroll in progress; changes may be nil.
func NewSession(b *Browser, router *input.Router, changes <-chan struct{}, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	s := &Session{
		ID:      id,
		b:       b,
		router:  router,
		changes: changes,
		events:  make(chan tabEvent, 64),
		done:    make(chan struct{}),
		log:     logger.With("component", "session", "session", id),
	}
	b.OnTab(func(p *rod.Page) {
		if err := s.Attach(p); err != nil {
			s.log.Warn("failed to attach new tab", "err", err)
		}
	})
	return s
}

// Attach installs the event listener in page, now and on every future
// document.
func (s *Session) Attach(page *rod.Page) error {
	tab := string(page.TargetID)
	if _, err := page.Expose(binding, func(payload gson.JSON) (interface{}, error) {
		ev, ok := parseEvent(payload)
		if !ok {
			return nil, nil
		}
		select {
		case s.events <- tabEvent{tab: tab, ev: ev}:
		case <-s.done:
		}
		return nil, nil
	}); err != nil {
		return fmt.Errorf("expose binding: %w", err)
	}

	script := fmt.Sprintf("(%s)(%q, %d)", listenerJS, binding, int(geometry.MotionThreshold))
	if _, err := page.EvalOnNewDocument(script); err != nil {
		return fmt.Errorf("install listener: %w", err)
	}
	if _, err := page.Eval(listenerJS, binding, int(geometry.MotionThreshold)); err != nil {
		return fmt.Errorf("install listener: %w", err)
	}
	s.log.Debug("tab attached", "tab", tab)
	return nil
}

// Run handles events until ctx is done or every tab is closed. It must be
// called once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.b.Done():
			return nil
		case <-s.changes:
			s.log.Debug("configuration changed")
			s.router.Reconfigure()
		case te := <-s.events:
			page, err := s.b.Page()
			if errors.Is(err, ErrNoPage) {
				return nil
			}
			if err != nil {
				return err
			}
			if string(page.TargetID) != te.tab {
				continue
			}
			s.router.Handle(ctx, te.ev)
		}
	}
}

// parseEvent decodes one listener payload.
func parseEvent(v gson.JSON) (input.Event, bool) {
	kind, ok := input.ParseKind(v.Get("type").Str())
	if !ok {
		return input.Event{}, false
	}
	ev := input.Event{
		Kind:    kind,
		Button:  input.Button(v.Get("button").Int()),
		Buttons: v.Get("buttons").Int(),
		Page:    geometry.Point{X: v.Get("pageX").Num(), Y: v.Get("pageY").Num()},
		Client:  geometry.Point{X: v.Get("clientX").Num(), Y: v.Get("clientY").Num()},
	}
	if links := v.Get("links").Arr(); len(links) > 0 {
		hrefs := make([]string, len(links))
		for i, l := range links {
			hrefs[i] = l.Str()
		}
		ev.Target = newChain(hrefs)
	}
	return ev, true
}
