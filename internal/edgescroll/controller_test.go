package edgescroll

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/gesturenav/internal/config"
	"github.com/v0xg/gesturenav/internal/geometry"
	"github.com/v0xg/gesturenav/internal/render"
)

type timer struct {
	interval  time.Duration
	fn        func()
	cancelled bool
}

type fakeScheduler struct {
	timers []*timer
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) func() {
	t := &timer{interval: interval, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) live() []*timer {
	var out []*timer
	for _, t := range s.timers {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	return out
}

type scrollCall struct {
	axis   geometry.Axis
	amount int
}

type fakeScroller struct {
	calls []scrollCall
	err   error
}

func (s *fakeScroller) ScrollBy(axis geometry.Axis, amount int) error {
	s.calls = append(s.calls, scrollCall{axis, amount})
	return s.err
}

type fakeViewport struct {
	vp  geometry.Viewport
	err error
}

func (v *fakeViewport) Viewport() (geometry.Viewport, error) { return v.vp, v.err }

type fakeSurface struct {
	live    map[render.Handle]geometry.Rect
	created []string
	placed  int
}

func (s *fakeSurface) CreateOverlay(id string, r geometry.Rect) (render.Handle, error) {
	if s.live == nil {
		s.live = map[render.Handle]geometry.Rect{}
	}
	s.created = append(s.created, id)
	h := render.Handle(id)
	s.live[h] = r
	return h, nil
}

func (s *fakeSurface) PlaceOverlay(h render.Handle, r geometry.Rect) error {
	s.placed++
	s.live[h] = r
	return nil
}

func (s *fakeSurface) DestroyOverlay(h render.Handle) error {
	delete(s.live, h)
	return nil
}

func (s *fakeSurface) DrawSegment(render.Handle, geometry.Point, geometry.Point, render.Stroke) error {
	return nil
}

type harness struct {
	c     *Controller
	sched *fakeScheduler
	sc    *fakeScroller
	vp    *fakeViewport
	surf  *fakeSurface
	store *config.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg, err := config.Parse([]byte("edge_scroll_enabled: true\n"))
	require.NoError(t, err)

	h := &harness{
		sched: &fakeScheduler{},
		sc:    &fakeScroller{},
		vp:    &fakeViewport{vp: geometry.Viewport{Width: 1000, Height: 800}},
		surf:  &fakeSurface{},
		store: config.NewStore(cfg),
	}
	h.c = New(Options{
		Settings:  h.store,
		Viewport:  h.vp,
		Scroller:  h.sc,
		Scheduler: h.sched,
		Surface:   h.surf,
	})
	return h
}

func TestStartIdempotent(t *testing.T) {
	h := newHarness(t)

	h.c.Start(geometry.AxisX, 10)
	h.c.Start(geometry.AxisX, 10)

	assert.Len(t, h.sched.timers, 1)
	assert.Len(t, h.sched.live(), 1)
	assert.Equal(t, []scrollCall{{geometry.AxisX, 10}}, h.sc.calls)
	assert.Equal(t, 2500*time.Millisecond, h.sched.timers[0].interval)
}

func TestStartReplacesDifferentParams(t *testing.T) {
	h := newHarness(t)

	h.c.Start(geometry.AxisX, 10)
	h.c.Start(geometry.AxisX, -10)

	require.Len(t, h.sched.timers, 2)
	assert.True(t, h.sched.timers[0].cancelled)
	assert.False(t, h.sched.timers[1].cancelled)
	assert.Equal(t, State{Active: true, Axis: geometry.AxisX, Amount: -10}, h.c.State())

	h.sched.timers[1].fn()
	assert.Equal(t, scrollCall{geometry.AxisX, -10}, h.sc.calls[len(h.sc.calls)-1])
}

func TestStopAny(t *testing.T) {
	for _, axis := range []geometry.Axis{geometry.AxisX, geometry.AxisY} {
		h := newHarness(t)
		h.c.Start(axis, 40)
		h.c.Stop(geometry.AxisAny)

		assert.Equal(t, State{}, h.c.State())
		assert.Empty(t, h.sched.live())
	}

	h := newHarness(t)
	h.c.Stop(geometry.AxisAny)
	assert.Equal(t, State{}, h.c.State())
}

func TestStopAxisMismatch(t *testing.T) {
	h := newHarness(t)
	h.c.Start(geometry.AxisY, 40)
	h.c.Stop(geometry.AxisX)
	assert.True(t, h.c.State().Active)

	h.c.Stop(geometry.AxisY)
	assert.False(t, h.c.State().Active)
	assert.Empty(t, h.sched.live())
}

func TestTrackBands(t *testing.T) {
	tests := []struct {
		name string
		p    geometry.Point
		want State
	}{
		// Bands are 80px tall (10% of 800) and 100px wide (10% of 1000).
		{"top outer quarter", geometry.Point{X: 500, Y: 5}, State{true, geometry.AxisY, -160}},
		{"top second quarter", geometry.Point{X: 500, Y: 30}, State{true, geometry.AxisY, -80}},
		{"top third quarter", geometry.Point{X: 500, Y: 50}, State{true, geometry.AxisY, -40}},
		{"top inner quarter", geometry.Point{X: 500, Y: 75}, State{true, geometry.AxisY, -20}},
		{"bottom outer quarter", geometry.Point{X: 500, Y: 795}, State{true, geometry.AxisY, 160}},
		{"bottom inner quarter", geometry.Point{X: 500, Y: 725}, State{true, geometry.AxisY, 20}},
		{"right", geometry.Point{X: 950, Y: 400}, State{true, geometry.AxisX, 10}},
		{"left", geometry.Point{X: 20, Y: 400}, State{true, geometry.AxisX, -10}},
		{"top wins over left", geometry.Point{X: 5, Y: 5}, State{true, geometry.AxisY, -160}},
		{"middle", geometry.Point{X: 500, Y: 400}, State{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			assert.True(t, h.c.Track(tt.p))
			assert.Equal(t, tt.want, h.c.State())
		})
	}
}

func TestTrackLeavingBandsStops(t *testing.T) {
	h := newHarness(t)
	h.c.Track(geometry.Point{X: 500, Y: 5})
	h.c.Track(geometry.Point{X: 500, Y: 6})
	assert.Len(t, h.sched.timers, 1, "same tier keeps the timer")

	h.c.Track(geometry.Point{X: 500, Y: 400})
	assert.False(t, h.c.State().Active)
	assert.Empty(t, h.sched.live())
	assert.Empty(t, h.surf.live)
}

func TestTrackDisabled(t *testing.T) {
	h := newHarness(t)
	h.c.Start(geometry.AxisY, 20)

	h.store.Set(config.Default())
	assert.False(t, h.c.Track(geometry.Point{X: 500, Y: 5}))
	assert.False(t, h.c.State().Active)
	assert.Empty(t, h.sched.live())
}

func TestTrackWithoutViewport(t *testing.T) {
	h := newHarness(t)
	h.c.Start(geometry.AxisY, 20)

	h.vp.vp = geometry.Viewport{}
	assert.False(t, h.c.Track(geometry.Point{X: 1, Y: 1}))
	assert.False(t, h.c.State().Active)

	h.vp.err = errors.New("detached")
	assert.False(t, h.c.Track(geometry.Point{X: 1, Y: 1}))
}

func TestIndicatorFollowsBand(t *testing.T) {
	h := newHarness(t)
	h.vp.vp.PageTop = 300

	h.c.Track(geometry.Point{X: 500, Y: 5})
	require.Contains(t, h.surf.live, render.Handle("topArea"))
	assert.Equal(t, geometry.Rect{Y: 300, Width: 1000, Height: 10}, h.surf.live["topArea"])

	h.vp.vp.PageTop = 200
	h.c.Reposition()
	assert.Equal(t, 200.0, h.surf.live["topArea"].Y)

	h.c.Track(geometry.Point{X: 500, Y: 795})
	assert.NotContains(t, h.surf.live, render.Handle("topArea"))
	assert.Equal(t, geometry.Rect{Y: 200 + 790, Width: 1000, Height: 10}, h.surf.live["bottomArea"])

	h.c.Cancel("blur")
	assert.Empty(t, h.surf.live)
	assert.Equal(t, []string{"topArea", "bottomArea"}, h.surf.created)
}

func TestScrollErrorsAreLogged(t *testing.T) {
	h := newHarness(t)
	h.sc.err = errors.New("page closed")
	h.c.Start(geometry.AxisY, 20)
	h.sched.timers[0].fn()
	assert.Len(t, h.sc.calls, 2)
	assert.True(t, h.c.State().Active)
}

func TestJump(t *testing.T) {
	tiers := [4]int{16, 8, 4, 2}
	assert.Equal(t, 160, Jump(0, 0, 80, Top, tiers, 10))
	assert.Equal(t, 20, Jump(79, 0, 80, Top, tiers, 10))
	assert.Equal(t, 160, Jump(799, 720, 80, Bottom, tiers, 10))
	assert.Equal(t, 80, Jump(770, 720, 80, Bottom, tiers, 10))
	assert.Equal(t, 40, Jump(750, 720, 80, Bottom, tiers, 10))
	assert.Equal(t, 20, Jump(721, 720, 80, Bottom, tiers, 10))
	assert.Equal(t, 3, Jump(0, 0, 80, Left, [4]int{3, 2, 1, 1}, 1))
}
