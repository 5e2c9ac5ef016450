package dial

import (
	"image/color"
	"math"
	"testing"
	"time"
)

// recordingRenderer counts draw calls and keeps the last arguments.
type recordingRenderer struct {
	mountErr error
	mounted  bool
	layout   Layout

	clears   int
	ticks    int
	arcs     int
	handles  int
	unmounts int

	lastAngle  float64
	lastColor  color.Color
	lastHandle Point
}

func (r *recordingRenderer) Mount(l Layout) error {
	if r.mountErr != nil {
		return r.mountErr
	}
	r.mounted = true
	r.layout = l
	return nil
}

func (r *recordingRenderer) Unmount() {
	r.mounted = false
	r.unmounts++
}

func (r *recordingRenderer) ClearRegion()         { r.clears++ }
func (r *recordingRenderer) DrawStepTicks(Layout) { r.ticks++ }

func (r *recordingRenderer) DrawProgressArc(angle float64, c color.Color) {
	r.arcs++
	r.lastAngle = angle
	r.lastColor = c
}

func (r *recordingRenderer) DrawHandle(pos Point) {
	r.handles++
	r.lastHandle = pos
}

func (r *recordingRenderer) draws() int {
	return r.clears + r.ticks + r.arcs + r.handles
}

// frameClock steps a FrameScheduler with a fixed frame length.
type frameClock struct {
	sched *FrameScheduler
	now   time.Time
	frame time.Duration
}

func newFrameClock(s *FrameScheduler) *frameClock {
	return &frameClock{
		sched: s,
		now:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		frame: 16 * time.Millisecond,
	}
}

func (c *frameClock) advance(frames int) {
	for i := 0; i < frames; i++ {
		c.now = c.now.Add(c.frame)
		c.sched.Step(c.now)
	}
}

type testDial struct {
	*Dial
	renderer *recordingRenderer
	sched    *FrameScheduler
	clock    *frameClock
	router   *Router
	errs     []error
}

func newTestDial(t *testing.T, min, max, step float64) *testDial {
	t.Helper()
	td := &testDial{
		renderer: &recordingRenderer{},
		sched:    NewFrameScheduler(),
		router:   NewRouter(),
	}
	td.clock = newFrameClock(td.sched)
	d, err := New(Config{
		Name:      "test",
		Min:       min,
		Max:       max,
		Step:      step,
		Radius:    120,
		Renderer:  td.renderer,
		Scheduler: td.sched,
		Input:     td.router,
		OnError:   func(err error) { td.errs = append(td.errs, err) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	td.Dial = d
	return td
}

// settle runs frames until the current value reaches the target.
func (td *testDial) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if td.Value() == td.Target() {
			return
		}
		td.clock.advance(1)
	}
	t.Fatalf("value %v did not converge to target %v", td.Value(), td.Target())
}

// pointAt returns a local point in the middle of the ring band at ratio.
func (td *testDial) pointAt(ratio float64) Point {
	l := td.Layout()
	r := (l.InnerRadius + l.OuterRadius) / 2
	a := RatioToAngle(ratio)
	return Point{X: l.Center.X + math.Cos(a)*r, Y: l.Center.Y + math.Sin(a)*r}
}

func (td *testDial) pointer(kind PointerKind, p Point, id int) bool {
	return td.HandlePointer(PointerEvent{Kind: kind, X: p.X, Y: p.Y, PointerID: id})
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
