package dial

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"
)

// MinRadius is the smallest outer radius a dial accepts.
const MinRadius = 50

// DefaultColor is used for the progress arc when Config.Color is nil.
var DefaultColor color.Color = color.RGBA{R: 0x3f, G: 0x8e, B: 0xfc, A: 0xff}

// Renderer paints a dial. The dial calls it from the host's frame loop only.
type Renderer interface {
	// Mount attaches the renderer to its surface. A failed mount aborts
	// construction.
	Mount(l Layout) error
	// Unmount detaches from the surface.
	Unmount()
	// ClearRegion clears the overlay (arc and handle). Step ticks stay.
	ClearRegion()
	// DrawStepTicks paints the static step ticks into the background.
	DrawStepTicks(l Layout)
	// DrawProgressArc strokes the arc from the top of the ring to angle.
	DrawProgressArc(angle float64, c color.Color)
	// DrawHandle paints the handle centered at pos.
	DrawHandle(pos Point)
}

// Config holds the construction options of a Dial.
type Config struct {
	// Name labels the dial in logs and remote feeds.
	Name string
	// Anchor is the top-left corner of the dial in host coordinates. It is
	// the origin of the input subscription.
	Anchor Point
	// Color of the progress arc.
	Color color.Color

	Min    float64
	Max    float64
	Step   float64
	Radius float64

	Tuning Tuning

	Renderer  Renderer
	Scheduler Scheduler
	// Input is optional; without it the host calls HandlePointer directly.
	Input InputSource

	Logger *slog.Logger
	// OnError receives isolated observer and frame failures. When nil they
	// are logged at warn level.
	OnError func(error)
}

// Validate checks the numeric options.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"min", c.Min}, {"max", c.Max}, {"step", c.Step}, {"radius", c.Radius}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ConfigurationError{Field: f.name, Value: f.v, Reason: "must be a finite number"}
		}
	}
	if c.Min >= c.Max {
		return &ConfigurationError{Field: "min", Value: c.Min, Reason: fmt.Sprintf("must be less than max (%g)", c.Max)}
	}
	if c.Step <= 0 {
		return &ConfigurationError{Field: "step", Value: c.Step, Reason: "must be greater than 0"}
	}
	if c.Radius < MinRadius {
		return &ConfigurationError{Field: "radius", Value: c.Radius, Reason: fmt.Sprintf("must be at least %d", MinRadius)}
	}
	return nil
}

// Dial is a circular value selector. All methods must be called from the
// host's frame loop.
type Dial struct {
	name   string
	anchor Point
	color  color.Color
	rng    Range
	layout Layout
	tuning Tuning

	renderer Renderer
	input    InputSource
	inputID  HandleID
	logger   *slog.Logger
	onError  func(error)

	hub     *hub
	model   *model
	tracker *tracker
	anim    *animator

	destroyed bool
}

// New validates cfg, mounts the renderer, paints the initial state and
// starts the animation loop. On error nothing stays mounted.
func New(cfg Config) (*Dial, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Renderer == nil {
		return nil, &InvalidMountError{Reason: "no renderer"}
	}
	if cfg.Scheduler == nil {
		return nil, &InvalidMountError{Reason: "no frame scheduler"}
	}

	d := &Dial{
		name:     cfg.Name,
		anchor:   cfg.Anchor,
		color:    cfg.Color,
		rng:      Range{Min: cfg.Min, Max: cfg.Max, Step: cfg.Step},
		tuning:   cfg.Tuning.withDefaults(),
		renderer: cfg.Renderer,
		input:    cfg.Input,
		logger:   cfg.Logger,
		onError:  cfg.OnError,
	}
	if d.color == nil {
		d.color = DefaultColor
	}
	if d.logger == nil {
		d.logger = Logger()
	}
	d.logger = d.logger.With("dial", d.name)
	d.layout = NewLayout(cfg.Radius, d.rng)

	if err := d.renderer.Mount(d.layout); err != nil {
		return nil, &InvalidMountError{Reason: "renderer refused mount", Err: err}
	}

	d.hub = newHub(d.report)
	d.model = newModel(d.rng, d.hub)
	d.tracker = &tracker{layout: d.layout, tuning: d.tuning, model: d.model}

	d.renderer.DrawStepTicks(d.layout)
	d.redraw()

	if d.input != nil {
		d.inputID = d.input.Subscribe(d.anchor, d.HandlePointer)
	}
	d.anim = &animator{sched: cfg.Scheduler, onTick: d.tick}
	d.anim.start()

	d.logger.Debug("dial mounted", "min", d.rng.Min, "max", d.rng.Max, "step", d.rng.Step, "radius", cfg.Radius)
	return d, nil
}

// SetValue sets the target programmatically. It is clamped and snapped like
// a drag and animated toward.
func (d *Dial) SetValue(v float64) {
	if d.destroyed {
		return
	}
	d.model.setTarget(v)
}

// On subscribes cb to "set" or "change". The callback is invoked once right
// away with the current target or current value.
func (d *Dial) On(event string, cb Observer) error {
	ev, err := ParseEvent(event)
	if err != nil {
		return err
	}
	return d.Subscribe(ev, cb)
}

// Subscribe is On with a typed event.
func (d *Dial) Subscribe(ev Event, cb Observer) error {
	if ev != EventSet && ev != EventChange {
		return fmt.Errorf("%w: %v", ErrUnknownEvent, ev)
	}
	if cb == nil || d.destroyed {
		return nil
	}
	current := d.model.current
	if ev == EventSet {
		current = d.model.target
	}
	d.hub.subscribe(ev, cb, current)
	return nil
}

// HandlePointer feeds a pointer event in local coordinates and reports
// whether the dial consumed it. Unconsumed events may keep their default
// host behavior.
func (d *Dial) HandlePointer(ev PointerEvent) bool {
	if d.destroyed {
		return false
	}
	wasDragging := d.tracker.state == stateDragging
	consumed := d.tracker.handle(ev)
	if dragging := d.tracker.state == stateDragging; dragging != wasDragging {
		d.logger.Debug("drag session", "active", dragging, "pointer", ev.PointerID, "target", d.model.target)
	}
	return consumed
}

// Destroy cancels the animation, drops the input subscription and unmounts
// the renderer. Calling it twice is harmless.
func (d *Dial) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.anim.stop()
	if d.input != nil {
		d.input.Unsubscribe(d.inputID)
		d.inputID = 0
	}
	d.tracker.reset()
	d.hub.reset()
	d.renderer.Unmount()
	d.logger.Debug("dial destroyed")
}

// tick is one animation frame. Panics from renderers are isolated here so
// the loop keeps running.
func (d *Dial) tick(elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			d.report(fmt.Errorf("dial %q: frame panicked: %v", d.name, r))
		}
	}()
	next := nextValue(d.model.current, d.model.target, d.rng.Step, elapsed, d.tuning)
	if d.model.setExactValue(next) && !d.destroyed {
		d.redraw()
	}
}

func (d *Dial) redraw() {
	d.renderer.ClearRegion()
	d.renderer.DrawProgressArc(d.model.angle, d.color)
	d.renderer.DrawHandle(d.layout.HandleAt(d.model.angle))
}

func (d *Dial) report(err error) {
	if d.onError != nil {
		d.onError(err)
		return
	}
	d.logger.Warn("dial error", "error", err)
}

// Name returns the configured name.
func (d *Dial) Name() string { return d.name }

// Anchor returns the top-left corner in host coordinates.
func (d *Dial) Anchor() Point { return d.anchor }

// Value returns the current, possibly unsnapped, value.
func (d *Dial) Value() float64 { return d.model.current }

// Target returns the snapped value being animated toward.
func (d *Dial) Target() float64 { return d.model.target }

// Ratio returns the ring position of the current value.
func (d *Dial) Ratio() float64 { return d.model.ratio }

// Angle returns the canvas angle of the current value.
func (d *Dial) Angle() float64 { return d.model.angle }

// Range returns the value range.
func (d *Dial) Range() Range { return d.rng }

// Layout returns the ring geometry.
func (d *Dial) Layout() Layout { return d.layout }

// Dragging reports whether a drag session is active.
func (d *Dial) Dragging() bool { return d.tracker.state == stateDragging }

// Animating reports whether a frame is scheduled.
func (d *Dial) Animating() bool { return d.anim.running() }

// Destroyed reports whether Destroy has been called.
func (d *Dial) Destroyed() bool { return d.destroyed }
