package dial

import "fmt"

// PointerKind is the phase of a pointer event.
type PointerKind int

const (
	PointerStart PointerKind = iota
	PointerMove
	PointerEnd
	PointerCancel
)

func (k PointerKind) String() string {
	switch k {
	case PointerStart:
		return "start"
	case PointerMove:
		return "move"
	case PointerEnd:
		return "end"
	case PointerCancel:
		return "cancel"
	default:
		return fmt.Sprintf("PointerKind(%d)", int(k))
	}
}

// PointerEvent is a single-point mouse or touch event in local coordinates.
// Mouse input uses PointerID 0; touches carry the platform touch id.
type PointerEvent struct {
	Kind      PointerKind
	X, Y      float64
	PointerID int
}

// trackerState is Idle or Dragging.
type trackerState int

const (
	stateIdle trackerState = iota
	stateDragging
)

// session exists only while a drag is in progress.
type session struct {
	pointerID int
}

// tracker turns pointer events into target updates. It owns the drag
// session; the model is only touched through setTarget.
type tracker struct {
	state   trackerState
	session *session

	layout Layout
	tuning Tuning
	model  *model
}

// handle dispatches ev and reports whether it was consumed.
func (t *tracker) handle(ev PointerEvent) bool {
	switch ev.Kind {
	case PointerStart:
		return t.press(ev)
	case PointerMove:
		return t.move(ev)
	case PointerEnd, PointerCancel:
		return t.release(ev)
	}
	return false
}

func (t *tracker) press(ev PointerEvent) bool {
	if t.state == stateDragging {
		// first pointer wins
		return false
	}
	p := Point{X: ev.X, Y: ev.Y}
	handle := t.layout.HandleAt(t.model.angle)
	if !HitTestHandle(p, handle, t.layout.HandleRadius, t.tuning.HandleTolerance) &&
		!HitTestBand(p, t.layout.Center, t.layout.InnerRadius, t.layout.OuterRadius) {
		return false
	}
	t.state = stateDragging
	t.session = &session{pointerID: ev.PointerID}
	t.update(p)
	return true
}

func (t *tracker) move(ev PointerEvent) bool {
	if !t.owns(ev) {
		return false
	}
	t.update(Point{X: ev.X, Y: ev.Y})
	return true
}

func (t *tracker) release(ev PointerEvent) bool {
	if !t.owns(ev) {
		return false
	}
	t.reset()
	return true
}

func (t *tracker) owns(ev PointerEvent) bool {
	return t.state == stateDragging && t.session != nil && t.session.pointerID == ev.PointerID
}

func (t *tracker) reset() {
	t.state = stateIdle
	t.session = nil
}

// update maps p to a ratio and applies the seam guard against the ratio of
// the previous target.
func (t *tracker) update(p Point) {
	next := PointerToRatio(p.X, p.Y, t.layout.Center.X, t.layout.Center.Y)
	prev := t.model.targetRatio()
	rng := t.model.rng
	switch {
	case prev < t.tuning.SeamLow && next > t.tuning.SeamFar:
		t.model.setTarget(rng.Min)
	case prev > t.tuning.SeamHigh && next < t.tuning.SeamNear:
		t.model.setTarget(rng.Max)
	default:
		t.model.setTarget(rng.Value(next))
	}
}
