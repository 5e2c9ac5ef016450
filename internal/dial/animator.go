package dial

import (
	"math"
	"time"
)

// Tuning holds the interaction and easing constants. Zero fields take the
// defaults from DefaultTuning.
type Tuning struct {
	// EaseExponent shapes the catch-up speed while more than one step away.
	EaseExponent float64
	// HandleTolerance multiplies the handle radius for press hit-testing.
	HandleTolerance float64
	// FrameReference is the frame duration at which one easing step is
	// applied unscaled.
	FrameReference time.Duration
	// Seam thresholds, as ratios. A drag whose previous target sits below
	// SeamLow and whose pointer lands above SeamFar pins to Min, and the
	// mirror case pins to Max.
	SeamLow  float64
	SeamHigh float64
	SeamNear float64
	SeamFar  float64
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		EaseExponent:    0.6,
		HandleTolerance: 1.3,
		FrameReference:  30 * time.Millisecond,
		SeamLow:         0.3,
		SeamHigh:        0.7,
		SeamNear:        0.1,
		SeamFar:         0.9,
	}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.EaseExponent <= 0 {
		t.EaseExponent = d.EaseExponent
	}
	if t.HandleTolerance <= 0 {
		t.HandleTolerance = d.HandleTolerance
	}
	if t.FrameReference <= 0 {
		t.FrameReference = d.FrameReference
	}
	if t.SeamLow <= 0 {
		t.SeamLow = d.SeamLow
	}
	if t.SeamHigh <= 0 {
		t.SeamHigh = d.SeamHigh
	}
	if t.SeamNear <= 0 {
		t.SeamNear = d.SeamNear
	}
	if t.SeamFar <= 0 {
		t.SeamFar = d.SeamFar
	}
	return t
}

// easeStep returns the unscaled per-frame movement for the gap between
// current and target. Outside one step the gap shrinks by a power law,
// inside it the value creeps at step/10 per frame; nextValue lands it
// exactly once the creep would reach the target.
func easeStep(gap, step, exponent float64) float64 {
	switch {
	case gap < -step:
		return -math.Pow(-gap, exponent)
	case gap > step:
		return math.Pow(gap, exponent)
	default:
		return math.Copysign(step/10, gap)
	}
}

// nextValue advances current toward target for a frame of the given length.
// The result never passes the target.
func nextValue(current, target, step float64, elapsed time.Duration, t Tuning) float64 {
	gap := target - current
	if gap == 0 || elapsed <= 0 {
		return current
	}
	d := easeStep(gap, step, t.EaseExponent)
	d *= float64(elapsed) / float64(t.FrameReference)
	if math.Abs(d) >= math.Abs(gap) {
		return target
	}
	return current + d
}

// animator keeps exactly one pending frame task while running.
type animator struct {
	sched  Scheduler
	task   TaskID
	onTick func(elapsed time.Duration)
}

func (a *animator) start() {
	if a.task != 0 {
		return
	}
	a.task = a.sched.Schedule(a.frame)
}

func (a *animator) frame(elapsed time.Duration) {
	a.task = 0
	a.onTick(elapsed)
	if a.onTick != nil {
		a.task = a.sched.Schedule(a.frame)
	}
}

// stop cancels the pending task; no further ticks run afterwards.
func (a *animator) stop() {
	if a.task != 0 {
		a.sched.Cancel(a.task)
		a.task = 0
	}
	a.onTick = nil
}

func (a *animator) running() bool { return a.task != 0 }
