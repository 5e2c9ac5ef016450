package dial

import "math"

// Range is the bounded, stepped domain of a dial.
type Range struct {
	Min, Max, Step float64
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// NumSteps is the number of whole steps between Min and Max.
func (r Range) NumSteps() int {
	return int(math.Floor(r.Span() / r.Step))
}

// Clamp limits v to [Min,Max].
func (r Range) Clamp(v float64) float64 {
	return clamp(v, r.Min, r.Max)
}

// Snap clamps v and rounds it to the nearest Min + k*Step. The extremes are
// kept as they are, so Max stays reachable when the span is not a multiple of
// Step.
func (r Range) Snap(v float64) float64 {
	v = r.Clamp(v)
	if v == r.Min || v == r.Max {
		return v
	}
	k := math.Round((v - r.Min) / r.Step)
	return r.Clamp(r.Min + k*r.Step)
}

// Ratio maps v to its position on the ring.
func (r Range) Ratio(v float64) float64 {
	return ValueToRatio(v, r.Min, r.Max)
}

// Value maps a ring position back to a value.
func (r Range) Value(ratio float64) float64 {
	return RatioToValue(ratio, r.Min, r.Max)
}

// model holds the value state. Mutations go through setTarget and
// setExactValue only; both publish through the hub.
type model struct {
	rng Range
	hub *hub

	current float64
	target  float64
	ratio   float64
	angle   float64
}

func newModel(rng Range, h *hub) *model {
	m := &model{rng: rng, hub: h}
	m.current = rng.Min
	m.target = rng.Min
	m.recompute()
	return m
}

// setTarget stores the clamped, snapped target and publishes EventSet. It
// reports whether the target changed.
func (m *model) setTarget(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	v = m.rng.Snap(v)
	if v == m.target {
		return false
	}
	m.target = v
	m.hub.publish(EventSet, v)
	return true
}

// setExactValue stores an unsnapped current value and publishes EventChange.
func (m *model) setExactValue(v float64) bool {
	if v == m.current {
		return false
	}
	m.current = v
	m.recompute()
	m.hub.publish(EventChange, v)
	return true
}

func (m *model) recompute() {
	m.ratio = m.rng.Ratio(m.current)
	m.angle = RatioToAngle(m.ratio)
}

// targetRatio is the ring position of the pending target.
func (m *model) targetRatio() float64 {
	return m.rng.Ratio(m.target)
}
