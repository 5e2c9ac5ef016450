package dial

import "math"

const (
	twoPi = 2 * math.Pi

	// Band hit tolerance in px. The touch band is wider than the painted ring.
	bandTolerance = 5

	// Ring proportions, relative to the outer radius.
	bandHeight       = 30
	bandInset        = 3
	arcLineWidth     = bandHeight - 2*bandInset
	tickSpacingRatio = 0.25
	overlayOpacity   = 0.6
)

// Point is a position in the dial's local coordinate space.
type Point struct {
	X, Y float64
}

// Layout describes where the ring, the handle track and the step ticks sit
// inside the dial's local square (0,0)-(2r,2r).
type Layout struct {
	Radius       float64
	Center       Point
	InnerRadius  float64
	OuterRadius  float64
	HandleRadius float64
	TrackRadius  float64 // distance from center to the handle's center
	LineWidth    float64
	NumSteps     int
	TickSpacing  float64 // fraction of each step slot left empty
	ArcOpacity   float64
}

// NewLayout derives the ring geometry from the outer radius and value range.
func NewLayout(radius float64, r Range) Layout {
	handle := float64(bandHeight) / 2
	return Layout{
		Radius:       radius,
		Center:       Point{X: radius, Y: radius},
		InnerRadius:  radius - bandHeight + bandInset,
		OuterRadius:  radius - bandInset,
		HandleRadius: handle,
		TrackRadius:  radius - handle,
		LineWidth:    arcLineWidth,
		NumSteps:     r.NumSteps(),
		TickSpacing:  tickSpacingRatio,
		ArcOpacity:   overlayOpacity,
	}
}

// Size is the side of the dial's square in local units.
func (l Layout) Size() float64 { return 2 * l.Radius }

// HandleAt returns the handle center for the given angle.
func (l Layout) HandleAt(angle float64) Point {
	return Point{
		X: l.Center.X + math.Cos(angle)*l.TrackRadius,
		Y: l.Center.Y + math.Sin(angle)*l.TrackRadius,
	}
}

// TickAngles returns the start and end angle of step tick i. Tick 0 starts at
// the 3 o'clock position, matching the canvas arc convention.
func (l Layout) TickAngles(i int) (from, to float64) {
	n := float64(l.NumSteps)
	from = float64(i) / n * twoPi
	to = (float64(i) + 1 - l.TickSpacing) / n * twoPi
	return from, to
}

// PointerToRatio maps a pointer position to a ratio in [0,1]. Ratio 0 is
// straight up and grows clockwise.
func PointerToRatio(px, py, cx, cy float64) float64 {
	angle := math.Atan2(py-cy, px-cx) + math.Pi/2
	angle = math.Mod(angle+twoPi, twoPi)
	return clamp01(angle / twoPi)
}

// RatioToValue maps a ratio onto [min,max].
func RatioToValue(ratio, min, max float64) float64 {
	return min + (max-min)*ratio
}

// ValueToRatio is the inverse of RatioToValue, clamped to [0,1].
func ValueToRatio(v, min, max float64) float64 {
	return clamp01((v - min) / (max - min))
}

// RatioToAngle converts a ratio to a canvas angle where ratio 0 points up.
func RatioToAngle(ratio float64) float64 {
	return ratio*twoPi - math.Pi/2
}

// HitTestBand reports whether p lies inside the ring band, widened by the
// band tolerance on both edges.
func HitTestBand(p, center Point, innerRadius, outerRadius float64) bool {
	inner := innerRadius - bandTolerance
	outer := outerRadius + bandTolerance
	d := dist2(p, center)
	return d > inner*inner && d < outer*outer
}

// HitTestHandle reports whether p lies within k times the handle radius.
func HitTestHandle(p, handle Point, handleRadius, k float64) bool {
	max := k * handleRadius
	return dist2(p, handle) < max*max
}

func dist2(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
