package game

import (
	"errors"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

// arcSegment is the angular length of one straight segment when stroking
// arcs and ticks.
const arcSegment = math.Pi / 90

var (
	trackColor       = color.RGBA{R: 40, G: 46, B: 60, A: 255}
	tickColor        = color.RGBA{R: 90, G: 100, B: 125, A: 255}
	handleFill       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	handleBorder     = color.RGBA{R: 100, G: 110, B: 130, A: 255}
	errAlreadyMounted = errors.New("renderer already mounted")
)

// Renderer draws a dial into two offscreen layers: the step ticks once into
// the background, the arc and handle into the overlay on every change.
// Draw composes both onto the screen.
type Renderer struct {
	layout     dial.Layout
	background *ebiten.Image
	overlay    *ebiten.Image
}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) Mount(l dial.Layout) error {
	if r.background != nil {
		return errAlreadyMounted
	}
	size := int(math.Ceil(l.Size()))
	if size <= 0 {
		return errors.New("renderer: empty dial area")
	}
	r.layout = l
	r.background = ebiten.NewImage(size, size)
	r.overlay = ebiten.NewImage(size, size)
	return nil
}

func (r *Renderer) Unmount() {
	if r.background == nil {
		return
	}
	r.background.Deallocate()
	r.overlay.Deallocate()
	r.background = nil
	r.overlay = nil
}

// Mounted reports whether the layers exist.
func (r *Renderer) Mounted() bool { return r.background != nil }

func (r *Renderer) ClearRegion() {
	if r.overlay != nil {
		r.overlay.Clear()
	}
}

func (r *Renderer) DrawStepTicks(l dial.Layout) {
	if r.background == nil {
		return
	}
	c := l.Center
	mid := (l.InnerRadius + l.OuterRadius) / 2
	width := l.OuterRadius - l.InnerRadius

	strokeArc(r.background, c, mid, 0, 2*math.Pi, float32(width), trackColor)
	if l.NumSteps <= 1 {
		return
	}
	for i := 0; i < l.NumSteps; i++ {
		from, to := l.TickAngles(i)
		strokeArc(r.background, c, l.OuterRadius+2, from, to, 2, tickColor)
	}
}

func (r *Renderer) DrawProgressArc(angle float64, clr color.Color) {
	if r.overlay == nil {
		return
	}
	l := r.layout
	start := -math.Pi / 2
	if angle <= start {
		return
	}
	strokeArc(r.overlay, l.Center, l.TrackRadius, start, angle, float32(l.LineWidth), withAlpha(clr, l.ArcOpacity))
}

func (r *Renderer) DrawHandle(pos dial.Point) {
	if r.overlay == nil {
		return
	}
	radius := float32(r.layout.HandleRadius - 2)
	vector.DrawFilledCircle(r.overlay, float32(pos.X), float32(pos.Y), radius, handleFill, true)
	vector.StrokeCircle(r.overlay, float32(pos.X), float32(pos.Y), radius, 2, handleBorder, true)
}

// Draw composes the layers onto screen with the dial's top-left at anchor.
func (r *Renderer) Draw(screen *ebiten.Image, anchor dial.Point) {
	if r.background == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(anchor.X, anchor.Y)
	screen.DrawImage(r.background, op)
	screen.DrawImage(r.overlay, op)
}

// strokeArc approximates an arc with short line segments.
func strokeArc(dst *ebiten.Image, c dial.Point, radius, from, to float64, width float32, clr color.Color) {
	n := int(math.Ceil((to - from) / arcSegment))
	if n < 1 {
		n = 1
	}
	step := (to - from) / float64(n)
	x0 := c.X + math.Cos(from)*radius
	y0 := c.Y + math.Sin(from)*radius
	for i := 1; i <= n; i++ {
		a := from + step*float64(i)
		x1 := c.X + math.Cos(a)*radius
		y1 := c.Y + math.Sin(a)*radius
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, true)
		x0, y0 = x1, y1
	}
}
