// Package render paints dials offscreen with gg, for PNG snapshots and
// previews outside a window.
package render

import (
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/gogpu/gg"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

var (
	trackColor   = gg.Hex("#282e3c")
	tickColor    = gg.Hex("#5a647d")
	handleFill   = gg.Hex("#ffffff")
	handleBorder = gg.Hex("#646e82")

	ErrNotMounted = errors.New("render: renderer is not mounted")
)

// Renderer implements dial.Renderer on a gg.Context sized to the dial's
// square. gg has a single surface, so clearing the overlay repaints the
// background and the cached step ticks.
type Renderer struct {
	ctx        *gg.Context
	layout     dial.Layout
	background gg.RGBA
	ticks      bool
	err        error
}

// New returns a renderer that clears to background.
func New(background color.Color) *Renderer {
	return &Renderer{background: gg.FromColor(background)}
}

func (r *Renderer) Mount(l dial.Layout) error {
	if r.ctx != nil {
		return errors.New("render: already mounted")
	}
	size := int(math.Ceil(l.Size()))
	if size <= 0 {
		return errors.New("render: empty dial area")
	}
	r.layout = l
	r.ctx = gg.NewContext(size, size)
	r.ctx.ClearWithColor(r.background)
	return nil
}

func (r *Renderer) Unmount() {
	if r.ctx == nil {
		return
	}
	r.keep(r.ctx.Close())
	r.ctx = nil
	r.ticks = false
}

func (r *Renderer) ClearRegion() {
	if r.ctx == nil {
		return
	}
	r.ctx.ClearWithColor(r.background)
	if r.ticks {
		r.drawTicks(r.layout)
	}
}

func (r *Renderer) DrawStepTicks(l dial.Layout) {
	if r.ctx == nil {
		return
	}
	r.ticks = true
	r.drawTicks(l)
}

func (r *Renderer) drawTicks(l dial.Layout) {
	c := r.ctx
	mid := (l.InnerRadius + l.OuterRadius) / 2

	c.ClearPath()
	c.SetColor(trackColor.Color())
	c.SetLineWidth(l.OuterRadius - l.InnerRadius)
	c.DrawCircle(l.Center.X, l.Center.Y, mid)
	r.keep(c.Stroke())

	if l.NumSteps <= 1 {
		return
	}
	c.SetColor(tickColor.Color())
	c.SetLineWidth(2)
	for i := 0; i < l.NumSteps; i++ {
		from, to := l.TickAngles(i)
		c.ClearPath()
		c.DrawArc(l.Center.X, l.Center.Y, l.OuterRadius+2, from, to)
		r.keep(c.Stroke())
	}
}

func (r *Renderer) DrawProgressArc(angle float64, clr color.Color) {
	if r.ctx == nil {
		return
	}
	l := r.layout
	start := -math.Pi / 2
	if angle <= start {
		return
	}
	col := gg.FromColor(clr)
	col.A *= l.ArcOpacity

	c := r.ctx
	c.ClearPath()
	c.SetRGBA(col.R, col.G, col.B, col.A)
	c.SetLineWidth(l.LineWidth)
	c.DrawArc(l.Center.X, l.Center.Y, l.TrackRadius, start, angle)
	r.keep(c.Stroke())
}

func (r *Renderer) DrawHandle(pos dial.Point) {
	if r.ctx == nil {
		return
	}
	c := r.ctx
	radius := r.layout.HandleRadius - 2

	c.ClearPath()
	c.DrawCircle(pos.X, pos.Y, radius)
	c.SetColor(handleFill.Color())
	r.keep(c.Fill())

	c.DrawCircle(pos.X, pos.Y, radius)
	c.SetColor(handleBorder.Color())
	c.SetLineWidth(2)
	r.keep(c.Stroke())
}

// keep remembers the first drawing error; dial.Renderer methods cannot
// return one.
func (r *Renderer) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

// Err returns the first drawing error, if any.
func (r *Renderer) Err() error { return r.err }

// Image returns the current pixels.
func (r *Renderer) Image() (image.Image, error) {
	if r.ctx == nil {
		return nil, ErrNotMounted
	}
	return r.ctx.Image(), r.err
}

// SavePNG writes the current pixels to path.
func (r *Renderer) SavePNG(path string) error {
	if r.ctx == nil {
		return ErrNotMounted
	}
	if r.err != nil {
		return r.err
	}
	return r.ctx.SavePNG(path)
}

// EncodePNG writes the current pixels as PNG to w.
func (r *Renderer) EncodePNG(w io.Writer) error {
	if r.ctx == nil {
		return ErrNotMounted
	}
	if r.err != nil {
		return r.err
	}
	return r.ctx.EncodePNG(w)
}

// Settle steps s with a synthetic 60 Hz clock until d's value reaches its
// target or maxFrames pass. It returns the number of frames stepped.
func Settle(d *dial.Dial, s *dial.FrameScheduler, maxFrames int) int {
	now := time.Unix(0, 0)
	frames := 0
	for frames < maxFrames && d.Value() != d.Target() {
		now = now.Add(dial.DefaultFrameInterval)
		s.Step(now)
		frames++
	}
	return frames
}
