package tui

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

// One terminal cell covers CellWidth x CellHeight dial pixels. Cells are
// about twice as tall as wide, so the ring stays round.
const (
	CellWidth  = 4
	CellHeight = 8
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellTrack
	cellTick
	cellArc
	cellHandle
)

var glyphs = [...]string{
	cellEmpty:  " ",
	cellTrack:  "░",
	cellTick:   "·",
	cellArc:    "█",
	cellHandle: "●",
}

var (
	trackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3c465a"))
	tickStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5a647d"))
	handleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
)

// Renderer draws a dial onto a grid of terminal cells: a base layer for the
// track and step ticks and an overlay for the arc and handle.
type Renderer struct {
	layout     dial.Layout
	cols, rows int
	base       []cellKind
	over       []cellKind
	arcStyle   lipgloss.Style
	mounted    bool
}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) Mount(l dial.Layout) error {
	if r.mounted {
		return errors.New("tui: renderer already mounted")
	}
	r.layout = l
	r.cols = int(math.Ceil(l.Size() / CellWidth))
	r.rows = int(math.Ceil(l.Size() / CellHeight))
	if r.cols == 0 || r.rows == 0 {
		return errors.New("tui: empty dial area")
	}
	r.base = make([]cellKind, r.cols*r.rows)
	r.over = make([]cellKind, r.cols*r.rows)
	r.arcStyle = lipgloss.NewStyle().Foreground(hexColor(dial.DefaultColor))
	r.mounted = true
	return nil
}

func (r *Renderer) Unmount() {
	r.mounted = false
	r.base = nil
	r.over = nil
}

// Size returns the grid dimensions in cells.
func (r *Renderer) Size() (cols, rows int) { return r.cols, r.rows }

// cellCenter returns the dial-pixel center of cell (col,row).
func cellCenter(col, row int) dial.Point {
	return dial.Point{X: float64(col)*CellWidth + CellWidth/2, Y: float64(row)*CellHeight + CellHeight/2}
}

// polar returns the distance from the center and the canvas angle in
// [0, 2π), measured clockwise from 3 o'clock.
func (r *Renderer) polar(p dial.Point) (dist, angle float64) {
	dx := p.X - r.layout.Center.X
	dy := p.Y - r.layout.Center.Y
	angle = math.Atan2(dy, dx)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return math.Hypot(dx, dy), angle
}

func (r *Renderer) each(fn func(i int, p dial.Point)) {
	for row := 0; row < r.rows; row++ {
		for col := 0; col < r.cols; col++ {
			fn(row*r.cols+col, cellCenter(col, row))
		}
	}
}

func (r *Renderer) ClearRegion() {
	clear(r.over)
}

func (r *Renderer) DrawStepTicks(l dial.Layout) {
	if !r.mounted {
		return
	}
	slot := 2 * math.Pi / float64(max(l.NumSteps, 1))
	r.each(func(i int, p dial.Point) {
		d, a := r.polar(p)
		switch {
		case d >= l.InnerRadius && d <= l.OuterRadius:
			r.base[i] = cellTrack
		case l.NumSteps > 1 && d > l.OuterRadius && d <= l.Radius:
			_, to := l.TickAngles(int(a / slot))
			if a <= to {
				r.base[i] = cellTick
			}
		}
	})
}

func (r *Renderer) DrawProgressArc(angle float64, c color.Color) {
	if !r.mounted {
		return
	}
	r.arcStyle = lipgloss.NewStyle().Foreground(hexColor(c))
	sweep := angle + math.Pi/2
	if sweep <= 0 {
		return
	}
	half := r.layout.LineWidth / 2
	r.each(func(i int, p dial.Point) {
		d, a := r.polar(p)
		if math.Abs(d-r.layout.TrackRadius) > half {
			return
		}
		// angle swept clockwise from 12 o'clock
		rel := math.Mod(a+math.Pi/2, 2*math.Pi)
		if rel <= sweep {
			r.over[i] = cellArc
		}
	})
}

func (r *Renderer) DrawHandle(pos dial.Point) {
	if !r.mounted {
		return
	}
	// always mark the cell under the handle center
	col := int(pos.X / CellWidth)
	row := int(pos.Y / CellHeight)
	if col >= 0 && col < r.cols && row >= 0 && row < r.rows {
		r.over[row*r.cols+col] = cellHandle
	}
	rad := r.layout.HandleRadius / 2
	r.each(func(i int, p dial.Point) {
		dx, dy := p.X-pos.X, p.Y-pos.Y
		if dx*dx+dy*dy <= rad*rad {
			r.over[i] = cellHandle
		}
	})
}

// kindAt returns the visible cell kind, overlay first.
func (r *Renderer) kindAt(col, row int) cellKind {
	i := row*r.cols + col
	if k := r.over[i]; k != cellEmpty {
		return k
	}
	return r.base[i]
}

func (r *Renderer) style(k cellKind) lipgloss.Style {
	switch k {
	case cellTrack:
		return trackStyle
	case cellTick:
		return tickStyle
	case cellArc:
		return r.arcStyle
	case cellHandle:
		return handleStyle
	default:
		return lipgloss.NewStyle()
	}
}

// View renders the grid, one line per row. Runs of equal cells share one
// styled segment.
func (r *Renderer) View() string {
	if !r.mounted {
		return ""
	}
	var b strings.Builder
	for row := 0; row < r.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < r.cols; {
			k := r.kindAt(col, row)
			end := col + 1
			for end < r.cols && r.kindAt(end, row) == k {
				end++
			}
			run := strings.Repeat(glyphs[k], end-col)
			if k == cellEmpty {
				b.WriteString(run)
			} else {
				b.WriteString(r.style(k).Render(run))
			}
			col = end
		}
	}
	return b.String()
}

func hexColor(c color.Color) lipgloss.Color {
	rr, gg, bb, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rr>>8, gg>>8, bb>>8))
}
