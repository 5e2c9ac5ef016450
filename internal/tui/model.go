// Package tui hosts a dial in the terminal with bubbletea: mouse drags on
// the cell grid, arrow keys to nudge, a 60 Hz frame tick.
package tui

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

// frameInterval paces the frame tick.
const frameInterval = time.Second / 60

// headerRows is the number of lines above the dial grid.
const headerRows = 2

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a8296"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

// Config describes the dial shown by the model.
type Config struct {
	Name   string
	Min    float64
	Max    float64
	Step   float64
	Radius float64
	Color  color.Color
	Logger *slog.Logger
}

type frameMsg time.Time

// Model is the bubbletea model owning one dial.
type Model struct {
	cfg      Config
	dial     *dial.Dial
	renderer *Renderer
	sched    *dial.FrameScheduler
	router   *dial.Router
	dragging bool
}

// New mounts the dial on a cell-grid renderer.
func New(cfg Config) (*Model, error) {
	m := &Model{
		cfg:      cfg,
		renderer: NewRenderer(),
		sched:    dial.NewFrameScheduler(),
		router:   dial.NewRouter(),
	}
	d, err := dial.New(dial.Config{
		Name:      cfg.Name,
		Anchor:    dial.Point{X: 0, Y: headerRows * CellHeight},
		Color:     cfg.Color,
		Min:       cfg.Min,
		Max:       cfg.Max,
		Step:      cfg.Step,
		Radius:    cfg.Radius,
		Renderer:  m.renderer,
		Scheduler: m.sched,
		Input:     m.router,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Logger != nil {
		err = d.On("set", func(v float64) { cfg.Logger.Debug("target set", "dial", cfg.Name, "value", v) })
		if err != nil {
			d.Destroy()
			return nil, err
		}
	}
	m.dial = d
	return m, nil
}

// Dial returns the hosted dial.
func (m *Model) Dial() *dial.Dial { return m.dial }

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.sched.Step(time.Time(msg))
		return m, tick()

	case tea.KeyMsg:
		step := m.dial.Range().Step
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.dial.Destroy()
			return m, tea.Quit
		case "right", "up", "l", "k":
			m.dial.SetValue(m.dial.Target() + step)
		case "left", "down", "h", "j":
			m.dial.SetValue(m.dial.Target() - step)
		case "pgup":
			m.dial.SetValue(m.dial.Target() + 10*step)
		case "pgdown":
			m.dial.SetValue(m.dial.Target() - 10*step)
		case "home":
			m.dial.SetValue(m.dial.Range().Min)
		case "end":
			m.dial.SetValue(m.dial.Range().Max)
		}

	case tea.MouseMsg:
		if ev, ok := m.pointer(msg); ok {
			m.router.Dispatch(ev)
			m.dragging = m.dial.Dragging()
		}
	}
	return m, nil
}

// pointer converts a terminal mouse event into a window-space pointer event
// at the center of the cell.
func (m *Model) pointer(msg tea.MouseMsg) (dial.PointerEvent, bool) {
	ev := dial.PointerEvent{
		X: float64(msg.X)*CellWidth + CellWidth/2,
		Y: float64(msg.Y)*CellHeight + CellHeight/2,
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return ev, false
		}
		ev.Kind = dial.PointerStart
	case tea.MouseActionMotion:
		if !m.dragging {
			return ev, false
		}
		ev.Kind = dial.PointerMove
	case tea.MouseActionRelease:
		if !m.dragging {
			return ev, false
		}
		ev.Kind = dial.PointerEnd
	default:
		return ev, false
	}
	return ev, true
}

func formatValue(v, step float64) string {
	decimals := 0
	for s := step; decimals < 4 && math.Abs(s-math.Round(s)) > 1e-9; s *= 10 {
		decimals++
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func (m *Model) View() string {
	if m.dial.Destroyed() {
		return ""
	}
	name := m.cfg.Name
	if name == "" {
		name = "dial"
	}
	step := m.dial.Range().Step
	header := fmt.Sprintf("%s  %s %s",
		titleStyle.Render(name),
		valueStyle.Render(formatValue(m.dial.Value(), step)),
		helpStyle.Render("→ "+formatValue(m.dial.Target(), step)),
	)
	help := helpStyle.Render("drag the ring or use ←/→, PgUp/PgDn, Home/End · q to quit")
	return header + "\n\n" + m.renderer.View() + "\n\n" + help
}
