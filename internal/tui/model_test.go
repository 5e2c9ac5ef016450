package tui

import (
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(Config{Name: "gain", Min: 0, Max: 100, Step: 1, Radius: 60, Color: color.RGBA{R: 0xff, A: 0xff}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.dial.Destroy)
	return m
}

// settle feeds frame ticks until the value reaches the target.
func settle(t *testing.T, m *Model) {
	t.Helper()
	now := time.Unix(1000, 0)
	for i := 0; i < 1000; i++ {
		if m.dial.Value() == m.dial.Target() {
			return
		}
		now = now.Add(frameInterval)
		m.Update(frameMsg(now))
	}
	t.Fatalf("value %v never reached target %v", m.dial.Value(), m.dial.Target())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, button tea.MouseButton, col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: row, Action: action, Button: button}
}

func TestRendererGridSize(t *testing.T) {
	m := newTestModel(t)
	cols, rows := m.renderer.Size()
	if cols != 30 || rows != 15 {
		t.Fatalf("grid is %dx%d, want 30x15", cols, rows)
	}
	lines := strings.Split(m.renderer.View(), "\n")
	if len(lines) != rows {
		t.Fatalf("view has %d lines, want %d", len(lines), rows)
	}
}

func TestKeysNudgeTarget(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("right"))
	m.Update(key("right"))
	m.Update(key("l"))
	if got := m.dial.Target(); got != 3 {
		t.Fatalf("target = %v, want 3", got)
	}
	m.Update(key("left"))
	if got := m.dial.Target(); got != 2 {
		t.Fatalf("target = %v, want 2", got)
	}
	m.Update(key("end"))
	if got := m.dial.Target(); got != 100 {
		t.Fatalf("target = %v, want max", got)
	}
	m.Update(key("right"))
	if got := m.dial.Target(); got != 100 {
		t.Fatalf("target should clamp at max, got %v", got)
	}
	settle(t, m)
}

func TestMouseDragOnGrid(t *testing.T) {
	m := newTestModel(t)

	// cell (26,7) of the grid is on the ring at 3 o'clock
	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 26, headerRows+7))
	if !m.dial.Dragging() {
		t.Fatal("press on the ring should start a drag")
	}
	if got := m.dial.Target(); got != 25 {
		t.Fatalf("target = %v, want 25", got)
	}

	// cell (15,13) is at 6 o'clock
	m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 15, headerRows+13))
	if got := m.dial.Target(); got < 48 || got > 52 {
		t.Fatalf("target = %v, want about 50", got)
	}

	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 15, headerRows+13))
	if m.dial.Dragging() {
		t.Fatal("release should end the drag")
	}

	before := m.dial.Target()
	m.Update(mouse(tea.MouseActionMotion, tea.MouseButtonNone, 26, headerRows+7))
	if m.dial.Target() != before {
		t.Fatal("hover after release must not move the target")
	}
	settle(t, m)
}

func TestMousePressOutsideRingIgnored(t *testing.T) {
	m := newTestModel(t)
	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 15, headerRows+7)) // center
	if m.dial.Dragging() || m.dial.Target() != 0 {
		t.Fatal("press at the center must not grab the dial")
	}
	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonRight, 26, headerRows+7))
	if m.dial.Dragging() {
		t.Fatal("right button must not grab the dial")
	}
}

func TestArcCellsFollowValue(t *testing.T) {
	m := newTestModel(t)
	m.dial.SetValue(50)
	settle(t, m)

	r := m.renderer
	if k := r.kindAt(26, 7); k != cellArc {
		t.Fatalf("3 o'clock cell = %v, want arc", k)
	}
	if k := r.kindAt(3, 7); k == cellArc {
		t.Fatal("9 o'clock cell should not be covered at half range")
	}
	h := m.dial.Layout().HandleAt(m.dial.Angle())
	if k := r.kindAt(int(h.X/CellWidth), int(h.Y/CellHeight)); k != cellHandle {
		t.Fatalf("handle cell = %v, want handle", k)
	}
}

func TestTicksOutsideBand(t *testing.T) {
	m := newTestModel(t)
	r := m.renderer
	ticks := 0
	for i, k := range r.base {
		if k != cellTick {
			continue
		}
		ticks++
		d, _ := r.polar(cellCenter(i%r.cols, i/r.cols))
		if d <= r.layout.OuterRadius {
			t.Fatalf("tick cell %d inside the band (d=%v)", i, d)
		}
	}
	if ticks == 0 {
		t.Fatal("no tick cells drawn")
	}
}

func TestQuitDestroysDial(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
	if !m.dial.Destroyed() {
		t.Fatal("quitting should destroy the dial")
	}
	if m.View() != "" {
		t.Fatal("destroyed model renders nothing")
	}
}

func TestViewShowsValues(t *testing.T) {
	m, err := New(Config{Name: "speed", Min: 0.5, Max: 2, Step: 0.05, Radius: 60})
	if err != nil {
		t.Fatal(err)
	}
	defer m.dial.Destroy()
	m.dial.SetValue(1.25)
	v := m.View()
	if !strings.Contains(v, "speed") || !strings.Contains(v, "0.50") || !strings.Contains(v, "1.25") {
		t.Fatalf("view missing name or values:\n%s", v)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Min: 1, Max: 0, Step: 1, Radius: 60})
	var cfgErr *dial.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
}
