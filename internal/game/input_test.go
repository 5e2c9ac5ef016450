package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

type fakePointers struct {
	x, y                               int
	justPressed, pressed, justReleased bool

	touchesPressed  []ebiten.TouchID
	touches         []ebiten.TouchID
	touchesReleased []ebiten.TouchID
	touchPos        map[ebiten.TouchID][2]int
}

func (f *fakePointers) Cursor() (int, int)      { return f.x, f.y }
func (f *fakePointers) MouseJustPressed() bool  { return f.justPressed }
func (f *fakePointers) MousePressed() bool      { return f.pressed }
func (f *fakePointers) MouseJustReleased() bool { return f.justReleased }

func (f *fakePointers) JustPressedTouches() []ebiten.TouchID  { return f.touchesPressed }
func (f *fakePointers) Touches() []ebiten.TouchID             { return f.touches }
func (f *fakePointers) JustReleasedTouches() []ebiten.TouchID { return f.touchesReleased }

func (f *fakePointers) TouchPosition(id ebiten.TouchID) (int, int) {
	p := f.touchPos[id]
	return p[0], p[1]
}

// frame resets the edge flags between polls.
func (f *fakePointers) frame() {
	f.justPressed, f.justReleased = false, false
	f.touchesPressed, f.touchesReleased = nil, nil
}

func newRecordingPump(t *testing.T, origin dial.Point) (*pointerPump, *fakePointers, *[]dial.PointerEvent) {
	t.Helper()
	state := &fakePointers{touchPos: map[ebiten.TouchID][2]int{}}
	router := dial.NewRouter()
	var got []dial.PointerEvent
	router.Subscribe(origin, func(ev dial.PointerEvent) bool {
		got = append(got, ev)
		return true
	})
	return newPointerPump(state, router), state, &got
}

func TestPumpMouseDrag(t *testing.T) {
	pump, state, got := newRecordingPump(t, dial.Point{X: 100, Y: 50})

	state.x, state.y = 150, 60
	state.justPressed, state.pressed = true, true
	if !pump.update() {
		t.Fatal("press should be consumed")
	}

	state.frame()
	pump.update() // no movement, no event

	state.x, state.y = 160, 70
	pump.update()

	state.justReleased, state.pressed = true, false
	pump.update()

	want := []dial.PointerEvent{
		{Kind: dial.PointerStart, X: 50, Y: 10, PointerID: mousePointerID},
		{Kind: dial.PointerMove, X: 60, Y: 20, PointerID: mousePointerID},
		{Kind: dial.PointerEnd, X: 60, Y: 20, PointerID: mousePointerID},
	}
	if len(*got) != len(want) {
		t.Fatalf("got %d events %+v, want %d", len(*got), *got, len(want))
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, (*got)[i], want[i])
		}
	}
}

func TestPumpIgnoresHoverWithoutPress(t *testing.T) {
	pump, state, got := newRecordingPump(t, dial.Point{})
	state.x, state.y = 10, 10
	pump.update()
	state.x, state.y = 20, 20
	if pump.update() {
		t.Fatal("hover must not be consumed")
	}
	if len(*got) != 0 {
		t.Fatalf("unexpected events %+v", *got)
	}
}

func TestPumpCancelsWhenButtonLostOutsideWindow(t *testing.T) {
	pump, state, got := newRecordingPump(t, dial.Point{})
	state.justPressed, state.pressed = true, true
	pump.update()
	state.frame()
	state.pressed = false
	pump.update()

	last := (*got)[len(*got)-1]
	if last.Kind != dial.PointerCancel {
		t.Fatalf("want cancel, got %v", last.Kind)
	}
}

func TestPumpTouchLifecycle(t *testing.T) {
	pump, state, got := newRecordingPump(t, dial.Point{X: 10, Y: 10})
	const id ebiten.TouchID = 7

	state.touchesPressed = []ebiten.TouchID{id}
	state.touches = []ebiten.TouchID{id}
	state.touchPos[id] = [2]int{30, 40}
	pump.update()

	state.frame()
	state.touchPos[id] = [2]int{35, 45}
	pump.update()

	// ebiten reports (0,0) for released touches; the last known spot is used
	state.touches = nil
	state.touchesReleased = []ebiten.TouchID{id}
	state.touchPos[id] = [2]int{0, 0}
	pump.update()

	want := []dial.PointerEvent{
		{Kind: dial.PointerStart, X: 20, Y: 30, PointerID: 8},
		{Kind: dial.PointerMove, X: 25, Y: 35, PointerID: 8},
		{Kind: dial.PointerEnd, X: 25, Y: 35, PointerID: 8},
	}
	if len(*got) != len(want) {
		t.Fatalf("got %+v", *got)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, (*got)[i], want[i])
		}
	}
	if len(pump.touches) != 0 {
		t.Fatal("released touch should be forgotten")
	}
}
