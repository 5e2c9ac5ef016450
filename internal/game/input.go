package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/radial-dial/internal/dial"
)

// mousePointerID is the PointerID of mouse events. Touch ids are shifted by
// one so they never collide with it.
const mousePointerID = 0

// pointerState is the per-frame input the pump reads.
type pointerState interface {
	Cursor() (x, y int)
	MouseJustPressed() bool
	MousePressed() bool
	MouseJustReleased() bool
	JustPressedTouches() []ebiten.TouchID
	Touches() []ebiten.TouchID
	JustReleasedTouches() []ebiten.TouchID
	TouchPosition(id ebiten.TouchID) (x, y int)
}

type ebitenPointers struct{}

func (ebitenPointers) Cursor() (int, int) { return ebiten.CursorPosition() }

func (ebitenPointers) MouseJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (ebitenPointers) MousePressed() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (ebitenPointers) MouseJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

func (ebitenPointers) JustPressedTouches() []ebiten.TouchID {
	return inpututil.AppendJustPressedTouchIDs(nil)
}

func (ebitenPointers) Touches() []ebiten.TouchID { return ebiten.AppendTouchIDs(nil) }

func (ebitenPointers) JustReleasedTouches() []ebiten.TouchID {
	return inpututil.AppendJustReleasedTouchIDs(nil)
}

func (ebitenPointers) TouchPosition(id ebiten.TouchID) (int, int) { return ebiten.TouchPosition(id) }

// pointerPump turns polled ebiten input into window-space PointerEvents for
// a dial.Router.
type pointerPump struct {
	state  pointerState
	router *dial.Router

	mouseDown bool
	mouseX    int
	mouseY    int
	// last known position of each active touch; released touches report
	// (0,0) from ebiten.
	touches map[ebiten.TouchID]dial.Point
}

func newPointerPump(state pointerState, router *dial.Router) *pointerPump {
	return &pointerPump{
		state:   state,
		router:  router,
		touches: make(map[ebiten.TouchID]dial.Point),
	}
}

func touchPointerID(id ebiten.TouchID) int { return int(id) + 1 }

// update dispatches this frame's pointer events and reports whether any
// dial consumed one of them.
func (p *pointerPump) update() bool {
	consumed := false
	emit := func(kind dial.PointerKind, x, y float64, id int) {
		if p.router.Dispatch(dial.PointerEvent{Kind: kind, X: x, Y: y, PointerID: id}) {
			consumed = true
		}
	}

	x, y := p.state.Cursor()
	switch {
	case p.state.MouseJustPressed():
		p.mouseDown = true
		emit(dial.PointerStart, float64(x), float64(y), mousePointerID)
	case p.mouseDown && p.state.MouseJustReleased():
		p.mouseDown = false
		emit(dial.PointerEnd, float64(x), float64(y), mousePointerID)
	case p.mouseDown && !p.state.MousePressed():
		// release happened outside the window
		p.mouseDown = false
		emit(dial.PointerCancel, float64(x), float64(y), mousePointerID)
	case p.mouseDown && (x != p.mouseX || y != p.mouseY):
		emit(dial.PointerMove, float64(x), float64(y), mousePointerID)
	}
	p.mouseX, p.mouseY = x, y

	for _, id := range p.state.JustPressedTouches() {
		tx, ty := p.state.TouchPosition(id)
		pt := dial.Point{X: float64(tx), Y: float64(ty)}
		p.touches[id] = pt
		emit(dial.PointerStart, pt.X, pt.Y, touchPointerID(id))
	}
	for _, id := range p.state.Touches() {
		last, ok := p.touches[id]
		if !ok {
			continue
		}
		tx, ty := p.state.TouchPosition(id)
		pt := dial.Point{X: float64(tx), Y: float64(ty)}
		if pt != last {
			p.touches[id] = pt
			emit(dial.PointerMove, pt.X, pt.Y, touchPointerID(id))
		}
	}
	for _, id := range p.state.JustReleasedTouches() {
		pt, ok := p.touches[id]
		if !ok {
			continue
		}
		delete(p.touches, id)
		emit(dial.PointerEnd, pt.X, pt.Y, touchPointerID(id))
	}
	return consumed
}
