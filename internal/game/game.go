package game

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/radial-dial/internal/config"
	"github.com/iburimskiy/radial-dial/internal/dial"
	"github.com/iburimskiy/radial-dial/internal/remote"
)

const colorShiftSpeed = 0.01

// dialView is one mounted dial and how it is drawn.
type dialView struct {
	cfg      config.DialConfig
	dial     *dial.Dial
	renderer *Renderer
}

// Options carries the optional collaborators of a Game.
type Options struct {
	// Remote mirrors dial state to websocket clients and feeds set_value
	// commands back. Nil disables it.
	Remote *remote.Server
	// Now is the frame clock. Defaults to time.Now.
	Now func() time.Time
	// Done ends the game loop when closed.
	Done <-chan struct{}
}

// Game is the radial player: dials bound to audio playback, hosted by ebiten.
type Game struct {
	cfg    config.Config
	logger *slog.Logger
	now    func() time.Time
	done   <-chan struct{}

	sched  *dial.FrameScheduler
	router *dial.Router
	pump   *pointerPump
	dials  []*dialView
	focus  int

	player *Player
	meter  *levelMeter
	remote *remote.Server

	time       float64
	colorPhase float64

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

// New mounts every configured dial and binds the volume and speed roles to
// the player.
func New(cfg config.Config, logger *slog.Logger, opts Options) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		logger:  logger,
		now:     opts.Now,
		done:    opts.Done,
		sched:   dial.NewFrameScheduler(),
		router:  dial.NewRouter(),
		player:  NewPlayer(logger, cfg.Audio.ResampleQuality, math.Inf(-1)),
		meter:   newLevelMeter(config.LevelBands, config.SmoothingFactor),
		remote:  opts.Remote,
		prevKey: map[ebiten.Key]bool{},
	}
	if g.now == nil {
		g.now = time.Now
	}
	g.pump = newPointerPump(ebitenPointers{}, g.router)

	for _, dc := range cfg.Dials {
		v, err := g.mountDial(dc)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("dial %q: %w", dc.Name, err)
		}
		g.dials = append(g.dials, v)
	}
	return g, nil
}

func (g *Game) mountDial(dc config.DialConfig) (*dialView, error) {
	var clr color.Color
	if dc.Color != "" {
		c, err := config.ParseColor(dc.Color)
		if err != nil {
			return nil, err
		}
		clr = c
	}
	r := NewRenderer()
	d, err := dial.New(dial.Config{
		Name:      dc.Name,
		Anchor:    dial.Point{X: dc.X, Y: dc.Y},
		Color:     clr,
		Min:       dc.Min,
		Max:       dc.Max,
		Step:      dc.Step,
		Radius:    dc.Radius,
		Renderer:  r,
		Scheduler: g.sched,
		Input:     g.router,
		Logger:    g.logger,
	})
	if err != nil {
		return nil, err
	}

	switch dc.Role {
	case config.RoleVolume:
		g.player.silentDB = dc.Min
		err = d.Subscribe(dial.EventChange, g.player.SetVolumeDB)
		if err == nil {
			// start at full volume
			d.SetValue(dc.Max)
		}
	case config.RoleSpeed:
		err = d.Subscribe(dial.EventChange, g.player.SetSpeed)
		if err == nil {
			d.SetValue(1)
		}
	}
	if err == nil && g.remote != nil {
		err = g.remote.Watch(d)
	}
	if err != nil {
		d.Destroy()
		return nil, err
	}
	return &dialView{cfg: dc, dial: d, renderer: r}, nil
}

// Dial returns the dial with the given name, or nil.
func (g *Game) Dial(name string) *dial.Dial {
	for _, v := range g.dials {
		if v.cfg.Name == name {
			return v.dial
		}
	}
	return nil
}

// Player returns the audio player.
func (g *Game) Player() *Player { return g.player }

// Close destroys the dials and stops playback.
func (g *Game) Close() {
	for _, v := range g.dials {
		v.dial.Destroy()
	}
	g.player.Close()
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.updateButton()
	if g.pump.update() {
		g.focusDragged()
	}
	g.applyRemote()
	g.sched.Step(g.now())

	g.player.Poll()

	if justPressed(ebiten.KeySpace) {
		g.player.TogglePause()
	}
	if justPressed(ebiten.KeyTab) && len(g.dials) > 0 {
		g.focus = (g.focus + 1) % len(g.dials)
	}
	if justPressed(ebiten.KeyArrowRight) || justPressed(ebiten.KeyArrowUp) {
		g.nudge(1)
	}
	if justPressed(ebiten.KeyArrowLeft) || justPressed(ebiten.KeyArrowDown) {
		g.nudge(-1)
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	g.time += 1.0 / 60.0
	g.colorPhase += colorShiftSpeed
	g.meter.update(g.player.Samples(2048))
	return nil
}

func (g *Game) updateButton() {
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			if err := g.openFileDialog(); err != nil {
				g.lastErr = err
			}
		}
		g.buttonPressed = false
	}
}

// focusDragged moves keyboard focus to the dial being dragged.
func (g *Game) focusDragged() {
	for i, v := range g.dials {
		if v.dial.Dragging() {
			g.focus = i
			return
		}
	}
}

// nudge moves the focused dial's target by n steps.
func (g *Game) nudge(n int) {
	if len(g.dials) == 0 {
		return
	}
	d := g.dials[g.focus].dial
	d.SetValue(d.Target() + float64(n)*d.Range().Step)
}

// applyRemote drains queued set_value commands without blocking.
func (g *Game) applyRemote() {
	if g.remote == nil {
		return
	}
	for {
		select {
		case cmd := <-g.remote.Commands():
			d := g.Dial(cmd.Dial)
			if d == nil {
				g.logger.Warn("remote set_value for unknown dial", "dial", cmd.Dial, "client", cmd.ClientID)
				continue
			}
			g.logger.Debug("remote set_value", "dial", cmd.Dial, "value", cmd.Value, "client", cmd.ClientID)
			d.SetValue(cmd.Value)
		default:
			return
		}
	}
}

func (g *Game) openFileDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return g.Load(filename)
}

// Load plays path, logging and remembering a failure for the status line.
func (g *Game) Load(path string) error {
	if err := g.player.Load(path); err != nil {
		g.logger.Error("load failed", "file", path, "error", err)
		g.lastErr = err
		return err
	}
	g.lastErr = nil
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.drawButton(screen)
	for i, v := range g.dials {
		g.drawDial(screen, v, i == g.focus)
	}
	g.drawPosition(screen)

	status := ""
	if !g.player.Loaded() {
		status = "Click the button below to open an audio file"
	} else if g.player.Paused() {
		status = "Paused - Space to play, Tab/arrows to adjust the dials"
	} else {
		status = "Playing " + g.player.Name() + " - Space to pause, Tab/arrows to adjust the dials"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	h := g.cfg.Window.Height
	w := float32(g.cfg.Window.Width)
	for y := 0; y < h; y++ {
		ratio := float64(y) / float64(h)
		r := uint8(10 + 20*math.Sin(g.time*0.5+ratio*math.Pi))
		gv := uint8(12 + 15*math.Cos(g.time*0.3+ratio*math.Pi))
		b := uint8(20 + 25*math.Sin(g.time*0.7+ratio*math.Pi))
		vector.StrokeLine(screen, 0, float32(y), w, float32(y), 1, color.RGBA{R: r, G: gv, B: b, A: 255}, false)
	}
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}

	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)
	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, borderColor, false)

	text := "Open File"
	textWidth := len(text) * 6
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) drawDial(screen *ebiten.Image, v *dialView, focused bool) {
	d := v.dial
	l := d.Layout()
	anchor := d.Anchor()

	if v.cfg.Role == config.RoleVolume && g.player.Loaded() {
		g.drawLevelRing(screen, anchor, l)
	}
	v.renderer.Draw(screen, anchor)

	label := v.cfg.Name + ": " + formatValue(d.Target(), d.Range().Step)
	if v.cfg.Role == config.RoleVolume {
		label += " dB"
	} else if v.cfg.Role == config.RoleSpeed {
		label += "x"
	}
	if focused {
		label = "> " + label
	}
	cx := int(anchor.X+l.Center.X) - len(label)*3
	cy := int(anchor.Y + l.Center.Y - 8)
	ebitenutil.DebugPrintAt(screen, label, cx, cy)
}

// drawLevelRing draws the meter bands as spokes inside the dial's ring.
func (g *Game) drawLevelRing(screen *ebiten.Image, anchor dial.Point, l dial.Layout) {
	cx := anchor.X + l.Center.X
	cy := anchor.Y + l.Center.Y
	inner := l.InnerRadius - 4
	n := len(g.meter.bands)
	for i, v := range g.meter.bands {
		angle := float64(i)/float64(n)*2*math.Pi - math.Pi/2
		depth := 2 + v*config.LevelMaxDepth
		x1 := cx + math.Cos(angle)*inner
		y1 := cy + math.Sin(angle)*inner
		x2 := cx + math.Cos(angle)*(inner-depth)
		y2 := cy + math.Sin(angle)*(inner-depth)

		hue := (g.colorPhase + float64(i)/float64(n)*0.5) * 360
		r, gv, b := hsvToRgb(hue, 0.8, 0.9)
		c := color.RGBA{R: r, G: gv, B: b, A: uint8(100 + 155*v)}
		vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 3, c, true)
	}
}

func (g *Game) drawPosition(screen *ebiten.Image) {
	if !g.player.Loaded() {
		return
	}
	pos := g.player.Position()
	total := g.player.Duration()
	text := formatDuration(pos) + " / " + formatDuration(total)
	ebitenutil.DebugPrintAt(screen, text, 12, g.cfg.Window.Height-24)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
