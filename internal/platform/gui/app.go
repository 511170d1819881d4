//go:build ebiten

package gui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/registry"
	"github.com/vovakirdan/brick-arcade/internal/render"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

var ebitenKeys = [keyCount]ebiten.Key{
	KeyA:         ebiten.KeyA,
	KeyD:         ebiten.KeyD,
	KeyW:         ebiten.KeyW,
	KeyS:         ebiten.KeyS,
	KeyLeft:      ebiten.KeyArrowLeft,
	KeyRight:     ebiten.KeyArrowRight,
	KeyUp:        ebiten.KeyArrowUp,
	KeyDown:      ebiten.KeyArrowDown,
	KeySpace:     ebiten.KeySpace,
	KeyC:         ebiten.KeyC,
	KeyEnter:     ebiten.KeyEnter,
	KeyEscape:    ebiten.KeyEscape,
	KeyBackspace: ebiten.KeyBackspace,
	KeyP:         ebiten.KeyP,
	KeyJ:         ebiten.KeyJ,
	KeyL:         ebiten.KeyL,
	KeyI:         ebiten.KeyI,
	KeyO:         ebiten.KeyO,
}

type ebitenKeyState struct{}

func (ebitenKeyState) Pressed(k Key) bool {
	return ebiten.IsKeyPressed(ebitenKeys[k])
}

func readPads(ids []ebiten.GamepadID) []PadState {
	pads := make([]PadState, 0, len(ids))
	for _, id := range ids {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		btn := func(b ebiten.StandardGamepadButton) bool {
			return ebiten.IsStandardGamepadButtonPressed(id, b)
		}
		pads = append(pads, PadState{
			Axis:         ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			DpadLeft:     btn(ebiten.StandardGamepadButtonLeftLeft),
			DpadRight:    btn(ebiten.StandardGamepadButtonLeftRight),
			DpadUp:       btn(ebiten.StandardGamepadButtonLeftTop),
			DpadDown:     btn(ebiten.StandardGamepadButtonLeftBottom),
			South:        btn(ebiten.StandardGamepadButtonRightBottom),
			East:         btn(ebiten.StandardGamepadButtonRightRight),
			West:         btn(ebiten.StandardGamepadButtonRightLeft),
			Start:        btn(ebiten.StandardGamepadButtonCenterRight),
			RightTrigger: btn(ebiten.StandardGamepadButtonFrontBottomRight),
		})
	}
	return pads
}

// display applies display settings to the window.
type display struct {
	fullscreen bool
}

func (d *display) ApplyDisplay(s settings.DisplaySettings) {
	if s.TickRate > 0 {
		ebiten.SetTPS(s.TickRate)
	}
	if s.Fullscreen != d.fullscreen {
		ebiten.SetFullscreen(s.Fullscreen)
		d.fullscreen = s.Fullscreen
	}
}

// App adapts a breakout game to ebiten.Game.
type App struct {
	game  *breakout.Game
	opts  Options
	log   *log.Logger
	vp    core.Size
	pads  []ebiten.GamepadID
	touch []ebiten.TouchID
	chars []rune
	mouse bool
}

// NewApp builds the game and wires it to svc and the window.
func NewApp(cfg config.BreakoutConfig, rt core.RuntimeConfig, svc Services, opts Options, l *log.Logger) *App {
	if l == nil {
		l = log.New(io.Discard)
	}
	opts = opts.withDefaults()

	services := registry.New()
	if svc.Settings != nil {
		services.Register(registry.Settings, svc.Settings)
	}
	if svc.Scores != nil {
		services.Register(registry.HighScores, svc.Scores)
	}
	if svc.Audio != nil {
		services.Register(registry.Audio, svc.Audio)
	}
	services.Register(registry.Display, breakout.DisplayModeService(&display{}))

	game := breakout.New(cfg,
		breakout.WithLogger(l),
		breakout.WithSeed(rt.Seed),
		breakout.WithDebug(rt.Debug),
	)
	game.Load(services)

	a := &App{
		game: game,
		opts: opts,
		log:  l,
		vp:   core.ViewportForCells(opts.Cols, opts.Rows),
	}
	game.Resize(a.vp)
	return a
}

// Update advances the game one tick.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.screenshot()
	}

	typing := a.game.Mode() == breakout.ModeNameEntry
	inputs := readKeys(ebitenKeyState{}, typing)
	a.pads = ebiten.AppendGamepadIDs(a.pads[:0])
	inputs = mergePads(inputs, readPads(a.pads))

	a.chars = ebiten.AppendInputChars(a.chars[:0])
	if typing && len(a.chars) > 0 {
		inputs[0].Text = append([]rune(nil), a.chars...)
	}
	inputs[0].Touches = a.touches()

	dt := 1 / float64(ebiten.TPS())
	a.game.Update(dt, inputs, a.vp)
	if a.game.QuitRequested() {
		return ebiten.Termination
	}
	return nil
}

// touches reports touch and left-mouse contacts for player one.
func (a *App) touches() []core.TouchEvent {
	var out []core.TouchEvent
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		out = append(out, core.TouchEvent{X: float64(x), Y: float64(y), Phase: core.TouchBegan})
	}
	a.touch = ebiten.AppendTouchIDs(a.touch[:0])
	for _, id := range a.touch {
		if inpututil.TouchPressDuration(id) > 1 {
			x, y := ebiten.TouchPosition(id)
			out = append(out, core.TouchEvent{X: float64(x), Y: float64(y), Phase: core.TouchMoved})
		}
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		out = append(out, core.TouchEvent{X: float64(x), Y: float64(y), Phase: core.TouchEnded})
	}

	mx, my := ebiten.CursorPosition()
	m := core.TouchEvent{X: float64(mx), Y: float64(my)}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		a.mouse = true
		m.Phase = core.TouchBegan
		out = append(out, m)
	case a.mouse && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		a.mouse = false
		m.Phase = core.TouchEnded
		out = append(out, m)
	case a.mouse:
		m.Phase = core.TouchMoved
		out = append(out, m)
	}
	return out
}

func (a *App) screenshot() {
	dir := config.UserPath("screenshots")
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.log.Warn("screenshot", "err", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("brickarcade-%s.png", time.Now().Format("20060102-150405")))
	if err := render.Frame(a.game, a.vp, 2).SavePNG(path); err != nil {
		a.log.Warn("screenshot", "err", err)
		return
	}
	a.log.Info("screenshot saved", "path", path)
}

// Draw renders the playfield and overlay.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(core.ColorBackground.RGBA())
	c := newCanvas(screen)
	a.game.Draw(c, a.vp)
	c.ClearClip()
	a.game.DrawUI(c, a.vp)
}

// Layout maps the window onto the viewport, keeping the configured scale.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := max(int(float64(outsideWidth)/a.opts.Scale), 40*core.CellW)
	h := max(int(float64(outsideHeight)/a.opts.Scale), 12*core.CellH)
	if vp := (core.Size{W: float64(w), H: float64(h)}); vp != a.vp {
		a.vp = vp
		a.game.Resize(vp)
	}
	return w, h
}

// Run opens the window and plays until the game quits or the window closes.
func Run(cfg config.BreakoutConfig, rt core.RuntimeConfig, svc Services, opts Options, l *log.Logger) error {
	app := NewApp(cfg, rt, svc, opts, l)
	o := app.opts

	ebiten.SetWindowTitle(o.Title)
	ebiten.SetWindowSize(int(app.vp.W*o.Scale), int(app.vp.H*o.Scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if rt.TickRate > 0 {
		ebiten.SetTPS(rt.TickRate)
	}

	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("gui: %w", err)
	}
	return nil
}
