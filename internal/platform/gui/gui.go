// Package gui is the windowed frontend. It is built only with the
// "ebiten" tag; without it Run reports ErrUnavailable.
//
// Device mapping lives in untagged code so it is tested on every build.
package gui

import (
	"errors"
	"math"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/core"
)

// ErrUnavailable is returned by Run in builds without the ebiten tag.
var ErrUnavailable = errors.New("gui: built without the ebiten tag; rebuild with -tags ebiten")

// Services are the collaborators handed to the game. Nil fields are left
// out of the registry.
type Services struct {
	Settings breakout.SettingsProvider
	Scores   breakout.HighScoreService
	Audio    breakout.AudioService
}

// Options configure the window.
type Options struct {
	Title string
	Scale float64 // window pixels per viewport pixel
	Cols  int     // initial viewport in terminal cells
	Rows  int
}

// DefaultOptions opens an 80×24-cell playfield at 1.5× scale.
func DefaultOptions() Options {
	return Options{Title: "Brick Arcade", Scale: 1.5, Cols: 80, Rows: 24}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.Cols <= 0 || o.Rows <= 0 {
		o.Cols, o.Rows = d.Cols, d.Rows
	}
	return o
}

// Key is a keyboard key the frontend reads.
type Key int

const (
	KeyA Key = iota
	KeyD
	KeyW
	KeyS
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyC
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyP
	KeyJ
	KeyL
	KeyI
	KeyO
	keyCount
)

// KeyState reports which keys are held this frame.
type KeyState interface {
	Pressed(k Key) bool
}

// Control names one PlayerInput field driven by a key.
type control int

const (
	ctlLeft control = iota
	ctlRight
	ctlUp
	ctlDown
	ctlServe
	ctlCatch
	ctlConfirm
	ctlBack
	ctlPause
)

type binding struct {
	key    Key
	player int
	ctl    control
}

// keyBindings: player one on WASD/arrows, player two on J/L/I/O.
var keyBindings = []binding{
	{KeyA, 0, ctlLeft}, {KeyLeft, 0, ctlLeft},
	{KeyD, 0, ctlRight}, {KeyRight, 0, ctlRight},
	{KeyW, 0, ctlUp}, {KeyUp, 0, ctlUp},
	{KeyS, 0, ctlDown}, {KeyDown, 0, ctlDown},
	{KeySpace, 0, ctlServe},
	{KeyC, 0, ctlCatch},
	{KeyEnter, 0, ctlConfirm},
	{KeyEscape, 0, ctlBack}, {KeyBackspace, 0, ctlBack},
	{KeyP, 0, ctlPause},
	{KeyJ, 1, ctlLeft},
	{KeyL, 1, ctlRight},
	{KeyI, 1, ctlServe},
	{KeyO, 1, ctlCatch},
}

func (c control) set(in *core.PlayerInput) {
	switch c {
	case ctlLeft:
		in.Left = true
	case ctlRight:
		in.Right = true
	case ctlUp:
		in.Up = true
	case ctlDown:
		in.Down = true
	case ctlServe:
		in.Serve = true
	case ctlCatch:
		in.Catch = true
	case ctlConfirm:
		in.Confirm = true
	case ctlBack:
		in.Back = true
	case ctlPause:
		in.Pause = true
	}
}

// readKeys maps held keys onto the players. While text is being typed
// only player one's Back and Confirm keys count; letters go to Text.
func readKeys(ks KeyState, typing bool) [core.MaxPlayers]core.PlayerInput {
	var out [core.MaxPlayers]core.PlayerInput
	for _, b := range keyBindings {
		if !ks.Pressed(b.key) {
			continue
		}
		if typing && !(b.player == 0 && (b.ctl == ctlBack || b.ctl == ctlConfirm)) {
			continue
		}
		b.ctl.set(&out[b.player])
	}
	return out
}

// PadState is one gamepad's standard layout for a frame.
type PadState struct {
	Axis                float64 // left stick horizontal
	DpadLeft, DpadRight bool
	DpadUp, DpadDown    bool
	South, East, West   bool // A, B, X
	Start               bool
	RightTrigger        bool
}

const padDeadZone = 0.2

// padInput maps a gamepad: A serves and confirms, B backs out, X or the
// right trigger catches, Start pauses.
func padInput(p PadState) core.PlayerInput {
	in := core.PlayerInput{
		Left:    p.DpadLeft,
		Right:   p.DpadRight,
		Up:      p.DpadUp,
		Down:    p.DpadDown,
		Serve:   p.South,
		Confirm: p.South,
		Back:    p.East,
		Catch:   p.West || p.RightTrigger,
		Pause:   p.Start,
	}
	if math.Abs(p.Axis) >= padDeadZone {
		in.MoveX = max(-1, min(1, p.Axis))
	}
	return in
}

// mergePads adds pad i to player i.
func mergePads(keys [core.MaxPlayers]core.PlayerInput, pads []PadState) [core.MaxPlayers]core.PlayerInput {
	out := keys
	for i, p := range pads {
		if i >= core.MaxPlayers {
			break
		}
		out[i] = out[i].Merge(padInput(p))
	}
	return out
}
