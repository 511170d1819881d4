package gui

import (
	"testing"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

type heldKeys map[Key]bool

func (h heldKeys) Pressed(k Key) bool { return h[k] }

func TestReadKeys(t *testing.T) {
	tests := []struct {
		name   string
		keys   heldKeys
		typing bool
		check  func(in [core.MaxPlayers]core.PlayerInput) bool
	}{
		{"wasd left", heldKeys{KeyA: true}, false, func(in [core.MaxPlayers]core.PlayerInput) bool {
			return in[0].Left && in[0].Axis() == -1
		}},
		{"arrow right", heldKeys{KeyRight: true}, false, func(in [core.MaxPlayers]core.PlayerInput) bool {
			return in[0].Right && in[0].Axis() == 1
		}},
		{"both directions cancel", heldKeys{KeyA: true, KeyD: true}, false, func(in [core.MaxPlayers]core.PlayerInput) bool {
			return in[0].Axis() == 0
		}},
		{"player two keys", heldKeys{KeyJ: true, KeyI: true, KeyO: true}, false, func(in [core.MaxPlayers]core.PlayerInput) bool {
			return in[1].Left && in[1].Serve && in[1].Catch && !in[0].Left
		}},
		{"menu keys", heldKeys{KeyEnter: true, KeyEscape: true, KeyP: true, KeyW: true}, false, func(in [core.MaxPlayers]core.PlayerInput) bool {
			return in[0].Confirm && in[0].Back && in[0].Pause && in[0].Up
		}},
		{"typing drops letters", heldKeys{KeyA: true, KeyJ: true, KeySpace: true}, true, func(in [core.MaxPlayers]core.PlayerInput) bool {
			return !in[0].Left && !in[1].Left && !in[0].Serve
		}},
		{"typing keeps enter and backspace", heldKeys{KeyEnter: true, KeyBackspace: true}, true, func(in [core.MaxPlayers]core.PlayerInput) bool {
			return in[0].Confirm && in[0].Back
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(readKeys(tt.keys, tt.typing)) {
				t.Errorf("unexpected mapping for %v", tt.keys)
			}
		})
	}
}

func TestPadInput(t *testing.T) {
	if in := padInput(PadState{Axis: 0.1}); in.MoveX != 0 {
		t.Errorf("stick inside the dead zone moved: %v", in.MoveX)
	}
	if in := padInput(PadState{Axis: -0.7}); in.MoveX != -0.7 {
		t.Errorf("MoveX = %v, want -0.7", in.MoveX)
	}
	in := padInput(PadState{South: true, RightTrigger: true, Start: true})
	if !in.Serve || !in.Confirm || !in.Catch || !in.Pause {
		t.Errorf("buttons mapped to %+v", in)
	}
}

func TestMergePads(t *testing.T) {
	keys := readKeys(heldKeys{KeyC: true}, false)
	pads := []PadState{{Axis: 1}, {East: true}, {}, {}, {South: true}}
	out := mergePads(keys, pads)

	if !out[0].Catch || out[0].MoveX != 1 {
		t.Errorf("player one = %+v, want keyboard catch and pad movement", out[0])
	}
	if !out[1].Back {
		t.Error("second pad did not drive player two")
	}
	for i := 2; i < core.MaxPlayers; i++ {
		if out[i].Serve {
			t.Errorf("pad beyond the player count leaked into slot %d", i)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Scale: 2}.withDefaults()
	if o.Scale != 2 || o.Cols != 80 || o.Rows != 24 || o.Title == "" {
		t.Errorf("options = %+v", o)
	}
}
