package tui

import (
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// moveHold is how long a movement key counts as held. Terminals send no
// key-up events; auto-repeat refreshes the hold while the key is down.
const moveHold = 150 * time.Millisecond

// keyState turns one player's key presses into held-state input.
type keyState struct {
	moveX     float64
	moveUntil time.Time
	catch     bool // toggled
	pulse     core.PlayerInput
}

// inputState collects key presses between two ticks for every local player.
type inputState struct {
	keys    KeyMap
	players [core.MaxPlayers]keyState
}

func newInputState(keys KeyMap) *inputState {
	return &inputState{keys: keys}
}

// handleKey records msg. In text mode printable runes are typed instead of
// mapped to controls. It reports whether msg was a control key.
func (s *inputState) handleKey(msg tea.KeyMsg, now time.Time, text bool) bool {
	p1 := &s.players[0]
	if text && msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if unicode.IsPrint(r) {
				p1.pulse.Text = append(p1.pulse.Text, r)
			}
		}
		return true
	}
	if text && msg.Type == tea.KeySpace {
		p1.pulse.Text = append(p1.pulse.Text, ' ')
		return true
	}

	k := s.keys
	switch {
	case key.Matches(msg, k.Left):
		p1.hold(-1, now)
	case key.Matches(msg, k.Right):
		p1.hold(1, now)
	case key.Matches(msg, k.Up):
		p1.pulse.Up = true
	case key.Matches(msg, k.Down):
		p1.pulse.Down = true
	case key.Matches(msg, k.Serve):
		p1.pulse.Serve = true
	case key.Matches(msg, k.Catch):
		p1.catch = !p1.catch
	case key.Matches(msg, k.Confirm):
		p1.pulse.Confirm = true
	case key.Matches(msg, k.Back):
		p1.pulse.Back = true
	case key.Matches(msg, k.Pause):
		p1.pulse.Pause = true

	case key.Matches(msg, k.P2Left):
		s.players[1].hold(-1, now)
	case key.Matches(msg, k.P2Right):
		s.players[1].hold(1, now)
	case key.Matches(msg, k.P2Serve):
		s.players[1].pulse.Serve = true
	case key.Matches(msg, k.P2Catch):
		s.players[1].catch = !s.players[1].catch
	default:
		return false
	}
	return true
}

func (k *keyState) hold(dir float64, now time.Time) {
	k.moveX = dir
	k.moveUntil = now.Add(moveHold)
}

// frame returns the input for this tick and clears one-shot presses.
func (s *inputState) frame(now time.Time) [core.MaxPlayers]core.PlayerInput {
	var out [core.MaxPlayers]core.PlayerInput
	for i := range s.players {
		k := &s.players[i]
		in := k.pulse
		if now.Before(k.moveUntil) {
			in.MoveX = k.moveX
		}
		in.Catch = k.catch
		out[i] = in
		k.pulse = core.PlayerInput{}
	}
	return out
}

// reset drops all held state, used when the game leaves play.
func (s *inputState) reset() {
	s.players = [core.MaxPlayers]keyState{}
}
