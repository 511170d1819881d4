package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInputMapsControls(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		msg   tea.KeyMsg
		check func(s *inputState) bool
	}{
		{"a moves left", runes("a"), func(s *inputState) bool { return s.frame(now)[0].MoveX == -1 }},
		{"arrow moves right", tea.KeyMsg{Type: tea.KeyRight}, func(s *inputState) bool { return s.frame(now)[0].MoveX == 1 }},
		{"w is up", runes("w"), func(s *inputState) bool { return s.frame(now)[0].Up }},
		{"space serves", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, func(s *inputState) bool { return s.frame(now)[0].Serve }},
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, func(s *inputState) bool { return s.frame(now)[0].Confirm }},
		{"esc backs out", tea.KeyMsg{Type: tea.KeyEsc}, func(s *inputState) bool { return s.frame(now)[0].Back }},
		{"p pauses", runes("p"), func(s *inputState) bool { return s.frame(now)[0].Pause }},
		{"c arms catch", runes("c"), func(s *inputState) bool { return s.frame(now)[0].Catch }},
		{"j moves player two", runes("j"), func(s *inputState) bool { return s.frame(now)[1].MoveX == -1 }},
		{"i serves for player two", runes("i"), func(s *inputState) bool {
			f := s.frame(now)
			return f[1].Serve && !f[0].Serve
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newInputState(DefaultKeyMap())
			if !s.handleKey(tt.msg, now, false) {
				t.Fatalf("key %q not handled", tt.msg.String())
			}
			if !tt.check(s) {
				t.Errorf("key %q did not map as expected", tt.msg.String())
			}
		})
	}
}

func TestInputPulsesLastOneTick(t *testing.T) {
	now := time.Now()
	s := newInputState(DefaultKeyMap())
	s.handleKey(tea.KeyMsg{Type: tea.KeyEnter}, now, false)

	if !s.frame(now)[0].Confirm {
		t.Fatal("confirm missing on the first tick")
	}
	if s.frame(now)[0].Confirm {
		t.Error("confirm still set on the second tick")
	}
}

func TestInputMoveHoldExpires(t *testing.T) {
	now := time.Now()
	s := newInputState(DefaultKeyMap())
	s.handleKey(runes("d"), now, false)

	if got := s.frame(now.Add(moveHold / 2))[0].MoveX; got != 1 {
		t.Errorf("MoveX inside the hold = %v, want 1", got)
	}
	if got := s.frame(now.Add(moveHold * 2))[0].MoveX; got != 0 {
		t.Errorf("MoveX after the hold = %v, want 0", got)
	}

	// Auto-repeat refreshes the hold.
	s.handleKey(runes("d"), now.Add(moveHold), false)
	if got := s.frame(now.Add(moveHold * 3 / 2))[0].MoveX; got != 1 {
		t.Errorf("MoveX after repeat = %v, want 1", got)
	}
}

func TestInputCatchToggles(t *testing.T) {
	now := time.Now()
	s := newInputState(DefaultKeyMap())

	s.handleKey(runes("c"), now, false)
	if !s.frame(now)[0].Catch || !s.frame(now)[0].Catch {
		t.Fatal("catch should stay held until toggled off")
	}
	s.handleKey(runes("c"), now, false)
	if s.frame(now)[0].Catch {
		t.Error("second press should release catch")
	}

	s.handleKey(runes("c"), now, false)
	s.reset()
	if s.frame(now)[0].Catch {
		t.Error("reset should release catch")
	}
}

func TestInputTextMode(t *testing.T) {
	now := time.Now()
	s := newInputState(DefaultKeyMap())

	s.handleKey(runes("ad"), now, true)
	s.handleKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, now, true)
	s.handleKey(tea.KeyMsg{Type: tea.KeyBackspace}, now, true)

	in := s.frame(now)[0]
	if string(in.Text) != "ad " {
		t.Errorf("Text = %q, want %q", string(in.Text), "ad ")
	}
	if in.MoveX != 0 {
		t.Error("letters moved the paddle in text mode")
	}
	if !in.Back {
		t.Error("backspace should still map to Back")
	}
}

func TestSoloKeyMapDropsPlayerTwo(t *testing.T) {
	s := newInputState(SoloKeyMap())
	if s.handleKey(runes("j"), time.Now(), false) {
		t.Error("player two key handled by a solo keymap")
	}

	if !SoloKeyMap().Leave.Enabled() {
		t.Error("solo keymap should enable leave")
	}
	if DefaultKeyMap().Leave.Enabled() {
		t.Error("default keymap should not enable leave")
	}
}
