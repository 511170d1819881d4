package settings

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestClamp(t *testing.T) {
	s := Defaults()
	s.Gameplay.Players = 9
	s.Gameplay.Difficulty = -2
	s.Gameplay.Seed = -77
	s.Gameplay.ContinueMode = "PROMPT"
	s.Gameplay.InterstitialSeconds = 0
	s.Audio.Volume = 3
	s.Display.Scale = math.NaN()
	s.Display.TickRate = 1000

	c := s.Clamp()
	if c.Gameplay.Players != MaxPlayers {
		t.Errorf("Players = %d, expected %d", c.Gameplay.Players, MaxPlayers)
	}
	if c.Gameplay.Difficulty != 0 {
		t.Errorf("Difficulty = %d, expected 0", c.Gameplay.Difficulty)
	}
	if c.Gameplay.Seed != 77 {
		t.Errorf("Seed = %d, expected 77", c.Gameplay.Seed)
	}
	if c.Gameplay.ContinueMode != ContinuePrompt {
		t.Errorf("ContinueMode = %q", c.Gameplay.ContinueMode)
	}
	if c.Gameplay.InterstitialSeconds != MinInterlude {
		t.Errorf("InterstitialSeconds = %v", c.Gameplay.InterstitialSeconds)
	}
	if c.Audio.Volume != 1 {
		t.Errorf("Volume = %v, expected 1", c.Audio.Volume)
	}
	if c.Display.Scale != MinScale {
		t.Errorf("Scale = %v, expected %v", c.Display.Scale, MinScale)
	}
	if c.Display.TickRate != MaxTickRate {
		t.Errorf("TickRate = %d", c.Display.TickRate)
	}
}

func TestClampSeed(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{0, 0},
		{-77, 77},
		{MaxSeed, MaxSeed},
		{-MaxSeed, MaxSeed},
		{MaxSeed + 5, 5},
		{math.MaxInt64, math.MaxInt64 % MaxSeed},
		{math.MinInt64, -(math.MinInt64 % MaxSeed)},
	}
	for _, tt := range tests {
		s := Defaults()
		s.Gameplay.Seed = tt.in
		got := s.Clamp().Gameplay.Seed
		if got != tt.want {
			t.Errorf("Clamp seed %d = %d, expected %d", tt.in, got, tt.want)
		}
		if got < 0 || got > MaxSeed {
			t.Errorf("Clamp seed %d = %d, out of range", tt.in, got)
		}
	}
}

func TestBeginSetCancel(t *testing.T) {
	m := NewManager(Defaults())
	m.Begin()
	m.Set(func(s *Settings) { s.Gameplay.Players = 3 })

	if m.Pending().Gameplay.Players != 3 {
		t.Errorf("pending players = %d, expected 3", m.Pending().Gameplay.Players)
	}
	if m.Current().Gameplay.Players != 1 {
		t.Errorf("current players changed before Apply: %d", m.Current().Gameplay.Players)
	}

	m.Cancel()
	if m.Pending().Gameplay.Players != 1 {
		t.Errorf("Cancel should drop pending edits, got %d", m.Pending().Gameplay.Players)
	}
}

func TestApplyPersistsYAMLAndTOML(t *testing.T) {
	for _, name := range []string{"settings.yaml", "settings.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			m, err := Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			m.Begin()
			m.Set(func(s *Settings) {
				s.Gameplay.Difficulty = 5
				s.Gameplay.OwnedBricks = true
				s.Audio.Volume = 0.25
			})
			if err := m.Apply(); err != nil {
				t.Fatalf("Apply: %v", err)
			}

			reopened, err := Open(path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			got := reopened.Current()
			if got.Gameplay.Difficulty != 5 || !got.Gameplay.OwnedBricks || got.Audio.Volume != 0.25 {
				t.Errorf("round trip lost values: %+v", got)
			}
		})
	}
}

func TestOpenClampsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("audio:\n  volume: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v := m.Current().Audio.Volume; v != 1 {
		t.Errorf("Volume = %v, expected clamp to 1", v)
	}
	if p := m.Current().Gameplay.Players; p != 1 {
		t.Errorf("missing fields should keep defaults, players = %d", p)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := NewManager(Defaults()).Save(); !errors.Is(err, ErrNoPath) {
		t.Errorf("Save() error = %v, expected ErrNoPath", err)
	}
}
