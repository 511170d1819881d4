// Package settings holds the user-editable settings record and the manager
// that stages, clamps and persists edits.
package settings

import (
	"math"
	"strings"
)

// Continue modes for the level interstitial.
const (
	ContinueAuto   = "auto"
	ContinuePrompt = "prompt"
)

// Settings is the full user-editable record.
type Settings struct {
	Gameplay GameplaySettings `yaml:"gameplay" toml:"gameplay"`
	UI       UISettings       `yaml:"ui" toml:"ui"`
	Audio    AudioSettings    `yaml:"audio" toml:"audio"`
	Display  DisplaySettings  `yaml:"display" toml:"display"`
}

// GameplaySettings are read when a game starts.
type GameplaySettings struct {
	Players             int     `yaml:"players" toml:"players"`
	Difficulty          int     `yaml:"difficulty" toml:"difficulty"`
	OwnedBricks         bool    `yaml:"owned_bricks" toml:"owned_bricks"`
	Seed                int64   `yaml:"seed" toml:"seed"`
	ContinueMode        string  `yaml:"continue_mode" toml:"continue_mode"`
	InterstitialSeconds float64 `yaml:"interstitial_seconds" toml:"interstitial_seconds"`
}

// UISettings control overlays.
type UISettings struct {
	ShowHelp bool `yaml:"show_help" toml:"show_help"`
	ShowFPS  bool `yaml:"show_fps" toml:"show_fps"`
}

// AudioSettings control cue playback.
type AudioSettings struct {
	Volume float64 `yaml:"volume" toml:"volume"`
	Muted  bool    `yaml:"muted" toml:"muted"`
}

// DisplaySettings are applied by the frontend's display service.
type DisplaySettings struct {
	Fullscreen bool    `yaml:"fullscreen" toml:"fullscreen"`
	Scale      float64 `yaml:"scale" toml:"scale"`
	TickRate   int     `yaml:"tick_rate" toml:"tick_rate"`
}

// Defaults returns the settings used when nothing is persisted.
func Defaults() Settings {
	return Settings{
		Gameplay: GameplaySettings{
			Players:             1,
			Difficulty:          3,
			Seed:                1,
			ContinueMode:        ContinueAuto,
			InterstitialSeconds: 2.5,
		},
		UI: UISettings{
			ShowHelp: true,
		},
		Audio: AudioSettings{
			Volume: 0.7,
		},
		Display: DisplaySettings{
			Scale:    1,
			TickRate: 60,
		},
	}
}

// Limits for clamped fields.
const (
	MinPlayers   = 1
	MaxPlayers   = 4
	MaxSeed      = math.MaxInt32
	MinScale     = 0.5
	MaxScale     = 4
	MinTickRate  = 20
	MaxTickRate  = 240
	MinInterlude = 0.5
	MaxInterlude = 10
)

// Clamp returns s with every field forced into its valid range.
func (s Settings) Clamp() Settings {
	g := &s.Gameplay
	g.Players = clampInt(g.Players, MinPlayers, MaxPlayers)
	g.Difficulty = clampInt(g.Difficulty, 0, 6)
	if g.Seed > MaxSeed || g.Seed < -MaxSeed {
		g.Seed %= MaxSeed
	}
	if g.Seed < 0 {
		g.Seed = -g.Seed
	}
	switch strings.ToLower(g.ContinueMode) {
	case ContinuePrompt:
		g.ContinueMode = ContinuePrompt
	default:
		g.ContinueMode = ContinueAuto
	}
	g.InterstitialSeconds = clampFloat(g.InterstitialSeconds, MinInterlude, MaxInterlude)

	s.Audio.Volume = clampFloat(s.Audio.Volume, 0, 1)
	s.Display.Scale = clampFloat(s.Display.Scale, MinScale, MaxScale)
	s.Display.TickRate = clampInt(s.Display.TickRate, MinTickRate, MaxTickRate)
	return s
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
