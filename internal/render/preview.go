package render

import (
	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/registry"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// LevelOptions selects a level to preview.
type LevelOptions struct {
	Seed       int64
	Level      int
	Difficulty config.Difficulty
	Players    int
	Owned      bool
	Viewport   core.Size
}

// PreviewGame starts a game on the requested level without advancing it.
func PreviewGame(cfg config.BreakoutConfig, o LevelOptions) *breakout.Game {
	s := settings.Defaults()
	s.Gameplay.Players = o.Players
	s.Gameplay.Difficulty = int(o.Difficulty)
	s.Gameplay.OwnedBricks = o.Owned
	s.Gameplay.Seed = o.Seed

	services := registry.New()
	services.Register(registry.Settings, settings.NewManager(s))

	g := breakout.New(cfg, breakout.WithSeed(o.Seed))
	g.Load(services)
	g.Resize(o.Viewport)
	g.Start(o.Level)
	return g
}

// LevelPNG renders the opening frame of a level.
func LevelPNG(cfg config.BreakoutConfig, o LevelOptions, scale float64) *Canvas {
	if o.Viewport.Empty() {
		o.Viewport = core.ViewportForCells(80, 24)
	}
	return Frame(PreviewGame(cfg, o), o.Viewport, scale)
}
