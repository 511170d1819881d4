// Package breakout is the gameplay core: a mode state machine over menus
// and a multiplayer brick-breaking simulation. It is single-threaded; the
// host calls Update and Draw once per frame from one goroutine.
package breakout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// Game is one instance of the game.
type Game struct {
	cfg   config.BreakoutConfig
	log   *log.Logger
	debug bool
	seed  int64 // overrides the settings seed when non-zero

	settings SettingsProvider
	scores   HighScoreService
	audio    AudioService
	display  DisplayModeService

	state state
	quit  bool

	viewport core.Size
	field    core.RectF

	// Session, valid from evStart until the next return to the menu.
	difficulty config.Difficulty
	players    int
	owned      bool
	baseSeed   int64
	level      int
	layout     Layout

	slots   [core.MaxPlayers]PlayerSlot
	paddles [core.MaxPlayers]Paddle
	balls   []Ball
	bricks  []Brick
	power   *PowerUpManager

	pendingLives []int // players owed a forced Extra-Life drop
	playTime     float64
	frame        uint64
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithSeed fixes the base level seed, overriding settings.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.seed = seed }
}

// WithDebug enables the level-jump menu entry.
func WithDebug(on bool) Option {
	return func(g *Game) { g.debug = on }
}

// New creates a game sitting at the main menu.
func New(cfg config.BreakoutConfig, opts ...Option) *Game {
	g := &Game{
		cfg:      cfg,
		log:      log.New(io.Discard),
		settings: settings.NewManager(settings.Defaults()),
		state:    menuState{},
		viewport: core.ViewportForCells(80, 24),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.field = core.RectF{W: g.viewport.W, H: g.viewport.H}
	g.power = NewPowerUpManager(cfg.PowerUps, 1)
	return g
}

// Mode returns the active screen.
func (g *Game) Mode() Mode {
	return g.state.mode()
}

// QuitRequested reports whether the player chose Quit in the menu.
func (g *Game) QuitRequested() bool {
	return g.quit
}

// Level returns the current level index.
func (g *Game) Level() int {
	return g.level
}

// Difficulty returns the difficulty of the running session.
func (g *Game) Difficulty() config.Difficulty {
	return g.difficulty
}

// Players returns the running session's player count.
func (g *Game) Players() int {
	return g.players
}

// Slot returns a copy of a player's state.
func (g *Game) Slot(i int) PlayerSlot {
	if i < 0 || i >= core.MaxPlayers {
		return PlayerSlot{}
	}
	return g.slots[i]
}

// TeamScore sums the scores of all joined players.
func (g *Game) TeamScore() int {
	total := 0
	for _, s := range g.slots {
		if s.Joined {
			total += s.Score
		}
	}
	return total
}

// Layout returns the current level's generated layout.
func (g *Game) Layout() Layout {
	return g.layout
}

// Settings returns the settings provider in use.
func (g *Game) Settings() SettingsProvider {
	return g.settings
}

// Start begins a session at level from the menu with the current settings,
// as the menu's Start entry does. It does nothing outside the menu.
func (g *Game) Start(level int) {
	if g.Mode() == ModeMenu {
		g.fire(evStart{level: level})
	}
}

// Resize sets the viewport without advancing the simulation.
func (g *Game) Resize(viewport core.Size) {
	g.setViewport(viewport)
}

// Update advances the game by one frame. elapsed is clamped to the
// configured maximum frame delta.
func (g *Game) Update(elapsed float64, inputs [core.MaxPlayers]core.PlayerInput, viewport core.Size) {
	dt := core.ClampF(elapsed, 0, g.cfg.Physics.MaxFrameDelta)
	g.setViewport(viewport)
	g.frame++

	for i := range g.slots {
		g.slots[i].Controls.Update(inputs[i])
	}

	switch s := g.state.(type) {
	case menuState:
		g.updateMenu(s)
	case settingsState:
		g.updateSettings(s)
	case playingState:
		g.updatePlaying(dt, inputs)
	case pausedState:
		g.updatePaused(s)
	case interstitialState:
		g.updateInterstitial(s, dt)
	case highScoresState:
		g.updateHighScores()
	case nameEntryState:
		g.updateNameEntry(s, inputs)
	case gameOverState:
		g.updateGameOver()
	case debugJumpState:
		g.updateDebugJump(s)
	}
}

// fire applies ev to the state machine and runs entry actions.
func (g *Game) fire(ev event) {
	prev := g.state
	next := transition(prev, ev)
	if next.mode() == prev.mode() {
		return
	}
	g.state = next
	g.log.Debug("mode", "from", prev.mode(), "to", next.mode())
	g.enter(ev)
}

// enter performs the side effects of arriving in the current state.
func (g *Game) enter(ev event) {
	for i := range g.slots {
		g.slots[i].Controls.Settle()
	}

	switch s := g.state.(type) {
	case playingState:
		switch e := ev.(type) {
		case evStart:
			g.startSession(e.level)
		case evAdvance:
			g.advanceLevel()
		case evResume:
			for i := range g.slots {
				g.slots[i].IgnoreRelease = g.slots[i].Controls.Catch.Held()
			}
		}
	case highScoresState:
		if g.scores != nil {
			entries, err := g.scores.Top(g.cfg.Gameplay.HighScoreSlots)
			if err != nil {
				g.log.Warn("load high scores", "err", err)
				s.err = true
			}
			s.entries = entries
			g.state = s
		}
	case settingsState:
		g.settings.Begin()
	case nameEntryState:
		g.cue(core.CueGameOver)
		g.log.Info("high score", "score", s.score)
	case gameOverState:
		if _, ok := ev.(evGameEnded); ok {
			g.cue(core.CueGameOver)
		}
		g.log.Info("game over", "score", s.score, "level", g.level, "players", g.players)
	case interstitialState:
		g.cue(core.CueLevelClear)
	case menuState:
		g.endSession()
	}
}

// setViewport resizes the playfield and rescales live entities.
func (g *Game) setViewport(vp core.Size) {
	if vp.Empty() || vp == g.viewport {
		return
	}
	old := g.field
	g.viewport = vp
	g.field = core.RectF{W: vp.W, H: vp.H}
	if g.players > 0 {
		g.relayout(old)
	}
}

func (g *Game) endSession() {
	g.players = 0
	g.balls = g.balls[:0]
	g.bricks = g.bricks[:0]
	g.power.ClearDrops()
	g.power.Effects = Effects{}
	g.pendingLives = g.pendingLives[:0]
	for i := range g.slots {
		ctl := g.slots[i].Controls
		g.slots[i] = PlayerSlot{Controls: ctl}
	}
}
