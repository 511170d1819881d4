package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arcade/internal/breakout"
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/registry"
	"github.com/vovakirdan/brick-arcade/internal/render"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// Default window when the display is not fullscreen.
const (
	windowCols = 80
	windowRows = 24
)

// Services are the collaborators a frontend hands to the game. Nil
// fields are left out of the registry.
type Services struct {
	Settings breakout.SettingsProvider
	Scores   breakout.HighScoreService
	Audio    breakout.AudioService
}

// Display applies display settings to the terminal: the tick rate
// and whether the playfield fills the window or keeps 80×24.
type Display struct {
	mu         sync.Mutex
	tickRate   int
	fullscreen bool
}

func (d *Display) ApplyDisplay(s settings.DisplaySettings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s.TickRate > 0 {
		d.tickRate = s.TickRate
	}
	d.fullscreen = s.Fullscreen
}

func (d *Display) get() (tickRate int, fullscreen bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickRate, d.fullscreen
}

// NewGame builds a game wired to svc and to a terminal display service.
func NewGame(cfg config.BreakoutConfig, rt core.RuntimeConfig, svc Services, l *log.Logger) (*breakout.Game, *Display) {
	if l == nil {
		l = log.New(io.Discard)
	}
	display := &Display{tickRate: rt.TickRate}

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
	services.Register(registry.Display, breakout.DisplayModeService(display))

	game := breakout.New(cfg,
		breakout.WithLogger(l),
		breakout.WithSeed(rt.Seed),
		breakout.WithDebug(rt.Debug),
	)
	game.Load(services)
	return game, display
}

// Model is the Bubble Tea model for one game on one terminal.
type Model struct {
	game     *breakout.Game
	display  *Display
	screen   *core.Screen
	canvas   *core.CellCanvas
	viewport core.Size
	width    int
	height   int

	input  *inputState
	keys   KeyMap
	help   help.Model
	render *Renderer
	log    *log.Logger

	last        time.Time
	status      string
	statusUntil time.Time
	quitting    bool
}

// NewModel wraps game for the terminal. keys decides how many local
// players the keyboard drives.
func NewModel(game *breakout.Game, display *Display, keys KeyMap, r *Renderer, l *log.Logger) Model {
	if r == nil {
		r = defaultRenderer
	}
	if l == nil {
		l = log.New(io.Discard)
	}
	screen := core.NewScreen(windowCols, windowRows)
	m := Model{
		game:    game,
		display: display,
		screen:  screen,
		canvas:  core.NewCellCanvas(screen),
		width:   windowCols,
		height:  windowRows + 1,
		input:   newInputState(keys),
		keys:    keys,
		help:    help.New(),
		render:  r,
		log:     l,
	}
	m.layout()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	text := m.game.Mode() == breakout.ModeNameEntry
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case !text && key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}
	m.input.handleKey(msg, time.Now(), text)
	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := 0.0
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	m.layout()

	before := m.game.Mode()
	m.game.Update(dt, m.input.frame(now), m.viewport)
	if m.game.Mode() != before && before == breakout.ModePlaying {
		m.input.reset()
	}

	if m.game.QuitRequested() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.tickRate())
}

func (m Model) tickRate() int {
	rate, _ := m.display.get()
	return rate
}

// layout sizes the screen and viewport from the window, the display mode
// and the footer height.
func (m *Model) layout() {
	cols, rows := windowCols, windowRows
	if _, full := m.display.get(); full {
		cols = m.width
		rows = m.height - m.footerHeight()
	}
	cols = max(cols, 40)
	rows = max(rows, 12)
	if cols != m.screen.Width() || rows != m.screen.Height() {
		m.screen.Resize(cols, rows)
	}
	m.viewport = core.ViewportForCells(cols, rows)
}

func (m Model) footerHeight() int {
	if m.help.ShowAll {
		return 5
	}
	return 1
}

// saveScreenshot writes the current frame as text and as a PNG.
func (m *Model) saveScreenshot() {
	dir := config.UserPath("screenshots")
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("screenshot dir", "err", err)
		return
	}

	base := filepath.Join(dir, "breakout_"+time.Now().Format("20060102_150405"))
	m.draw()
	if err := os.WriteFile(base+".txt", []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("screenshot", "err", err)
		return
	}
	if err := render.Frame(m.game, m.viewport, 1).SavePNG(base + ".png"); err != nil {
		m.log.Warn("screenshot png", "err", err)
	}
	m.status = "saved " + filepath.Base(base) + ".png"
	m.statusUntil = time.Now().Add(2 * time.Second)
	m.log.Info("screenshot saved", "path", base)
}

func (m Model) draw() {
	m.screen.Clear()
	m.game.Draw(m.canvas, m.viewport)
	m.game.DrawUI(m.canvas, m.viewport)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()

	var sb strings.Builder
	sb.WriteString(m.render.Screen(m.screen))
	sb.WriteByte('\n')
	if m.status != "" && time.Now().Before(m.statusUntil) {
		sb.WriteString(m.status)
	} else {
		sb.WriteString(m.help.View(m.keys))
	}
	return sb.String()
}

// Quitting reports whether the player asked to leave the program.
func (m Model) Quitting() bool {
	return m.quitting
}

// Finished reports whether the game's own Quit entry was chosen.
func (m Model) Finished() bool {
	return m.game.QuitRequested()
}

// Run plays one local game until the player quits.
func Run(cfg config.BreakoutConfig, rt core.RuntimeConfig, svc Services, l *log.Logger) error {
	game, display := NewGame(cfg, rt, svc, l)
	model := NewModel(game, display, DefaultKeyMap(), nil, l)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
