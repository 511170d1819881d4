package breakout

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// menuItem is one row of the main menu.
type menuItem int

const (
	itemStart menuItem = iota
	itemPlayers
	itemDifficulty
	itemBricks
	itemSettings
	itemHighScores
	itemJump
	itemQuit
)

// menuItems lists the rows visible in the main menu. The level jump is
// only offered in debug builds of a session.
func (g *Game) menuItems() []menuItem {
	items := []menuItem{itemStart, itemPlayers, itemDifficulty, itemBricks, itemSettings, itemHighScores}
	if g.debug {
		items = append(items, itemJump)
	}
	return append(items, itemQuit)
}

func (g *Game) menuLabel(it menuItem) string {
	gs := g.settings.Current().Gameplay
	switch it {
	case itemStart:
		return "Start"
	case itemPlayers:
		return fmt.Sprintf("Players: < %d >", gs.Players)
	case itemDifficulty:
		return fmt.Sprintf("Difficulty: < %s >", config.Difficulty(gs.Difficulty))
	case itemBricks:
		mode := "Classic"
		if gs.OwnedBricks {
			mode = "Owned"
		}
		return fmt.Sprintf("Bricks: < %s >", mode)
	case itemSettings:
		return "Settings"
	case itemHighScores:
		return "High Scores"
	case itemJump:
		return "Jump to Level"
	case itemQuit:
		return "Quit"
	}
	return ""
}

// pressed reports whether any player pressed the control picked by sel.
func (g *Game) pressed(sel func(*core.Controls) *core.EdgeDetector) bool {
	for i := range g.slots {
		if sel(&g.slots[i].Controls).Pressed() {
			return true
		}
	}
	return false
}

func up(c *core.Controls) *core.EdgeDetector      { return &c.Up }
func down(c *core.Controls) *core.EdgeDetector    { return &c.Down }
func left(c *core.Controls) *core.EdgeDetector    { return &c.Left }
func right(c *core.Controls) *core.EdgeDetector   { return &c.Right }
func confirm(c *core.Controls) *core.EdgeDetector { return &c.Confirm }
func back(c *core.Controls) *core.EdgeDetector    { return &c.Back }
func pause(c *core.Controls) *core.EdgeDetector   { return &c.Pause }

// moveCursor applies up/down presses to a wrapping cursor over n rows.
func (g *Game) moveCursor(cursor, n int) int {
	if n <= 0 {
		return 0
	}
	switch {
	case g.pressed(up):
		cursor = (cursor - 1 + n) % n
		g.cue(core.CueMenuMove)
	case g.pressed(down):
		cursor = (cursor + 1) % n
		g.cue(core.CueMenuMove)
	}
	return cursor
}

// horizontal returns -1, 0 or 1 for a left or right press this frame.
func (g *Game) horizontal() int {
	switch {
	case g.pressed(left):
		return -1
	case g.pressed(right):
		return 1
	}
	return 0
}

func (g *Game) updateMenu(s menuState) {
	items := g.menuItems()
	s.cursor = g.moveCursor(core.Clamp(s.cursor, 0, len(items)-1), len(items))
	g.state = s
	it := items[s.cursor]

	if d := g.horizontal(); d != 0 {
		g.adjustMenu(it, d)
		return
	}
	if !g.pressed(confirm) {
		return
	}

	g.cue(core.CueMenuSelect)
	switch it {
	case itemStart:
		g.fire(evStart{level: 0})
	case itemPlayers, itemDifficulty, itemBricks:
		g.adjustMenu(it, 1)
	case itemSettings:
		g.fire(evOpenSettings{})
	case itemHighScores:
		g.fire(evOpenHighScores{})
	case itemJump:
		g.fire(evOpenJump{})
	case itemQuit:
		g.quit = true
	}
}

// adjustMenu edits a gameplay setting directly from the main menu and
// commits it straight away.
func (g *Game) adjustMenu(it menuItem, d int) {
	var fn func(*settings.Settings)
	switch it {
	case itemPlayers:
		fn = func(s *settings.Settings) {
			s.Gameplay.Players = wrap(s.Gameplay.Players-1+d, core.MaxPlayers) + 1
		}
	case itemDifficulty:
		fn = func(s *settings.Settings) {
			s.Gameplay.Difficulty = wrap(s.Gameplay.Difficulty+d, config.DifficultyCount)
		}
	case itemBricks:
		fn = func(s *settings.Settings) { s.Gameplay.OwnedBricks = !s.Gameplay.OwnedBricks }
	default:
		return
	}
	g.settings.Set(fn)
	if err := g.settings.Apply(); err != nil {
		g.log.Warn("save settings", "err", err)
	}
	g.cue(core.CueMenuMove)
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

// settingRow is one editable line of the settings screen.
type settingRow struct {
	label  string
	value  func(settings.Settings) string
	adjust func(s *settings.Settings, d int)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var settingRows = []settingRow{
	{"Players", func(s settings.Settings) string { return fmt.Sprint(s.Gameplay.Players) },
		func(s *settings.Settings, d int) { s.Gameplay.Players += d }},
	{"Difficulty", func(s settings.Settings) string { return config.Difficulty(s.Gameplay.Difficulty).String() },
		func(s *settings.Settings, d int) { s.Gameplay.Difficulty += d }},
	{"Owned bricks", func(s settings.Settings) string { return onOff(s.Gameplay.OwnedBricks) },
		func(s *settings.Settings, _ int) { s.Gameplay.OwnedBricks = !s.Gameplay.OwnedBricks }},
	{"Seed", func(s settings.Settings) string { return fmt.Sprint(s.Gameplay.Seed) },
		func(s *settings.Settings, d int) { s.Gameplay.Seed = max(s.Gameplay.Seed+int64(d), 0) }},
	{"Continue", func(s settings.Settings) string { return s.Gameplay.ContinueMode },
		func(s *settings.Settings, _ int) {
			if s.Gameplay.ContinueMode == settings.ContinuePrompt {
				s.Gameplay.ContinueMode = settings.ContinueAuto
			} else {
				s.Gameplay.ContinueMode = settings.ContinuePrompt
			}
		}},
	{"Level pause", func(s settings.Settings) string { return fmt.Sprintf("%.1fs", s.Gameplay.InterstitialSeconds) },
		func(s *settings.Settings, d int) { s.Gameplay.InterstitialSeconds += 0.5 * float64(d) }},
	{"Show help", func(s settings.Settings) string { return onOff(s.UI.ShowHelp) },
		func(s *settings.Settings, _ int) { s.UI.ShowHelp = !s.UI.ShowHelp }},
	{"Show FPS", func(s settings.Settings) string { return onOff(s.UI.ShowFPS) },
		func(s *settings.Settings, _ int) { s.UI.ShowFPS = !s.UI.ShowFPS }},
	{"Volume", func(s settings.Settings) string { return fmt.Sprintf("%d%%", int(s.Audio.Volume*100+0.5)) },
		func(s *settings.Settings, d int) { s.Audio.Volume += 0.1 * float64(d) }},
	{"Muted", func(s settings.Settings) string { return onOff(s.Audio.Muted) },
		func(s *settings.Settings, _ int) { s.Audio.Muted = !s.Audio.Muted }},
	{"Fullscreen", func(s settings.Settings) string { return onOff(s.Display.Fullscreen) },
		func(s *settings.Settings, _ int) { s.Display.Fullscreen = !s.Display.Fullscreen }},
	{"Scale", func(s settings.Settings) string { return fmt.Sprintf("%.1fx", s.Display.Scale) },
		func(s *settings.Settings, d int) { s.Display.Scale += 0.5 * float64(d) }},
	{"Tick rate", func(s settings.Settings) string { return fmt.Sprint(s.Display.TickRate) },
		func(s *settings.Settings, d int) { s.Display.TickRate += 10 * d }},
}

// Settings screen rows after the editable ones.
const (
	rowApply  = "Apply"
	rowCancel = "Cancel"
)

func settingsRowCount() int { return len(settingRows) + 2 }

func (g *Game) updateSettings(s settingsState) {
	n := settingsRowCount()
	s.cursor = g.moveCursor(s.cursor, n)
	g.state = s

	if g.pressed(back) {
		g.settings.Cancel()
		g.fire(evBack{})
		return
	}

	if s.cursor < len(settingRows) {
		d := g.horizontal()
		if d == 0 && g.pressed(confirm) {
			d = 1
		}
		if d != 0 {
			row := settingRows[s.cursor]
			g.settings.Set(func(st *settings.Settings) { row.adjust(st, d) })
			g.cue(core.CueMenuMove)
		}
		return
	}

	if !g.pressed(confirm) {
		return
	}
	g.cue(core.CueMenuSelect)
	if s.cursor == len(settingRows) {
		if err := g.settings.Apply(); err != nil {
			g.log.Warn("save settings", "err", err)
		}
		if g.display != nil {
			g.display.ApplyDisplay(g.settings.Current().Display)
		}
	} else {
		g.settings.Cancel()
	}
	g.fire(evBack{})
}

// Pause menu rows.
var pauseItems = []string{"Resume", "Quit to Menu"}

func (g *Game) updatePaused(s pausedState) {
	s.cursor = g.moveCursor(s.cursor, len(pauseItems))
	g.state = s

	switch {
	case g.pressed(pause):
		g.fire(evResume{})
	case g.pressed(back):
		g.fire(evBack{})
	case g.pressed(confirm):
		g.cue(core.CueMenuSelect)
		if s.cursor == 0 {
			g.fire(evResume{})
		} else {
			g.fire(evBack{})
		}
	}
}

func (g *Game) updateInterstitial(s interstitialState, dt float64) {
	if g.pressed(back) {
		g.fire(evBack{})
		return
	}
	if g.pressed(confirm) {
		g.fire(evAdvance{})
		return
	}
	if s.prompt {
		return
	}
	s.remaining -= dt
	g.state = s
	if s.remaining <= 0 {
		g.fire(evAdvance{})
	}
}

func (g *Game) updateHighScores() {
	if g.pressed(back) || g.pressed(confirm) {
		g.fire(evBack{})
	}
}

// nameAlphabet is the set Up/Down cycles through for the letter under
// the cursor.
const nameAlphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (g *Game) updateNameEntry(s nameEntryState, inputs [core.MaxPlayers]core.PlayerInput) {
	maxLen := g.cfg.Gameplay.NameMaxLen
	defer func() {
		if g.Mode() == ModeNameEntry {
			g.state = s
		}
	}()

	for _, in := range inputs {
		for _, r := range in.Text {
			if !unicode.IsPrint(r) || len(s.name) >= maxLen {
				continue
			}
			s.name = append(s.name[:s.cursor], append([]rune{r}, s.name[s.cursor:]...)...)
			s.cursor++
		}
	}

	switch {
	case g.pressed(confirm):
		name := strings.TrimSpace(string(s.name))
		if name == "" {
			name = "Player"
		}
		submitted := g.submitScore(name, s.score)
		g.cue(core.CueMenuSelect)
		g.fire(evNameDone{submitted: submitted})
	case g.pressed(back):
		if len(s.name) == 0 {
			g.fire(evNameDone{})
			return
		}
		if s.cursor > 0 {
			s.name = append(s.name[:s.cursor-1], s.name[s.cursor:]...)
			s.cursor--
		}
	case g.pressed(left):
		s.cursor = max(s.cursor-1, 0)
	case g.pressed(right):
		if s.cursor < len(s.name) {
			s.cursor++
		} else if len(s.name) < maxLen {
			s.name = append(s.name, 'A')
			s.cursor++
		}
	case g.pressed(up), g.pressed(down):
		d := 1
		if g.pressed(down) {
			d = -1
		}
		if s.cursor == len(s.name) {
			if len(s.name) >= maxLen {
				return
			}
			s.name = append(s.name, ' ')
		}
		s.name[s.cursor] = cycleRune(s.name[s.cursor], d)
		g.cue(core.CueMenuMove)
	}
}

// cycleRune steps r through nameAlphabet, starting at 'A' for runes
// outside it.
func cycleRune(r rune, d int) rune {
	al := []rune(nameAlphabet)
	i := strings.IndexRune(nameAlphabet, unicode.ToUpper(r))
	if i < 0 {
		return 'A'
	}
	return al[wrap(i+d, len(al))]
}

// submitScore records the run on the leaderboard.
func (g *Game) submitScore(name string, score int) bool {
	if g.scores == nil {
		return false
	}
	err := g.scores.Submit(core.ScoreEntry{
		Name:       name,
		Score:      score,
		Level:      g.level,
		Players:    g.players,
		Difficulty: g.difficulty.String(),
	})
	if err != nil {
		g.log.Error("submit score", "err", err)
		return false
	}
	g.log.Info("score submitted", "name", name, "score", score)
	return true
}

func (g *Game) updateGameOver() {
	switch {
	case g.pressed(confirm):
		if g.scores != nil {
			g.fire(evOpenHighScores{})
		} else {
			g.fire(evBack{})
		}
	case g.pressed(back):
		g.fire(evBack{})
	}
}

func (g *Game) updateDebugJump(s debugJumpState) {
	maxLevel := g.cfg.Gameplay.MaxDebugLevel
	switch {
	case g.pressed(left):
		s.level--
	case g.pressed(right):
		s.level++
	case g.pressed(up):
		s.level += 10
	case g.pressed(down):
		s.level -= 10
	case g.pressed(back):
		g.fire(evBack{})
		return
	case g.pressed(confirm):
		g.log.Debug("level jump", "level", s.level)
		g.fire(evStart{level: s.level})
		return
	}
	s.level = core.Clamp(s.level, 0, maxLevel)
	g.state = s
}
