package breakout

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// lineH is the vertical spacing of UI text in viewport pixels.
const lineH = core.CellH

// Draw renders the playfield, clipped to it. It does not mutate the game.
func (g *Game) Draw(c core.Canvas, vp core.Size) {
	if g.players == 0 {
		return
	}
	field := core.RectF{W: vp.W, H: vp.H}
	c.SetClip(field)
	defer c.ClearClip()

	g.drawBricks(c)
	g.drawDrops(c)
	g.drawPaddles(c)
	g.drawBalls(c)
}

func (g *Game) drawBricks(c core.Canvas) {
	for _, br := range g.bricks {
		if !br.Alive() {
			continue
		}
		col := br.Color()
		c.FillRect(br.Bounds, col)
		if br.HP > 1 {
			label := fmt.Sprint(br.HP)
			ctr := br.Bounds.Center()
			c.DrawText(ctr.X-c.MeasureText(label)/2, ctr.Y, label, core.ColorBrightWhite)
		}
	}
}

func (g *Game) drawDrops(c core.Canvas) {
	for _, d := range g.power.Drops {
		if !d.Alive {
			continue
		}
		b := d.Bounds()
		c.StrokeRect(b, d.Type.Color())
		glyph := d.Type.Glyph()
		c.DrawText(b.Center().X-c.MeasureText(glyph)/2, b.Y, glyph, d.Type.Color())
	}
}

func (g *Game) drawPaddles(c core.Canvas) {
	for p := 0; p < g.players; p++ {
		col := core.PlayerColors[p]
		if !g.slots[p].Active {
			col = core.ColorGray
		}
		c.FillRect(g.paddles[p].Rect, col)
	}
}

func (g *Game) drawBalls(c core.Canvas) {
	for _, b := range g.balls {
		if b.Parked || b.lost {
			continue
		}
		col := core.ColorBrightWhite
		switch {
		case b.HasColor:
			col = b.Color
		case g.players > 1 && b.Owner >= 0 && b.Owner < core.MaxPlayers:
			col = core.PlayerColors[b.Owner]
		}
		c.FillCircle(b.Pos.X, b.Pos.Y, b.Radius, col)
	}
}

// DrawUI renders the HUD and the overlay for the current mode, unclipped.
func (g *Game) DrawUI(c core.Canvas, vp core.Size) {
	switch s := g.state.(type) {
	case menuState:
		g.drawMenu(c, vp, s)
	case settingsState:
		g.drawSettings(c, vp, s)
	case playingState:
		g.drawHUD(c, vp)
		g.drawServeHint(c, vp)
	case pausedState:
		g.drawHUD(c, vp)
		drawPanel(c, vp, "PAUSED", pauseItems, s.cursor)
	case interstitialState:
		g.drawHUD(c, vp)
		hint := fmt.Sprintf("Next level in %.0f", max(s.remaining, 0)+0.49)
		if s.prompt {
			hint = "Press confirm to continue"
		}
		drawPanel(c, vp, fmt.Sprintf("LEVEL %d CLEAR", s.cleared+1),
			[]string{fmt.Sprintf("Team score %d", g.TeamScore()), hint}, -1)
	case highScoresState:
		g.drawHighScores(c, vp, s)
	case nameEntryState:
		g.drawNameEntry(c, vp, s)
	case gameOverState:
		rows := []string{fmt.Sprintf("Score %d", s.score), fmt.Sprintf("Reached level %d", g.level+1)}
		if s.submitted {
			rows = append(rows, "Score saved")
		}
		drawPanel(c, vp, "GAME OVER", rows, -1)
	case debugJumpState:
		drawPanel(c, vp, "JUMP TO LEVEL",
			[]string{fmt.Sprintf("< %d >", s.level+1), "left/right ±1  up/down ±10"}, -1)
	}
}

// drawHUD shows one score/lives block per player and the level.
func (g *Game) drawHUD(c core.Canvas, vp core.Size) {
	if g.players == 0 {
		return
	}
	w := vp.W / float64(g.players)
	for p := 0; p < g.players; p++ {
		s := g.slots[p]
		lives := fmt.Sprint(s.Lives)
		if g.difficulty.InfiniteLives() {
			lives = "∞"
		}
		text := fmt.Sprintf("P%d %d ♥%s", p+1, s.Score, lives)
		col := core.PlayerColors[p]
		if !s.Active {
			text = fmt.Sprintf("P%d %d OUT", p+1, s.Score)
			col = core.ColorGray
		}
		c.DrawText(float64(p)*w+core.CellW, 0, text, col)
	}

	status := fmt.Sprintf("Lv %d %s", g.level+1, g.difficulty)
	if fx := g.effectsLabel(); fx != "" {
		status += "  " + fx
	}
	c.DrawText(core.CellW, lineH, status, core.ColorGray)
	if g.settings.Current().UI.ShowFPS {
		fps := fmt.Sprintf("t %.0fs", g.playTime)
		c.DrawText(vp.W-c.MeasureText(fps)-core.CellW, lineH, fps, core.ColorGray)
	}
}

func (g *Game) effectsLabel() string {
	var parts []string
	names := [...]string{EffectPaddle: "wide", EffectSpeed: "speed", EffectScore: "x2"}
	for k, e := range g.power.Effects {
		if e.Active() {
			parts = append(parts, fmt.Sprintf("%s %.0f", names[k], e.Remaining))
		}
	}
	return strings.Join(parts, " ")
}

func (g *Game) drawServeHint(c core.Canvas, vp core.Size) {
	if !g.settings.Current().UI.ShowHelp {
		return
	}
	for p := 0; p < g.players; p++ {
		idx := g.slots[p].Primary
		if !g.slots[p].Active || idx < 0 || idx >= len(g.balls) || !g.balls[idx].Attached {
			continue
		}
		centerText(c, vp, vp.H-lineH, "Serve to launch", core.ColorGray)
		return
	}
}

func (g *Game) drawMenu(c core.Canvas, vp core.Size, s menuState) {
	items := g.menuItems()
	rows := make([]string, len(items))
	for i, it := range items {
		rows[i] = g.menuLabel(it)
	}
	drawPanel(c, vp, "BRICK ARCADE", rows, s.cursor)
}

func (g *Game) drawSettings(c core.Canvas, vp core.Size, s settingsState) {
	pending := g.settings.Pending()
	rows := make([]string, 0, settingsRowCount())
	for _, r := range settingRows {
		rows = append(rows, fmt.Sprintf("%-14s %s", r.label, r.value(pending)))
	}
	rows = append(rows, rowApply, rowCancel)
	drawPanel(c, vp, "SETTINGS", rows, s.cursor)
}

func (g *Game) drawHighScores(c core.Canvas, vp core.Size, s highScoresState) {
	var rows []string
	switch {
	case s.err:
		rows = []string{"Scores unavailable"}
	case len(s.entries) == 0:
		rows = []string{"No scores yet"}
	}
	for i, e := range s.entries {
		rows = append(rows, fmt.Sprintf("%2d. %-*s %7d  L%-3d %dP %s",
			i+1, g.cfg.Gameplay.NameMaxLen, e.Name, e.Score, e.Level+1, e.Players, e.Difficulty))
	}
	drawPanel(c, vp, "HIGH SCORES", rows, -1)
}

func (g *Game) drawNameEntry(c core.Canvas, vp core.Size, s nameEntryState) {
	name := []rune(string(s.name))
	for len(name) < g.cfg.Gameplay.NameMaxLen {
		name = append(name, '_')
	}
	marker := strings.Repeat(" ", s.cursor) + "^"
	drawPanel(c, vp, "NEW HIGH SCORE", []string{
		fmt.Sprintf("Score %d", s.score),
		string(name),
		marker,
	}, -1)
}

// drawPanel draws a titled, centred box of rows. cursor < 0 hides the marker.
func drawPanel(c core.Canvas, vp core.Size, title string, rows []string, cursor int) {
	width := c.MeasureText(title)
	for _, r := range rows {
		width = max(width, c.MeasureText("> "+r))
	}
	width += 4 * core.CellW
	height := float64(len(rows)+4) * lineH

	box := core.RectF{X: (vp.W - width) / 2, Y: (vp.H - height) / 2, W: width, H: height}
	c.FillRect(box, core.ColorBackground)
	c.StrokeRect(box, core.ColorWhite)
	centerText(c, vp, box.Y+lineH, title, core.ColorBrightYellow)

	for i, r := range rows {
		y := box.Y + float64(i+3)*lineH
		col := core.ColorWhite
		prefix := "  "
		if i == cursor {
			col = core.ColorBrightCyan
			prefix = "> "
		}
		c.DrawText(box.X+2*core.CellW, y, prefix+r, col)
	}
}

func centerText(c core.Canvas, vp core.Size, y float64, text string, col core.Color) {
	c.DrawText((vp.W-c.MeasureText(text))/2, y, text, col)
}
