package breakout

import (
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
)

// gameplaySeedSalt separates the gameplay RNG stream from level seeds.
const gameplaySeedSalt = 0x5deece66d

// startSession snapshots the gameplay settings and builds a fresh game at level.
func (g *Game) startSession(level int) {
	gs := g.settings.Current().Gameplay
	g.players = core.Clamp(gs.Players, 1, core.MaxPlayers)
	g.difficulty = config.Difficulty(gs.Difficulty).Clamp()
	g.owned = gs.OwnedBricks && g.players > 1
	g.baseSeed = gs.Seed
	if g.seed != 0 {
		g.baseSeed = g.seed
	}
	g.level = max(level, 0)
	g.playTime = 0
	g.power = NewPowerUpManager(g.cfg.PowerUps, g.baseSeed^gameplaySeedSalt)
	g.pendingLives = g.pendingLives[:0]
	g.balls = g.balls[:0]

	preset := g.difficulty.Preset()
	for i := range g.slots {
		ctl := g.slots[i].Controls
		g.slots[i] = PlayerSlot{Controls: ctl, Primary: -1}
		if i >= g.players {
			continue
		}
		lives := preset.StartingLives
		if g.difficulty.InfiniteLives() {
			lives = 1
		}
		g.slots[i].Joined = true
		g.slots[i].Lives = lives
		g.slots[i].Active = true
	}

	g.buildPaddles()
	for p := 0; p < g.players; p++ {
		g.balls = append(g.balls, Ball{Owner: p, Radius: g.cfg.Physics.BallRadius})
		g.slots[p].Primary = len(g.balls) - 1
		g.resetPrimary(p)
	}
	g.loadLevel()

	g.log.Info("game started",
		"players", g.players, "difficulty", g.difficulty, "owned", g.owned,
		"seed", g.baseSeed, "level", g.level)
}

// loadLevel generates and places the bricks for the current level.
func (g *Game) loadLevel() {
	g.layout = GenerateLevel(g.cfg.Grid, LevelParams{
		Seed:       g.baseSeed,
		Level:      g.level,
		Difficulty: g.difficulty,
		Players:    g.players,
		Owned:      g.owned,
		Field:      g.field,
	})
	g.bricks = BuildBricks(g.cfg.Grid, g.layout, g.field)
	for p := 0; p < g.players; p++ {
		if !g.slots[p].Active {
			g.shareBricks(p)
		}
	}
	g.log.Debug("level loaded",
		"level", g.level, "bricks", len(g.bricks), "target", g.layout.Target,
		"grid", g.layout.Rows*g.layout.Cols, "stamp", g.layout.StampName)
}

// advanceLevel moves to the next level. Extra balls and falling pickups
// are discarded; timed effects carry over.
func (g *Game) advanceLevel() {
	g.level++
	if g.difficulty.AllowsLevelRespawn() {
		for p := 0; p < g.players; p++ {
			if s := g.slots[p]; !s.Active && s.Lives > 0 {
				g.revive(p)
			}
		}
	}

	for i := range g.balls {
		if g.balls[i].Extra {
			g.balls[i].lost = true
		}
	}
	g.compactBalls()
	g.power.ClearDrops()

	for p := 0; p < g.players; p++ {
		if g.slots[p].Active {
			g.resetPrimary(p)
		}
	}
	g.loadLevel()
}

// lane is the horizontal strip player p's paddle is confined to.
func (g *Game) lane(p int) core.RectF {
	n := max(g.players, 1)
	w := g.field.W / float64(n)
	return core.RectF{X: g.field.X + float64(p)*w, Y: g.field.Y, W: w, H: g.field.H}
}

func (g *Game) paddleWidth(p int) float64 {
	w := g.cfg.Paddle.Width * g.power.Effects.Scale(EffectPaddle)
	return min(w, g.lane(p).W)
}

// buildPaddles creates a paddle centred in each player's lane.
func (g *Game) buildPaddles() {
	speed := g.difficulty.Preset().PaddleSpeed
	y := g.field.Bottom() - g.cfg.Paddle.BottomOffset
	for p := 0; p < g.players; p++ {
		lane := g.lane(p)
		w := g.paddleWidth(p)
		g.paddles[p] = Paddle{
			Rect:  core.RectF{X: lane.X + (lane.W-w)/2, Y: y, W: w, H: g.cfg.Paddle.Height},
			Speed: speed,
		}
	}
}

// resizePaddles swaps each paddle for one of the current effective width.
func (g *Game) resizePaddles() {
	for p := 0; p < g.players; p++ {
		pad := g.paddles[p].withWidth(g.paddleWidth(p))
		lane := g.lane(p)
		pad.Rect.X = core.ClampF(pad.Rect.X, lane.X, lane.Right()-pad.Rect.W)
		g.paddles[p] = pad
	}
}

// relayout rescales entities after the field changed from old.
func (g *Game) relayout(old core.RectF) {
	if old.W <= 0 || old.H <= 0 {
		return
	}
	sx, sy := g.field.W/old.W, g.field.H/old.H

	g.buildPaddles()
	for i := range g.balls {
		b := &g.balls[i]
		if b.Parked {
			continue
		}
		b.Pos = core.Vec{X: b.Pos.X * sx, Y: b.Pos.Y * sy}
	}
	for i := range g.power.Drops {
		d := &g.power.Drops[i]
		d.Pos = core.Vec{X: d.Pos.X * sx, Y: d.Pos.Y * sy}
	}
	geo := newGridGeometry(g.cfg.Grid, g.field, g.layout.Cols)
	for i := range g.bricks {
		g.bricks[i].Bounds = geo.cell(g.bricks[i].Row, g.bricks[i].Col)
	}
}

// targetSpeed is the current full ball speed.
func (g *Game) targetSpeed() float64 {
	p := g.difficulty.Preset()
	return (p.BallBaseSpeed + float64(g.level)*p.SpeedRampPerLevel) * g.power.Effects.Scale(EffectSpeed)
}

// resetPrimary puts player p's primary ball back on their paddle, serving.
func (g *Game) resetPrimary(p int) {
	idx := g.slots[p].Primary
	if idx < 0 || idx >= len(g.balls) {
		return
	}
	b := &g.balls[idx]
	b.Parked = false
	b.lost = false
	b.Caught = false
	b.Vel = core.Vec{}
	b.rampDuration = 0
	g.attach(b, p, 0)
}

// attach pins b to player p's paddle at offset from its centre.
func (g *Game) attach(b *Ball, p int, offset float64) {
	pad := g.paddles[p]
	b.Attached = true
	b.AttachOffset = core.ClampF(offset, -pad.Rect.W/2, pad.Rect.W/2)
	b.Pos = core.Vec{X: pad.Center().X + b.AttachOffset, Y: pad.Rect.Y - b.Radius}
}

// activeCount returns how many players are still in play.
func (g *Game) activeCount() int {
	n := 0
	for _, s := range g.slots {
		if s.Joined && s.Active {
			n++
		}
	}
	return n
}

// loseLife handles the loss of player p's primary ball. It returns true
// when the loss ended the game and the frame must stop.
func (g *Game) loseLife(p int) bool {
	s := &g.slots[p]
	g.cue(core.CueLifeLost)

	if g.difficulty.InfiniteLives() {
		s.Lives = 1
		g.resetPrimary(p)
		return false
	}

	s.Lives--
	if s.Lives > 0 {
		g.resetPrimary(p)
		return false
	}
	s.Lives = 0
	return g.eliminate(p)
}

// eliminate downs player p. It returns true when nobody is left.
func (g *Game) eliminate(p int) bool {
	s := &g.slots[p]
	s.Active = false
	s.CatchArmed = false

	if idx := s.Primary; idx >= 0 && idx < len(g.balls) {
		b := &g.balls[idx]
		b.Parked = true
		b.Attached = false
		b.Caught = false
		b.Vel = core.Vec{}
		b.Pos = core.Vec{X: -1000, Y: -1000}
	}
	for i := range g.balls {
		if g.balls[i].Extra && g.balls[i].Owner == p {
			g.balls[i].lost = true
		}
	}
	g.shareBricks(p)

	if g.difficulty.ForcesExtraLife() {
		g.pendingLives = append(g.pendingLives, p)
	}
	g.log.Info("player downed", "player", p+1, "level", g.level, "score", s.Score)

	if g.activeCount() == 0 {
		g.endGame()
		return true
	}
	return false
}

// shareBricks hands a downed player's owned bricks to everyone.
func (g *Game) shareBricks(p int) {
	if !g.owned {
		return
	}
	for i := range g.bricks {
		if g.bricks[i].Owner == p {
			g.bricks[i].Owner = -1
			g.bricks[i].Palette = brickPalette
		}
	}
}

// revive brings player p back into play with at least one life.
func (g *Game) revive(p int) {
	s := &g.slots[p]
	s.Active = true
	s.Lives = max(s.Lives, 1)
	g.resetPrimary(p)
	g.log.Info("player revived", "player", p+1, "level", g.level)
}

// grantExtraLife credits player p with an Extra-Life pickup according to
// the difficulty's revival rules.
func (g *Game) grantExtraLife(p int) {
	s := &g.slots[p]
	switch {
	case g.difficulty.InfiniteLives():
		s.Score += g.burstPoints()
	case s.Active:
		s.Lives++
	case g.difficulty.AllowsPickupRevive():
		s.Lives = 1
		g.revive(p)
	case g.difficulty.AllowsLevelRespawn():
		s.Lives++
	}
}

// endGame fires the end-of-game transition with the team score.
func (g *Game) endGame() {
	total := g.TeamScore()
	qualifies := g.scores != nil && total > 0 && g.scores.Qualifies(total)
	g.fire(evGameEnded{score: total, qualifies: qualifies})
}

// compactBalls drops lost balls and re-points primary indices.
func (g *Game) compactBalls() {
	remap := make([]int, len(g.balls))
	n := 0
	for i, b := range g.balls {
		if b.lost {
			remap[i] = -1
			continue
		}
		remap[i] = n
		g.balls[n] = b
		n++
	}
	if n == len(g.balls) {
		return
	}
	g.balls = g.balls[:n]
	for p := range g.slots {
		if idx := g.slots[p].Primary; idx >= 0 && idx < len(remap) {
			g.slots[p].Primary = remap[idx]
		}
	}
}
