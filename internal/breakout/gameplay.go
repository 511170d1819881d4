package breakout

import (
	"math"

	"github.com/vovakirdan/brick-arcade/internal/core"
	"github.com/vovakirdan/brick-arcade/internal/settings"
)

// updatePlaying runs one gameplay tick in fixed order: paddles, serve,
// balls and collisions, power-ups, then the level-clear check.
func (g *Game) updatePlaying(dt float64, inputs [core.MaxPlayers]core.PlayerInput) {
	for p := 0; p < g.players; p++ {
		ctl := g.slots[p].Controls
		if ctl.Pause.Pressed() || ctl.Back.Pressed() {
			g.fire(evPause{})
			return
		}
	}
	g.playTime += dt

	g.updatePaddles(dt, inputs)
	g.updateServe(inputs)
	if g.updateBalls(dt) {
		return
	}
	g.compactBalls()
	g.updatePowerUps(dt)
	g.checkLevelClear()
}

// updatePaddles moves each paddle from its player's axis or touch and
// derives the paddle velocity from the movement.
func (g *Game) updatePaddles(dt float64, inputs [core.MaxPlayers]core.PlayerInput) {
	for p := 0; p < g.players; p++ {
		pad := &g.paddles[p]
		lane := g.lane(p)
		oldX := pad.Rect.X
		step := pad.Speed * dt

		x := oldX + inputs[p].Axis()*step
		if t, ok := lastTouch(inputs[p]); ok && t.Phase != core.TouchEnded {
			want := t.X - pad.Rect.W/2
			x = oldX + core.ClampF(want-oldX, -step, step)
		}
		x = core.ClampF(x, lane.X, lane.Right()-pad.Rect.W)

		pad.Rect.X = x
		pad.Vel = 0
		if dt > 0 {
			pad.Vel = (x - oldX) / dt
		}
	}
}

func lastTouch(in core.PlayerInput) (core.TouchEvent, bool) {
	if len(in.Touches) == 0 {
		return core.TouchEvent{}, false
	}
	return in.Touches[len(in.Touches)-1], true
}

func tapped(in core.PlayerInput) bool {
	t, ok := lastTouch(in)
	return ok && t.Phase == core.TouchEnded
}

// updateServe handles catch arming, catch release and serve launches, and
// keeps attached balls riding their paddle.
func (g *Game) updateServe(inputs [core.MaxPlayers]core.PlayerInput) {
	for p := 0; p < g.players; p++ {
		s := &g.slots[p]
		if !s.Active {
			continue
		}
		ctl := s.Controls

		if ctl.Catch.Pressed() {
			s.CatchArmed = true
		}
		if ctl.Catch.Released() {
			if s.IgnoreRelease {
				s.IgnoreRelease = false
			} else {
				s.CatchArmed = false
				g.launchAttached(p, true)
			}
		}
		if !ctl.Catch.Held() {
			s.IgnoreRelease = false
		}
		if ctl.Serve.Pressed() || tapped(inputs[p]) {
			g.launchAttached(p, false)
		}
	}

	for i := range g.balls {
		b := &g.balls[i]
		if b.Attached && !b.Parked {
			g.attach(b, b.Owner, b.AttachOffset)
		}
	}
}

// launchAttached launches player p's attached balls; caughtOnly limits it
// to balls held by the catch mechanic.
func (g *Game) launchAttached(p int, caughtOnly bool) {
	for i := range g.balls {
		b := &g.balls[i]
		if !b.Attached || b.Owner != p || b.Parked {
			continue
		}
		if caughtOnly && !b.Caught {
			continue
		}
		g.launch(b, p)
	}
}

// launch serves b from player p's paddle at a reduced speed that ramps up.
func (g *Game) launch(b *Ball, p int) {
	pad := g.paddles[p]
	target := g.targetSpeed()
	sv := g.cfg.Serve

	angle := serveAngle(pad.Vel, sv.MomentumFactor, target, degToRad(sv.MaxAngleDeg))
	b.Vel = launchVelocity(angle, target*sv.StartFactor)
	b.Attached = false
	b.Caught = false
	startRamp(b, sv.StartFactor, sv.RampSeconds)
	g.cue(core.CuePaddleHit)
}

// updateBalls integrates and collides every free ball. It returns true if
// a ball loss ended the game, in which case the frame stops at once.
func (g *Game) updateBalls(dt float64) bool {
	target := g.targetSpeed()
	bp := bounceParams{
		English:     g.cfg.Physics.PaddleEnglish,
		Momentum:    g.cfg.Physics.PaddleMomentum,
		MinAngleRad: degToRad(g.cfg.Physics.MinBounceAngleDeg),
	}

	for i := range g.balls {
		b := &g.balls[i]
		if b.Parked || b.lost || b.Attached {
			continue
		}

		advanceRamp(b, dt, target)
		integrate(b, dt)
		if collideWalls(b, g.field) {
			g.cue(core.CueWallHit)
		}
		g.collidePaddles(i, bp)
		g.collideBricks(b)

		if !fellOut(*b, g.field) {
			continue
		}
		if b.Extra {
			b.lost = true
			continue
		}
		if g.loseLife(b.Owner) {
			return true
		}
	}
	return false
}

// collidePaddles bounces or catches ball i on the first paddle it touches.
// Only descending balls collide so a ball is never bounced twice.
func (g *Game) collidePaddles(i int, bp bounceParams) {
	b := &g.balls[i]
	if b.Vel.Y <= 0 {
		return
	}
	for p := 0; p < g.players; p++ {
		pad := g.paddles[p]
		if !b.Bounds().Intersects(pad.Rect) {
			continue
		}
		s := &g.slots[p]
		if s.CatchArmed && s.Active && b.Owner == p && s.Primary == i {
			b.Caught = true
			b.Vel = core.Vec{}
			b.rampDuration = 0
			g.attach(b, p, b.Pos.X-pad.Center().X)
			s.CatchArmed = false
		} else {
			bounceOffPaddle(b, pad, bp)
		}
		g.cue(core.CuePaddleHit)
		return
	}
}

// collideBricks resolves the first alive brick the ball overlaps. In owned
// mode a ball still bounces off other players' bricks but cannot damage them.
func (g *Game) collideBricks(b *Ball) {
	box := b.Bounds()
	for j := range g.bricks {
		br := &g.bricks[j]
		if !br.Alive() || !box.Intersects(br.Bounds) {
			continue
		}
		resolveBrick(b, br.Bounds)
		if g.owned && br.Owner >= 0 && br.Owner != b.Owner {
			g.cue(core.CueWallHit)
			return
		}
		g.damageBrick(br, b.Owner)
		return
	}
}

// damageBrick removes one hit point, scores it and handles destruction.
func (g *Game) damageBrick(br *Brick, scorer int) {
	mult := g.power.Effects.Scale(EffectScore)
	br.HP--
	points := float64(g.cfg.Scoring.HitPoints) * mult

	if br.Alive() {
		g.cue(core.CueBrickHit)
	} else {
		points += float64(g.cfg.Scoring.BreakBonusPerHP*br.MaxHP) * mult
		g.power.RollDrop(g.difficulty.Preset().DropChance, br.Bounds.Center(), g.difficulty.InfiniteLives())
		g.cue(core.CueBrickBreak)
	}
	if scorer >= 0 && scorer < core.MaxPlayers {
		g.slots[scorer].Score += int(math.Round(points))
	}
}

// updatePowerUps expires effects, spawns owed Extra-Life drops, moves
// pickups and applies the ones paddles collect.
func (g *Game) updatePowerUps(dt float64) {
	for _, kind := range g.power.Effects.Tick(dt) {
		g.effectChanged(kind)
	}

	for _, p := range g.pendingLives {
		lane := g.lane(p)
		g.power.Spawn(ExtraLife, core.Vec{X: lane.X + lane.W/2, Y: g.field.Y + g.cfg.Grid.TopMargin}, p)
	}
	g.pendingLives = g.pendingLives[:0]

	g.power.Update(dt, g.field)
	for p := 0; p < g.players; p++ {
		for _, pu := range g.power.Collect(g.paddles[p].Rect) {
			g.applyPowerUp(pu, p)
		}
	}
}

// effectChanged reacts to a timed effect starting or ending.
func (g *Game) effectChanged(kind EffectKind) {
	switch kind {
	case EffectPaddle:
		g.resizePaddles()
	case EffectSpeed:
		g.renormalizeBalls()
	}
}

// renormalizeBalls sets every free ball to the current target speed
// without changing its direction. Ramping balls pick it up on their own.
func (g *Game) renormalizeBalls() {
	target := g.targetSpeed()
	for i := range g.balls {
		b := &g.balls[i]
		if b.Attached || b.Parked || b.Ramping() {
			continue
		}
		b.Vel = b.Vel.WithLen(target)
	}
}

// applyPowerUp applies a pickup collected by player collector.
func (g *Game) applyPowerUp(pu PowerUp, collector int) {
	pc := g.cfg.PowerUps
	g.cue(core.CuePowerUp)

	switch pu.Type {
	case ExpandPaddle:
		g.power.Effects.Extend(EffectPaddle, pc.PaddleDuration, pc.PaddleScale)
		g.effectChanged(EffectPaddle)
	case SlowBall:
		g.power.Effects.Extend(EffectSpeed, pc.SpeedDuration, pc.SlowScale)
		g.effectChanged(EffectSpeed)
	case FastBall:
		g.power.Effects.Extend(EffectSpeed, pc.SpeedDuration, pc.FastScale)
		g.effectChanged(EffectSpeed)
	case ScoreBoost:
		g.power.Effects.Extend(EffectScore, pc.ScoreDuration, pc.ScoreScale)
	case MultiBall:
		g.spawnMultiBall()
	case ScoreBurst:
		g.slots[collector].Score += g.burstPoints()
	case ExtraLife:
		target := collector
		if pu.Target >= 0 && pu.Target < g.players {
			target = pu.Target
		}
		g.grantExtraLife(target)
	}
}

func (g *Game) burstPoints() int {
	return g.cfg.Scoring.BurstPoints * (1 + g.level/10)
}

// spawnMultiBall launches one extra ball from each active paddle, fanned
// out by a small angle per player.
// extraBallColors tints multi-ball extras a shade darker than their
// owner's paddle so they read apart from the primary ball.
var extraBallColors = [core.MaxPlayers]core.Color{core.ColorCyan, core.ColorMagenta, core.ColorGreen, core.ColorYellow}

func (g *Game) spawnMultiBall() {
	n := g.activeCount()
	if n == 0 {
		return
	}
	target := g.targetSpeed()
	spread := degToRad(g.cfg.PowerUps.MultiSpreadDeg)
	r := g.cfg.Physics.BallRadius

	k := 0
	for p := 0; p < g.players; p++ {
		if !g.slots[p].Active {
			continue
		}
		pad := g.paddles[p]
		angle := spread * (float64(k) - float64(n-1)/2 + 0.5)
		g.balls = append(g.balls, Ball{
			Pos:    core.Vec{X: pad.Center().X, Y: pad.Rect.Y - r - 1},
			Vel:    launchVelocity(angle, target),
			Radius: r,
			Owner:  p,
			Extra:  true,

			Color:    extraBallColors[p],
			HasColor: true,
		})
		k++
	}
}

// checkLevelClear ends the level once no brick is left alive. Bricks of
// downed players become shared, so every brick is always clearable.
func (g *Game) checkLevelClear() {
	for _, br := range g.bricks {
		if br.Alive() {
			return
		}
	}
	gs := g.settings.Current().Gameplay
	g.fire(evLevelCleared{
		level:  g.level,
		delay:  gs.InterstitialSeconds,
		prompt: gs.ContinueMode == settings.ContinuePrompt,
	})
}
