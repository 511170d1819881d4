package breakout

import (
	"github.com/vovakirdan/brick-arcade/internal/config"
	"github.com/vovakirdan/brick-arcade/internal/core"
)

// PowerUpType enumerates pickups.
type PowerUpType int

const (
	ExpandPaddle PowerUpType = iota
	SlowBall
	FastBall
	ScoreBoost
	MultiBall
	ScoreBurst
	ExtraLife
	powerUpCount
)

// Glyph returns the label drawn on a falling pickup.
func (p PowerUpType) Glyph() string {
	switch p {
	case ExpandPaddle:
		return "<>"
	case SlowBall:
		return "S"
	case FastBall:
		return "F"
	case ScoreBoost:
		return "x2"
	case MultiBall:
		return "M"
	case ScoreBurst:
		return "$"
	case ExtraLife:
		return "♥"
	default:
		return "?"
	}
}

// Color returns the pickup's draw colour.
func (p PowerUpType) Color() core.Color {
	switch p {
	case ExpandPaddle:
		return core.ColorBrightBlue
	case SlowBall:
		return core.ColorCyan
	case FastBall:
		return core.ColorBrightRed
	case ScoreBoost, ScoreBurst:
		return core.ColorBrightYellow
	case MultiBall:
		return core.ColorBrightWhite
	case ExtraLife:
		return core.ColorBrightMagenta
	default:
		return core.ColorDefault
	}
}

func (p PowerUpType) String() string {
	switch p {
	case ExpandPaddle:
		return "Expand"
	case SlowBall:
		return "Slow"
	case FastBall:
		return "Fast"
	case ScoreBoost:
		return "Score x2"
	case MultiBall:
		return "Multi"
	case ScoreBurst:
		return "Burst"
	case ExtraLife:
		return "Life"
	default:
		return "?"
	}
}

// EffectKind is a timed effect slot. Slow and Fast share the speed slot.
type EffectKind int

const (
	EffectPaddle EffectKind = iota
	EffectSpeed
	EffectScore
	effectCount
)

// Effect is one timed multiplier.
type Effect struct {
	Remaining float64
	Scale     float64
}

// Active reports whether the effect still has time left.
func (e Effect) Active() bool {
	return e.Remaining > 0
}

// Effects holds every timed multiplier.
type Effects [effectCount]Effect

// Extend activates kind at scale and raises its timer to at least d.
// Durations never add up.
func (e *Effects) Extend(kind EffectKind, d, scale float64) {
	fx := &e[kind]
	fx.Scale = scale
	if fx.Remaining < d {
		fx.Remaining = d
	}
}

// Tick counts timers down and returns the kinds that expired this frame.
// Expired slots go back to the baseline scale of 1.
func (e *Effects) Tick(dt float64) []EffectKind {
	var expired []EffectKind
	for k := range e {
		fx := &e[k]
		if fx.Remaining <= 0 {
			continue
		}
		fx.Remaining -= dt
		if fx.Remaining <= 0 {
			*fx = Effect{}
			expired = append(expired, EffectKind(k))
		}
	}
	return expired
}

// Scale returns the current multiplier for kind, 1 when inactive.
func (e Effects) Scale(kind EffectKind) float64 {
	if !e[kind].Active() || e[kind].Scale == 0 {
		return 1
	}
	return e[kind].Scale
}

// PowerUpManager owns falling pickups, timed effects and the gameplay RNG.
type PowerUpManager struct {
	cfg     config.PowerUpConfig
	Drops   []PowerUp
	Effects Effects
	RNG     *SimpleRNG
}

// NewPowerUpManager creates a manager seeded for gameplay rolls.
func NewPowerUpManager(cfg config.PowerUpConfig, seed int64) *PowerUpManager {
	return &PowerUpManager{cfg: cfg, RNG: NewSimpleRNG(seed)}
}

// ClearDrops removes every falling pickup.
func (m *PowerUpManager) ClearDrops() {
	m.Drops = m.Drops[:0]
}

// RollDrop rolls chance for a drop centred at pos. In no-lose play an
// Extra-Life roll becomes a Score Burst.
func (m *PowerUpManager) RollDrop(chance float64, pos core.Vec, noLose bool) bool {
	if m.RNG.Float64() >= chance {
		return false
	}
	t := m.rollType()
	if noLose && t == ExtraLife {
		t = ScoreBurst
	}
	m.Spawn(t, pos, -1)
	return true
}

// rollType picks a type from the cumulative table.
func (m *PowerUpManager) rollType() PowerUpType {
	w := m.cfg.Weights
	table := [powerUpCount]float64{
		ExpandPaddle: w.ExpandPaddle,
		SlowBall:     w.SlowBall,
		FastBall:     w.FastBall,
		ScoreBoost:   w.ScoreBoost,
		MultiBall:    w.MultiBall,
		ScoreBurst:   w.ScoreBurst,
		ExtraLife:    w.ExtraLife,
	}

	total := 0.0
	for _, v := range table {
		total += max(v, 0)
	}
	if total <= 0 {
		return ScoreBurst
	}

	x := m.RNG.Float64() * total
	for t, v := range table {
		x -= max(v, 0)
		if x < 0 {
			return PowerUpType(t)
		}
	}
	return ScoreBurst
}

// Spawn adds a pickup centred at pos. target credits a specific player,
// -1 credits whoever collects it.
func (m *PowerUpManager) Spawn(t PowerUpType, pos core.Vec, target int) {
	size := core.Vec{X: m.cfg.Width, Y: m.cfg.Height}
	m.Drops = append(m.Drops, PowerUp{
		Type:   t,
		Pos:    core.Vec{X: pos.X - size.X/2, Y: pos.Y - size.Y/2},
		Size:   size,
		VelY:   m.cfg.FallSpeed,
		Alive:  true,
		Target: target,
	})
}

// Update moves pickups down and drops those that left the field.
func (m *PowerUpManager) Update(dt float64, field core.RectF) {
	live := m.Drops[:0]
	for _, p := range m.Drops {
		if !p.Alive {
			continue
		}
		p.Pos.Y += p.VelY * dt
		if p.Pos.Y > field.Bottom() {
			continue
		}
		live = append(live, p)
	}
	m.Drops = live
}

// Collect removes and returns the pickups touching paddle.
func (m *PowerUpManager) Collect(paddle core.RectF) []PowerUp {
	var got []PowerUp
	for i := range m.Drops {
		p := &m.Drops[i]
		if p.Alive && p.Bounds().Intersects(paddle) {
			p.Alive = false
			got = append(got, *p)
		}
	}
	return got
}

// SimpleRNG is a deterministic LCG whose whole state is one word, so it
// can be captured in snapshots.
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates a new RNG with the given seed. Zero becomes 1.
func NewSimpleRNG(seed int64) *SimpleRNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &SimpleRNG{state: s}
}

// Next generates the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a random float64 in [0, 1).
func (r *SimpleRNG) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// State exposes the generator state for snapshots.
func (r *SimpleRNG) State() uint64 {
	return r.state
}
