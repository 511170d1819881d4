package breakout

import (
	"github.com/vovakirdan/brick-arcade/internal/core"
)

// Paddle is one player's paddle. Its width is fixed for the lifetime of the
// value; resizing builds a new Paddle with withWidth.
type Paddle struct {
	Rect  core.RectF // top-left position and size
	Speed float64    // px/s at full deflection
	Vel   float64    // horizontal velocity derived from last frame's movement
}

// Center returns the paddle's centre point.
func (p Paddle) Center() core.Vec {
	return p.Rect.Center()
}

// withWidth returns a new paddle of width w around the same centre.
func (p Paddle) withWidth(w float64) Paddle {
	c := p.Center()
	return Paddle{
		Rect:  core.RectF{X: c.X - w/2, Y: p.Rect.Y, W: w, H: p.Rect.H},
		Speed: p.Speed,
		Vel:   p.Vel,
	}
}

// Ball is a moving ball. Pos is its centre.
type Ball struct {
	Pos    core.Vec
	Vel    core.Vec
	Radius float64
	Owner  int
	Extra  bool

	// Color overrides the owner colour when HasColor is set.
	Color    core.Color
	HasColor bool

	// Attached balls ride on the owner's paddle at AttachOffset from its centre.
	Attached     bool
	Caught       bool // attached by the catch mechanic rather than a serve
	AttachOffset float64

	// Parked marks the primary ball of a downed player.
	Parked bool

	// Launch ramp: speed eases from rampFrom×target to target.
	rampElapsed  float64
	rampDuration float64
	rampFrom     float64

	lost bool // removed at the end of the ball pass
}

// Bounds returns the ball's bounding box.
func (b Ball) Bounds() core.RectF {
	return core.RectF{X: b.Pos.X - b.Radius, Y: b.Pos.Y - b.Radius, W: 2 * b.Radius, H: 2 * b.Radius}
}

// Ramping reports whether the ball is still easing to its target speed.
func (b Ball) Ramping() bool {
	return b.rampDuration > 0
}

// Brick is a destructible block. Palette runs toughest to weakest.
type Brick struct {
	Bounds  core.RectF
	HP      int
	MaxHP   int
	Palette []core.Color
	Owner   int // -1 = shared
	Row     int
	Col     int
}

// Alive reports whether the brick still has hit points.
func (b Brick) Alive() bool {
	return b.HP > 0
}

// Color picks the palette entry for the current hit points.
func (b Brick) Color() core.Color {
	if len(b.Palette) == 0 {
		return core.ColorDefault
	}
	i := core.Clamp(len(b.Palette)-b.HP, 0, len(b.Palette)-1)
	return b.Palette[i]
}

// PowerUp is a falling pickup.
type PowerUp struct {
	Type   PowerUpType
	Pos    core.Vec // top-left
	Size   core.Vec
	VelY   float64
	Alive  bool
	Target int // player credited regardless of collector, -1 for the collector
}

// Bounds returns the pickup's box.
func (p PowerUp) Bounds() core.RectF {
	return core.RectF{X: p.Pos.X, Y: p.Pos.Y, W: p.Size.X, H: p.Size.Y}
}

// PlayerSlot is all per-player state of a running game.
type PlayerSlot struct {
	Joined  bool
	Lives   int
	Score   int
	Active  bool // false once downed
	Primary int  // index into Game.balls

	CatchArmed    bool
	IgnoreRelease bool // drop the next catch release (set on resume with catch held)

	Controls core.Controls
}

var brickPalette = []core.Color{
	core.ColorBrightMagenta,
	core.ColorMagenta,
	core.ColorRed,
	core.ColorOrange,
	core.ColorYellow,
	core.ColorGreen,
}

// ownerPalette colours owned bricks by player, darker while tougher.
func ownerPalette(owner int) []core.Color {
	if owner < 0 || owner >= core.MaxPlayers {
		return brickPalette
	}
	return []core.Color{core.ColorGray, core.PlayerColors[owner]}
}
