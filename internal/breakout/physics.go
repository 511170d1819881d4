package breakout

import (
	"math"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

// Axis identifies which velocity component a collision reflected.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

// integrate advances the ball by explicit Euler.
func integrate(b *Ball, dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}

// collideWalls reflects the ball off the left, right and top bounds of the
// field, snapping it back inside. The bottom is open.
func collideWalls(b *Ball, field core.RectF) bool {
	hit := false
	if b.Pos.X-b.Radius < field.X {
		b.Pos.X = field.X + b.Radius
		b.Vel.X = math.Abs(b.Vel.X)
		hit = true
	} else if b.Pos.X+b.Radius > field.Right() {
		b.Pos.X = field.Right() - b.Radius
		b.Vel.X = -math.Abs(b.Vel.X)
		hit = true
	}
	if b.Pos.Y-b.Radius < field.Y {
		b.Pos.Y = field.Y + b.Radius
		b.Vel.Y = math.Abs(b.Vel.Y)
		hit = true
	}
	return hit
}

// fellOut reports whether the ball has fully left the bottom of the field.
func fellOut(b Ball, field core.RectF) bool {
	return b.Pos.Y-b.Radius > field.Bottom()
}

// bounceParams tunes paddle bounces.
type bounceParams struct {
	English     float64 // px/s per unit of normalized hit offset
	Momentum    float64 // share of paddle velocity transferred
	MinAngleRad float64 // minimum angle above horizontal
}

// hitOffset returns where the ball struck the paddle, -1 (left edge) to 1 (right edge).
func hitOffset(b Ball, p Paddle) float64 {
	half := p.Rect.W / 2
	if half <= 0 {
		return 0
	}
	return core.ClampF((b.Pos.X-p.Center().X)/half, -1, 1)
}

// bounceOffPaddle snaps the ball above the paddle and sends it upward.
// X gains english from the hit offset plus some paddle momentum; the
// speed magnitude is kept and the result never flattens below the
// minimum angle.
func bounceOffPaddle(b *Ball, p Paddle, bp bounceParams) {
	speed := b.Vel.Len()
	b.Pos.Y = p.Rect.Y - b.Radius

	v := core.Vec{
		X: b.Vel.X + hitOffset(*b, p)*bp.English + p.Vel*bp.Momentum,
		Y: -math.Abs(b.Vel.Y),
	}
	if speed == 0 {
		b.Vel = v
		return
	}
	v = v.WithLen(speed)

	minRise := speed * math.Sin(bp.MinAngleRad)
	if -v.Y < minRise {
		v.Y = -minRise
		v.X = math.Copysign(speed*math.Cos(bp.MinAngleRad), v.X)
	}
	b.Vel = v
}

// resolveBrick pushes the ball out of r along the axis of least penetration
// and reflects that velocity component only. Ties resolve vertically.
func resolveBrick(b *Ball, r core.RectF) Axis {
	box := b.Bounds()
	if !box.Intersects(r) {
		return AxisNone
	}

	fromLeft := box.Right() - r.X
	fromRight := r.Right() - box.X
	fromTop := box.Bottom() - r.Y
	fromBottom := r.Bottom() - box.Y

	penX := math.Min(fromLeft, fromRight)
	penY := math.Min(fromTop, fromBottom)

	if penX < penY {
		if fromLeft < fromRight {
			b.Pos.X -= fromLeft
			b.Vel.X = -math.Abs(b.Vel.X)
		} else {
			b.Pos.X += fromRight
			b.Vel.X = math.Abs(b.Vel.X)
		}
		return AxisX
	}

	if fromTop < fromBottom {
		b.Pos.Y -= fromTop
		b.Vel.Y = -math.Abs(b.Vel.Y)
	} else {
		b.Pos.Y += fromBottom
		b.Vel.Y = math.Abs(b.Vel.Y)
	}
	return AxisY
}

// serveAngle blends paddle motion into a launch angle from vertical, in
// radians. Positive tilts right. The magnitude never exceeds maxAngle.
func serveAngle(paddleVx, momentum, targetSpeed, maxAngle float64) float64 {
	if targetSpeed <= 0 {
		return 0
	}
	limit := math.Sin(maxAngle)
	return math.Asin(core.ClampF(paddleVx*momentum/targetSpeed, -limit, limit))
}

// launchVelocity turns an angle from vertical into an upward velocity.
func launchVelocity(angle, speed float64) core.Vec {
	return core.Vec{X: math.Sin(angle) * speed, Y: -math.Cos(angle) * speed}
}

// startRamp begins easing b from from×target up to target over d seconds.
func startRamp(b *Ball, from, d float64) {
	b.rampElapsed = 0
	b.rampDuration = d
	b.rampFrom = from
}

// advanceRamp moves the launch ramp forward and rescales the velocity.
func advanceRamp(b *Ball, dt, target float64) {
	if b.rampDuration <= 0 {
		return
	}
	b.rampElapsed += dt
	t := b.rampElapsed / b.rampDuration
	if t >= 1 {
		b.rampDuration = 0
		b.Vel = b.Vel.WithLen(target)
		return
	}
	b.Vel = b.Vel.WithLen(target * core.Lerp(b.rampFrom, 1, core.Smoothstep(t)))
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180
}
