package breakout

import (
	"math"
	"testing"

	"github.com/vovakirdan/brick-arcade/internal/core"
)

const eps = 1e-9

func testPaddle() Paddle {
	return Paddle{Rect: core.RectF{X: 268, Y: 334, W: 104, H: 14}, Speed: 540}
}

func testBounce() bounceParams {
	return bounceParams{English: 260, Momentum: 0.25, MinAngleRad: degToRad(20)}
}

func TestCollideWalls(t *testing.T) {
	field := core.RectF{W: 640, H: 384}

	tests := []struct {
		name    string
		pos     core.Vec
		vel     core.Vec
		wantVel core.Vec
		wantHit bool
	}{
		{"left wall", core.Vec{X: 2, Y: 100}, core.Vec{X: -100, Y: 50}, core.Vec{X: 100, Y: 50}, true},
		{"right wall", core.Vec{X: 638, Y: 100}, core.Vec{X: 100, Y: 50}, core.Vec{X: -100, Y: 50}, true},
		{"ceiling", core.Vec{X: 300, Y: 3}, core.Vec{X: 40, Y: -80}, core.Vec{X: 40, Y: 80}, true},
		{"open floor", core.Vec{X: 300, Y: 390}, core.Vec{X: 0, Y: 80}, core.Vec{X: 0, Y: 80}, false},
		{"inside", core.Vec{X: 300, Y: 200}, core.Vec{X: 40, Y: 80}, core.Vec{X: 40, Y: 80}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Ball{Pos: tt.pos, Vel: tt.vel, Radius: 6}
			hit := collideWalls(&b, field)
			if hit != tt.wantHit {
				t.Errorf("hit = %v, want %v", hit, tt.wantHit)
			}
			if b.Vel != tt.wantVel {
				t.Errorf("vel = %+v, want %+v", b.Vel, tt.wantVel)
			}
			if tt.wantHit && (b.Pos.X-b.Radius < field.X || b.Pos.X+b.Radius > field.Right() || b.Pos.Y-b.Radius < field.Y) {
				t.Errorf("ball not snapped inside the field: %+v", b.Pos)
			}
		})
	}
}

func TestResolveBrickSingleAxis(t *testing.T) {
	brick := core.RectF{X: 100, Y: 100, W: 46, H: 14}

	tests := []struct {
		name     string
		pos      core.Vec
		vel      core.Vec
		wantAxis Axis
		wantVel  core.Vec
	}{
		{"from below", core.Vec{X: 123, Y: 117}, core.Vec{X: 50, Y: -200}, AxisY, core.Vec{X: 50, Y: 200}},
		{"from above", core.Vec{X: 123, Y: 97}, core.Vec{X: -50, Y: 200}, AxisY, core.Vec{X: -50, Y: -200}},
		{"from the left", core.Vec{X: 96, Y: 107}, core.Vec{X: 200, Y: 30}, AxisX, core.Vec{X: -200, Y: 30}},
		{"from the right", core.Vec{X: 149, Y: 107}, core.Vec{X: -200, Y: -30}, AxisX, core.Vec{X: 200, Y: -30}},
		{"no contact", core.Vec{X: 20, Y: 20}, core.Vec{X: 1, Y: 1}, AxisNone, core.Vec{X: 1, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Ball{Pos: tt.pos, Vel: tt.vel, Radius: 6}
			axis := resolveBrick(&b, brick)
			if axis != tt.wantAxis {
				t.Errorf("axis = %v, want %v", axis, tt.wantAxis)
			}
			if b.Vel != tt.wantVel {
				t.Errorf("vel = %+v, want %+v", b.Vel, tt.wantVel)
			}
			if axis != AxisNone && b.Bounds().Intersects(brick) {
				t.Errorf("ball still overlaps the brick at %+v", b.Pos)
			}
		})
	}
}

func TestBounceDeadCentre(t *testing.T) {
	pad := testPaddle()
	b := Ball{Pos: core.Vec{X: pad.Center().X, Y: pad.Rect.Y + 2}, Vel: core.Vec{X: 0, Y: 300}, Radius: 6}

	bounceOffPaddle(&b, pad, testBounce())

	if math.Abs(b.Vel.X) > eps || math.Abs(b.Vel.Y+300) > eps {
		t.Errorf("vel = %+v, want straight up at 300", b.Vel)
	}
	if b.Pos.Y != pad.Rect.Y-b.Radius {
		t.Errorf("ball y = %v, want snapped to %v", b.Pos.Y, pad.Rect.Y-b.Radius)
	}
}

func TestBounceKeepsSpeedAndMinAngle(t *testing.T) {
	tests := []struct {
		name    string
		offset  float64
		padVel  float64
		inVel   core.Vec
		wantDir float64 // sign of the outgoing X velocity
	}{
		{"right edge", 1, 0, core.Vec{X: 0, Y: 300}, 1},
		{"left edge", -1, 0, core.Vec{X: 0, Y: 300}, -1},
		{"fast paddle flattens", 0, 5000, core.Vec{X: 0, Y: 300}, 1},
		{"fast paddle left", 0, -5000, core.Vec{X: 100, Y: 300}, -1},
	}

	bp := testBounce()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad := testPaddle()
			pad.Vel = tt.padVel
			x := pad.Center().X + tt.offset*pad.Rect.W/2
			b := Ball{Pos: core.Vec{X: x, Y: pad.Rect.Y}, Vel: tt.inVel, Radius: 6}
			speed := tt.inVel.Len()

			bounceOffPaddle(&b, pad, bp)

			if math.Abs(b.Vel.Len()-speed) > 1e-6 {
				t.Errorf("speed = %v, want %v", b.Vel.Len(), speed)
			}
			if b.Vel.Y >= 0 {
				t.Errorf("ball not sent upward: %+v", b.Vel)
			}
			if math.Copysign(1, b.Vel.X) != tt.wantDir {
				t.Errorf("vx = %v, want sign %v", b.Vel.X, tt.wantDir)
			}
			rise := math.Asin(-b.Vel.Y / b.Vel.Len())
			if rise < bp.MinAngleRad-1e-6 {
				t.Errorf("angle above horizontal %.2f° below minimum", rise*180/math.Pi)
			}
		})
	}
}

func TestServeAngleBounded(t *testing.T) {
	maxAngle := degToRad(55)
	for _, vx := range []float64{-1e6, -2000, -300, 0, 300, 2000, 1e6} {
		a := serveAngle(vx, 0.6, 330, maxAngle)
		if math.Abs(a) > maxAngle+eps {
			t.Errorf("serveAngle(%v) = %.2f°, over the 55° limit", vx, a*180/math.Pi)
		}
		if vx != 0 && math.Copysign(1, a) != math.Copysign(1, vx) {
			t.Errorf("serveAngle(%v) = %v tilts against the paddle", vx, a)
		}
	}
	if a := serveAngle(1e6, 0.6, 330, maxAngle); math.Abs(a-maxAngle) > 1e-9 {
		t.Errorf("saturated angle = %v, want %v", a, maxAngle)
	}

	v := launchVelocity(0, 200)
	if math.Abs(v.X) > eps || math.Abs(v.Y+200) > eps {
		t.Errorf("launchVelocity(0) = %+v, want straight up", v)
	}
}

func TestLaunchRamp(t *testing.T) {
	b := Ball{Vel: launchVelocity(0, 330*0.55)}
	startRamp(&b, 0.55, 0.6)

	prev := b.Vel.Len()
	for i := 0; i < 30; i++ {
		advanceRamp(&b, 1.0/60, 330)
		if s := b.Vel.Len(); s < prev-eps {
			t.Fatalf("speed dropped during ramp: %v -> %v", prev, s)
		} else {
			prev = s
		}
	}
	if !b.Ramping() {
		t.Error("ramp finished early")
	}
	for i := 0; i < 10; i++ {
		advanceRamp(&b, 1.0/60, 330)
	}
	if b.Ramping() {
		t.Error("ramp still running after its duration")
	}
	if math.Abs(b.Vel.Len()-330) > 1e-6 {
		t.Errorf("speed after ramp = %v, want 330", b.Vel.Len())
	}
}
