package core

import "time"

// RuntimeConfig carries host-level knobs shared by every frontend.
type RuntimeConfig struct {
	TickRate int   // Simulation ticks per second
	Seed     int64 // Base seed for level generation; 0 keeps the settings value
	Debug    bool  // Enables the level-jump menu entry
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 60,
	}
}

// TickInterval converts the tick rate into a frame duration.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}
