package config

import (
	"fmt"
	"strings"
)

// Difficulty indexes the fixed preset table, ordered easiest to hardest.
type Difficulty int

const (
	Casual Difficulty = iota
	Beginner
	Easy
	Normal
	Hard
	Expert
	Extreme
)

// DifficultyPreset is an immutable tuple of per-difficulty tuning.
type DifficultyPreset struct {
	Name              string
	StartingLives     int
	PaddleSpeed       float64 // px/s
	BallBaseSpeed     float64 // px/s at level 0
	SpeedRampPerLevel float64 // px/s added per level
	MaxBrickHP        int
	DropChance        float64 // 0..1 per destroyed brick
	DensityScale      float64 // multiplies the base brick count
	HPDecay           float64 // exponential weight decay for brick HP draws
}

var presets = [...]DifficultyPreset{
	Casual:   {"Casual", 1, 620, 260, 4, 2, 0.30, 0.70, 2.2},
	Beginner: {"Beginner", 5, 580, 280, 6, 3, 0.26, 0.80, 1.9},
	Easy:     {"Easy", 4, 560, 300, 8, 3, 0.22, 0.90, 1.7},
	Normal:   {"Normal", 3, 540, 330, 10, 4, 0.18, 1.00, 1.5},
	Hard:     {"Hard", 3, 520, 370, 12, 5, 0.15, 1.15, 1.3},
	Expert:   {"Expert", 2, 500, 410, 14, 5, 0.12, 1.30, 1.1},
	Extreme:  {"Extreme", 1, 480, 450, 16, 6, 0.10, 1.45, 0.9},
}

// DifficultyCount is the number of presets.
const DifficultyCount = len(presets)

// Clamp maps any integer onto a valid preset index.
func (d Difficulty) Clamp() Difficulty {
	if d < Casual {
		return Casual
	}
	if d > Extreme {
		return Extreme
	}
	return d
}

// Preset returns the tuning tuple for d. Out-of-range values are clamped.
func (d Difficulty) Preset() DifficultyPreset {
	return presets[d.Clamp()]
}

func (d Difficulty) String() string {
	return d.Preset().Name
}

// InfiniteLives reports the no-lose tier, where lives stay at the sentinel value.
func (d Difficulty) InfiniteLives() bool {
	return d.Clamp() == Casual
}

// AllowsLevelRespawn reports whether downed players holding a life come
// back when the next level starts. True for Easy and below.
func (d Difficulty) AllowsLevelRespawn() bool {
	return d.Clamp() <= Easy
}

// ForcesExtraLife reports whether an elimination queues an Extra-Life pickup.
func (d Difficulty) ForcesExtraLife() bool {
	return d.AllowsLevelRespawn() && !d.InfiniteLives()
}

// AllowsPickupRevive reports whether collecting an Extra-Life revives a
// downed player on the spot. Mid tiers only.
func (d Difficulty) AllowsPickupRevive() bool {
	c := d.Clamp()
	return c >= Normal && c <= Expert
}

// ParseDifficulty accepts a preset name (case-insensitive) or its index.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	for i, p := range presets {
		if strings.EqualFold(p.Name, s) {
			return Difficulty(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= 0 && n < DifficultyCount {
		return Difficulty(n), nil
	}
	return Normal, fmt.Errorf("config: unknown difficulty %q", s)
}
