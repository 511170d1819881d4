package config

import (
	_ "embed"
)

//go:embed defaults/breakout.yaml
var defaultBreakoutYAML []byte

// DefaultBreakoutConfig returns the built-in tuning. It mirrors the
// embedded YAML and is used when that fails to parse.
func DefaultBreakoutConfig() BreakoutConfig {
	return BreakoutConfig{
		Physics: PhysicsConfig{
			MaxFrameDelta:     1.0 / 20,
			BallRadius:        6,
			PaddleEnglish:     260,
			PaddleMomentum:    0.25,
			MinBounceAngleDeg: 20,
		},
		Paddle: PaddleConfig{
			Width:        104,
			Height:       14,
			BottomOffset: 36,
		},
		Serve: ServeConfig{
			MomentumFactor: 0.6,
			MaxAngleDeg:    55,
			StartFactor:    0.55,
			RampSeconds:    0.6,
		},
		Grid: GridConfig{
			BrickWidth:        46,
			BrickHeight:       14,
			Gap:               2,
			SideMargin:        10,
			TopMargin:         48,
			MaxHeightFraction: 0.45,
			MinCols:           6,
			MaxCols:           20,
			MinRows:           4,
			MaxRows:           14,
			DensityCap:        0.8,
			TierBonus:         8,
			MythicSeed:        1337,
		},
		Scoring: ScoringConfig{
			HitPoints:       10,
			BreakBonusPerHP: 25,
			BurstPoints:     250,
		},
		PowerUps: PowerUpConfig{
			Width:     28,
			Height:    12,
			FallSpeed: 120,
			Weights: PowerUpWeights{
				ExpandPaddle: 0.22,
				SlowBall:     0.18,
				FastBall:     0.14,
				ScoreBoost:   0.18,
				MultiBall:    0.16,
				ScoreBurst:   0.08,
				ExtraLife:    0.04,
			},
			PaddleDuration: 12,
			PaddleScale:    1.5,
			SpeedDuration:  10,
			SlowScale:      0.7,
			FastScale:      1.35,
			ScoreDuration:  15,
			ScoreScale:     2,
			MultiSpreadDeg: 12,
		},
		Gameplay: GameplayConfig{
			HighScoreSlots: 10,
			NameMaxLen:     8,
			MaxDebugLevel:  99,
		},
	}
}

// DefaultYAML returns the embedded default tuning file.
func DefaultYAML() []byte {
	return defaultBreakoutYAML
}
