// Package config provides YAML-based tuning for the brick game and the
// fixed difficulty preset table.
package config

// BreakoutConfig holds every tunable of the simulation that is not part of
// a difficulty preset. Distances are viewport pixels, times are seconds.
type BreakoutConfig struct {
	Physics  PhysicsConfig  `yaml:"physics"`
	Paddle   PaddleConfig   `yaml:"paddle"`
	Serve    ServeConfig    `yaml:"serve"`
	Grid     GridConfig     `yaml:"grid"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	PowerUps PowerUpConfig  `yaml:"powerups"`
	Gameplay GameplayConfig `yaml:"gameplay"`
}

// PhysicsConfig defines ball integration and bounce tuning.
type PhysicsConfig struct {
	MaxFrameDelta     float64 `yaml:"max_frame_delta"`
	BallRadius        float64 `yaml:"ball_radius"`
	PaddleEnglish     float64 `yaml:"paddle_english"`      // px/s added per unit of normalized hit offset
	PaddleMomentum    float64 `yaml:"paddle_momentum"`     // share of paddle velocity passed to the ball
	MinBounceAngleDeg float64 `yaml:"min_bounce_angle_deg"` // above horizontal, after a paddle hit
}

// PaddleConfig defines paddle geometry.
type PaddleConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	BottomOffset float64 `yaml:"bottom_offset"`
}

// ServeConfig defines launch behaviour.
type ServeConfig struct {
	MomentumFactor float64 `yaml:"momentum_factor"`
	MaxAngleDeg    float64 `yaml:"max_angle_deg"`
	StartFactor    float64 `yaml:"start_factor"`
	RampSeconds    float64 `yaml:"ramp_seconds"`
}

// GridConfig defines level layout bounds and density.
type GridConfig struct {
	BrickWidth        float64 `yaml:"brick_width"`
	BrickHeight       float64 `yaml:"brick_height"`
	Gap               float64 `yaml:"gap"`
	SideMargin        float64 `yaml:"side_margin"`
	TopMargin         float64 `yaml:"top_margin"`
	MaxHeightFraction float64 `yaml:"max_height_fraction"`
	MinCols           int     `yaml:"min_cols"`
	MaxCols           int     `yaml:"max_cols"`
	MinRows           int     `yaml:"min_rows"`
	MaxRows           int     `yaml:"max_rows"`
	DensityCap        float64 `yaml:"density_cap"`
	TierBonus         int     `yaml:"tier_bonus"`
	MythicSeed        int64   `yaml:"mythic_seed"`
}

// ScoringConfig defines points awarded for brick hits.
type ScoringConfig struct {
	HitPoints       int `yaml:"hit_points"`
	BreakBonusPerHP int `yaml:"break_bonus_per_hp"`
	BurstPoints     int `yaml:"burst_points"`
}

// PowerUpConfig defines drop appearance, the type table and effect tuning.
type PowerUpConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	FallSpeed float64 `yaml:"fall_speed"`

	Weights PowerUpWeights `yaml:"weights"`

	PaddleDuration float64 `yaml:"paddle_duration"`
	PaddleScale    float64 `yaml:"paddle_scale"`
	SpeedDuration  float64 `yaml:"speed_duration"`
	SlowScale      float64 `yaml:"slow_scale"`
	FastScale      float64 `yaml:"fast_scale"`
	ScoreDuration  float64 `yaml:"score_duration"`
	ScoreScale     float64 `yaml:"score_scale"`
	MultiSpreadDeg float64 `yaml:"multi_spread_deg"`
}

// PowerUpWeights is the cumulative-probability table, one share per type.
type PowerUpWeights struct {
	ExpandPaddle float64 `yaml:"expand_paddle"`
	SlowBall     float64 `yaml:"slow_ball"`
	FastBall     float64 `yaml:"fast_ball"`
	ScoreBoost   float64 `yaml:"score_boost"`
	MultiBall    float64 `yaml:"multi_ball"`
	ScoreBurst   float64 `yaml:"score_burst"`
	ExtraLife    float64 `yaml:"extra_life"`
}

// GameplayConfig holds flow tuning.
type GameplayConfig struct {
	HighScoreSlots int `yaml:"high_score_slots"`
	NameMaxLen     int `yaml:"name_max_len"`
	MaxDebugLevel  int `yaml:"max_debug_level"`
}
