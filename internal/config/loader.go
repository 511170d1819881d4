package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory holding configs, settings and scores.
const AppDir = ".brickarcade"

const configFile = "breakout.yaml"

// Load loads the tuning configuration.
// Search order: customPath -> ~/.brickarcade/configs/breakout.yaml ->
// ./configs/breakout.yaml -> embedded default -> hard-coded default.
// Files are decoded over the defaults so partial files are fine.
func Load(customPath string) (BreakoutConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultBreakoutConfig(), fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return DefaultBreakoutConfig(), fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{UserPath("configs", configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultBreakoutYAML)
	if err != nil {
		return DefaultBreakoutConfig(), nil
	}
	return cfg, nil
}

// Parse decodes YAML over the hard-coded defaults and sanitizes the result.
func Parse(data []byte) (BreakoutConfig, error) {
	cfg := DefaultBreakoutConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.sanitize()
	return cfg, nil
}

// UserPath joins parts under ~/.brickarcade, or returns "" when the home
// directory is unavailable.
func UserPath(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, AppDir}, parts...)...)
}

// sanitize replaces values that would break the simulation with defaults.
func (c *BreakoutConfig) sanitize() {
	def := DefaultBreakoutConfig()

	if c.Physics.MaxFrameDelta <= 0 {
		c.Physics.MaxFrameDelta = def.Physics.MaxFrameDelta
	}
	if c.Physics.BallRadius <= 0 {
		c.Physics.BallRadius = def.Physics.BallRadius
	}
	if c.Paddle.Width <= 0 || c.Paddle.Height <= 0 {
		c.Paddle = def.Paddle
	}
	if c.Serve.MaxAngleDeg <= 0 || c.Serve.MaxAngleDeg >= 90 {
		c.Serve.MaxAngleDeg = def.Serve.MaxAngleDeg
	}
	if c.Serve.StartFactor <= 0 || c.Serve.StartFactor > 1 {
		c.Serve.StartFactor = def.Serve.StartFactor
	}
	if c.Grid.BrickWidth <= 0 || c.Grid.BrickHeight <= 0 {
		c.Grid.BrickWidth, c.Grid.BrickHeight = def.Grid.BrickWidth, def.Grid.BrickHeight
	}
	if c.Grid.MinCols < 1 || c.Grid.MaxCols < c.Grid.MinCols {
		c.Grid.MinCols, c.Grid.MaxCols = def.Grid.MinCols, def.Grid.MaxCols
	}
	if c.Grid.MinRows < 1 || c.Grid.MaxRows < c.Grid.MinRows {
		c.Grid.MinRows, c.Grid.MaxRows = def.Grid.MinRows, def.Grid.MaxRows
	}
	if c.Grid.DensityCap <= 0 || c.Grid.DensityCap > 1 {
		c.Grid.DensityCap = def.Grid.DensityCap
	}
	if c.Gameplay.HighScoreSlots <= 0 {
		c.Gameplay.HighScoreSlots = def.Gameplay.HighScoreSlots
	}
	if c.Gameplay.NameMaxLen <= 0 {
		c.Gameplay.NameMaxLen = def.Gameplay.NameMaxLen
	}
}
