package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) error: %v", err)
	}
	if cfg != DefaultBreakoutConfig() {
		t.Errorf("embedded YAML differs from DefaultBreakoutConfig:\n%+v\n%+v", cfg, DefaultBreakoutConfig())
	}
}

func TestLoadCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("physics:\n  ball_radius: 9\ngrid:\n  density_cap: 2\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Physics.BallRadius != 9 {
		t.Errorf("BallRadius = %v, expected 9", cfg.Physics.BallRadius)
	}
	if cfg.Paddle.Width != DefaultBreakoutConfig().Paddle.Width {
		t.Errorf("unset fields should keep defaults, paddle width = %v", cfg.Paddle.Width)
	}
	if cfg.Grid.DensityCap != 0.8 {
		t.Errorf("out-of-range density cap should be sanitized, got %v", cfg.Grid.DensityCap)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestDifficultyTiers(t *testing.T) {
	tests := []struct {
		d                            Difficulty
		infinite, respawn, revive, forced bool
	}{
		{Casual, true, true, false, false},
		{Beginner, false, true, false, true},
		{Easy, false, true, false, true},
		{Normal, false, false, true, false},
		{Hard, false, false, true, false},
		{Expert, false, false, true, false},
		{Extreme, false, false, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.d.String(), func(t *testing.T) {
			if got := tc.d.InfiniteLives(); got != tc.infinite {
				t.Errorf("InfiniteLives() = %v", got)
			}
			if got := tc.d.AllowsLevelRespawn(); got != tc.respawn {
				t.Errorf("AllowsLevelRespawn() = %v", got)
			}
			if got := tc.d.AllowsPickupRevive(); got != tc.revive {
				t.Errorf("AllowsPickupRevive() = %v", got)
			}
			if got := tc.d.ForcesExtraLife(); got != tc.forced {
				t.Errorf("ForcesExtraLife() = %v", got)
			}
		})
	}
}

func TestDifficultyClampAndParse(t *testing.T) {
	if Difficulty(-3).Clamp() != Casual || Difficulty(42).Clamp() != Extreme {
		t.Error("Clamp should map out-of-range values to the table ends")
	}

	for _, in := range []string{"hard", "HARD", "4"} {
		d, err := ParseDifficulty(in)
		if err != nil || d != Hard {
			t.Errorf("ParseDifficulty(%q) = %v, %v", in, d, err)
		}
	}
	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestPresetsAreOrdered(t *testing.T) {
	for d := Beginner; d <= Extreme; d++ {
		prev, cur := (d - 1).Preset(), d.Preset()
		if cur.BallBaseSpeed <= prev.BallBaseSpeed {
			t.Errorf("%s ball speed %v should exceed %s %v", cur.Name, cur.BallBaseSpeed, prev.Name, prev.BallBaseSpeed)
		}
		if cur.MaxBrickHP < prev.MaxBrickHP {
			t.Errorf("%s max HP should not drop below %s", cur.Name, prev.Name)
		}
	}
}
