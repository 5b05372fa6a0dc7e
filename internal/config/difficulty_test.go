package config

import (
	"math"
	"testing"
)

func TestDifficultyLevel(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{GravityMultiplier: 1.0},
	})

	tests := []struct {
		score    int
		expected float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tc := range tests {
		if got := dm.Level(tc.score, 0); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(%d) = %v, expected %v", tc.score, got, tc.expected)
		}
	}

	if got := dm.Gravity(1000, 100, 0); got != 2000 {
		t.Errorf("Gravity at max = %v, expected 2000", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:      ScalingConfig{GravityMultiplier: 2.0},
	})

	if dm.IsEnabled() {
		t.Error("manager should be disabled")
	}
	if got := dm.Level(1000, 1000); got != 0.5 {
		t.Errorf("disabled level = %v, expected initial 0.5", got)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 0},
	})

	// max_at 0 is treated as 1 to avoid division by zero
	if got := dm.Level(0, 5); got != 1.0 {
		t.Errorf("Level = %v, expected 1.0", got)
	}
}
