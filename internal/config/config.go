// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

import "time"

// MergeConfig contains all configuration for the fruit merge game.
// Lengths are world units; the world is Board.Width x Board.Height with Y
// growing downward.
type MergeConfig struct {
	Board      MergeBoard       `yaml:"board"`
	Spawn      MergeSpawn       `yaml:"spawn"`
	Controls   MergeControls    `yaml:"controls"`
	Physics    MergePhysics     `yaml:"physics"`
	Ranks      []RankConfig     `yaml:"ranks"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// MergeBoard defines the container geometry.
type MergeBoard struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Wall     float64 `yaml:"wall"`       // Thickness of the left and right walls
	Ground   float64 `yaml:"ground"`     // Thickness of the floor
	TopLineY float64 `yaml:"top_line_y"` // Height of the game-over sensor line
}

// InnerLeft returns the x coordinate of the left wall's inner face.
func (b MergeBoard) InnerLeft() float64 {
	return b.Wall
}

// InnerRight returns the x coordinate of the right wall's inner face.
func (b MergeBoard) InnerRight() float64 {
	return b.Width - b.Wall
}

// Floor returns the y coordinate of the floor surface.
func (b MergeBoard) Floor() float64 {
	return b.Height - b.Ground
}

// MergeSpawn defines where and how new pieces appear.
type MergeSpawn struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Pool int     `yaml:"pool"` // Number of lowest ranks eligible for spawning
}

// MergeControls defines input timing.
type MergeControls struct {
	MoveStep       float64 `yaml:"move_step"`        // Units per movement firing
	MoveIntervalMS int     `yaml:"move_interval_ms"` // Period of the movement task
	HoldTicks      int     `yaml:"hold_ticks"`       // Ticks a direction stays held without a repeat
	CooldownMS     int     `yaml:"cooldown_ms"`      // Delay between a drop and the next spawn
}

// MoveInterval returns the movement period as a duration.
func (c MergeControls) MoveInterval() time.Duration {
	return time.Duration(c.MoveIntervalMS) * time.Millisecond
}

// Cooldown returns the drop cooldown as a duration.
func (c MergeControls) Cooldown() time.Duration {
	return time.Duration(c.CooldownMS) * time.Millisecond
}

// MergePhysics defines the simulation parameters.
type MergePhysics struct {
	Gravity     float64 `yaml:"gravity"`     // Acceleration in units/s^2
	Restitution float64 `yaml:"restitution"` // Bounciness, 0..1
	Friction    float64 `yaml:"friction"`    // Tangential damping on contact, 0..1
	Iterations  int     `yaml:"iterations"`  // Solver passes per step
}

// RankConfig is one entry of the fruit progression.
type RankConfig struct {
	Label  string  `yaml:"label"`
	Radius float64 `yaml:"radius"`
	Color  string  `yaml:"color"`
	Points int     `yaml:"points"` // Awarded when a merge produces this rank
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	GravityMultiplier float64 `yaml:"gravity_multiplier"` // Added to gravity at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string onto a preset. Unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
