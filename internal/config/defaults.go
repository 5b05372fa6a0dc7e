package config

import (
	_ "embed"
)

//go:embed defaults/merge.yaml
var defaultMergeYAML []byte

//go:embed defaults/merge.schema.json
var mergeSchemaJSON string

// DefaultMergeConfig returns the built-in configuration. It mirrors
// defaults/merge.yaml and is used when the embedded file cannot be parsed.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		Board: MergeBoard{
			Width:    620,
			Height:   850,
			Wall:     30,
			Ground:   60,
			TopLineY: 150,
		},
		Spawn: MergeSpawn{
			X:    300,
			Y:    50,
			Pool: 5,
		},
		Controls: MergeControls{
			MoveStep:       1,
			MoveIntervalMS: 5,
			HoldTicks:      8,
			CooldownMS:     1000,
		},
		Physics: MergePhysics{
			Gravity:     2500,
			Restitution: 0.2,
			Friction:    0.1,
			Iterations:  4,
		},
		Ranks: []RankConfig{
			{Label: "cherry", Radius: 33, Color: "red", Points: 1},
			{Label: "strawberry", Radius: 48, Color: "bright_red", Points: 3},
			{Label: "grape", Radius: 61, Color: "purple", Points: 6},
			{Label: "dekopon", Radius: 69, Color: "bright_yellow", Points: 10},
			{Label: "orange", Radius: 89, Color: "orange", Points: 15},
			{Label: "apple", Radius: 114, Color: "brown", Points: 21},
			{Label: "pear", Radius: 129, Color: "yellow", Points: 28},
			{Label: "peach", Radius: 156, Color: "pink", Points: 36},
			{Label: "pineapple", Radius: 177, Color: "bright_yellow", Points: 45},
			{Label: "melon", Radius: 220, Color: "bright_green", Points: 55},
			{Label: "watermelon", Radius: 259, Color: "green", Points: 66},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 3000,
			},
			Scaling: ScalingConfig{
				GravityMultiplier: 0.6,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "merge":
		return defaultMergeYAML
	default:
		return nil
	}
}

// SchemaJSON returns the JSON schema config files are validated against.
func SchemaJSON() string {
	return mergeSchemaJSON
}
