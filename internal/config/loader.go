package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadMerge loads the fruit merge configuration.
// Search order: customPath -> ~/.arcade/configs/merge.yaml -> ./configs/merge.yaml -> embedded default.
// Files may override any subset of fields; unspecified fields keep their defaults.
func LoadMerge(customPath string) (MergeConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return MergeConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := ParseMerge(data)
		if err != nil {
			return MergeConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// User and local files are best-effort: a broken file falls through.
	if userCfgPath := userConfigPath("merge.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseMerge(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "merge.yaml")); err == nil {
		if cfg, err := ParseMerge(data); err == nil {
			return cfg, nil
		}
	}

	return embeddedMerge(), nil
}

// ParseMerge validates a YAML document against the config schema and decodes
// it on top of the defaults.
func ParseMerge(data []byte) (MergeConfig, error) {
	cfg := embeddedMerge()

	if err := validateSchema(data); err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// embeddedMerge decodes the embedded YAML, falling back to the hard-coded
// defaults if that fails.
func embeddedMerge() MergeConfig {
	var cfg MergeConfig
	if err := yaml.Unmarshal(defaultMergeYAML, &cfg); err != nil {
		return DefaultMergeConfig()
	}
	return cfg
}

// DumpMerge renders a configuration as YAML.
func DumpMerge(cfg MergeConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: failed to encode: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyMergePreset modifies the config based on a difficulty preset.
func ApplyMergePreset(cfg *MergeConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Presets also tune the spawn pool and the drop cooldown
	switch preset {
	case DifficultyEasy:
		cfg.Spawn.Pool = min(cfg.Spawn.Pool, 4)
	case DifficultyHard:
		cfg.Controls.CooldownMS = cfg.Controls.CooldownMS * 3 / 4
	}
}
