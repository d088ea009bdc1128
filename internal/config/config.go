// Package config decodes the engine's yaml configuration file, mirroring
// the nested-struct-with-Default convention used elsewhere in the
// surrounding ecosystem for game engine configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LogConfig configures the rolling log file backing the engine's logger.
type LogConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Console    bool   `yaml:"console"`
}

// Config holds every tunable named in the engine's external interface:
// worker pool size, streaming radii, optional world bounds, the mesher's
// lighting mode, and the save directory.
type Config struct {
	WorkerCount int `yaml:"worker_count"`

	RenderDistance int32 `yaml:"render_distance"`
	RenderHeight   int32 `yaml:"render_height"`

	WorldSizeX int32 `yaml:"world_size_x"`
	WorldSizeZ int32 `yaml:"world_size_z"`
	WorldMinY  int32 `yaml:"world_min_y"`
	WorldMaxY  int32 `yaml:"world_max_y"`

	SmoothLighting bool `yaml:"smooth_lighting"`
	SaveRoot       string `yaml:"save_root"`

	Log LogConfig `yaml:"log"`
}

// Default returns the configuration used when no file is supplied:
// unbounded world, flat lighting, a modest worker count, logging to
// stderr only.
func Default() Config {
	return Config{
		WorkerCount:    4,
		RenderDistance: 8,
		RenderHeight:   4,
		SmoothLighting: false,
		SaveRoot:       "./save",
		Log: LogConfig{
			Console: true,
		},
	}
}

// Load reads and decodes a yaml config file, starting from Default so an
// incomplete file still produces sane values for fields it omits.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
