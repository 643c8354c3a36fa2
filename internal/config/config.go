package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	Paths    PathsConfig    `toml:"paths"`
	Sandbox  SandboxConfig  `toml:"sandbox"`
	Playback PlaybackConfig `toml:"playback"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Logging  LoggingConfig  `toml:"logging"`
}

type GameConfig struct {
	Name string `toml:"name"`
}

type PathsConfig struct {
	LevelsFile   string `toml:"levels_file"`
	ObjectiveDir string `toml:"objective_dir"` // Lua objective scripts
	Database     string `toml:"database"`      // sqlite save file
}

type SandboxConfig struct {
	StepLimit int `toml:"step_limit"` // script execution-step budget
	MaxCounts int `toml:"max_counts"` // timeline truncation bound
}

type PlaybackConfig struct {
	CountStep time.Duration `toml:"count_step"` // wall time per count
}

type ScoringConfig struct {
	Base            int `toml:"base"`
	LoopBonus       int `toml:"loop_bonus"`
	CleanBonus      int `toml:"clean_bonus"`
	HintPenalty     int `toml:"hint_penalty"`
	StreakBonus     int `toml:"streak_bonus"`
	StreakThreshold int `toml:"streak_threshold"`
	MaxWeek         int `toml:"max_week"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads a TOML config, layering it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration, used when no config file
// exists on disk.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			Name: "Code of Pride",
		},
		Paths: PathsConfig{
			LevelsFile:   "data/levels.yaml",
			ObjectiveDir: "scripts/objectives",
			Database:     "saves/bandgo.db",
		},
		Sandbox: SandboxConfig{
			StepLimit: 8000,
			MaxCounts: 128,
		},
		Playback: PlaybackConfig{
			CountStep: 120 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			Base:            100,
			LoopBonus:       20,
			CleanBonus:      10,
			HintPenalty:     10,
			StreakBonus:     50,
			StreakThreshold: 3,
			MaxWeek:         16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
