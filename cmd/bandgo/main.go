package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bandgo/server/internal/config"
	"github.com/bandgo/server/internal/data"
	"github.com/bandgo/server/internal/rules"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:           "bandgo",
		Short:         "Code of Pride: program a marching band, one count at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default config/bandgo.toml)")

	root.AddCommand(
		newPlayCmd(),
		newRunCmd(),
		newCheckCmd(),
		newLevelsCmd(),
		newSlotsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves flag > env > default path. A missing file falls
// back to the built-in defaults so the game runs from a bare checkout.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = os.Getenv("BANDGO_CONFIG")
	}
	if path == "" {
		path = "config/bandgo.toml"
	}
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) && cfgPath == "" {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles the pieces every subcommand needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	levels *data.LevelTable
	rules  *rules.Engine
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	levels, err := data.LoadLevels(cfg.Paths.LevelsFile)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	re, err := rules.NewEngine(cfg.Paths.ObjectiveDir, log)
	if err != nil {
		return nil, fmt.Errorf("objective scripts: %w", err)
	}
	return &app{cfg: cfg, log: log, levels: levels, rules: re}, nil
}

func (a *app) Close() {
	a.rules.Close()
	_ = a.log.Sync()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// The TUI owns the terminal, so console logs go to a file.
	if cfg.Format != "json" {
		zapCfg.OutputPaths = []string{"bandgo.log"}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
