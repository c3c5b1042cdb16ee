// appledash-gui plays Apple Dash in a window. Desktop builds use the keyboard;
// android and ios builds show on-screen touch buttons.
//
// Usage:
//
//	appledash-gui [--config path] [--engine name] [--controls mode] [--seed n] [--record]
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/platform/gui"
	"github.com/vovakirdan/appledash/internal/storage"

	// Import engines to register them
	_ "github.com/vovakirdan/appledash/internal/engine/arcade"
	_ "github.com/vovakirdan/appledash/internal/engine/chipmunk"
)

var (
	flagConfig   string
	flagEngine   string
	flagControls string
	flagSeed     int64
	flagDBPath   string
	flagRecord   bool
	flagDebug    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "appledash-gui",
	Short: "Play Apple Dash in a window",
	Long: `Play Apple Dash in a window.

Controls:
  Arrows/WASD  - Run and jump
  Space        - Jump
  P/Esc        - Pause
  R            - Restart
  Q            - Quit`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.Flags().StringVar(&flagEngine, "engine", "", "Physics engine")
	rootCmd.Flags().StringVar(&flagControls, "controls", "", "Controls: auto, keyboard, touch")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().StringVar(&flagDBPath, "db", "~/.appledash/runs.db", "Path to runs database")
	rootCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the input journal for replay")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Log at debug level")
}

func run(_ *cobra.Command, _ []string) error {
	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "appledash-gui",
		Level:           level,
	})

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagEngine != "" {
		cfg.Engine = flagEngine
	}
	if flagControls != "" {
		cfg.Controls.Mode = flagControls
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := gui.Options{
		Config:   cfg,
		Runtime:  core.RuntimeConfig{TickRate: cfg.TickRate, Seed: flagSeed},
		Platform: input.PlatformForGOOS(runtime.GOOS),
		Record:   flagRecord,
		Logger:   logger,
	}
	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open runs database", "error", err)
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	logger.Info("starting", "engine", cfg.Engine, "platform", opts.Platform)
	return gui.Run(opts)
}
