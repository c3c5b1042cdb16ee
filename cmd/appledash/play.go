package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/platform/tui"
	"github.com/vovakirdan/appledash/internal/registry"
	"github.com/vovakirdan/appledash/internal/storage"
)

var (
	flagConfig   string
	flagEngine   string
	flagControls string
	flagRecord   bool
	flagWatch    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a session in the current terminal.

Controls (keyboard):
  Left/A, Right/D  - Run
  Up/W/Space       - Jump
  P/Esc            - Pause
  R                - Restart
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

In touch mode the on-screen buttons under the playfield are clicked or
tapped instead. Touch is picked automatically on phone terminals
(Termux, Termius, Blink); use --controls to force a mode.

Examples:
  appledash play
  appledash play --engine chipmunk
  appledash play --controls touch
  appledash play --config ./my-appledash.yaml --watch
  appledash play --record --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagEngine, "engine", "", "Physics engine (see 'appledash engines')")
	playCmd.Flags().StringVar(&flagControls, "controls", "", "Controls: auto, keyboard, touch")
	playCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the input journal for replay")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the config file on change (applies on restart)")
}

// playOverrides applies --engine and --controls.
func playOverrides(c *config.Config) {
	if flagEngine != "" {
		c.Engine = flagEngine
	}
	if flagControls != "" {
		c.Controls.Mode = flagControls
	}
}

func runPlay(_ *cobra.Command, _ []string) error {
	// The alternate screen owns stdout, so logs are dropped unless --log-file is set.
	logger, closeLog, err := newLogger("appledash", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(flagConfig, playOverrides)
	if err != nil {
		return err
	}
	if !registry.Exists(cfg.Engine) {
		return fmt.Errorf("unknown engine %q, run 'appledash engines' to see available engines", cfg.Engine)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: cfg.TickRate,
			Seed:     flagSeed,
		},
		Platform: input.DetectPlatform(os.Environ()),
		Record:   flagRecord,
		Override: withFlags(playOverrides),
		Logger:   logger,
	}

	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
			// Continue without recording
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	if flagWatch {
		path := config.Resolve(flagConfig)
		if path == "" {
			fmt.Fprintln(os.Stderr, "Warning: --watch needs a config file, playing with the built-in defaults")
		} else {
			watcher, err := config.Watch(path)
			if err != nil {
				return fmt.Errorf("watch config: %w", err)
			}
			defer watcher.Close()
			opts.ConfigUpdates = watcher.Updates
			logger.Info("watching config", "path", watcher.Path())
		}
	}

	logger.Info("starting play",
		"engine", cfg.Engine,
		"platform", opts.Platform,
		"size", fmt.Sprintf("%dx%d", width, height),
	)
	return tui.Run(opts)
}
