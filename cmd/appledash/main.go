// appledash is a single-screen platformer: run, jump and collect apples that
// respawn a few seconds after being picked up.
//
// Usage:
//
//	appledash play             - Play in this terminal
//	appledash serve            - Start SSH server for remote play
//	appledash engines          - List physics engines
//	appledash runs             - List recorded runs
//	appledash replay <id>      - Re-simulate a recorded run
//	appledash config           - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>        - Override the tick rate
//	--seed <value>      - Set RNG seed for reproducible respawns
//	--db <path>         - Set database path (default: ~/.appledash/runs.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/appledash/internal/config"

	// Import engines to register them
	_ "github.com/vovakirdan/appledash/internal/engine/arcade"
	_ "github.com/vovakirdan/appledash/internal/engine/chipmunk"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "appledash",
	Short: "Apple Dash - run, jump and collect apples",
	Long: `Apple Dash is a single-screen platformer. Run along the ground, jump and
collect apples; each one comes back somewhere new three seconds later.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  engines  - List physics engines
  runs     - List recorded runs
  replay   - Re-simulate a recorded run
  config   - Print the effective configuration

Examples:
  appledash play
  appledash play --engine chipmunk --controls touch
  appledash play --record && appledash runs
  appledash serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.appledash/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(enginesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the root logger from the global flags. Logs go to
// --log-file when set and to fallback otherwise. The returned function closes
// the log file.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	out, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// withFlags returns override followed by the global flag overrides. The
// result is also applied to configs reloaded by --watch.
func withFlags(override func(*config.Config)) func(*config.Config) {
	return func(c *config.Config) {
		if override != nil {
			override(c)
		}
		if flagFPS > 0 {
			c.TickRate = flagFPS
		}
	}
}

// loadConfig loads the tuning file and applies command-line overrides.
func loadConfig(path string, override func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	withFlags(override)(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
