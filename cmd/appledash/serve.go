package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/appledash/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeConfig string
	flagServeRecord bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Apple Dash SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own independent session. Clients on phone
terminals get the on-screen touch controls, everyone else the keyboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.appledash/host_key

Examples:
  appledash serve                           # Listen on :23234 with auto-generated key
  appledash serve --ssh :2222               # Listen on port 2222
  appledash serve --host-key ./my_host_key  # Use specific host key
  appledash serve --record --db ./runs.db   # Keep every session's journal

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to custom config YAML")
	serveCmd.Flags().BoolVar(&flagServeRecord, "record", false, "Record every session's input journal")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("appledash-ssh", os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	game, err := loadConfig(flagServeConfig, nil)
	if err != nil {
		return err
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		Record:      flagServeRecord,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Game:        game,
		Logger:      logger,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	fmt.Printf("Starting Apple Dash SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
