package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/appledash/internal/game"
	"github.com/vovakirdan/appledash/internal/pickup"
	"github.com/vovakirdan/appledash/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a recorded run",
	Long: `Replay a recorded input journal headlessly and print the final state.

The same seed, configuration and inputs always produce the same result,
so the score shown here is the score the run ended with.

Examples:
  appledash replay 3
  appledash replay 3 --log-level debug`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	logger, closeLog, err := newLogger("appledash-replay", os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.LoadRun(id)
	if err != nil {
		return err
	}
	j, err := game.FromRun(run)
	if err != nil {
		return err
	}

	s, err := game.Replay(j, game.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()

	printSnapshot(os.Stdout, run, s.Snapshot())
	return nil
}

func printSnapshot(w io.Writer, run storage.Run, snap game.Snapshot) {
	hidden := 0
	for _, p := range snap.Pickups {
		if p.State == pickup.Hidden {
			hidden++
		}
	}

	fmt.Fprintf(w, "Run %d (%s, %s engine, seed %d)\n", run.ID, run.Mode, run.Engine, run.Seed)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Ticks:    %d (%s)\n", snap.Tick, snap.Clock)
	fmt.Fprintf(w, "  Events:   %d\n", len(run.Events))
	fmt.Fprintf(w, "  Score:    %s\n", snap.ScoreText)
	fmt.Fprintf(w, "  Player:   x=%.1f y=%.1f grounded=%t\n", snap.Player.Pos.X, snap.Player.Pos.Y, snap.Player.Grounded)
	fmt.Fprintf(w, "  Apples:   %d active, %d respawning\n", len(snap.Pickups)-hidden, hidden)
}
