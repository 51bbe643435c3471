package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chainfall/internal/games/chainfall"
	"github.com/vovakirdan/chainfall/internal/platform/tui"
	"github.com/vovakirdan/chainfall/internal/registry"
	"github.com/vovakirdan/chainfall/internal/storage"
)

var flagSpeed string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing right away.

Controls:
  Left/Right  - Move the pair
  Down        - Soft drop (hold)
  Z / X       - Rotate counter-clockwise / clockwise
  Q / E       - Slower / faster descent
  P           - Pause
  R           - Restart
  Esc         - Leave the game
  Ctrl+C      - Quit

Speed options:
  relaxed (0), steady (1), normal (2), fast (3)

Examples:
  chainfall play
  chainfall play --speed fast
  chainfall play --seed 42
  chainfall play --config ./my-chainfall.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpeed, "speed", "", "Starting speed: relaxed, steady, normal, fast or 0-3")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := runtimeConfig(parseSpeedFlag(flagSpeed))

	logger, closeLog := mustLogger(io.Discard)
	defer closeLog()

	game, err := registry.Create(chainfall.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open history storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	session := tui.Session{
		Store:  store,
		Player: localPlayer(),
		Logger: logger,
		Input:  inputConfig(logger),
	}
	_, runErr := tui.Run(game, session, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
