package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chainfall/internal/games/chainfall"
	"github.com/vovakirdan/chainfall/internal/platform/tui"
	"github.com/vovakirdan/chainfall/internal/registry"
	"github.com/vovakirdan/chainfall/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start chainfall with the start menu",
	Long: `Start chainfall in interactive menu mode.

Pick a speed, start a game or browse the games you have played.
After a game you return to the menu to play again.

Controls:
  Up/Down/j/k    - Navigate menu
  Left/Right/h/l - Change speed
  Enter/Space    - Select
  Tab            - History
  Q              - Quit

Examples:
  chainfall menu
  chainfall menu --fps 30
  chainfall menu --db ./history.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagSpeed, "speed", "", "Initially selected speed")
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := runtimeConfig(parseSpeedFlag(flagSpeed))

	logger, closeLog := mustLogger(io.Discard)
	defer closeLog()

	// Open history storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	session := tui.Session{
		Store:  store,
		Player: localPlayer(),
		Logger: logger,
		Input:  inputConfig(logger),
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(session, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Keep the chosen speed and any size changes
		cfg = menuResult.Config

		switch menuResult.Choice {
		case tui.ChoiceHistory:
			goBack, err := tui.RunHistory(session, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if !goBack {
				return
			}

		case tui.ChoicePlay:
			game, err := registry.Create(chainfall.GameID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
				return
			}
			gameCfg := cfg
			if gameCfg.Seed == 0 {
				gameCfg.Seed = time.Now().UnixNano()
			}
			quit, err := tui.Run(game, session, gameCfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
				return
			}
			if quit {
				return
			}

		default:
			return
		}
	}
}
