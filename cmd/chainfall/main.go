// chainfall is a falling-pair color matching game for the terminal.
//
// Usage:
//
//	chainfall play               - Play a game
//	chainfall menu               - Start menu with speed selector and history
//	chainfall serve              - Start SSH server for remote play
//	chainfall history            - Show recorded games
//	chainfall sim <file|dir>...  - Run scenario files headless
//	chainfall list               - List registered games
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.chainfall/history.db)
//	--config <path>     - Use a custom game config YAML
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
	"github.com/vovakirdan/chainfall/internal/games/chainfall"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
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
	Use:   "chainfall",
	Short: "Chainfall - a falling-pair puzzle for your terminal",
	Long: `Chainfall drops pairs of colored cells into a narrow well.
Four or more connected cells of one color vanish; whatever falls into
their place can set off chain reactions.

Available commands:
  play     - Play a game directly
  menu     - Start menu with speed selector and history
  serve    - Start SSH server for remote play
  history  - Show recorded games
  sim      - Run scenario files headless
  list     - Show registered games

Examples:
  chainfall play
  chainfall play --speed fast
  chainfall menu
  chainfall serve --ssh :2222
  chainfall sim ./scenarios --trace`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		chainfall.SetConfigPath(flagConfig)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.chainfall/history.db", "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simCmd)
}

// newLogger builds the process logger from --log-level and --log-file.
// Without a log file, output goes to fallback; TUI commands pass
// io.Discard since the terminal belongs to Bubble Tea.
// The returned close function releases the log file.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "chainfall",
	})
	chainfall.SetLogger(logger)
	return logger, closeFn, nil
}

// mustLogger is newLogger for commands that exit on error.
func mustLogger(fallback io.Writer) (*log.Logger, func()) {
	logger, closeFn, err := newLogger(fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger, closeFn
}

// runtimeConfig returns the runtime config for the current terminal.
func runtimeConfig(speed int) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	// Get terminal size
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.Speed = speed
	return cfg
}

// inputConfig returns the key repeat settings of the loaded game config.
func inputConfig(logger *log.Logger) config.InputConfig {
	cfg, err := config.LoadChainfall(flagConfig)
	if err != nil {
		logger.Warn("cannot load config, using default input settings", "error", err)
		return config.DefaultChainfallConfig().Input
	}
	return cfg.Input
}

// localPlayer names the local player in the history.
func localPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return config.GetEnv("USER", "local")
}

// parseSpeedFlag converts --speed; empty means the configured default.
func parseSpeedFlag(s string) int {
	if s == "" {
		return -1
	}
	speed, err := config.ParseSpeed(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return speed
}
