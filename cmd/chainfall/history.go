package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/storage"
)

var (
	flagHistoryPlayer string
	flagHistoryAll    bool
	flagHistoryBest   bool
	flagHistoryLimit  int
	flagHistoryClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded games",
	Long: `Display the games recorded in the history database.

By default the most recent games of the local player are listed.

Examples:
  chainfall history
  chainfall history --best
  chainfall history --all --limit 50
  chainfall history --player alice
  chainfall history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryPlayer, "player", "", "Show this player's games (default: local user)")
	historyCmd.Flags().BoolVar(&flagHistoryAll, "all", false, "Show games of all players")
	historyCmd.Flags().BoolVar(&flagHistoryBest, "best", false, "Order by longest chain instead of date")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of games to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the selected player's games (all with --all)")
}

func runHistory(_ *cobra.Command, _ []string) {
	player := flagHistoryPlayer
	if player == "" {
		player = localPlayer()
	}
	if flagHistoryAll {
		player = ""
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearSessions(player); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	var records []storage.SessionRecord
	switch {
	case flagHistoryBest:
		records, err = store.BestSessions(flagHistoryLimit)
	case player == "":
		records, err = store.RecentSessions(flagHistoryLimit)
	default:
		records, err = store.PlayerSessions(player, flagHistoryLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	title := "Recent games"
	if flagHistoryBest {
		title = "Longest chains"
	}
	if player != "" && !flagHistoryBest {
		title += " - " + player
	}
	fmt.Println(title)
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'chainfall play' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-3s  %-16s  %-10s  %-7s  %5s  %7s  %5s  %6s  %s\n",
		"#", "Date", "Player", "Speed", "Chain", "Cleared", "Pairs", "Time", "End")
	fmt.Printf("  %-3s  %-16s  %-10s  %-7s  %5s  %7s  %5s  %6s  %s\n",
		"-", "----", "------", "-----", "-----", "-------", "-----", "----", "---")

	for i, r := range records {
		secs := int(r.Duration.Seconds())
		fmt.Printf("  %-3d  %-16s  %-10s  %-7s  %5d  %7d  %5d  %3d:%02d  %s\n",
			i+1,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Player,
			config.SpeedName(r.Speed),
			r.LongestChain,
			r.CellsCleared,
			r.Pairs,
			secs/60, secs%60,
			r.EndReason,
		)
	}

	// Show summary
	sum, err := store.Summary(player)
	if err == nil && sum.Sessions > 0 {
		fmt.Println()
		fmt.Printf("Games: %d  Best chain: %d  Cells cleared: %d  Played: %s\n",
			sum.Sessions, sum.LongestChain, sum.TotalCleared, sum.TotalPlayed.Round(time.Second))
	}
}
