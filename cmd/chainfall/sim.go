package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chainfall/internal/games/chainfall"
	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
	"github.com/vovakirdan/chainfall/internal/games/chainfall/scenario"
)

var flagTrace bool

var simCmd = &cobra.Command{
	Use:   "sim <file|dir>...",
	Short: "Run scenario files headless",
	Long: `Run scripted games on the engine's virtual clock and check their
expectations. Directories are searched for .yaml and .yml files.

A scenario sets a starting field, the pairs to deal, a list of actions
and waits, and the expected phase, field, events and counters.
No terminal is needed and no real time passes.

Exits with status 1 if any scenario fails.

Examples:
  chainfall sim ./scenarios
  chainfall sim double_chain.yaml --trace
  chainfall sim ./scenarios --config ./fast.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().BoolVar(&flagTrace, "trace", false, "Print every published snapshot")
}

func runSim(_ *cobra.Command, args []string) {
	logger, closeLog := mustLogger(os.Stderr)
	defer closeLog()

	var scenarios []*scenario.Scenario
	for _, path := range args {
		loaded, err := scenario.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		scenarios = append(scenarios, loaded...)
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scenario files found")
		os.Exit(1)
	}

	rules := chainfall.LoadRules()
	logger.Debug("running scenarios", "count", len(scenarios), "rows", rules.Rows, "cols", rules.Cols)

	failed := 0
	for _, s := range scenarios {
		var sink engine.Sink
		if flagTrace {
			fmt.Printf("=== %s\n", s.Title())
			sink = engine.SinkFunc(func(snap engine.Snapshot) {
				fmt.Println(engine.RenderASCII(snap))
			})
		}

		res, err := scenario.Run(s, rules, sink)
		switch {
		case err != nil:
			failed++
			fmt.Printf("FAIL  %s\n      %v\n", s.Title(), err)
		case !res.Passed():
			failed++
			fmt.Printf("FAIL  %s\n", s.Title())
			for _, f := range res.Failures {
				fmt.Printf("      %s\n", f)
			}
		default:
			fmt.Printf("ok    %s  (%s)\n", s.Title(), strings.Join(res.EventNames(), " "))
		}
		logger.Debug("scenario finished",
			"name", s.Title(),
			"passed", err == nil && res.Passed(),
			"phase", res.Final.Phase.Kind,
			"longest_chain", res.Stats.LongestChain,
		)
	}

	fmt.Println()
	fmt.Printf("%d passed, %d failed\n", len(scenarios)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
