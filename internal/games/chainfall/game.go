// Package chainfall implements a falling-pair color matching game.
// Pairs of colored cells drop into a narrow well; four or more connected
// cells of one color vanish, and whatever falls into place afterwards can
// set off chain reactions. The simulation itself lives in the engine
// package; this package drives it from the platform's fixed tick loop.
package chainfall

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
	"github.com/vovakirdan/chainfall/internal/registry"
)

// GameID is the registry identifier of the game.
const GameID = "chainfall"

// configPath stores the custom config path set via CLI
var configPath string

var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetLogger routes engine event logging to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l.WithPrefix(GameID)
}

// RulesFromConfig converts a loaded configuration to validated engine rules.
func RulesFromConfig(cfg config.ChainfallConfig) (engine.Rules, error) {
	colors := make([]engine.Color, 0, len(cfg.Field.Colors))
	for _, name := range cfg.Field.Colors {
		c, ok := engine.ParseColor(name)
		if !ok {
			return engine.Rules{}, fmt.Errorf("%w: unknown color %q", engine.ErrInvalidRules, name)
		}
		colors = append(colors, c)
	}

	rules := engine.Rules{
		Rows:                 cfg.Field.Rows,
		Cols:                 cfg.Field.Cols,
		Colors:               colors,
		SpeedTable:           cfg.Timing.SpeedTable(),
		SoftDropInterval:     cfg.Timing.SoftDrop(),
		DefaultSpeed:         cfg.Rules.DefaultSpeed,
		LockThreshold:        cfg.Rules.LockThreshold,
		ChainRevealPause:     cfg.Timing.ChainReveal(),
		ChainClearPause:      cfg.Timing.ChainClear(),
		GroupMinSize:         cfg.Rules.GroupMinSize,
		SpawnColumn:          cfg.Rules.SpawnColumn,
		SpawnRowFromBottom:   cfg.Rules.SpawnRowFromBottom,
		WarningRowFromBottom: cfg.Rules.WarningRowFromBottom,
	}
	if err := rules.Validate(); err != nil {
		return engine.Rules{}, err
	}
	return rules, nil
}

// LoadRules loads the configured rules, falling back to the defaults when
// the configuration cannot be read or describes an unplayable game.
func LoadRules() engine.Rules {
	cfg, err := config.LoadChainfall(configPath)
	if err != nil {
		logger.Warn("cannot load config, using defaults", "error", err)
		return engine.DefaultRules()
	}
	rules, err := RulesFromConfig(cfg)
	if err != nil {
		logger.Warn("invalid config, using defaults", "error", err)
		return engine.DefaultRules()
	}
	return rules
}

// Game implements registry.Game on top of the engine.
type Game struct {
	config core.RuntimeConfig
	rules  engine.Rules
	engine *engine.Engine
	snap   engine.Snapshot
	paused bool
	frames int // ticks stepped since reset, drives blinking
}

// New creates a new chainfall game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Chainfall"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	g.config = cfg
	g.rules = LoadRules()

	var opts []engine.Option
	if cfg.Speed >= 0 {
		opts = append(opts, engine.WithSpeed(cfg.Speed))
	}
	if err := g.start(engine.NewRandomSource(cfg.Seed, g.rules.Colors), opts...); err != nil {
		logger.Error("cannot start engine, using default rules", "error", err)
		g.rules = engine.DefaultRules()
		_ = g.start(engine.NewRandomSource(cfg.Seed, g.rules.Colors), opts...)
	}
	logger.Debug("game reset", "seed", cfg.Seed, "speed", g.snap.Speed)
}

// start replaces the engine. The game's own sink is always installed.
func (g *Game) start(source engine.PairSource, opts ...engine.Option) error {
	opts = append(opts, engine.WithSink(engine.SinkFunc(g.publish)))
	e, err := engine.New(g.rules, source, opts...)
	if err != nil {
		return err
	}
	g.engine = e
	g.snap = e.Snapshot()
	g.paused = false
	g.frames = 0
	return nil
}

func (g *Game) publish(s engine.Snapshot) {
	g.snap = s
}

// tick returns the engine time covered by one Step.
func (g *Game) tick() time.Duration {
	return time.Second / time.Duration(g.config.TickRate)
}

// Step applies the frame's actions in arrival order, then advances the
// engine by one tick. A paused game keeps its clock stopped.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine == nil {
		return core.StepResult{State: g.State()}
	}
	over := g.snap.Phase.Is(engine.PhaseGameOver)

	for _, a := range in.Actions {
		if a == core.ActionPause && !over {
			g.paused = !g.paused
			logger.Debug("pause toggled", "paused", g.paused)
			continue
		}
		ea, ok := engineAction(a)
		if !ok {
			continue
		}
		// Soft drop is level state and is tracked even while paused.
		if g.paused && ea != engine.SoftDropOn && ea != engine.SoftDropOff {
			continue
		}
		g.engine.Apply(ea)
	}

	if g.paused || over {
		return core.StepResult{State: g.State()}
	}

	g.frames++
	g.logEvents(g.engine.Advance(g.tick()))
	return core.StepResult{State: g.State()}
}

var engineActions = map[core.Action]engine.Action{
	core.ActionMoveLeft:    engine.MoveLeft,
	core.ActionMoveRight:   engine.MoveRight,
	core.ActionRotateCW:    engine.RotateCW,
	core.ActionRotateCCW:   engine.RotateCCW,
	core.ActionSoftDropOn:  engine.SoftDropOn,
	core.ActionSoftDropOff: engine.SoftDropOff,
	core.ActionSpeedDown:   engine.SpeedDown,
	core.ActionSpeedUp:     engine.SpeedUp,
}

func engineAction(a core.Action) (engine.Action, bool) {
	ea, ok := engineActions[a]
	return ea, ok
}

func (g *Game) logEvents(events []engine.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventSpawned:
			logger.Debug("pair spawned", "pair", pairName(ev.Pair), "at", ev.At)
		case engine.EventLocked:
			logger.Debug("pair locked", "pair", pairName(ev.Pair), "at", ev.At)
		case engine.EventLockConflict:
			logger.Warn("lock conflict, pair discarded", "pair", pairName(ev.Pair), "at", ev.At)
		case engine.EventSettled:
			logger.Debug("pair settled", "pair", pairName(ev.Pair), "at", ev.At)
		case engine.EventChainLink:
			logger.Debug("chain link", "link", ev.Link, "groups", ev.Groups, "cells", ev.Cells, "at", ev.At)
		case engine.EventChainEnd:
			logger.Debug("chain ended", "links", ev.Link, "at", ev.At)
		case engine.EventGameOver:
			stats := g.engine.Stats()
			logger.Info("game over",
				"pairs", stats.Pairs,
				"longest_chain", stats.LongestChain,
				"cells_cleared", stats.CellsCleared,
				"at", ev.At,
			)
		}
	}
}

func pairName(p engine.Pair) string {
	return string([]rune{p.Satellite().Char(), p.Axis().Char()})
}

// Snapshot returns the most recently published engine snapshot.
func (g *Game) Snapshot() engine.Snapshot {
	return g.snap
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	stats := g.engine.Stats()
	return core.GameState{
		GameOver: g.snap.Phase.Is(engine.PhaseGameOver),
		Paused:   g.paused,
		Stats: core.SessionStats{
			Speed:        g.snap.Speed,
			Pairs:        stats.Pairs,
			Settled:      stats.Settled,
			ChainLinks:   stats.ChainLinks,
			LongestChain: stats.LongestChain,
			CellsCleared: stats.CellsCleared,
			Elapsed:      g.engine.Now(),
		},
	}
}

// Register the game with the registry
func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
