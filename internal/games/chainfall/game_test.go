package chainfall

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
)

// newTestGame resets a game against a config file holding only defaults,
// so settings in the user's home never leak into tests.
func newTestGame(t *testing.T, tickRate int) *Game {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chainfall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 40, TickRate: tickRate, Seed: 1, Speed: -1})
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func mustField(t *testing.T, lines ...string) *engine.Field {
	t.Helper()
	f, err := engine.ParseField(14, 6, lines)
	require.NoError(t, err)
	return f
}

func TestRulesFromConfigDefaults(t *testing.T) {
	rules, err := RulesFromConfig(config.DefaultChainfallConfig())
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultRules(), rules)
}

func TestRulesFromConfigErrors(t *testing.T) {
	cfg := config.DefaultChainfallConfig()
	cfg.Field.Colors = []string{"red", "purple"}
	_, err := RulesFromConfig(cfg)
	assert.ErrorIs(t, err, engine.ErrInvalidRules)

	cfg = config.DefaultChainfallConfig()
	cfg.Rules.LockThreshold = 0
	_, err = RulesFromConfig(cfg)
	assert.ErrorIs(t, err, engine.ErrInvalidRules)
}

func TestLoadRulesFallsBackOnBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  group_min_size: 1\n"), 0o644))
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	assert.Equal(t, engine.DefaultRules(), LoadRules())

	SetConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, engine.DefaultRules(), LoadRules())
}

func TestStepAdvancesEngineClock(t *testing.T) {
	g := newTestGame(t, 10)

	for i := 0; i < 10; i++ {
		g.Step(frame())
	}

	state := g.State()
	assert.Equal(t, time.Second, state.Stats.Elapsed)
	assert.Equal(t, 2, state.Stats.Speed)
	assert.Equal(t, 1, state.Stats.Pairs)
	require.NotNil(t, g.Snapshot().Piece)
	assert.Equal(t, 3, g.Snapshot().Piece.FallY)
}

func TestActionsApplyInArrivalOrder(t *testing.T) {
	g := newTestGame(t, 60)

	g.Step(frame(core.ActionMoveLeft, core.ActionMoveLeft))
	assert.Equal(t, 0, g.Snapshot().Piece.Col)

	g.Step(frame(core.ActionSoftDropOn, core.ActionSoftDropOff))
	assert.False(t, g.Snapshot().SoftDrop)

	g.Step(frame(core.ActionSoftDropOff, core.ActionSoftDropOn))
	assert.True(t, g.Snapshot().SoftDrop)

	// Platform-only actions never reach the engine.
	g.Step(frame(core.ActionConfirm, core.ActionRestart))
	assert.Equal(t, 0, g.Snapshot().Piece.Col)
}

func TestPauseStopsClock(t *testing.T) {
	g := newTestGame(t, 10)

	g.Step(frame(core.ActionPause))
	require.True(t, g.State().Paused)
	for i := 0; i < 5; i++ {
		g.Step(frame(core.ActionMoveLeft))
	}
	assert.Equal(t, time.Duration(0), g.State().Stats.Elapsed)
	assert.Equal(t, 2, g.Snapshot().Piece.Col)

	g.Step(frame(core.ActionSoftDropOn))
	assert.True(t, g.Snapshot().SoftDrop)

	g.Step(frame(core.ActionPause))
	assert.False(t, g.State().Paused)
	assert.Equal(t, 100*time.Millisecond, g.State().Stats.Elapsed)
	assert.Equal(t, 3, g.Snapshot().Piece.FallY)
}

func TestSpeedFromRuntimeConfig(t *testing.T) {
	g := newTestGame(t, 60)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 40, TickRate: 60, Seed: 1, Speed: 0})
	assert.Equal(t, 0, g.State().Stats.Speed)

	g.Step(frame(core.ActionSpeedUp, core.ActionSpeedUp))
	assert.Equal(t, 2, g.State().Stats.Speed)
}

func TestGameOverState(t *testing.T) {
	g := newTestGame(t, 10)
	lines := make([]string, 14)
	for i := range lines {
		lines[i] = ".." + string("RGBY"[i%4]) + "..."
	}
	require.NoError(t, g.start(engine.NewSequenceSource(engine.Pair{engine.ColorGreen, engine.ColorRed}),
		engine.WithField(mustField(t, lines...))))

	state := g.Step(frame(core.ActionPause)).State
	assert.True(t, state.GameOver)
	assert.False(t, state.Paused)
	assert.Equal(t, time.Duration(0), state.Stats.Elapsed)
}

func TestEventsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	SetLogger(l)
	t.Cleanup(func() { SetLogger(nil) })

	g := newTestGame(t, 1)
	for i := 0; i < 30; i++ {
		g.Step(frame())
	}

	out := buf.String()
	assert.Contains(t, out, "game reset")
	assert.Contains(t, out, "pair locked")
	assert.Contains(t, out, "pair settled")
	assert.Contains(t, out, "pair spawned")
}

func TestStepBeforeReset(t *testing.T) {
	g := New()
	res := g.Step(frame(core.ActionMoveLeft))
	assert.Equal(t, core.GameState{}, res.State)

	dst := core.NewScreen(10, 5)
	g.Render(dst)
	assert.Equal(t, core.NewScreen(10, 5).String(), dst.String())
}

func TestComputeLayout(t *testing.T) {
	l, ok := computeLayout(80, 40, 14, 6)
	require.True(t, ok)
	assert.Equal(t, layout{cellW: 4, cellH: 2, field: core.NewRect(14, 5, 26, 30), hudX: 42}, l)

	l, ok = computeLayout(40, 16, 14, 6)
	require.True(t, ok)
	assert.Equal(t, layout{cellW: 2, cellH: 1, field: core.NewRect(0, 0, 14, 16), hudX: 16}, l)

	_, ok = computeLayout(39, 16, 14, 6)
	assert.False(t, ok)
}

func TestRenderPieceOnHalfRows(t *testing.T) {
	g := newTestGame(t, 1)
	dst := core.NewScreen(80, 40)
	axis := cellColors[g.Snapshot().Piece.Colors.Axis()]

	// Field box at (14,5); column 2 starts at x=23, row 0 at y=6.
	g.Render(dst)
	assert.Equal(t, core.Cell{Rune: PieceChar, Color: axis}, dst.GetCell(23, 8))
	assert.Equal(t, core.Cell{Rune: PieceChar, Color: axis}, dst.GetCell(23, 9))
	assert.Equal(t, PieceChar, dst.GetCell(23, 6).Rune)
	assert.Contains(t, dst.String(), "CHAINFALL")
	assert.Contains(t, dst.String(), "normal")

	// Half a row lower the piece moves by exactly one line.
	g.Step(frame())
	g.Render(dst)
	assert.NotEqual(t, PieceChar, dst.GetCell(23, 6).Rune)
	assert.Equal(t, PieceChar, dst.GetCell(23, 7).Rune)
	assert.Equal(t, core.Cell{Rune: PieceChar, Color: axis}, dst.GetCell(23, 10))
}

func TestRenderHighlightBlinks(t *testing.T) {
	g := newTestGame(t, 1)
	require.NoError(t, g.start(engine.NewSequenceSource(engine.Pair{engine.ColorGreen, engine.ColorRed}),
		engine.WithField(mustField(t, "RRR..."))))

	g.Step(frame(core.ActionMoveRight))
	for i := 0; i < 27; i++ {
		g.Step(frame())
	}
	require.True(t, g.Snapshot().Phase.Is(engine.PhaseChaining))

	// Row 13, column 0 starts at (15, 32).
	dst := core.NewScreen(80, 40)
	g.Render(dst)
	assert.Equal(t, HighlightChar, dst.GetCell(15, 32).Rune)
	assert.Contains(t, dst.String(), "Chaining")

	g.frames++
	g.Render(dst)
	assert.Equal(t, core.Cell{Rune: SettledChar, Color: core.ColorRed}, dst.GetCell(15, 32))
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(t, 60)
	dst := core.NewScreen(30, 10)
	g.Render(dst)
	assert.Contains(t, dst.String(), "Terminal too small")
	assert.Contains(t, dst.String(), "need 40x16")
}

func TestRenderOverlays(t *testing.T) {
	g := newTestGame(t, 60)
	dst := core.NewScreen(80, 40)

	g.Step(frame(core.ActionPause))
	g.Render(dst)
	assert.Contains(t, dst.String(), "PAUSED")

	lines := make([]string, 14)
	for i := range lines {
		lines[i] = ".." + string("RGBY"[i%4]) + "..."
	}
	require.NoError(t, g.start(engine.NewSequenceSource(engine.Pair{engine.ColorGreen, engine.ColorRed}),
		engine.WithField(mustField(t, lines...))))
	g.Render(dst)
	assert.Contains(t, dst.String(), "GAME OVER")
	assert.NotContains(t, dst.String(), "PAUSED")
}
