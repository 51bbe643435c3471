package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chainfall/internal/core"
	"github.com/vovakirdan/chainfall/internal/storage"
)

// fakeGame records the frames it is stepped with.
type fakeGame struct {
	state  core.GameState
	frames []core.InputFrame
	resets int
}

func (g *fakeGame) ID() string { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }
func (g *fakeGame) Reset(cfg core.RuntimeConfig) { g.resets++ }
func (g *fakeGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "fake") }
func (g *fakeGame) State() core.GameState { return g.state }

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	return core.StepResult{State: g.state}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(t *testing.T, game *fakeGame, store *storage.Store) GameModel {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	m := NewGameModel(game, Session{Store: store, Player: "ann"}, cfg)
	m.clock = func() time.Time { return time.Unix(100, 0) }
	return m
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	require.True(t, ok)
	return gm, cmd
}

func tick(at time.Time) TickMsg { return TickMsg(at) }

func sessions(t *testing.T, store *storage.Store) []storage.SessionRecord {
	t.Helper()
	records, err := store.RecentSessions(10)
	require.NoError(t, err)
	return records
}

func TestGameModelStepsWithKeyActions(t *testing.T) {
	game := &fakeGame{}
	m := newTestModel(t, game, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, runeKey('x'))
	m, cmd := update(t, m, tick(time.Unix(100, 0)))
	assert.NotNil(t, cmd)

	require.Len(t, game.frames, 1)
	assert.Equal(t, []core.Action{core.ActionMoveLeft, core.ActionRotateCW}, game.frames[0].Actions)

	// The frame is cleared after each tick.
	_, _ = update(t, m, tick(time.Unix(100, 0)))
	require.Len(t, game.frames, 2)
	assert.True(t, game.frames[1].Empty())
}

func TestGameModelReleasesSoftDrop(t *testing.T) {
	game := &fakeGame{}
	m := newTestModel(t, game, nil)
	t0 := time.Unix(100, 0)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tick(t0.Add(100*time.Millisecond)))
	m, _ = update(t, m, tick(t0.Add(700*time.Millisecond)))

	require.Len(t, game.frames, 2)
	assert.Equal(t, []core.Action{core.ActionSoftDropOn}, game.frames[0].Actions)
	assert.Equal(t, []core.Action{core.ActionSoftDropOff}, game.frames[1].Actions)
}

func TestGameModelSavesGameOverOnce(t *testing.T) {
	store := openStore(t)
	game := &fakeGame{}
	m := newTestModel(t, game, store)

	game.state = core.GameState{
		GameOver: true,
		Stats: core.SessionStats{
			Speed:        2,
			Pairs:        12,
			Settled:      11,
			ChainLinks:   3,
			LongestChain: 2,
			CellsCleared: 8,
			Elapsed:      95 * time.Second,
		},
	}
	m, _ = update(t, m, tick(time.Unix(100, 0)))
	_, _ = update(t, m, tick(time.Unix(101, 0)))

	records := sessions(t, store)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "fake", rec.GameID)
	assert.Equal(t, "ann", rec.Player)
	assert.Equal(t, storage.EndGameOver, rec.EndReason)
	assert.Equal(t, 2, rec.LongestChain)
	assert.Equal(t, 8, rec.CellsCleared)
	assert.Equal(t, 95*time.Second, rec.Duration)
}

func TestGameModelBackSavesPlayedGame(t *testing.T) {
	store := openStore(t)
	game := &fakeGame{state: core.GameState{Stats: core.SessionStats{Pairs: 3, Settled: 2}}}
	m := newTestModel(t, game, store)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.BackToMenu())
	assert.Nil(t, cmd)

	records := sessions(t, store)
	require.Len(t, records, 1)
	assert.Equal(t, storage.EndBack, records[0].EndReason)

	// Ticks after leaving do not step the game.
	_, cmd = update(t, m, tick(time.Unix(100, 0)))
	assert.Nil(t, cmd)
	assert.Empty(t, game.frames)
}

func TestGameModelStandaloneBackQuits(t *testing.T) {
	m := newTestModel(t, &fakeGame{}, nil)
	m.standalone = true

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.BackToMenu())
	assert.NotNil(t, cmd)
}

func TestGameModelSkipsUnplayedGames(t *testing.T) {
	store := openStore(t)
	game := &fakeGame{state: core.GameState{Stats: core.SessionStats{Pairs: 1}}}
	m := newTestModel(t, game, store)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.IsQuitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())

	assert.Empty(t, sessions(t, store))
}

func TestGameModelRestart(t *testing.T) {
	store := openStore(t)
	game := &fakeGame{state: core.GameState{Stats: core.SessionStats{Pairs: 5, Settled: 4}}}
	m := newTestModel(t, game, store)
	m.Init()
	require.Equal(t, 1, game.resets)

	m, _ = update(t, m, runeKey('r'))
	m, cmd := update(t, m, tick(time.Unix(100, 0)))
	assert.NotNil(t, cmd)
	assert.Equal(t, 2, game.resets)
	assert.Empty(t, game.frames)

	records := sessions(t, store)
	require.Len(t, records, 1)
	assert.Equal(t, storage.EndRestart, records[0].EndReason)

	// The new game is recorded separately.
	game.state.GameOver = true
	_, _ = update(t, m, tick(time.Unix(101, 0)))
	assert.Len(t, sessions(t, store), 2)
}

func TestGameModelResizeKeepsGame(t *testing.T) {
	game := &fakeGame{}
	m := newTestModel(t, game, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 0, game.resets)
	assert.Equal(t, 100, m.screen.Width())
	assert.True(t, strings.HasPrefix(m.View(), "fake"))
}
