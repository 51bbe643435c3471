package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
	"github.com/vovakirdan/chainfall/internal/registry"
	"github.com/vovakirdan/chainfall/internal/storage"
)

// Session carries what a player's games share: where finished games are
// recorded, who is playing and how keys are interpreted.
type Session struct {
	Store  *storage.Store // nil disables history
	Player string
	Logger *log.Logger
	Input  config.InputConfig
}

func (s Session) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// GameModel is the Bubble Tea model running one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	session    Session
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       *KeyMapper
	clock      func() time.Time
	standalone bool // quit the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	saved      bool // whether the current game has been recorded
}

// NewGameModel creates a game model.
func NewGameModel(game registry.Game, session Session, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		session:    session,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       NewKeyMapper(session.Input),
		clock:      time.Now,
	}
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The game lays itself out on every render, so a resize keeps the game running.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKey(msg, m.clock(), &m.inputFrame) {
		m.saveSession(storage.EndQuit)
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.saveSession(storage.EndBack)
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) {
		m.saveSession(storage.EndRestart)
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.keys.Reset()
		m.saved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.keys.Poll(now, &m.inputFrame)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		m.saveSession(storage.EndGameOver)
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveSession records the current game once. Games that ended before a
// single pair settled are not worth a history entry.
func (m *GameModel) saveSession(reason string) {
	if m.saved {
		return
	}
	state := m.game.State()
	if !state.GameOver && state.Stats.Settled == 0 {
		return
	}
	m.saved = true
	if m.session.Store == nil {
		return
	}

	stats := state.Stats
	rec := storage.SessionRecord{
		GameID:       m.game.ID(),
		Player:       m.session.Player,
		Speed:        stats.Speed,
		Pairs:        stats.Pairs,
		Settled:      stats.Settled,
		ChainLinks:   stats.ChainLinks,
		LongestChain: stats.LongestChain,
		CellsCleared: stats.CellsCleared,
		Duration:     stats.Elapsed,
		EndReason:    reason,
	}
	// Best-effort save, game continues regardless
	if _, err := m.session.Store.SaveSession(rec); err != nil {
		m.session.logger().Error("cannot save session", "player", rec.Player, "error", err)
		return
	}
	m.session.logger().Debug("session saved",
		"player", rec.Player,
		"reason", reason,
		"longest_chain", rec.LongestChain,
	)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.session.logger().Warn("cannot create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.session.logger().Warn("cannot save screenshot", "error", err)
		return
	}
	m.session.logger().Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state seen at the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one game in the terminal until the player quits or leaves it.
// quit is true when the player asked to quit rather than go back.
func Run(game registry.Game, session Session, cfg core.RuntimeConfig) (quit bool, err error) {
	model := NewGameModel(game, session, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return true, err
	}
	m, ok := finalModel.(GameModel)
	return !ok || m.IsQuitting(), nil
}
