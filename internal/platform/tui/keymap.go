package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
)

// GameKeyMap defines the in-game key bindings.
type GameKeyMap struct {
	Left       key.Binding
	Right      key.Binding
	SoftDrop   key.Binding
	RotateCW   key.Binding
	RotateCCW  key.Binding
	SpeedDown  key.Binding
	SpeedUp    key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.SoftDrop, k.RotateCCW, k.RotateCW, k.Pause}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop},
		{k.RotateCCW, k.RotateCW},
		{k.SpeedDown, k.SpeedUp},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default in-game key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "move right"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "soft drop"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("x", "up"),
			key.WithHelp("x", "rotate cw"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "rotate ccw"),
		),
		SpeedDown: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "slower"),
		),
		SpeedUp: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "faster"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
//
// Terminals report presses and auto-repeats but never releases. Moves and
// rotations are edge-triggered: a press of the same key inside the repeat
// window of the previous one is dropped. Soft drop is level-triggered: it
// stays held while repeats keep arriving and Poll releases it once none
// has arrived for the hold window.
type KeyMapper struct {
	keys         GameKeyMap
	repeatWindow time.Duration
	holdWindow   time.Duration

	lastPress    map[core.Action]time.Time
	softDropHeld bool
	softDropSeen time.Time
}

// NewKeyMapper creates a key mapper with default bindings.
// Zero windows in cfg fall back to the default input config.
func NewKeyMapper(cfg config.InputConfig) *KeyMapper {
	def := config.DefaultChainfallConfig().Input
	if cfg.RepeatWindowMs <= 0 {
		cfg.RepeatWindowMs = def.RepeatWindowMs
	}
	if cfg.SoftDropHoldMs <= 0 {
		cfg.SoftDropHoldMs = def.SoftDropHoldMs
	}
	return &KeyMapper{
		keys:         DefaultGameKeyMap(),
		repeatWindow: cfg.RepeatWindow(),
		holdWindow:   cfg.SoftDropHold(),
		lastPress:    make(map[core.Action]time.Time),
	}
}

// Keys returns the game key bindings.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey appends the action for msg to frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, now time.Time, frame *core.InputFrame) bool {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return true
	case key.Matches(msg, km.keys.SoftDrop):
		km.softDropSeen = now
		if !km.softDropHeld {
			km.softDropHeld = true
			frame.Set(core.ActionSoftDropOn)
		}
	case key.Matches(msg, km.keys.Left):
		km.press(core.ActionMoveLeft, now, frame)
	case key.Matches(msg, km.keys.Right):
		km.press(core.ActionMoveRight, now, frame)
	case key.Matches(msg, km.keys.RotateCW):
		km.press(core.ActionRotateCW, now, frame)
	case key.Matches(msg, km.keys.RotateCCW):
		km.press(core.ActionRotateCCW, now, frame)
	case key.Matches(msg, km.keys.SpeedDown):
		km.press(core.ActionSpeedDown, now, frame)
	case key.Matches(msg, km.keys.SpeedUp):
		km.press(core.ActionSpeedUp, now, frame)
	case key.Matches(msg, km.keys.Pause):
		km.press(core.ActionPause, now, frame)
	case key.Matches(msg, km.keys.Restart):
		frame.Set(core.ActionRestart)
	case key.Matches(msg, km.keys.Back):
		frame.Set(core.ActionBack)
	}
	return false
}

// press emits a, unless it repeats the previous press of a within the
// repeat window. A dropped repeat still extends the window.
func (km *KeyMapper) press(a core.Action, now time.Time, frame *core.InputFrame) {
	last, seen := km.lastPress[a]
	km.lastPress[a] = now
	if seen && now.Sub(last) < km.repeatWindow {
		return
	}
	frame.Set(a)
}

// Poll releases a soft drop whose key has not repeated for the hold window.
// Call it once per tick before stepping the game.
func (km *KeyMapper) Poll(now time.Time, frame *core.InputFrame) {
	if km.softDropHeld && now.Sub(km.softDropSeen) >= km.holdWindow {
		km.softDropHeld = false
		frame.Set(core.ActionSoftDropOff)
	}
}

// SoftDropHeld reports whether soft drop is currently held.
func (km *KeyMapper) SoftDropHeld() bool {
	return km.softDropHeld
}

// Reset forgets held keys and repeat history.
func (km *KeyMapper) Reset() {
	clear(km.lastPress)
	km.softDropHeld = false
	km.softDropSeen = time.Time{}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionHistory
	MenuActionQuit
)

// MenuKeyMap defines the key bindings for menus.
type MenuKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Back    key.Binding
	History key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.History, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.History, k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns default menu key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/h", "slower"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/l", "faster"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		History: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(keys MenuKeyMap, msg tea.KeyMsg) MenuAction {
	switch {
	case key.Matches(msg, keys.Quit):
		return MenuActionQuit
	case key.Matches(msg, keys.Up):
		return MenuActionUp
	case key.Matches(msg, keys.Down):
		return MenuActionDown
	case key.Matches(msg, keys.Left):
		return MenuActionLeft
	case key.Matches(msg, keys.Right):
		return MenuActionRight
	case key.Matches(msg, keys.Select):
		return MenuActionSelect
	case key.Matches(msg, keys.Back):
		return MenuActionBack
	case key.Matches(msg, keys.History):
		return MenuActionHistory
	}
	return MenuActionNone
}
