package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestMapper() *KeyMapper {
	return NewKeyMapper(config.InputConfig{RepeatWindowMs: 250, SoftDropHoldMs: 600})
}

func TestKeyMapperGameBindings(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionMoveLeft},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionMoveRight},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDropOn},
		{"x", runeKey('x'), core.ActionRotateCW},
		{"z", runeKey('z'), core.ActionRotateCCW},
		{"q", runeKey('q'), core.ActionSpeedDown},
		{"e", runeKey('e'), core.ActionSpeedUp},
		{"p", runeKey('p'), core.ActionPause},
		{"r", runeKey('r'), core.ActionRestart},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km := newTestMapper()
			var frame core.InputFrame
			quit := km.MapKey(tt.msg, time.Unix(0, 0), &frame)
			assert.False(t, quit)
			assert.Equal(t, []core.Action{tt.want}, frame.Actions)
		})
	}
}

func TestKeyMapperQuit(t *testing.T) {
	km := newTestMapper()
	var frame core.InputFrame

	assert.True(t, km.MapKey(tea.KeyMsg{Type: tea.KeyCtrlC}, time.Unix(0, 0), &frame))
	assert.True(t, frame.Empty())
}

func TestKeyMapperSuppressesAutoRepeat(t *testing.T) {
	km := newTestMapper()
	t0 := time.Unix(100, 0)
	left := tea.KeyMsg{Type: tea.KeyLeft}
	var frame core.InputFrame

	km.MapKey(left, t0, &frame)
	require.Equal(t, []core.Action{core.ActionMoveLeft}, frame.Actions)

	// A held key repeats every 30ms and never acts again.
	frame.Clear()
	for i := 1; i <= 20; i++ {
		km.MapKey(left, t0.Add(time.Duration(i)*30*time.Millisecond), &frame)
	}
	assert.True(t, frame.Empty())

	// Another key is not affected.
	km.MapKey(tea.KeyMsg{Type: tea.KeyRight}, t0.Add(610*time.Millisecond), &frame)
	assert.Equal(t, []core.Action{core.ActionMoveRight}, frame.Actions)

	// A fresh press after the window acts.
	frame.Clear()
	km.MapKey(left, t0.Add(900*time.Millisecond), &frame)
	assert.Equal(t, []core.Action{core.ActionMoveLeft}, frame.Actions)
}

func TestKeyMapperSoftDropIsLevelTriggered(t *testing.T) {
	km := newTestMapper()
	t0 := time.Unix(100, 0)
	down := tea.KeyMsg{Type: tea.KeyDown}
	var frame core.InputFrame

	km.MapKey(down, t0, &frame)
	assert.Equal(t, []core.Action{core.ActionSoftDropOn}, frame.Actions)
	assert.True(t, km.SoftDropHeld())

	// Repeats keep it held without new actions.
	frame.Clear()
	km.MapKey(down, t0.Add(500*time.Millisecond), &frame)
	km.MapKey(down, t0.Add(530*time.Millisecond), &frame)
	km.Poll(t0.Add(1000*time.Millisecond), &frame)
	assert.True(t, frame.Empty())

	// No repeat for the hold window releases it.
	km.Poll(t0.Add(1130*time.Millisecond), &frame)
	assert.Equal(t, []core.Action{core.ActionSoftDropOff}, frame.Actions)
	assert.False(t, km.SoftDropHeld())

	frame.Clear()
	km.Poll(t0.Add(2*time.Second), &frame)
	assert.True(t, frame.Empty())

	km.MapKey(down, t0.Add(3*time.Second), &frame)
	assert.Equal(t, []core.Action{core.ActionSoftDropOn}, frame.Actions)
}

func TestKeyMapperReset(t *testing.T) {
	km := newTestMapper()
	t0 := time.Unix(100, 0)
	var frame core.InputFrame

	km.MapKey(tea.KeyMsg{Type: tea.KeyDown}, t0, &frame)
	km.MapKey(runeKey('x'), t0, &frame)
	km.Reset()
	assert.False(t, km.SoftDropHeld())

	frame.Clear()
	km.MapKey(runeKey('x'), t0.Add(10*time.Millisecond), &frame)
	assert.Equal(t, []core.Action{core.ActionRotateCW}, frame.Actions)
}

func TestKeyMapperDefaultsZeroWindows(t *testing.T) {
	km := NewKeyMapper(config.InputConfig{})
	def := config.DefaultChainfallConfig().Input

	assert.Equal(t, def.RepeatWindow(), km.repeatWindow)
	assert.Equal(t, def.SoftDropHold(), km.holdWindow)
}

func TestMapKeyToMenuAction(t *testing.T) {
	keys := DefaultMenuKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{runeKey('l'), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionHistory},
		{runeKey('q'), MenuActionQuit},
		{runeKey('?'), MenuActionNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapKeyToMenuAction(keys, tt.msg), tt.msg.String())
	}
}
