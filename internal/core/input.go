package core

// Action represents a semantic platform action, abstracted from physical key presses.
// This allows the game to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone        Action = iota
	ActionMoveLeft           // Left arrow - shift the pair one column left
	ActionMoveRight          // Right arrow - shift the pair one column right
	ActionRotateCW           // X - rotate clockwise
	ActionRotateCCW          // Z - rotate counter-clockwise
	ActionSoftDropOn         // Down arrow pressed (or still repeating)
	ActionSoftDropOff        // Down arrow released (derived by the key mapper)
	ActionSpeedDown          // Q - slower descent
	ActionSpeedUp            // E - faster descent
	ActionConfirm            // Enter - confirm selection in menu
	ActionBack               // Escape - go back to menu
	ActionRestart            // R key - restart game after game over
	ActionQuit               // Ctrl+C - exit game/session
	ActionPause              // P - pause/unpause game
)

var actionNames = [...]string{
	ActionNone:        "None",
	ActionMoveLeft:    "MoveLeft",
	ActionMoveRight:   "MoveRight",
	ActionRotateCW:    "RotateCW",
	ActionRotateCCW:   "RotateCCW",
	ActionSoftDropOn:  "SoftDropOn",
	ActionSoftDropOff: "SoftDropOff",
	ActionSpeedDown:   "SpeedDown",
	ActionSpeedUp:     "SpeedUp",
	ActionConfirm:     "Confirm",
	ActionBack:        "Back",
	ActionRestart:     "Restart",
	ActionQuit:        "Quit",
	ActionPause:       "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame represents the input for a single simulation tick.
type InputFrame struct {
	// Actions lists the actions triggered during this frame in arrival order.
	// Order matters: a soft drop press followed by its release is not the
	// same as a release followed by a press.
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set appends an action to this frame.
func (f *InputFrame) Set(a Action) {
	f.Actions = append(f.Actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.Actions {
		if got == a {
			return true
		}
	}
	return false
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{Actions: append([]Action(nil), f.Actions...)}
}
