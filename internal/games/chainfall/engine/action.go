package engine

import "strings"

// Action is an abstract input understood by the engine.
type Action uint8

const (
	MoveLeft Action = iota + 1
	MoveRight
	RotateCW
	RotateCCW
	SoftDropOn
	SoftDropOff
	SpeedDown
	SpeedUp
)

var actionNames = map[Action]string{
	MoveLeft:    "move_left",
	MoveRight:   "move_right",
	RotateCW:    "rotate_cw",
	RotateCCW:   "rotate_ccw",
	SoftDropOn:  "soft_drop_on",
	SoftDropOff: "soft_drop_off",
	SpeedDown:   "speed_down",
	SpeedUp:     "speed_up",
}

// String returns the snake_case action name used in scenario files.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction converts a snake_case action name.
func ParseAction(s string) (Action, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return 0, false
}

// AllActions returns every action in declaration order.
func AllActions() []Action {
	return []Action{MoveLeft, MoveRight, RotateCW, RotateCCW, SoftDropOn, SoftDropOff, SpeedDown, SpeedUp}
}
