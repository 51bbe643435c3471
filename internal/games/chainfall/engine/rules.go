package engine

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRules is wrapped by every Rules validation error.
var ErrInvalidRules = errors.New("invalid rules")

// Rules holds the tunable constants of a game.
type Rules struct {
	Rows   int
	Cols   int
	Colors []Color

	// SpeedTable maps a speed index to the descent interval, slowest first.
	SpeedTable       []time.Duration
	SoftDropInterval time.Duration
	DefaultSpeed     int

	LockThreshold    int
	ChainRevealPause time.Duration
	ChainClearPause  time.Duration
	GroupMinSize     int

	SpawnColumn          int
	SpawnRowFromBottom   int
	WarningRowFromBottom int
}

// DefaultRules returns the standard 14x6 four-color game.
func DefaultRules() Rules {
	return Rules{
		Rows:   14,
		Cols:   6,
		Colors: AllColors(),
		SpeedTable: []time.Duration{
			10 * time.Second,
			2 * time.Second,
			1 * time.Second,
			500 * time.Millisecond,
		},
		SoftDropInterval:     100 * time.Millisecond,
		DefaultSpeed:         2,
		LockThreshold:        4,
		ChainRevealPause:     500 * time.Millisecond,
		ChainClearPause:      500 * time.Millisecond,
		GroupMinSize:         4,
		SpawnColumn:          2,
		SpawnRowFromBottom:   13,
		WarningRowFromBottom: 13,
	}
}

// Validate checks that the rules describe a playable game.
func (r Rules) Validate() error {
	switch {
	case r.Rows < 2 || r.Cols < 1:
		return fmt.Errorf("%w: field must be at least 2x1, got %dx%d", ErrInvalidRules, r.Rows, r.Cols)
	case len(r.Colors) == 0:
		return fmt.Errorf("%w: no colors", ErrInvalidRules)
	case len(r.SpeedTable) == 0:
		return fmt.Errorf("%w: empty speed table", ErrInvalidRules)
	case r.SoftDropInterval <= 0:
		return fmt.Errorf("%w: soft drop interval must be positive", ErrInvalidRules)
	case r.DefaultSpeed < 0 || r.DefaultSpeed >= len(r.SpeedTable):
		return fmt.Errorf("%w: default speed %d outside 0..%d", ErrInvalidRules, r.DefaultSpeed, len(r.SpeedTable)-1)
	case r.LockThreshold < 1:
		return fmt.Errorf("%w: lock threshold must be at least 1", ErrInvalidRules)
	case r.ChainRevealPause < 0 || r.ChainClearPause < 0:
		return fmt.Errorf("%w: chain pauses must not be negative", ErrInvalidRules)
	case r.GroupMinSize < 2:
		return fmt.Errorf("%w: group min size must be at least 2", ErrInvalidRules)
	case r.SpawnColumn < 0 || r.SpawnColumn >= r.Cols:
		return fmt.Errorf("%w: spawn column %d outside field", ErrInvalidRules, r.SpawnColumn)
	case r.SpawnRow() < 1 || r.SpawnRow() >= r.Rows:
		return fmt.Errorf("%w: spawn row %d leaves no room for the satellite", ErrInvalidRules, r.SpawnRow())
	case r.WarningCell().Row < 0 || r.WarningCell().Row >= r.Rows:
		return fmt.Errorf("%w: warning row %d outside field", ErrInvalidRules, r.WarningCell().Row)
	}
	for i, d := range r.SpeedTable {
		if d <= 0 {
			return fmt.Errorf("%w: speed %d interval must be positive", ErrInvalidRules, i)
		}
	}
	for _, c := range r.Colors {
		if c.IsEmpty() || c > ColorYellow {
			return fmt.Errorf("%w: invalid piece color %v", ErrInvalidRules, c)
		}
	}
	return nil
}

// MaxSpeed returns the fastest speed index.
func (r Rules) MaxSpeed() int {
	return len(r.SpeedTable) - 1
}

// Interval returns the descent interval for a speed, or the soft drop
// interval while soft drop is held.
func (r Rules) Interval(speed int, softDrop bool) time.Duration {
	if softDrop {
		return r.SoftDropInterval
	}
	if speed < 0 {
		speed = 0
	}
	if speed > r.MaxSpeed() {
		speed = r.MaxSpeed()
	}
	return r.SpeedTable[speed]
}

// SpawnRow returns the row a new axis cell appears on.
func (r Rules) SpawnRow() int {
	return r.Rows - r.SpawnRowFromBottom
}

// WarningCell returns the cell whose occupation after a settle ends the game.
func (r Rules) WarningCell() Cell {
	return At(r.Rows-r.WarningRowFromBottom, r.SpawnColumn)
}
