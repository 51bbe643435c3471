// Package engine implements the falling-pair puzzle simulation: the field,
// piece collision and rotation kicks, the lock-delay fall timer, settling
// and the timed chain loop. It has no notion of terminals or wall-clock
// time; hosts drive it with Apply and Advance.
package engine

import (
	"fmt"
	"time"
)

// Engine owns the field, the active piece and the phase machine.
// It is not safe for concurrent use.
type Engine struct {
	rules  Rules
	source PairSource
	sink   Sink
	sched  *Scheduler

	initial    *Field
	startSpeed int

	field     *Field
	piece     *Piece
	phase     Phase
	lockCount int
	speed     int
	softDrop  bool
	highlight []Cell
	chainLink int

	fallTimer  TimerID
	stageTimer TimerID

	stats  Stats
	events []Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink publishes snapshots to s.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithField starts every game from a copy of f instead of an empty field.
func WithField(f *Field) Option {
	return func(e *Engine) { e.initial = f.Clone() }
}

// WithSpeed sets the speed index a game starts at.
func WithSpeed(speed int) Option {
	return func(e *Engine) { e.startSpeed = speed }
}

// New validates the rules, creates an engine and spawns the first piece.
func New(rules Rules, source PairSource, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		rules:      rules,
		source:     source,
		sched:      NewScheduler(),
		startSpeed: rules.DefaultSpeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.initial != nil && (e.initial.Rows != rules.Rows || e.initial.Cols != rules.Cols) {
		return nil, fmt.Errorf("%w: initial field is %dx%d, rules want %dx%d",
			ErrInvalidRules, e.initial.Rows, e.initial.Cols, rules.Rows, rules.Cols)
	}
	e.startSpeed = clamp(e.startSpeed, 0, rules.MaxSpeed())
	e.Reset()
	return e, nil
}

// Reset cancels all timers, restores the starting field and speed and
// spawns a new piece.
func (e *Engine) Reset() {
	e.sched.Reset()
	e.fallTimer, e.stageTimer = 0, 0
	if e.initial != nil {
		e.field = e.initial.Clone()
	} else {
		e.field = NewField(e.rules.Rows, e.rules.Cols)
	}
	e.piece = nil
	e.lockCount = 0
	e.speed = e.startSpeed
	e.softDrop = false
	e.highlight = nil
	e.chainLink = 0
	e.stats = Stats{}
	e.phase = Phase{Kind: PhaseWaiting}
	e.spawn()
	e.events = nil
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() Rules { return e.rules }

// Phase returns a copy of the current phase.
func (e *Engine) Phase() Phase { return e.phase.clone() }

// Field returns a copy of the settled field.
func (e *Engine) Field() *Field { return e.field.Clone() }

// Piece returns the active piece, if any.
func (e *Engine) Piece() (Piece, bool) {
	if e.piece == nil {
		return Piece{}, false
	}
	return *e.piece, true
}

// Speed returns the selected speed index.
func (e *Engine) Speed() int { return e.speed }

// SoftDrop reports whether soft drop is held.
func (e *Engine) SoftDrop() bool { return e.softDrop }

// LockCount returns the lock counter of the active piece.
func (e *Engine) LockCount() int { return e.lockCount }

// Stats returns the counters of the current game.
func (e *Engine) Stats() Stats { return e.stats }

// Now returns the engine's virtual time.
func (e *Engine) Now() time.Duration { return e.sched.Now() }

// Snapshot returns a deep copy of the presentation state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Field:     e.field.Clone(),
		Phase:     e.phase.clone(),
		Highlight: append([]Cell(nil), e.highlight...),
		LockCount: e.lockCount,
		Speed:     e.speed,
		SoftDrop:  e.softDrop,
		Pairs:     e.stats.Pairs,
		At:        e.sched.Now(),
	}
	if e.piece != nil {
		p := *e.piece
		s.Piece = &p
	}
	return s
}

// Apply performs one input action immediately. Actions that do not fit
// the current phase, and moves that collide, leave the state unchanged.
func (e *Engine) Apply(a Action) {
	if e.phase.Is(PhaseGameOver) {
		return
	}

	switch a {
	case SoftDropOn, SoftDropOff:
		held := a == SoftDropOn
		if held == e.softDrop {
			return
		}
		e.softDrop = held
		if e.phase.HasPiece() {
			e.armFall()
			e.publish()
		}
		return
	}

	if !e.phase.HasPiece() || e.piece == nil {
		return
	}

	switch a {
	case SpeedDown, SpeedUp:
		next := e.speed - 1
		if a == SpeedUp {
			next = e.speed + 1
		}
		next = clamp(next, 0, e.rules.MaxSpeed())
		if next == e.speed {
			return
		}
		e.speed = next
		e.armFall()
	case MoveLeft, MoveRight:
		dir := -1
		if a == MoveRight {
			dir = 1
		}
		q, ok := MoveLateral(*e.piece, e.field, dir)
		if !ok {
			return
		}
		e.piece = &q
	case RotateCW, RotateCCW:
		t := TurnCW
		if a == RotateCCW {
			t = TurnCCW
		}
		q, ok := Rotate(*e.piece, e.field, t)
		if !ok {
			return
		}
		e.piece = &q
	default:
		return
	}
	e.publish()
}

// Advance moves the virtual clock forward by elapsed, running every fall
// tick and chain step that falls due. It returns the events that occurred.
func (e *Engine) Advance(elapsed time.Duration) []Event {
	e.events = nil
	e.sched.Advance(elapsed)
	events := e.events
	e.events = nil
	return events
}

func (e *Engine) emit(ev Event) {
	ev.At = e.sched.Now()
	e.events = append(e.events, ev)
}

func (e *Engine) publish() {
	if e.sink != nil {
		e.sink.Publish(e.Snapshot())
	}
}

// spawn places a new piece at the spawn position or ends the game.
func (e *Engine) spawn() {
	e.phase = Phase{Kind: PhaseWaiting}
	e.publish()
	pair := e.source.Next()
	row := e.rules.SpawnRow()
	p := Piece{
		Colors:   pair,
		FallY:    2 * row,
		Col:      e.rules.SpawnColumn,
		Rotation: RotUp,
	}
	if e.field.Occupied(row, p.Col) || e.field.Occupied(p.SatelliteRow(), p.SatelliteCol()) {
		e.gameOver()
		return
	}

	e.piece = &p
	e.lockCount = 0
	e.stats.Pairs++
	e.phase = Phase{Kind: PhaseFalling}
	e.armFall()
	e.emit(Event{Kind: EventSpawned, Pair: pair})
	e.publish()
}

// armFall (re)starts the fall timer with the current interval.
func (e *Engine) armFall() {
	e.stopFall()
	e.fallTimer = e.sched.Every(e.rules.Interval(e.speed, e.softDrop), e.fallTick)
}

func (e *Engine) stopFall() {
	if e.fallTimer != 0 {
		e.sched.Cancel(e.fallTimer)
		e.fallTimer = 0
	}
}

// fallTick is one descent step. The lock counter only grows while the
// piece is blocked and is reset by the next spawn, not by a later descent.
func (e *Engine) fallTick() {
	if e.piece == nil || !e.phase.HasPiece() {
		e.stopFall()
		return
	}

	canDescend := CanDescend(*e.piece, e.field)
	if !canDescend {
		e.lockCount = min(e.lockCount+1, e.rules.LockThreshold)
	}
	if e.lockCount >= e.rules.LockThreshold {
		e.lock()
		return
	}
	if canDescend {
		e.piece.FallY++
	}
	if e.lockCount > 0 {
		e.phase = Phase{Kind: PhaseLockWait, LockCount: e.lockCount}
	}
	e.publish()
}

func (e *Engine) lock() {
	e.stopFall()
	e.phase = Phase{Kind: PhaseLocked}
	e.emit(Event{Kind: EventLocked, Pair: e.piece.Colors})
	e.publish()
	e.stageTimer = e.sched.After(0, e.settle)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
