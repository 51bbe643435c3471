package engine

import "time"

// Snapshot is a deep copy of everything a presentation layer draws.
type Snapshot struct {
	Field     *Field
	Phase     Phase
	Piece     *Piece // nil when no piece is falling
	Highlight []Cell
	LockCount int
	Speed     int
	SoftDrop  bool
	Pairs     int // pieces spawned so far
	At        time.Duration
}

// Sink receives a snapshot after every atomic engine transition.
type Sink interface {
	Publish(Snapshot)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Snapshot)

// Publish calls f.
func (f SinkFunc) Publish(s Snapshot) { f(s) }

// Highlighted reports whether c is part of the highlighted set.
func (s Snapshot) Highlighted(c Cell) bool {
	for _, h := range s.Highlight {
		if h == c {
			return true
		}
	}
	return false
}

// EventKind names something that happened during Advance.
type EventKind uint8

const (
	EventSpawned EventKind = iota
	EventLocked
	EventLockConflict
	EventSettled
	EventChainLink
	EventChainEnd
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventSpawned:
		return "spawned"
	case EventLocked:
		return "locked"
	case EventLockConflict:
		return "lock_conflict"
	case EventSettled:
		return "settled"
	case EventChainLink:
		return "chain_link"
	case EventChainEnd:
		return "chain_end"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event records one engine transition. Link is the chain link number for
// chain events, Groups and Cells the groups and cells cleared by a link.
type Event struct {
	Kind   EventKind
	At     time.Duration
	Pair   Pair
	Link   int
	Groups int
	Cells  int
}

// Stats accumulates over one game.
type Stats struct {
	Pairs         int
	Settled       int
	Conflicts     int
	ChainLinks    int
	LongestChain  int
	GroupsCleared int
	CellsCleared  int
}
