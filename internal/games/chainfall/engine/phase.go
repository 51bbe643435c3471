package engine

import "fmt"

// PhaseKind names a state of the game phase machine.
type PhaseKind uint8

const (
	PhaseWaiting PhaseKind = iota
	PhaseFalling
	PhaseLockWait
	PhaseLocked
	PhaseSettling
	PhaseChaining
	PhaseGameOver
)

// String returns the phase name.
func (k PhaseKind) String() string {
	switch k {
	case PhaseWaiting:
		return "Waiting"
	case PhaseFalling:
		return "Falling"
	case PhaseLockWait:
		return "LockWait"
	case PhaseLocked:
		return "LockedAwaitingSettle"
	case PhaseSettling:
		return "Settling"
	case PhaseChaining:
		return "Chaining"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// ChainStage is the step of one chain link.
type ChainStage uint8

const (
	StageHighlight ChainStage = iota
	StagePause
	StageErase
	StageGravityThenRescan
)

// String returns the stage name.
func (s ChainStage) String() string {
	switch s {
	case StageHighlight:
		return "highlight"
	case StagePause:
		return "pause"
	case StageErase:
		return "erase"
	case StageGravityThenRescan:
		return "gravity"
	default:
		return "unknown"
	}
}

// ChainState is the payload of PhaseChaining.
type ChainState struct {
	Link   int // 1 for the first clear after a lock
	Groups []Group
	Stage  ChainStage
}

// Phase is the current phase with its payload. LockCount is set for
// PhaseLockWait, Chain for PhaseChaining.
type Phase struct {
	Kind      PhaseKind
	LockCount int
	Chain     *ChainState
}

// Is reports whether the phase is of kind k.
func (p Phase) Is(k PhaseKind) bool {
	return p.Kind == k
}

// HasPiece reports whether an active piece exists and accepts movement.
func (p Phase) HasPiece() bool {
	return p.Kind == PhaseFalling || p.Kind == PhaseLockWait
}

func (p Phase) String() string {
	switch p.Kind {
	case PhaseLockWait:
		return fmt.Sprintf("LockWait(%d)", p.LockCount)
	case PhaseChaining:
		if p.Chain != nil {
			return fmt.Sprintf("Chaining(link %d, %s)", p.Chain.Link, p.Chain.Stage)
		}
	}
	return p.Kind.String()
}

func (p Phase) clone() Phase {
	if p.Chain == nil {
		return p
	}
	cs := *p.Chain
	cs.Groups = cloneGroups(p.Chain.Groups)
	p.Chain = &cs
	return p
}

func cloneGroups(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Color: g.Color, Cells: append([]Cell(nil), g.Cells...)}
	}
	return out
}
