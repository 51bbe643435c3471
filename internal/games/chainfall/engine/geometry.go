package engine

// Rotation is the direction of the satellite relative to the axis cell.
// Values cycle clockwise.
type Rotation uint8

const (
	RotUp Rotation = iota
	RotRight
	RotDown
	RotLeft
)

// Turn is a rotation direction.
type Turn int8

const (
	TurnCW  Turn = 1
	TurnCCW Turn = -1
)

// String returns a short name for the rotation.
func (r Rotation) String() string {
	switch r {
	case RotUp:
		return "up"
	case RotRight:
		return "right"
	case RotDown:
		return "down"
	case RotLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Offset returns the satellite offset in whole rows and columns.
func (r Rotation) Offset() (dRow, dCol int) {
	switch r % 4 {
	case RotUp:
		return -1, 0
	case RotRight:
		return 0, 1
	case RotDown:
		return 1, 0
	default:
		return 0, -1
	}
}

// Horizontal reports whether the satellite sits beside the axis.
func (r Rotation) Horizontal() bool {
	dRow, _ := r.Offset()
	return dRow == 0
}

// Turn returns the rotation one quarter turn in direction t.
func (r Rotation) Turn(t Turn) Rotation {
	if t == TurnCCW {
		return (r + 3) % 4
	}
	return (r + 1) % 4
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CoveredRows returns the field rows touched by a sub-cell at half-row
// position halfY. An odd position straddles two rows. Rows outside
// [0, rows) are dropped.
func CoveredRows(halfY, rows int) []int {
	top := floorDiv(halfY, 2)
	out := make([]int, 0, 2)
	if top >= 0 && top < rows {
		out = append(out, top)
	}
	if halfY%2 != 0 && top+1 >= 0 && top+1 < rows {
		out = append(out, top+1)
	}
	return out
}

// Pair holds the colors of a piece: index 0 is the satellite, index 1 the axis.
type Pair [2]Color

// Satellite returns the satellite color.
func (p Pair) Satellite() Color { return p[0] }

// Axis returns the axis color.
func (p Pair) Axis() Color { return p[1] }

// Piece is the pose of the falling pair. FallY is the axis position in
// half-row units: 2k is aligned to row k, odd values straddle two rows.
type Piece struct {
	Colors   Pair
	FallY    int
	Col      int
	Rotation Rotation
}

// AxisRow returns the top row the axis covers.
func (p Piece) AxisRow() int {
	return floorDiv(p.FallY, 2)
}

// SatelliteHalfY returns the satellite position in half-row units.
func (p Piece) SatelliteHalfY() int {
	dRow, _ := p.Rotation.Offset()
	return p.FallY + 2*dRow
}

// SatelliteRow returns the top row the satellite covers.
func (p Piece) SatelliteRow() int {
	return floorDiv(p.SatelliteHalfY(), 2)
}

// SatelliteCol returns the satellite column.
func (p Piece) SatelliteCol() int {
	_, dCol := p.Rotation.Offset()
	return p.Col + dCol
}

// Aligned reports whether the piece sits exactly on whole rows.
func (p Piece) Aligned() bool {
	return p.FallY%2 == 0
}

// Cells returns every in-field cell the piece covers, axis first.
func (p Piece) Cells(rows int) []Cell {
	var out []Cell
	for _, row := range CoveredRows(p.FallY, rows) {
		out = append(out, At(row, p.Col))
	}
	for _, row := range CoveredRows(p.SatelliteHalfY(), rows) {
		out = append(out, At(row, p.SatelliteCol()))
	}
	return out
}

// CanDescend reports whether the piece may move down half a row.
// Only a sub-cell aligned to a whole row can be stopped: it is blocked
// when the row below it is occupied or past the floor.
func CanDescend(p Piece, f *Field) bool {
	if blockedBelow(p.FallY, p.Col, f) {
		return false
	}
	sc := p.SatelliteCol()
	if sc < 0 || sc >= f.Cols {
		return false
	}
	return !blockedBelow(p.SatelliteHalfY(), sc, f)
}

func blockedBelow(halfY, col int, f *Field) bool {
	if halfY%2 != 0 {
		return false
	}
	covered := CoveredRows(halfY, f.Rows)
	if len(covered) == 0 {
		return false
	}
	return f.Occupied(covered[len(covered)-1]+1, col)
}
