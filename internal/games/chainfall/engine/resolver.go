package engine

// maxLift is how many whole rows a rotation may raise the piece.
const maxLift = 2

// MoveLateral shifts the piece one column left (dir -1) or right (dir +1).
// The piece is returned unchanged with false when either sub-cell would
// leave the field or overlap a settled cell.
func MoveLateral(p Piece, f *Field, dir int) (Piece, bool) {
	if dir != -1 && dir != 1 {
		return p, false
	}
	q := p
	q.Col += dir
	if !subCellFree(f, q.FallY, q.Col) || !subCellFree(f, q.SatelliteHalfY(), q.SatelliteCol()) {
		return p, false
	}
	return q, true
}

// Rotate turns the piece a quarter turn, resolving collisions in order:
// rotate in place or lifted by up to two rows, then for a horizontal
// target a one-column kick away from the satellite, then a half turn
// with the same lift search. The piece is returned unchanged with false
// when nothing fits.
func Rotate(p Piece, f *Field, t Turn) (Piece, bool) {
	target := p.Rotation.Turn(t)
	if q, ok := liftSearch(p, f, target); ok {
		return q, true
	}

	if !target.Horizontal() {
		return p, false
	}

	_, dCol := target.Offset()
	kicked := p
	kicked.Col -= dCol
	kicked.Rotation = target
	if axisFits(kicked, f) && satelliteFits(kicked, f) {
		return kicked, true
	}

	if q, ok := liftSearch(p, f, target.Turn(t)); ok {
		return q, true
	}
	return p, false
}

// liftSearch tries rotation r at the current height, then one and two rows up.
// It gives up as soon as the axis itself no longer fits.
func liftSearch(p Piece, f *Field, r Rotation) (Piece, bool) {
	for lift := 0; lift <= maxLift; lift++ {
		q := p
		q.Rotation = r
		q.FallY -= 2 * lift
		if !axisFits(q, f) {
			return p, false
		}
		if satelliteFits(q, f) {
			return q, true
		}
	}
	return p, false
}

// subCellFree reports whether a sub-cell at (halfY, col) is inside the
// field's columns and every row it covers is empty. Rows above the top
// are not checked.
func subCellFree(f *Field, halfY, col int) bool {
	if col < 0 || col >= f.Cols {
		return false
	}
	for _, row := range CoveredRows(halfY, f.Rows) {
		if f.Occupied(row, col) {
			return false
		}
	}
	return true
}

// axisFits is the stricter rotation test for the axis: it must also be
// inside the field vertically.
func axisFits(p Piece, f *Field) bool {
	if p.FallY < 0 || p.AxisRow() >= f.Rows {
		return false
	}
	return subCellFree(f, p.FallY, p.Col)
}

// satelliteFits is the rotation test for the satellite. It may not rise
// above the top row or reach below the bottom one.
func satelliteFits(p Piece, f *Field) bool {
	sy := p.SatelliteHalfY()
	if sy < 0 || sy >= 2*f.Rows-1 {
		return false
	}
	return subCellFree(f, sy, p.SatelliteCol())
}
