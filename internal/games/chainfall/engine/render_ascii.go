package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// RenderASCII draws a snapshot as text for debugging, tracing and tests.
//
// Format:
//   - settled cells: '.' empty, R/G/B/Y
//   - active piece: lowercase color letters on every row it covers
//   - highlighted cells: '*'
func RenderASCII(s Snapshot) string {
	var sb strings.Builder
	f := s.Field

	fmt.Fprintf(&sb, "Phase: %s | Speed: %d | Lock: %d | Pairs: %d | t=%s\n",
		s.Phase, s.Speed, s.LockCount, s.Pairs, s.At)

	overlay := make(map[Cell]rune)
	if s.Piece != nil {
		for i, c := range s.Piece.Cells(f.Rows) {
			color := s.Piece.Colors.Axis()
			if i >= len(CoveredRows(s.Piece.FallY, f.Rows)) {
				color = s.Piece.Colors.Satellite()
			}
			overlay[c] = unicode.ToLower(color.Char())
		}
	}
	for _, c := range s.Highlight {
		overlay[c] = '*'
	}

	border := "+" + strings.Repeat("-", f.Cols) + "+\n"
	sb.WriteString(border)
	for row := 0; row < f.Rows; row++ {
		sb.WriteByte('|')
		for col := 0; col < f.Cols; col++ {
			if r, ok := overlay[At(row, col)]; ok {
				sb.WriteRune(r)
				continue
			}
			sb.WriteRune(f.Get(row, col).Char())
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}
