package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kamstrup/intmap"
)

// Cell addresses one field position. Row 0 is the top row.
type Cell struct {
	Row int
	Col int
}

// At is shorthand for Cell{Row: row, Col: col}.
func At(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

// Group is a maximal 4-connected region of one color.
type Group struct {
	Color Color
	Cells []Cell
}

// Size returns the number of cells in the group.
func (g Group) Size() int {
	return len(g.Cells)
}

// Field is the grid of settled cells, stored row-major: index = row*Cols + col.
type Field struct {
	Rows  int
	Cols  int
	Cells []Color
}

// NewField creates an empty field.
func NewField(rows, cols int) *Field {
	return &Field{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Color, rows*cols),
	}
}

// ParseField builds a field from text rows listed top to bottom.
// Rows are bottom-aligned: fewer lines than rows leaves the top empty.
// '.' marks an empty cell, R/G/B/Y a colored one.
func ParseField(rows, cols int, lines []string) (*Field, error) {
	if len(lines) > rows {
		return nil, fmt.Errorf("field has %d lines, want at most %d", len(lines), rows)
	}
	f := NewField(rows, cols)
	offset := rows - len(lines)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != cols {
			return nil, fmt.Errorf("line %d: %q has %d cells, want %d", i+1, line, len(line), cols)
		}
		for col, ch := range line {
			if ch == '.' {
				continue
			}
			color, ok := ParseColor(string(ch))
			if !ok {
				return nil, fmt.Errorf("line %d: unknown cell %q", i+1, ch)
			}
			f.Set(offset+i, col, color)
		}
	}
	return f, nil
}

func (f *Field) index(row, col int) int {
	return row*f.Cols + col
}

// InBounds reports whether (row, col) lies inside the field.
func (f *Field) InBounds(row, col int) bool {
	return row >= 0 && row < f.Rows && col >= 0 && col < f.Cols
}

// Get returns the color at (row, col), or ColorEmpty when out of bounds.
func (f *Field) Get(row, col int) Color {
	if !f.InBounds(row, col) {
		return ColorEmpty
	}
	return f.Cells[f.index(row, col)]
}

// Set writes a color. Out-of-bounds writes are ignored.
func (f *Field) Set(row, col int, c Color) {
	if f.InBounds(row, col) {
		f.Cells[f.index(row, col)] = c
	}
}

// Occupied reports whether (row, col) blocks a piece.
// Positions outside the field are always blocked.
func (f *Field) Occupied(row, col int) bool {
	if !f.InBounds(row, col) {
		return true
	}
	return !f.Cells[f.index(row, col)].IsEmpty()
}

// Count returns the number of non-empty cells.
func (f *Field) Count() int {
	n := 0
	for _, c := range f.Cells {
		if !c.IsEmpty() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	cells := make([]Color, len(f.Cells))
	copy(cells, f.Cells)
	return &Field{Rows: f.Rows, Cols: f.Cols, Cells: cells}
}

// Equal reports whether both fields have the same size and contents.
func (f *Field) Equal(other *Field) bool {
	if other == nil || f.Rows != other.Rows || f.Cols != other.Cols {
		return false
	}
	for i, c := range f.Cells {
		if c != other.Cells[i] {
			return false
		}
	}
	return true
}

// Column returns the colors of one column from top to bottom.
func (f *Field) Column(col int) []Color {
	out := make([]Color, f.Rows)
	for row := 0; row < f.Rows; row++ {
		out[row] = f.Get(row, col)
	}
	return out
}

// ApplyGravity returns a new field where every column is compacted downward,
// keeping the top-to-bottom order of its cells.
func (f *Field) ApplyGravity() *Field {
	out := NewField(f.Rows, f.Cols)
	for col := 0; col < f.Cols; col++ {
		dst := f.Rows - 1
		for row := f.Rows - 1; row >= 0; row-- {
			c := f.Get(row, col)
			if c.IsEmpty() {
				continue
			}
			out.Set(dst, col, c)
			dst--
		}
	}
	return out
}

// FindGroups returns every same-color 4-connected region with at least
// minSize cells. Groups are ordered by their first cell in row-major order
// and each group's cells are sorted the same way.
func (f *Field) FindGroups(minSize int) []Group {
	labels := intmap.New[int, int](len(f.Cells))
	var groups []Group
	next := 0

	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			color := f.Get(row, col)
			if color.IsEmpty() || labels.Has(f.index(row, col)) {
				continue
			}

			cells := f.flood(row, col, color, next, labels)
			next++
			if len(cells) < minSize {
				continue
			}
			sort.Slice(cells, func(i, j int) bool {
				if cells[i].Row != cells[j].Row {
					return cells[i].Row < cells[j].Row
				}
				return cells[i].Col < cells[j].Col
			})
			groups = append(groups, Group{Color: color, Cells: cells})
		}
	}
	return groups
}

// flood labels the region containing (row, col) and returns its cells.
func (f *Field) flood(row, col int, color Color, label int, labels *intmap.Map[int, int]) []Cell {
	var cells []Cell
	stack := []Cell{At(row, col)}
	labels.Put(f.index(row, col), label)

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cells = append(cells, c)

		for _, n := range [4]Cell{
			At(c.Row-1, c.Col),
			At(c.Row, c.Col+1),
			At(c.Row+1, c.Col),
			At(c.Row, c.Col-1),
		} {
			if !f.InBounds(n.Row, n.Col) || f.Get(n.Row, n.Col) != color {
				continue
			}
			idx := f.index(n.Row, n.Col)
			if labels.Has(idx) {
				continue
			}
			labels.Put(idx, label)
			stack = append(stack, n)
		}
	}
	return cells
}

// Erase returns a new field with every cell of the given groups emptied.
func (f *Field) Erase(groups []Group) *Field {
	out := f.Clone()
	for _, g := range groups {
		for _, c := range g.Cells {
			out.Set(c.Row, c.Col, ColorEmpty)
		}
	}
	return out
}

// dropCell slides the cell at c straight down through empty cells and
// returns where it came to rest.
func (f *Field) dropCell(c Cell) Cell {
	color := f.Get(c.Row, c.Col)
	if color.IsEmpty() {
		return c
	}
	row := c.Row
	for row+1 < f.Rows && !f.Occupied(row+1, c.Col) {
		row++
	}
	if row != c.Row {
		f.Set(c.Row, c.Col, ColorEmpty)
		f.Set(row, c.Col, color)
	}
	return At(row, c.Col)
}

// String renders the field as text rows, top to bottom.
func (f *Field) String() string {
	var sb strings.Builder
	sb.Grow((f.Cols + 1) * f.Rows)
	for row := 0; row < f.Rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < f.Cols; col++ {
			sb.WriteRune(f.Get(row, col).Char())
		}
	}
	return sb.String()
}
