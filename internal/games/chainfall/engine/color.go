package engine

import "strings"

// Color is the content of a field cell. The zero value is an empty cell.
type Color uint8

const (
	ColorEmpty Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
)

// String returns the lowercase color name.
func (c Color) String() string {
	switch c {
	case ColorEmpty:
		return "empty"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	default:
		return "unknown"
	}
}

// Char returns the single character used in ASCII dumps and field fixtures.
func (c Color) Char() rune {
	switch c {
	case ColorEmpty:
		return '.'
	case ColorRed:
		return 'R'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorYellow:
		return 'Y'
	default:
		return '?'
	}
}

// IsEmpty reports whether the cell holds no color.
func (c Color) IsEmpty() bool {
	return c == ColorEmpty
}

// ParseColor converts a color name or its single-letter form.
// Returns ColorEmpty and false for anything else.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return ColorRed, true
	case "green", "g":
		return ColorGreen, true
	case "blue", "b":
		return ColorBlue, true
	case "yellow", "y":
		return ColorYellow, true
	default:
		return ColorEmpty, false
	}
}

// AllColors returns the four piece colors in declaration order.
func AllColors() []Color {
	return []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}
}
