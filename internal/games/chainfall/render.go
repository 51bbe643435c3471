package chainfall

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
)

// Visual characters for rendering
const (
	SettledChar   = '█'
	PieceChar     = '▓'
	HighlightChar = '░'
	EmptyChar     = '·'
	WarningChar   = '×'
)

const (
	hudWidth = 24
	hudGap   = 2
)

var cellColors = map[engine.Color]core.Color{
	engine.ColorRed:    core.ColorRed,
	engine.ColorGreen:  core.ColorGreen,
	engine.ColorBlue:   core.ColorBlue,
	engine.ColorYellow: core.ColorYellow,
}

// layout places the field box and the HUD on the screen.
type layout struct {
	cellW, cellH int
	field        core.Rect // includes the border
	hudX         int
}

// cellSizes lists cell sizes from the largest. With two lines per row a
// piece between rows is drawn one line lower, so its half-row offset shows.
var cellSizes = []struct{ w, h int }{{4, 2}, {2, 1}}

func computeLayout(w, h, rows, cols int) (layout, bool) {
	for _, size := range cellSizes {
		fw := cols*size.w + 2
		fh := rows*size.h + 2
		total := fw + hudGap + hudWidth
		if total > w || fh > h {
			continue
		}
		x := (w - total) / 2
		y := (h - fh) / 2
		return layout{
			cellW: size.w,
			cellH: size.h,
			field: core.NewRect(x, y, fw, fh),
			hudX:  x + fw + hudGap,
		}, true
	}
	return layout{}, false
}

// minSize returns the smallest screen that fits the field and HUD.
func minSize(rows, cols int) (int, int) {
	small := cellSizes[len(cellSizes)-1]
	return cols*small.w + 2 + hudGap + hudWidth, rows*small.h + 2
}

// cellOrigin returns the top-left screen position of a field cell.
func (l layout) cellOrigin(row, col int) (int, int) {
	return l.field.X + 1 + col*l.cellW, l.field.Y + 1 + row*l.cellH
}

// halfRowTop returns the first screen line of a cell at a half-row position.
func (l layout) halfRowTop(halfY int) int {
	return l.field.Y + 1 + floorDiv(halfY*l.cellH, 2)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		return
	}

	s := g.snap
	l, ok := computeLayout(dst.Width(), dst.Height(), s.Field.Rows, s.Field.Cols)
	if !ok {
		w, h := minSize(s.Field.Rows, s.Field.Cols)
		dst.DrawTextCentered(dst.Height()/2-1, "Terminal too small")
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("need %dx%d", w, h))
		return
	}

	dst.DrawBox(l.field, core.ColorGray)
	g.drawField(dst, l)
	g.drawPiece(dst, l)
	g.drawHUD(dst, l)

	screen := core.NewRect(0, 0, dst.Width(), dst.Height())
	switch {
	case s.Phase.Is(engine.PhaseGameOver):
		stats := g.engine.Stats()
		drawCenteredMessage(dst, screen, "GAME OVER",
			fmt.Sprintf("Best chain %d  |  R restart  |  Esc menu", stats.LongestChain))
	case g.paused:
		drawCenteredMessage(dst, screen, "PAUSED", "Press P to resume")
	}
}

func (g *Game) blinkOn() bool {
	period := core.Max(1, g.config.TickRate/8)
	return (g.frames/period)%2 == 0
}

func (g *Game) drawField(dst *core.Screen, l layout) {
	s := g.snap
	warn := g.rules.WarningCell()
	blink := g.blinkOn()

	for row := 0; row < s.Field.Rows; row++ {
		for col := 0; col < s.Field.Cols; col++ {
			x, y := l.cellOrigin(row, col)
			c := s.Field.Get(row, col)
			switch {
			case blink && s.Highlighted(engine.At(row, col)):
				fillCell(dst, x, y, l, HighlightChar, core.ColorBrightWhite)
			case !c.IsEmpty():
				fillCell(dst, x, y, l, SettledChar, cellColors[c])
			case row == warn.Row && col == warn.Col:
				dst.SetColored(x+(l.cellW-1)/2, y+(l.cellH-1)/2, WarningChar, core.ColorMagenta)
			default:
				dst.SetColored(x+(l.cellW-1)/2, y+(l.cellH-1)/2, EmptyChar, core.ColorGray)
			}
		}
	}
}

func fillCell(dst *core.Screen, x, y int, l layout, r rune, c core.Color) {
	for dy := 0; dy < l.cellH; dy++ {
		for dx := 0; dx < l.cellW; dx++ {
			dst.SetColored(x+dx, y+dy, r, c)
		}
	}
}

func (g *Game) drawPiece(dst *core.Screen, l layout) {
	if g.snap.Piece == nil {
		return
	}
	p := *g.snap.Piece
	g.drawHalf(dst, l, p.FallY, p.Col, p.Colors.Axis())
	g.drawHalf(dst, l, p.SatelliteHalfY(), p.SatelliteCol(), p.Colors.Satellite())
}

// drawHalf draws one half of the piece, clipped to the field interior.
func (g *Game) drawHalf(dst *core.Screen, l layout, halfY, col int, c engine.Color) {
	x, _ := l.cellOrigin(0, col)
	top := l.halfRowTop(halfY)
	for dy := 0; dy < l.cellH; dy++ {
		y := top + dy
		if y <= l.field.Y || y >= l.field.Bottom()-1 {
			continue
		}
		for dx := 0; dx < l.cellW; dx++ {
			dst.SetColored(x+dx, y, PieceChar, cellColors[c])
		}
	}
}

var phaseLabels = map[engine.PhaseKind]string{
	engine.PhaseWaiting:  "Spawning",
	engine.PhaseFalling:  "Falling",
	engine.PhaseLockWait: "Landing",
	engine.PhaseLocked:   "Locked",
	engine.PhaseSettling: "Settling",
	engine.PhaseChaining: "Chaining",
	engine.PhaseGameOver: "Game over",
}

var controlLines = []string{
	"←/→ move   ↓ drop",
	"z/x rotate",
	"q/e speed  p pause",
	"esc menu   ctrl+c quit",
}

func (g *Game) drawHUD(dst *core.Screen, l layout) {
	s := g.snap
	stats := g.engine.Stats()
	x, y := l.hudX, l.field.Y

	dst.DrawTextColored(x, y, "CHAINFALL", core.ColorCyan)

	bars := strings.Repeat("■", s.Speed+1) + strings.Repeat("□", g.rules.MaxSpeed()-s.Speed)
	dst.DrawText(x, y+2, fmt.Sprintf("Speed  %s  %s", bars, config.SpeedName(s.Speed)))
	dst.DrawText(x, y+3, "Phase  "+phaseLabels[s.Phase.Kind])

	lock := strings.Repeat("●", s.LockCount) + strings.Repeat("○", core.Max(0, g.rules.LockThreshold-s.LockCount))
	dst.DrawText(x, y+4, "Lock   "+lock)

	link := "-"
	if s.Phase.Chain != nil {
		link = fmt.Sprint(s.Phase.Chain.Link)
	}
	dst.DrawText(x, y+5, fmt.Sprintf("Chain  %-5s Best %d", link, stats.LongestChain))
	dst.DrawText(x, y+6, fmt.Sprintf("Pairs  %d", stats.Pairs))

	secs := int(s.At.Seconds())
	dst.DrawText(x, y+7, fmt.Sprintf("Time   %02d:%02d", secs/60, secs%60))

	if s.SoftDrop {
		dst.DrawTextColored(x, y+8, "[SOFT DROP]", core.ColorYellow)
	}

	for i, line := range controlLines {
		dst.DrawTextColored(x, y+10+i, line, core.ColorGray)
	}
}

// drawCenteredMessage draws a message box in the center of area.
func drawCenteredMessage(dst *core.Screen, area core.Rect, title, subtitle string) {
	tw, sw := len([]rune(title)), len([]rune(subtitle))
	box := core.CenteredIn(area, core.Max(tw, sw)+4, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextColored(box.X+(box.W-tw)/2, box.Y+1, title, core.ColorBrightWhite)
	dst.DrawText(box.X+(box.W-sw)/2, box.Y+3, subtitle)
}
