package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/chainfall/internal/games/chainfall/engine"
)

func TestMoveLateral(t *testing.T) {
	empty := engine.NewField(14, 6)
	low := mustField(t, ".R....")

	tests := []struct {
		name   string
		field  *engine.Field
		piece  engine.Piece
		dir    int
		wantOK bool
	}{
		{"left on empty field", empty, engine.Piece{FallY: 10, Col: 2}, -1, true},
		{"right on empty field", empty, engine.Piece{FallY: 10, Col: 2}, 1, true},
		{"left wall", empty, engine.Piece{FallY: 10, Col: 0}, -1, false},
		{"satellite hits right wall", empty, engine.Piece{FallY: 10, Col: 4, Rotation: engine.RotRight}, 1, false},
		{"satellite hits left wall", empty, engine.Piece{FallY: 10, Col: 1, Rotation: engine.RotLeft}, -1, false},
		{"blocked by settled cell", low, engine.Piece{FallY: 26, Col: 2}, -1, false},
		{"straddling row is checked", low, engine.Piece{FallY: 25, Col: 2}, -1, false},
		{"row above the cell is free", low, engine.Piece{FallY: 24, Col: 2}, -1, true},
		{"satellite row checked two half rows up", mustField(t, ".R....", "......"), engine.Piece{FallY: 26, Col: 2}, -1, false},
		{"invalid direction", empty, engine.Piece{FallY: 10, Col: 2}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := engine.MoveLateral(tt.piece, tt.field, tt.dir)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.piece.Col+tt.dir, got.Col)
				assert.Equal(t, tt.piece.FallY, got.FallY)
			} else {
				assert.Equal(t, tt.piece, got)
			}
		})
	}
}

func TestRotateInPlace(t *testing.T) {
	f := engine.NewField(14, 6)
	p := engine.Piece{FallY: 10, Col: 2, Rotation: engine.RotUp}

	got, ok := engine.Rotate(p, f, engine.TurnCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 10, Col: 2, Rotation: engine.RotRight}, got)

	got, ok = engine.Rotate(p, f, engine.TurnCCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 10, Col: 2, Rotation: engine.RotLeft}, got)
}

func TestRotateLiftsOffFloor(t *testing.T) {
	f := engine.NewField(14, 6)
	p := engine.Piece{FallY: 26, Col: 2, Rotation: engine.RotRight}

	got, ok := engine.Rotate(p, f, engine.TurnCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 24, Col: 2, Rotation: engine.RotDown}, got)
}

func TestRotateLiftsOverCell(t *testing.T) {
	f := mustField(t, "...R..")
	p := engine.Piece{FallY: 26, Col: 2, Rotation: engine.RotUp}

	got, ok := engine.Rotate(p, f, engine.TurnCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 24, Col: 2, Rotation: engine.RotRight}, got)
}

func TestRotateWallKick(t *testing.T) {
	f := engine.NewField(14, 6)
	p := engine.Piece{FallY: 10, Col: 5, Rotation: engine.RotUp}

	got, ok := engine.Rotate(p, f, engine.TurnCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 10, Col: 4, Rotation: engine.RotRight}, got)

	p.Col = 0
	got, ok = engine.Rotate(p, f, engine.TurnCCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 10, Col: 1, Rotation: engine.RotLeft}, got)
}

func TestRotateKickFromBlockedSide(t *testing.T) {
	// Satellite target blocked and two lifts blocked too: the kick moves
	// the piece one column away from the wall of cells.
	f := mustField(t,
		"...R..",
		"...G..",
		"...B..",
	)
	p := engine.Piece{FallY: 26, Col: 2, Rotation: engine.RotUp}

	got, ok := engine.Rotate(p, f, engine.TurnCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 26, Col: 1, Rotation: engine.RotRight}, got)
}

func TestRotateDoubleRotation(t *testing.T) {
	// Both neighbors blocked: no kick, so the piece turns half way round.
	f := mustField(t,
		".R.R..",
		".G.G..",
		".B.B..",
	)
	p := engine.Piece{FallY: 26, Col: 2, Rotation: engine.RotUp}

	got, ok := engine.Rotate(p, f, engine.TurnCW)
	assert.True(t, ok)
	assert.Equal(t, engine.Piece{FallY: 24, Col: 2, Rotation: engine.RotDown}, got)
}

func TestRotateRejected(t *testing.T) {
	// Axis on row 0 with the satellite above the field, boxed in on
	// every side: nothing fits and the pose is unchanged.
	f, err := engine.ParseField(14, 6, []string{
		"RG.BY.",
		"..R...",
		"......", "......", "......", "......", "......", "......",
		"......", "......", "......", "......", "......", "......",
	})
	assert.NoError(t, err)
	p := engine.Piece{FallY: 0, Col: 2, Rotation: engine.RotUp}

	for _, turn := range []engine.Turn{engine.TurnCW, engine.TurnCCW} {
		got, ok := engine.Rotate(p, f, turn)
		assert.False(t, ok)
		assert.Equal(t, p, got)
	}

	// Vertical targets never try a kick.
	flat := mustField(t,
		"RGBYRG",
		"RG..YR",
	)
	h := engine.Piece{FallY: 26, Col: 2, Rotation: engine.RotRight}
	for _, turn := range []engine.Turn{engine.TurnCW, engine.TurnCCW} {
		got, ok := engine.Rotate(h, flat, turn)
		assert.False(t, ok)
		assert.Equal(t, h, got)
	}
}
