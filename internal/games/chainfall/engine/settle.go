package engine

// settle writes the locked piece into the field, lets both halves drop,
// applies gravity and starts the chain scan.
func (e *Engine) settle() {
	e.stageTimer = 0
	if e.piece == nil {
		return
	}
	p := *e.piece
	e.piece = nil
	e.phase = Phase{Kind: PhaseSettling}

	axis := At(p.AxisRow(), p.Col)
	sat := At(p.SatelliteRow(), p.SatelliteCol())
	if e.conflicts(axis) || e.conflicts(sat) {
		e.stats.Conflicts++
		e.emit(Event{Kind: EventLockConflict, Pair: p.Colors})
		e.spawn()
		return
	}

	written := make([]Cell, 0, 2)
	for _, w := range []struct {
		cell  Cell
		color Color
	}{
		{axis, p.Colors.Axis()},
		{sat, p.Colors.Satellite()},
	} {
		if !e.field.InBounds(w.cell.Row, w.cell.Col) {
			continue
		}
		e.field.Set(w.cell.Row, w.cell.Col, w.color)
		written = append(written, w.cell)
	}
	for _, c := range written {
		e.field.dropCell(c)
	}
	e.field = e.field.ApplyGravity()

	e.stats.Settled++
	e.emit(Event{Kind: EventSettled, Pair: p.Colors})
	e.publish()

	warn := e.rules.WarningCell()
	if e.field.Occupied(warn.Row, warn.Col) {
		e.gameOver()
		return
	}

	e.chainLink = 0
	e.scan()
}

// conflicts reports whether writing to c would overwrite a settled cell.
// Cells outside the field are skipped by the write, so they never conflict.
func (e *Engine) conflicts(c Cell) bool {
	return e.field.InBounds(c.Row, c.Col) && e.field.Occupied(c.Row, c.Col)
}

// scan looks for groups on the current field. With none left the chain
// ends and the next piece spawns; otherwise a new link starts by
// highlighting every matched cell.
func (e *Engine) scan() {
	e.stageTimer = 0
	groups := e.field.FindGroups(e.rules.GroupMinSize)
	if len(groups) == 0 {
		if e.chainLink > 0 {
			e.stats.LongestChain = max(e.stats.LongestChain, e.chainLink)
			e.emit(Event{Kind: EventChainEnd, Link: e.chainLink})
		}
		e.chainLink = 0
		e.spawn()
		return
	}

	e.chainLink++
	e.stats.ChainLinks++
	e.highlight = e.highlight[:0]
	cells := 0
	for _, g := range groups {
		e.highlight = append(e.highlight, g.Cells...)
		cells += g.Size()
	}
	e.phase = Phase{
		Kind:  PhaseChaining,
		Chain: &ChainState{Link: e.chainLink, Groups: groups, Stage: StageHighlight},
	}
	e.emit(Event{Kind: EventChainLink, Link: e.chainLink, Groups: len(groups), Cells: cells})
	e.publish()
	e.stageTimer = e.sched.After(e.rules.ChainRevealPause, e.endReveal)
}

// endReveal clears the highlight and waits before erasing.
func (e *Engine) endReveal() {
	e.highlight = nil
	e.phase.Chain.Stage = StagePause
	e.publish()
	e.stageTimer = e.sched.After(e.rules.ChainClearPause, e.eraseGroups)
}

// eraseGroups removes the matched groups, applies gravity and schedules
// the rescan for the next link.
func (e *Engine) eraseGroups() {
	chain := e.phase.Chain
	chain.Stage = StageErase
	e.field = e.field.Erase(chain.Groups)
	for _, g := range chain.Groups {
		e.stats.GroupsCleared++
		e.stats.CellsCleared += g.Size()
	}

	e.field = e.field.ApplyGravity()
	chain.Stage = StageGravityThenRescan
	e.publish()
	e.stageTimer = e.sched.After(0, e.scan)
}

func (e *Engine) gameOver() {
	e.stopFall()
	if e.stageTimer != 0 {
		e.sched.Cancel(e.stageTimer)
		e.stageTimer = 0
	}
	e.piece = nil
	e.highlight = nil
	e.phase = Phase{Kind: PhaseGameOver}
	e.emit(Event{Kind: EventGameOver})
	e.publish()
}
