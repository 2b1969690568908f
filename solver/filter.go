package solver

import (
	"github.com/domino14/klondike/cards"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/table"
)

// Accept is the anti-cycle filter. path holds the plays from the root
// (starting with Setup) that led to t; p is a candidate play on t.
//
// A recycle is rejected if the previous non-draw play on the path was
// also a recycle. Moves off a foundation are rejected, as are kings
// leaving the bottom of a column for another column; a king may still
// go up to its foundation. Unless partialRuns is set, a tableau move
// must lift the whole face-up run.
func Accept(p move.Play, t *table.Table, path []move.Play, partialRuns bool) bool {
	switch p.Type {
	case move.PlayTypeRecycleWaste:
		for i := len(path) - 1; i >= 0; i-- {
			switch path[i].Type {
			case move.PlayTypeDrawFromStock:
				continue
			case move.PlayTypeRecycleWaste:
				return false
			case move.PlayTypeSetup, move.PlayTypeMoveCards:
				return true
			}
		}
		return true
	case move.PlayTypeMoveCards:
		return acceptMove(p, t, partialRuns)
	case move.PlayTypeSetup, move.PlayTypeDrawFromStock:
		return true
	}
	return true
}

func acceptMove(p move.Play, t *table.Table, partialRuns bool) bool {
	from := p.Source.Stack
	if from.IsFoundation() {
		return false
	}
	if !from.IsTableau() {
		return true
	}
	if p.Source.Index == 0 {
		if !p.Target.IsTableau() {
			return true
		}
		c, ok := t.Card(p.Source)
		return !ok || c.Rank != cards.King
	}
	return partialRuns || t.Stack(from).IsLiftPoint(p.Source.Index)
}
