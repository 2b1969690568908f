// Package equity values candidate plays so the search explores the most
// promising ones first. Valuations only affect ordering, never legality.
package equity

import (
	"fmt"
	"sort"

	"github.com/domino14/klondike/cards"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/table"
)

// Valuation is compared lexicographically: Score first, then Priority.
type Valuation struct {
	Score    int
	Priority int
}

func (v Valuation) Less(o Valuation) bool {
	if v.Score != o.Score {
		return v.Score < o.Score
	}
	return v.Priority < o.Priority
}

func (v Valuation) String() string {
	return fmt.Sprintf("(%d,%d)", v.Score, v.Priority)
}

// Evaluator assigns a valuation to a play made on a table.
type Evaluator interface {
	Evaluate(p move.Play, t *table.Table) Valuation
}

const (
	kingNothingToUnblock = 99
	kingQueenVisible     = 1
	kingQueenBuried      = -1
)

// KlondikeHeuristic is the default ordering policy:
//
//	to a foundation        5, 0
//	waste to tableau       5, 1 (kings: see kingPriority)
//	tableau to tableau     0, lift index + 1
//	foundation to tableau  -10, 0
//	anything else          0, 0
type KlondikeHeuristic struct{}

func (KlondikeHeuristic) Evaluate(p move.Play, t *table.Table) Valuation {
	if p.Type != move.PlayTypeMoveCards {
		return Valuation{}
	}
	from := p.Source.Stack
	switch {
	case p.Target.IsFoundation():
		return Valuation{Score: 5}
	case from == table.Waste && p.Target.IsTableau():
		c, ok := t.Card(p.Source)
		if ok && c.Rank == cards.King {
			return Valuation{Score: 5, Priority: kingPriority(c, t)}
		}
		return Valuation{Score: 5, Priority: 1}
	case from.IsTableau() && p.Target.IsTableau():
		if t.Stack(from).IsEmpty() {
			return Valuation{Priority: 1}
		}
		return Valuation{Priority: p.Source.Index + 1}
	case from.IsFoundation() && p.Target.IsTableau():
		return Valuation{Score: -10}
	}
	return Valuation{}
}

// kingPriority looks for the queen of the king's own suit off the
// foundations. A king with no such queen left to free is played eagerly.
func kingPriority(king cards.Card, t *table.Table) int {
	for id := table.Stock; id <= table.Tableau7; id++ {
		if id.IsFoundation() {
			continue
		}
		s := t.Stack(id)
		if idx, ok := s.Find(cards.Queen, king.Suit); ok {
			if s.Cards[idx].FaceUp {
				return kingQueenVisible
			}
			return kingQueenBuried
		}
	}
	return kingNothingToUnblock
}

var defaultEvaluator Evaluator = KlondikeHeuristic{}

// Evaluate values p with the default heuristic.
func Evaluate(p move.Play, t *table.Table) Valuation {
	return defaultEvaluator.Evaluate(p, t)
}

// Candidate is a play paired with its valuation.
type Candidate struct {
	Play      move.Play
	Valuation Valuation
}

func (c Candidate) String() string {
	return c.Play.ShortDescription() + c.Valuation.String()
}

// Rank values every play and orders them best first. Equal
// valuations keep generation order.
func Rank(plays []move.Play, t *table.Table, ev Evaluator) []Candidate {
	if ev == nil {
		ev = defaultEvaluator
	}
	cands := make([]Candidate, len(plays))
	for i, p := range plays {
		cands[i] = Candidate{Play: p, Valuation: ev.Evaluate(p, t)}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[j].Valuation.Less(cands[i].Valuation)
	})
	return cands
}
