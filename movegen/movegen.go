// Package movegen enumerates the legal plays of a Klondike table in a
// fixed, deterministic order.
package movegen

import (
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/table"
)

// MoveGenerator produces every legal play for a table.
type MoveGenerator interface {
	GenAll(t *table.Table) []move.Play
}

// KlondikeGenerator generates plays under the single-run lift rule: a
// tableau column can only move its whole face-up run. SetPartialRuns
// relaxes this to any face-up card.
type KlondikeGenerator struct {
	partialRuns bool
}

func NewKlondikeGenerator() *KlondikeGenerator {
	return &KlondikeGenerator{}
}

func (g *KlondikeGenerator) SetPartialRuns(p bool) {
	g.partialRuns = p
}

func (g *KlondikeGenerator) PartialRuns() bool {
	return g.partialRuns
}

// GenAll returns a new slice each call, so the caller owns it. The
// order is:
//
//  1. DrawFromStock if the stock has cards, otherwise RecycleWaste if the
//     waste has cards.
//  2. For each active card in StackID order (and position order within a
//     column), a MoveCards for every accepting target, foundations first
//     and then tableaux, in StackID order.
func (g *KlondikeGenerator) GenAll(t *table.Table) []move.Play {
	plays := make([]move.Play, 0, 16)
	if t.HasCardsInStock() {
		plays = append(plays, move.DrawFromStock)
	} else if t.HasCardsInWaste() {
		plays = append(plays, move.RecycleWaste)
	}
	for id := table.Stock; id <= table.Tableau7; id++ {
		src := t.Stack(id)
		for _, idx := range src.ActiveIndexes(g.partialRuns) {
			bottom := src.Cards[idx]
			count := src.Len() - idx
			for _, target := range table.Targets {
				if target == id {
					continue
				}
				if t.Stack(target).CanAcceptRun(bottom, count) {
					plays = append(plays, move.MoveCards(table.Source{Stack: id, Index: idx}, target))
				}
			}
		}
	}
	return plays
}

var defaultGenerator = NewKlondikeGenerator()

// Generate lists the legal plays of t under the single-run lift rule.
func Generate(t *table.Table) []move.Play {
	return defaultGenerator.GenAll(t)
}
