package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/klondike/cards"
	"github.com/domino14/klondike/table"
)

const bignum = 1<<63 - 2

// MaxHeight bounds the position of a card within any one stack.
const MaxHeight = cards.DeckSize

// each card can be face-down or face-up
const cardCodes = cards.DeckSize * 2

// generate a zobrist hash for a Klondike table.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	// posTable[stack][height][code]
	posTable [][][]uint64
}

func (z *Zobrist) Initialize() {
	z.posTable = make([][][]uint64, table.NumStacks+1)
	for s := range z.posTable {
		z.posTable[s] = make([][]uint64, MaxHeight)
		for h := 0; h < MaxHeight; h++ {
			z.posTable[s][h] = make([]uint64, cardCodes)
			for c := 0; c < cardCodes; c++ {
				z.posTable[s][h][c] = frand.Uint64n(bignum) + 1
			}
		}
	}
}

func code(c cards.Card) int {
	o := c.Ordinal() * 2
	if c.FaceUp {
		o++
	}
	return o
}

// Hash folds every card of every stack, including the hand, into one
// key. Two tables with the same Key always hash the same.
func (z *Zobrist) Hash(t *table.Table) uint64 {
	key := uint64(0)
	for id := table.Stock; id <= table.Hand; id++ {
		for h, c := range t.Stack(id).Cards {
			key ^= z.posTable[id][h][code(c)]
		}
	}
	return key
}
