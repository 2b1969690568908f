// Package table models a Klondike layout: the stock, the waste, four
// foundations, seven tableau columns and the hand that holds cards in
// the middle of a move. It owns the mutation primitives used both by
// interactive drivers and by the solver.
package table

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/domino14/klondike/cards"
)

var (
	ErrUnknownStack  = errors.New("unknown stack")
	ErrNotFullDeck   = errors.New("table does not hold exactly one full deck")
	ErrFaceUpSuffix  = errors.New("tableau face-up cards are not a contiguous top run")
	ErrHandNotEmpty  = errors.New("hand is not empty")
	ErrBadFoundation = errors.New("foundation is not an ascending single-suit pile")
)

// DealSize is how many cards a single draw moves from stock to waste.
const DealSize = 3

// Source identifies a lift point: a stack and the index of the lowest
// card of the run being moved.
type Source struct {
	Stack StackID
	Index int
}

func (s Source) String() string {
	return fmt.Sprintf("%v[%d]", s.Stack, s.Index)
}

// StockSource is the position of the draw pile, used as the cursor's
// resting place.
func StockSource() Source {
	return Source{Stack: Stock}
}

// Table owns all fourteen stacks. A Table is never shared between
// search frames; use Clone to derive a child position.
type Table struct {
	stacks [NumStacks + 1]Stack
}

func empty() *Table {
	t := &Table{}
	for id := Stock; id <= Hand; id++ {
		t.stacks[id] = newStack(id, nil)
	}
	return t
}

// New deals a table from a seeded shuffle. Tableau n receives n cards
// taken from the end of the shuffled deck with only its top card turned
// up; the remaining 24 cards form the face-down stock, whose top is the
// last card of the deck.
func New(seed uint64) *Table {
	deck := cards.ShuffledDeck(seed)
	t := empty()
	for i, id := range Tableaux {
		count := i + 1
		start := len(deck) - count
		col := make([]cards.Card, count)
		copy(col, deck[start:])
		deck = deck[:start]
		t.stacks[id].Cards = col
		t.stacks[id].FlipTop()
	}
	stock := make([]cards.Card, len(deck))
	copy(stock, deck)
	t.stacks[Stock].Cards = stock
	return t
}

// NewFromStacks builds an arbitrary position, such as a puzzle or a test
// fixture. Stacks that are not given start empty. The result must hold
// exactly one deck, with a contiguous face-up top run in every tableau.
func NewFromStacks(layout map[StackID][]cards.Card) (*Table, error) {
	t := empty()
	for id, cs := range layout {
		if id > Hand {
			return nil, fmt.Errorf("%w: %d", ErrUnknownStack, id)
		}
		c := make([]cards.Card, len(cs))
		copy(c, cs)
		t.stacks[id].Cards = c
	}
	if err := t.Check(); err != nil {
		return nil, err
	}
	return t, nil
}

// Stack returns the stack with this id. The caller must not keep the
// pointer across a Clone.
func (t *Table) Stack(id StackID) *Stack {
	return &t.stacks[id]
}

func (t *Table) Clone() *Table {
	c := &Table{}
	for i := range t.stacks {
		c.stacks[i] = t.stacks[i].clone()
	}
	return c
}

// Equal compares every card, pile and orientation.
func (t *Table) Equal(o *Table) bool {
	return t.Key() == o.Key()
}

func (t *Table) CardsInHand() bool {
	return !t.stacks[Hand].IsEmpty()
}

func (t *Table) HasCardsInStock() bool {
	return !t.stacks[Stock].IsEmpty()
}

func (t *Table) HasCardsInWaste() bool {
	return !t.stacks[Waste].IsEmpty()
}

func (t *Table) CardsInFoundation() int {
	return lo.SumBy(Foundations[:], func(id StackID) int {
		return t.stacks[id].Len()
	})
}

// Winner is true once every card sits on a foundation.
func (t *Table) Winner() bool {
	return t.CardsInFoundation() == cards.DeckSize
}

// FindCard locates a card by identity, scanning stacks in StackID order.
func (t *Table) FindCard(rank cards.Rank, suit cards.Suit) (Source, bool) {
	for id := Stock; id <= Hand; id++ {
		if idx, ok := t.stacks[id].Find(rank, suit); ok {
			return Source{Stack: id, Index: idx}, true
		}
	}
	return Source{}, false
}

// Card returns the card at a source position.
func (t *Table) Card(src Source) (cards.Card, bool) {
	s := &t.stacks[src.Stack]
	if src.Index < 0 || src.Index >= s.Len() {
		return cards.Card{}, false
	}
	return s.Cards[src.Index], true
}

// DealFromStock moves up to three cards from the stock to the waste,
// turning each face-up, so the last card dealt is the new waste top.
// With an empty stock it recycles instead: the waste goes back to the
// stock face-down and reversed, so the first card dealt comes out first
// again.
func (t *Table) DealFromStock() {
	stock := &t.stacks[Stock]
	waste := &t.stacks[Waste]
	n := min(DealSize, stock.Len())
	if n == 0 {
		stock.Cards, waste.Cards = waste.Cards, stock.Cards[:0]
		for i := range stock.Cards {
			stock.Cards[i].FaceUp = false
		}
		reverse(stock.Cards)
		return
	}
	for range n {
		top := len(stock.Cards) - 1
		c := stock.Cards[top]
		stock.Cards = stock.Cards[:top]
		c.FaceUp = true
		waste.Cards = append(waste.Cards, c)
	}
}

// RecycleWaste is DealFromStock under the name callers use when the
// stock is known to be empty.
func (t *Table) RecycleWaste() {
	t.DealFromStock()
}

// TakeSelectedCardsFromStack lifts the cards from index to the top of
// the stack into the hand. An index past the top is a no-op.
func (t *Table) TakeSelectedCardsFromStack(id StackID, index int) {
	if t.CardsInHand() {
		panic(fmt.Sprintf("take from %v: %v", id, ErrHandNotEmpty))
	}
	s := &t.stacks[id]
	if index < 0 || index >= s.Len() {
		return
	}
	lifted := make([]cards.Card, s.Len()-index)
	copy(lifted, s.Cards[index:])
	s.Cards = s.Cards[:index]
	t.stacks[Hand].Cards = lifted
}

// TakeTopCardFromStack lifts just the top card into the hand, turning it
// face-up. It is used by drivers for single-card piles.
func (t *Table) TakeTopCardFromStack(id StackID) {
	if t.CardsInHand() {
		panic(fmt.Sprintf("take from %v: %v", id, ErrHandNotEmpty))
	}
	s := &t.stacks[id]
	if s.IsEmpty() {
		return
	}
	top := s.Len() - 1
	c := s.Cards[top]
	s.Cards = s.Cards[:top]
	c.FaceUp = true
	t.stacks[Hand].Cards = append(t.stacks[Hand].Cards, c)
}

// ExposeTopCardOfStack turns the top card of a stack face-up.
func (t *Table) ExposeTopCardOfStack(id StackID) {
	t.stacks[id].ExposeTop()
}

// PutHandOnStack drops the whole hand onto target and then exposes
// the new top of the stack the cards came from. It returns the index at
// which the run landed.
func (t *Table) PutHandOnStack(source Source, target StackID) int {
	if target == Hand {
		panic("put hand: target is the hand")
	}
	hand := &t.stacks[Hand]
	dst := &t.stacks[target]
	index := dst.Len()
	dst.Cards = append(dst.Cards, hand.Cards...)
	hand.Cards = nil
	t.ExposeTopCardOfStack(source.Stack)
	return index
}

// Check verifies the structural invariants: one full deck across all
// stacks and the hand, a contiguous face-up top run in every tableau,
// and ascending single-suit foundations.
func (t *Table) Check() error {
	var seen [cards.DeckSize]bool
	total := 0
	for id := Stock; id <= Hand; id++ {
		for _, c := range t.stacks[id].Cards {
			o := c.Ordinal()
			if o < 0 || o >= cards.DeckSize || seen[o] {
				return fmt.Errorf("%w: duplicate or invalid %v in %v", ErrNotFullDeck, c, id)
			}
			seen[o] = true
			total++
		}
	}
	if total != cards.DeckSize {
		return fmt.Errorf("%w: %d cards", ErrNotFullDeck, total)
	}
	for _, id := range Tableaux {
		s := &t.stacks[id]
		if lp, ok := s.LiftPoint(); ok {
			for _, c := range s.Cards[lp:] {
				if !c.FaceUp {
					return fmt.Errorf("%w: %v", ErrFaceUpSuffix, s)
				}
			}
		}
	}
	for i, id := range Foundations {
		for j, c := range t.stacks[id].Cards {
			if c.Suit != foundationSuits[i] || int(c.Rank) != j+1 {
				return fmt.Errorf("%w: %v", ErrBadFoundation, &t.stacks[id])
			}
		}
	}
	return nil
}

func reverse(c []cards.Card) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}
