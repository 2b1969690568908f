package table

import (
	"fmt"
	"strings"

	"github.com/domino14/klondike/cards"
)

// StackID names one of the piles on the table. The order of the
// constants is the fixed cycle used for target enumeration and cursor
// navigation; Hand sits outside the cycle.
type StackID uint8

const (
	Stock StackID = iota
	Waste
	Foundation1
	Foundation2
	Foundation3
	Foundation4
	Tableau1
	Tableau2
	Tableau3
	Tableau4
	Tableau5
	Tableau6
	Tableau7
	Hand
)

// NumStacks counts the permanent stacks (everything but Hand).
const NumStacks = 13

var Foundations = [...]StackID{Foundation1, Foundation2, Foundation3, Foundation4}

var Tableaux = [...]StackID{Tableau1, Tableau2, Tableau3, Tableau4, Tableau5, Tableau6, Tableau7}

// Targets lists every stack a run may be dropped on, in enumeration order.
var Targets = [...]StackID{
	Foundation1, Foundation2, Foundation3, Foundation4,
	Tableau1, Tableau2, Tableau3, Tableau4, Tableau5, Tableau6, Tableau7,
}

// foundationSuits pins each foundation to the suit it builds.
var foundationSuits = [...]cards.Suit{cards.Spade, cards.Club, cards.Heart, cards.Diamond}

// Next follows the cycle Stock→Waste→Foundation1..4→Tableau1..7→Stock.
// Hand maps to itself.
func (id StackID) Next() StackID {
	switch {
	case id == Hand:
		return Hand
	case id == Tableau7:
		return Stock
	default:
		return id + 1
	}
}

// Previous is the inverse of Next.
func (id StackID) Previous() StackID {
	switch {
	case id == Hand:
		return Hand
	case id == Stock:
		return Tableau7
	default:
		return id - 1
	}
}

func (id StackID) Type() StackType {
	switch {
	case id == Stock:
		return TypeStock
	case id == Waste:
		return TypeWaste
	case id >= Foundation1 && id <= Foundation4:
		return TypeFoundation
	case id >= Tableau1 && id <= Tableau7:
		return TypeTableau
	default:
		return TypeHand
	}
}

func (id StackID) IsFoundation() bool {
	return id.Type() == TypeFoundation
}

func (id StackID) IsTableau() bool {
	return id.Type() == TypeTableau
}

var stackNames = [...]string{
	"Stock", "Waste",
	"Foundation1", "Foundation2", "Foundation3", "Foundation4",
	"Tableau1", "Tableau2", "Tableau3", "Tableau4", "Tableau5", "Tableau6", "Tableau7",
	"Hand",
}

var shortNames = [...]string{
	"S", "W",
	"F1", "F2", "F3", "F4",
	"T1", "T2", "T3", "T4", "T5", "T6", "T7",
	"H",
}

func (id StackID) String() string {
	if int(id) < len(stackNames) {
		return stackNames[id]
	}
	return fmt.Sprintf("StackID(%d)", id)
}

// Short is the compact name used in play notation, e.g. "T3".
func (id StackID) Short() string {
	if int(id) < len(shortNames) {
		return shortNames[id]
	}
	return "?"
}

// ParseStackID accepts either the long or the short name, case-insensitively.
func ParseStackID(s string) (StackID, error) {
	for i := range stackNames {
		if strings.EqualFold(s, stackNames[i]) || strings.EqualFold(s, shortNames[i]) {
			return StackID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStack, s)
}

type StackType uint8

const (
	TypeStock StackType = iota
	TypeWaste
	TypeFoundation
	TypeTableau
	TypeHand
)

func (t StackType) String() string {
	switch t {
	case TypeStock:
		return "stock"
	case TypeWaste:
		return "waste"
	case TypeFoundation:
		return "foundation"
	case TypeTableau:
		return "tableau"
	case TypeHand:
		return "hand"
	}
	return "unknown"
}

// Stack is an ordered pile; Cards[0] is the bottom and the last element
// is the top.
type Stack struct {
	ID    StackID
	Type  StackType
	Cards []cards.Card
}

func newStack(id StackID, c []cards.Card) Stack {
	return Stack{ID: id, Type: id.Type(), Cards: c}
}

func (s *Stack) Len() int {
	return len(s.Cards)
}

func (s *Stack) IsEmpty() bool {
	return len(s.Cards) == 0
}

// TopIndex is the index of the top card, or 0 for an empty stack.
func (s *Stack) TopIndex() int {
	if len(s.Cards) == 0 {
		return 0
	}
	return len(s.Cards) - 1
}

func (s *Stack) Top() (cards.Card, bool) {
	if len(s.Cards) == 0 {
		return cards.Card{}, false
	}
	return s.Cards[len(s.Cards)-1], true
}

func (s *Stack) Bottom() (cards.Card, bool) {
	if len(s.Cards) == 0 {
		return cards.Card{}, false
	}
	return s.Cards[0], true
}

// Find returns the index of the card with this rank and suit.
func (s *Stack) Find(rank cards.Rank, suit cards.Suit) (int, bool) {
	for i, c := range s.Cards {
		if c.Rank == rank && c.Suit == suit {
			return i, true
		}
	}
	return 0, false
}

// ExposeTop turns the top card face-up.
func (s *Stack) ExposeTop() {
	if len(s.Cards) > 0 {
		s.Cards[len(s.Cards)-1].FaceUp = true
	}
}

// FlipTop toggles the orientation of the top card.
func (s *Stack) FlipTop() {
	if len(s.Cards) > 0 {
		c := &s.Cards[len(s.Cards)-1]
		c.FaceUp = !c.FaceUp
	}
}

// LiftPoint returns the index of the lowest face-up card. For a Tableau
// this is the only position from which the whole face-up run can be
// lifted.
func (s *Stack) LiftPoint() (int, bool) {
	for i, c := range s.Cards {
		if c.FaceUp {
			return i, true
		}
	}
	return 0, false
}

// IsLiftPoint is true iff index holds the first face-up card.
func (s *Stack) IsLiftPoint(index int) bool {
	lp, ok := s.LiftPoint()
	return ok && lp == index
}

// ActiveIndexes lists the positions that may act as the source of a
// move. Stock, Waste and Foundation expose only a face-up top card. A
// Tableau exposes its lift point, or every face-up card when partialRuns
// is set.
func (s *Stack) ActiveIndexes(partialRuns bool) []int {
	if len(s.Cards) == 0 {
		return nil
	}
	switch s.Type {
	case TypeStock, TypeWaste, TypeFoundation:
		top := len(s.Cards) - 1
		if s.Cards[top].FaceUp {
			return []int{top}
		}
		return nil
	case TypeTableau:
		lp, ok := s.LiftPoint()
		if !ok {
			return nil
		}
		if !partialRuns {
			return []int{lp}
		}
		idxs := make([]int, 0, len(s.Cards)-lp)
		for i := lp; i < len(s.Cards); i++ {
			idxs = append(idxs, i)
		}
		return idxs
	}
	return nil
}

// FoundationCanAccept is true for the pinned suit's Ace on an empty
// foundation, or for the next rank of the same suit.
func (s *Stack) FoundationCanAccept(c cards.Card) bool {
	top, ok := s.Top()
	if !ok {
		if c.Rank != cards.Ace || !s.ID.IsFoundation() {
			return false
		}
		return foundationSuits[s.ID-Foundation1] == c.Suit
	}
	return c.Suit == top.Suit && top.IsOneBelow(c)
}

// TableauCanAccept is true for a King on an empty column, or for a card
// of the opposite color one rank below the top.
func (s *Stack) TableauCanAccept(c cards.Card) bool {
	top, ok := s.Top()
	if !ok {
		return c.Rank == cards.King
	}
	return !top.IsSameColor(c) && c.IsOneBelow(top)
}

// CanAcceptRun decides whether a run whose bottom card is bottom and
// which holds count cards may be dropped here. Foundations take single
// cards only; a Tableau only looks at the card that lands on its top.
func (s *Stack) CanAcceptRun(bottom cards.Card, count int) bool {
	switch s.Type {
	case TypeFoundation:
		return count == 1 && s.FoundationCanAccept(bottom)
	case TypeTableau:
		return count > 0 && s.TableauCanAccept(bottom)
	case TypeStock, TypeWaste, TypeHand:
		return false
	}
	return false
}

// CanAcceptHand applies CanAcceptRun to the cards currently in hand.
func (s *Stack) CanAcceptHand(hand *Stack) bool {
	bottom, ok := hand.Bottom()
	if !ok {
		return false
	}
	return s.CanAcceptRun(bottom, hand.Len())
}

func (s *Stack) clone() Stack {
	c := make([]cards.Card, len(s.Cards), cap(s.Cards))
	copy(c, s.Cards)
	return Stack{ID: s.ID, Type: s.Type, Cards: c}
}

func (s *Stack) String() string {
	var sb strings.Builder
	sb.WriteString(s.ID.String())
	sb.WriteString(": [")
	for i, c := range s.Cards {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.String())
	}
	sb.WriteString("]")
	return sb.String()
}
