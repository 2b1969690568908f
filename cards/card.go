// Package cards holds the 52-card French deck used by the Klondike table.
package cards

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadCard = errors.New("unrecognized card")

// Suit is one of the four French suits. The declaration order is also
// the order in which a fresh deck is built.
type Suit uint8

const (
	Diamond Suit = iota
	Club
	Heart
	Spade
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Diamond, Club, Heart, Spade}

type Color uint8

const (
	Black Color = iota
	Red
)

func (s Suit) Color() Color {
	switch s {
	case Diamond, Heart:
		return Red
	default:
		return Black
	}
}

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	case Heart:
		return "♥"
	case Spade:
		return "♠"
	}
	return "?"
}

// Letter is the ASCII form of the suit, used in notation and files.
func (s Suit) Letter() string {
	switch s {
	case Diamond:
		return "D"
	case Club:
		return "C"
	case Heart:
		return "H"
	case Spade:
		return "S"
	}
	return "?"
}

// Rank runs from Ace (1) to King (13).
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

const rankLabels = "A23456789TJQK"

func (r Rank) String() string {
	if r < Ace || r > King {
		return "?"
	}
	return rankLabels[r-1 : r]
}

// Card is a value type; only the FaceUp flag ever changes once dealt.
type Card struct {
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

func New(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank}
}

func (c Card) IsSameColor(other Card) bool {
	return c.Suit.Color() == other.Suit.Color()
}

// IsOneBelow is true when other ranks exactly one higher than c.
func (c Card) IsOneBelow(other Card) bool {
	return int(other.Rank)-int(c.Rank) == 1
}

// Same reports whether two cards are the same suit and rank, ignoring
// orientation.
func (c Card) Same(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Ordinal is a dense 0..51 index of the card's identity, in deck order.
func (c Card) Ordinal() int {
	return int(c.Suit)*13 + int(c.Rank) - 1
}

func (c Card) Up() Card {
	c.FaceUp = true
	return c
}

func (c Card) Down() Card {
	c.FaceUp = false
	return c
}

func (c Card) String() string {
	prefix := ""
	if !c.FaceUp {
		prefix = "-"
	}
	return prefix + c.Rank.String() + c.Suit.String()
}

// Parse reads a card such as "QD", "Q♦", "tc" or "-5S". A leading dash
// means face-down; everything else is face-up.
func Parse(s string) (Card, error) {
	faceUp := true
	if strings.HasPrefix(s, "-") {
		faceUp = false
		s = s[1:]
	}
	runes := []rune(strings.ToUpper(s))
	if len(runes) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrBadCard, s)
	}
	idx := strings.IndexRune(rankLabels, runes[0])
	if idx < 0 {
		return Card{}, fmt.Errorf("%w: bad rank in %q", ErrBadCard, s)
	}
	var suit Suit
	switch runes[1] {
	case 'D', '♦':
		suit = Diamond
	case 'C', '♣':
		suit = Club
	case 'H', '♥':
		suit = Heart
	case 'S', '♠':
		suit = Spade
	default:
		return Card{}, fmt.Errorf("%w: bad suit in %q", ErrBadCard, s)
	}
	return Card{Suit: suit, Rank: Rank(idx + 1), FaceUp: faceUp}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseList parses a whitespace separated list of cards.
func ParseList(s string) ([]Card, error) {
	fields := strings.Fields(s)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
