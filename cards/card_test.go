package cards

import (
	"testing"

	"github.com/matryer/is"
)

func TestColors(t *testing.T) {
	is := is.New(t)
	is.Equal(Diamond.Color(), Red)
	is.Equal(Heart.Color(), Red)
	is.Equal(Club.Color(), Black)
	is.Equal(Spade.Color(), Black)

	is.True(New(Five, Heart).IsSameColor(New(Queen, Diamond)))
	is.True(!New(Five, Heart).IsSameColor(New(Five, Spade)))
}

func TestIsOneBelow(t *testing.T) {
	is := is.New(t)
	is.True(New(Ace, Spade).IsOneBelow(New(Two, Heart)))
	is.True(New(Queen, Club).IsOneBelow(New(King, Club)))
	is.True(!New(Two, Heart).IsOneBelow(New(Ace, Spade)))
	is.True(!New(Five, Heart).IsOneBelow(New(Five, Spade)))
	is.True(!New(Five, Heart).IsOneBelow(New(Seven, Spade)))
}

func TestParseAndString(t *testing.T) {
	is := is.New(t)
	type tc struct {
		in   string
		card Card
		out  string
	}
	cases := []tc{
		{"QD", Card{Suit: Diamond, Rank: Queen, FaceUp: true}, "Q♦"},
		{"Q♦", Card{Suit: Diamond, Rank: Queen, FaceUp: true}, "Q♦"},
		{"tc", Card{Suit: Club, Rank: Ten, FaceUp: true}, "T♣"},
		{"-AS", Card{Suit: Spade, Rank: Ace}, "-A♠"},
		{"KH", Card{Suit: Heart, Rank: King, FaceUp: true}, "K♥"},
	}
	for _, c := range cases {
		card, err := Parse(c.in)
		is.NoErr(err)
		is.Equal(card, c.card)
		is.Equal(card.String(), c.out)
	}

	for _, bad := range []string{"", "Q", "1D", "QX", "10D"} {
		_, err := Parse(bad)
		is.True(err != nil)
	}
}

func TestOrdinalIsDense(t *testing.T) {
	is := is.New(t)
	seen := map[int]bool{}
	for _, c := range NewDeck() {
		o := c.Ordinal()
		is.True(o >= 0 && o < DeckSize)
		is.True(!seen[o])
		seen[o] = true
	}
	is.Equal(len(seen), DeckSize)
}

func TestShuffledDeckDeterministic(t *testing.T) {
	is := is.New(t)
	a := ShuffledDeck(324)
	b := ShuffledDeck(324)
	c := ShuffledDeck(325)
	is.Equal(a, b)
	is.True(len(a) == DeckSize)
	is.True(!equalOrder(a, c))

	// still a full deck
	seen := map[int]bool{}
	for _, card := range a {
		is.True(!card.FaceUp)
		seen[card.Ordinal()] = true
	}
	is.Equal(len(seen), DeckSize)
}

func equalOrder(a, b []Card) bool {
	for i := range a {
		if !a[i].Same(b[i]) {
			return false
		}
	}
	return true
}

func TestPCGStream(t *testing.T) {
	is := is.New(t)
	p := newPCG32(324)
	is.Equal([]uint32{p.next(), p.next(), p.next(), p.next()},
		[]uint32{2489987853, 3146348860, 2878980408, 3474699933})
	p = newPCG32(0)
	is.Equal(p.next(), uint32(298703107))
	for n := uint32(1); n < 60; n++ {
		is.True(p.below(n) < n)
	}
}

func TestShuffledDeckKnownOrder(t *testing.T) {
	is := is.New(t)
	deck := ShuffledDeck(324)
	is.True(deck[0].Same(New(Six, Diamond)))
	is.True(deck[1].Same(New(King, Club)))
	is.True(deck[2].Same(New(Seven, Heart)))
	// the tail is dealt out first
	wantTops := []Card{New(Ace, Club), New(Queen, Diamond), New(King, Heart),
		New(Ace, Spade), New(Eight, Heart), New(Queen, Heart), New(Five, Heart)}
	for i, c := range deck[DeckSize-7:] {
		is.True(c.Same(wantTops[i]))
	}
}
