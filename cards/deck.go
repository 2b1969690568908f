package cards

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// NewDeck returns the 52 cards face-down, suit by suit in Suits order and
// Ace to King within each suit.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffledDeck returns a fresh deck shuffled by a PCG generator seeded
// with seed. The same seed always yields the same order.
func ShuffledDeck(seed uint64) []Card {
	deck := NewDeck()
	newPCG32(seed).shuffle(deck)
	return deck
}
