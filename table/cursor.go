package table

import "github.com/samber/lo"

// Cursor is the selection state of an interactive driver: a source card
// while the hand is empty, a drop target while it holds cards. It only
// navigates over positions the legality rules allow.
type Cursor struct {
	Source Source
	Target StackID
	// PartialRuns lets the driver lift any face-up tableau card instead of
	// only the lift point.
	PartialRuns bool
}

// CommitResult describes what a Commit did to the table.
type CommitResult struct {
	// Dealt is set when the stock was drawn from, or recycled if Recycled.
	Dealt    bool
	Recycled bool
	// Lifted is set when cards went into the hand.
	Lifted bool
	// Placed is set when the hand was dropped; From and To then describe
	// the move. To == From.Stack means the lift was cancelled.
	Placed bool
	From   Source
	To     StackID
}

func NewCursor() *Cursor {
	return &Cursor{Source: StockSource(), Target: Stock}
}

// ActiveCards lists the stock position followed by every active card in
// StackID order.
func (c *Cursor) ActiveCards(t *Table) []Source {
	srcs := []Source{StockSource()}
	for id := Waste; id <= Tableau7; id++ {
		for _, idx := range t.stacks[id].ActiveIndexes(c.PartialRuns) {
			srcs = append(srcs, Source{Stack: id, Index: idx})
		}
	}
	return srcs
}

// Targets lists the stacks that accept the hand, plus the stack the
// hand came from so a lift can be put back.
func (c *Cursor) Targets(t *Table) []StackID {
	var ids []StackID
	hand := &t.stacks[Hand]
	for id := Stock; id < Hand; id++ {
		if id == c.Source.Stack || t.stacks[id].CanAcceptHand(hand) {
			ids = append(ids, id)
		}
	}
	return ids
}

// NextActiveCard returns the active card after the cursor's source,
// wrapping around the StackID cycle.
func (c *Cursor) NextActiveCard(t *Table) Source {
	srcs := c.ActiveCards(t)
	i := lo.IndexOf(srcs, c.Source)
	return srcs[(i+1)%len(srcs)]
}

// PreviousActiveCard is NextActiveCard in the other direction.
func (c *Cursor) PreviousActiveCard(t *Table) Source {
	srcs := c.ActiveCards(t)
	i := lo.IndexOf(srcs, c.Source)
	if i < 0 {
		i = 0
	}
	return srcs[(i-1+len(srcs))%len(srcs)]
}

// NextPlayLocation returns the next target able to take the hand.
func (c *Cursor) NextPlayLocation(t *Table) StackID {
	ids := c.Targets(t)
	if len(ids) == 0 {
		return c.Target
	}
	i := lo.IndexOf(ids, c.Target)
	return ids[(i+1)%len(ids)]
}

func (c *Cursor) PreviousPlayLocation(t *Table) StackID {
	ids := c.Targets(t)
	if len(ids) == 0 {
		return c.Target
	}
	i := lo.IndexOf(ids, c.Target)
	if i < 0 {
		i = 0
	}
	return ids[(i-1+len(ids))%len(ids)]
}

// GoNext advances the target while cards are in hand, the source
// otherwise.
func (c *Cursor) GoNext(t *Table) {
	if t.CardsInHand() {
		c.Target = c.NextPlayLocation(t)
	} else {
		c.Source = c.NextActiveCard(t)
	}
}

func (c *Cursor) GoPrevious(t *Table) {
	if t.CardsInHand() {
		c.Target = c.PreviousPlayLocation(t)
	} else {
		c.Source = c.PreviousActiveCard(t)
	}
}

// Commit performs the selected action: deal from the stock, lift the
// selected cards, or drop the hand on the target.
func (c *Cursor) Commit(t *Table) CommitResult {
	if t.CardsInHand() {
		from := c.Source
		index := t.PutHandOnStack(c.Source, c.Target)
		c.Source = Source{Stack: c.Target, Index: index}
		return CommitResult{Placed: true, From: from, To: c.Target}
	}
	res := CommitResult{From: c.Source}
	switch c.Source.Stack.Type() {
	case TypeStock:
		res.Dealt = true
		res.Recycled = !t.HasCardsInStock()
		t.DealFromStock()
	case TypeWaste, TypeFoundation:
		t.TakeTopCardFromStack(c.Source.Stack)
		res.Lifted = t.CardsInHand()
	case TypeTableau:
		t.TakeSelectedCardsFromStack(c.Source.Stack, c.Source.Index)
		res.Lifted = t.CardsInHand()
	case TypeHand:
	}
	c.Target = c.Source.Stack
	return res
}

