package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/klondike/cards"
	"github.com/domino14/klondike/table"
)

func mustList(s string) []cards.Card {
	cs, err := cards.ParseList(s)
	if err != nil {
		panic(err)
	}
	return cs
}

// A position with an ace to promote and a run to carry onto a ten.
func fixture() *table.Table {
	t, err := table.NewFromStacks(map[table.StackID][]cards.Card{
		table.Stock:    mustList("-2S -3S -4S -5S -6S -7S -9S -JS -QS -KS -AC -2C -3C -4C -5C -6C"),
		table.Tableau1: mustList("-7C -8C 9H 8S 7D"),
		table.Tableau2: mustList("-9C TS"),
		table.Tableau3: mustList("-TC -JC -QC -KC AS"),
		table.Tableau4: mustList("-AH -2H -3H -4H -5H -6H -7H -8H TH JH QH KH"),
		table.Tableau5: mustList("-AD -2D -3D -4D -5D -6D -8D -9D -TD -JD -QD KD"),
	})
	if err != nil {
		panic(err)
	}
	return t
}

func TestNotationRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"setup", "draw", "recycle", "T3:4>F1", "W:9>T7", "F2:0>T1"} {
		p, err := Parse(s)
		is.NoErr(err)
		is.Equal(p.ShortDescription(), s)
	}
	p, err := Parse("t1:2>t2")
	is.NoErr(err)
	is.Equal(p, MoveCards(table.Source{Stack: table.Tableau1, Index: 2}, table.Tableau2))

	p, err = Parse(" d ")
	is.NoErr(err)
	is.Equal(p, DrawFromStock)
	p, err = Parse("r")
	is.NoErr(err)
	is.Equal(p, RecycleWaste)

	for _, bad := range []string{"", "T1>T2", "T1:x>T2", "T9:0>T1", "T1:0>Q"} {
		_, err = Parse(bad)
		is.True(err != nil)
	}
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	tb := fixture()

	is.True(errors.Is(Validate(Setup, tb), ErrSetupApplied))
	is.NoErr(Validate(DrawFromStock, tb))
	is.True(errors.Is(Validate(RecycleWaste, tb), ErrIllegalPlay))

	is.NoErr(Validate(MoveCards(table.Source{Stack: table.Tableau3, Index: 4}, table.Foundation1), tb))
	is.NoErr(Validate(MoveCards(table.Source{Stack: table.Tableau1, Index: 2}, table.Tableau2), tb))

	for _, p := range []Play{
		// ace of spades belongs on the first foundation only
		MoveCards(table.Source{Stack: table.Tableau3, Index: 4}, table.Foundation2),
		// face-down card
		MoveCards(table.Source{Stack: table.Tableau1, Index: 0}, table.Tableau2),
		// past the top
		MoveCards(table.Source{Stack: table.Tableau1, Index: 5}, table.Tableau2),
		// onto itself
		MoveCards(table.Source{Stack: table.Tableau1, Index: 2}, table.Tableau1),
		// into the hand
		MoveCards(table.Source{Stack: table.Tableau1, Index: 2}, table.Hand),
		// a run cannot go onto a foundation
		MoveCards(table.Source{Stack: table.Tableau1, Index: 2}, table.Foundation3),
		// nothing accepts it on an empty column but a king
		MoveCards(table.Source{Stack: table.Tableau2, Index: 1}, table.Tableau6),
	} {
		err := Validate(p, tb)
		is.True(errors.Is(err, ErrIllegalPlay))
	}
	is.NoErr(Validate(MoveCards(table.Source{Stack: table.Tableau5, Index: 11}, table.Tableau6), tb))
}

func TestValidateRecycle(t *testing.T) {
	is := is.New(t)
	tb := fixture()
	for tb.HasCardsInStock() {
		tb = Apply(DrawFromStock, tb)
	}
	is.True(errors.Is(Validate(DrawFromStock, tb), ErrIllegalPlay))
	is.NoErr(Validate(RecycleWaste, tb))
	// only the top of the waste can move
	is.True(errors.Is(Validate(MoveCards(table.Source{Stack: table.Waste, Index: 0}, table.Tableau1), tb), ErrIllegalPlay))
}

func TestApplyIsPure(t *testing.T) {
	is := is.New(t)
	tb := fixture()
	before := tb.Key()

	child := Apply(MoveCards(table.Source{Stack: table.Tableau3, Index: 4}, table.Foundation1), tb)
	is.Equal(tb.Key(), before)
	is.Equal(child.Stack(table.Foundation1).Len(), 1)
	top, _ := child.Stack(table.Tableau3).Top()
	is.True(top.FaceUp)
	is.NoErr(child.Check())

	child = Apply(DrawFromStock, tb)
	is.Equal(tb.Key(), before)
	is.Equal(child.Stack(table.Waste).Len(), 3)
	is.NoErr(child.Check())
}

func TestApplyPanicsOnIllegalPlay(t *testing.T) {
	is := is.New(t)
	tb := fixture()
	defer func() {
		is.True(recover() != nil)
	}()
	Apply(RecycleWaste, tb)
}
