package table

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/klondike/cards"
)

func TestStackIDCycle(t *testing.T) {
	is := is.New(t)
	id := Stock
	visited := map[StackID]bool{}
	for i := 0; i < NumStacks; i++ {
		visited[id] = true
		is.Equal(id.Next().Previous(), id)
		id = id.Next()
	}
	is.Equal(id, Stock)
	is.Equal(len(visited), NumStacks)
	is.Equal(Tableau7.Next(), Stock)
	is.Equal(Stock.Previous(), Tableau7)
	is.Equal(Hand.Next(), Hand)
	is.Equal(Hand.Previous(), Hand)
}

func TestParseStackID(t *testing.T) {
	is := is.New(t)
	for id := Stock; id <= Hand; id++ {
		got, err := ParseStackID(id.Short())
		is.NoErr(err)
		is.Equal(got, id)
		got, err = ParseStackID(id.String())
		is.NoErr(err)
		is.Equal(got, id)
	}
	got, err := ParseStackID("t3")
	is.NoErr(err)
	is.Equal(got, Tableau3)
	_, err = ParseStackID("T8")
	is.True(err != nil)
}

func TestFoundationCanAccept(t *testing.T) {
	is := is.New(t)
	f1 := newStack(Foundation1, nil)
	f4 := newStack(Foundation4, nil)
	is.True(f1.FoundationCanAccept(cards.MustParse("AS")))
	is.True(!f1.FoundationCanAccept(cards.MustParse("AD")))
	is.True(f4.FoundationCanAccept(cards.MustParse("AD")))
	is.True(!f1.FoundationCanAccept(cards.MustParse("2S")))

	f1.Cards = []cards.Card{cards.MustParse("AS")}
	is.True(f1.FoundationCanAccept(cards.MustParse("2S")))
	is.True(!f1.FoundationCanAccept(cards.MustParse("2C")))
	is.True(!f1.FoundationCanAccept(cards.MustParse("3S")))

	is.True(f1.CanAcceptRun(cards.MustParse("2S"), 1))
	is.True(!f1.CanAcceptRun(cards.MustParse("2S"), 2))
}

func TestTableauCanAccept(t *testing.T) {
	is := is.New(t)
	col := newStack(Tableau2, nil)
	is.True(col.TableauCanAccept(cards.MustParse("KH")))
	is.True(!col.TableauCanAccept(cards.MustParse("QH")))

	col.Cards = []cards.Card{cards.MustParse("-3C"), cards.MustParse("9S")}
	is.True(col.TableauCanAccept(cards.MustParse("8H")))
	is.True(col.TableauCanAccept(cards.MustParse("8D")))
	is.True(!col.TableauCanAccept(cards.MustParse("8C")))
	is.True(!col.TableauCanAccept(cards.MustParse("7H")))
	is.True(!col.TableauCanAccept(cards.MustParse("TH")))

	// only the bottom card of the run matters
	is.True(col.CanAcceptRun(cards.MustParse("8H"), 5))

	waste := newStack(Waste, nil)
	is.True(!waste.CanAcceptRun(cards.MustParse("KH"), 1))
	stock := newStack(Stock, nil)
	is.True(!stock.CanAcceptRun(cards.MustParse("KH"), 1))
}

func TestLiftPointAndActiveIndexes(t *testing.T) {
	is := is.New(t)
	col := newStack(Tableau4, mustList("-3C -TD 9S 8H 7C"))
	lp, ok := col.LiftPoint()
	is.True(ok)
	is.Equal(lp, 2)
	is.True(col.IsLiftPoint(2))
	is.True(!col.IsLiftPoint(3))
	is.Equal(col.ActiveIndexes(false), []int{2})
	is.Equal(col.ActiveIndexes(true), []int{2, 3, 4})

	down := newStack(Tableau1, mustList("-3C -TD"))
	is.Equal(len(down.ActiveIndexes(false)), 0)

	waste := newStack(Waste, mustList("3C TD"))
	is.Equal(waste.ActiveIndexes(true), []int{1})
	stock := newStack(Stock, mustList("-3C -TD"))
	is.Equal(len(stock.ActiveIndexes(false)), 0)
}
