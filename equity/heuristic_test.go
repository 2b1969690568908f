package equity

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/klondike/cards"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/table"
)

func mustList(s string) []cards.Card {
	cs, err := cards.ParseList(s)
	if err != nil {
		panic(err)
	}
	return cs
}

func src(id table.StackID, idx int) table.Source {
	return table.Source{Stack: id, Index: idx}
}

// kingOnWaste puts a king of hearts on the waste, with the queen of
// hearts placed by the caller.
func kingOnWaste(t *testing.T, queenStack table.StackID, queenFaceUp bool) *table.Table {
	layout := map[table.StackID][]cards.Card{
		table.Waste:    mustList("KH"),
		table.Tableau1: mustList("-AS -2S -3S -4S -5S -6S -7S -8S -9S -TS -JS -QS -KS"),
		table.Tableau2: mustList("-AC -2C -3C -4C -5C -6C -7C -8C -9C -TC -JC -QC -KC"),
		table.Tableau3: mustList("-AD -2D -3D -4D -5D -6D -7D -8D -9D -TD -JD -QD -KD"),
	}
	hearts := mustList("-AH -2H -3H -4H -5H -6H -7H -8H -9H -TH -JH")
	q := cards.MustParse("-QH")
	if queenFaceUp {
		q = q.Up()
	}
	if queenStack == table.Foundation3 {
		layout[table.Foundation3] = append(hearts, q)
		for i := range layout[table.Foundation3] {
			layout[table.Foundation3][i] = layout[table.Foundation3][i].Up()
		}
	} else {
		layout[table.Tableau4] = append(hearts, q)
	}
	tb, err := table.NewFromStacks(layout)
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestSimpleWeights(t *testing.T) {
	is := is.New(t)
	tb := table.New(324)
	is.Equal(Evaluate(move.DrawFromStock, tb), Valuation{})
	is.Equal(Evaluate(move.RecycleWaste, tb), Valuation{})
	is.Equal(Evaluate(move.Setup, tb), Valuation{})
	is.Equal(Evaluate(move.MoveCards(src(table.Tableau2, 1), table.Foundation1), tb), Valuation{Score: 5})
	is.Equal(Evaluate(move.MoveCards(src(table.Waste, 0), table.Foundation4), tb), Valuation{Score: 5})
	is.Equal(Evaluate(move.MoveCards(src(table.Foundation1, 0), table.Tableau3), tb), Valuation{Score: -10})
	is.Equal(Evaluate(move.MoveCards(src(table.Tableau5, 4), table.Tableau1), tb), Valuation{Priority: 5})
	is.Equal(Evaluate(move.MoveCards(src(table.Tableau1, 0), table.Tableau2), tb), Valuation{Priority: 1})
}

func TestWasteToTableau(t *testing.T) {
	is := is.New(t)
	tb, err := table.NewFromStacks(map[table.StackID][]cards.Card{
		table.Waste:    mustList("5H"),
		table.Tableau1: mustList("-AS -2S -3S -4S -5S -6S -7S -8S -9S -TS -JS -QS -KS"),
		table.Tableau2: mustList("-AC -2C -3C -4C -5C -6C -7C -8C -9C -TC -JC -QC -KC"),
		table.Tableau3: mustList("-AD -2D -3D -4D -5D -6D -7D -8D -9D -TD -JD -QD -KD"),
		table.Tableau4: mustList("-AH -2H -3H -4H -6H -7H -8H -9H -TH -JH -QH KH"),
	})
	is.NoErr(err)
	is.Equal(Evaluate(move.MoveCards(src(table.Waste, 0), table.Tableau5), tb), Valuation{Score: 5, Priority: 1})
}

func TestKingPriority(t *testing.T) {
	is := is.New(t)
	p := move.MoveCards(src(table.Waste, 0), table.Tableau5)

	tb := kingOnWaste(t, table.Tableau4, false)
	is.Equal(Evaluate(p, tb), Valuation{Score: 5, Priority: -1})

	tb = kingOnWaste(t, table.Tableau4, true)
	is.Equal(Evaluate(p, tb), Valuation{Score: 5, Priority: 1})

	tb = kingOnWaste(t, table.Foundation3, true)
	is.Equal(Evaluate(p, tb), Valuation{Score: 5, Priority: 99})
}

func TestRankIsStableDescending(t *testing.T) {
	is := is.New(t)
	tb := table.New(324)
	plays := []move.Play{
		move.DrawFromStock,
		move.MoveCards(src(table.Tableau1, 0), table.Tableau2),
		move.MoveCards(src(table.Tableau3, 2), table.Foundation1),
		move.MoveCards(src(table.Tableau7, 6), table.Tableau4),
		move.MoveCards(src(table.Tableau4, 3), table.Foundation2),
		move.MoveCards(src(table.Foundation1, 0), table.Tableau4),
	}
	got := Rank(plays, tb, nil)
	is.Equal(len(got), len(plays))
	want := []move.Play{plays[2], plays[4], plays[3], plays[1], plays[0], plays[5]}
	for i := range want {
		is.Equal(got[i].Play, want[i])
	}
	for i := 1; i < len(got); i++ {
		is.True(!got[i-1].Valuation.Less(got[i].Valuation))
	}
}

type constant struct{}

func (constant) Evaluate(move.Play, *table.Table) Valuation { return Valuation{Score: 1} }

func TestRankWithCustomEvaluator(t *testing.T) {
	is := is.New(t)
	plays := []move.Play{move.DrawFromStock, move.RecycleWaste, move.Setup}
	got := Rank(plays, table.New(1), constant{})
	for i := range plays {
		is.Equal(got[i].Play, plays[i])
	}
}
