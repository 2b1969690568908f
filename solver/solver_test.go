package solver

import (
	"context"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/klondike/cards"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/table"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func mustList(s string) []cards.Card {
	cs, err := cards.ParseList(s)
	if err != nil {
		panic(err)
	}
	return cs
}

func faceUp(cs []cards.Card) []cards.Card {
	for i := range cs {
		cs[i] = cs[i].Up()
	}
	return cs
}

// nearlyWon leaves the four kings and the queen of hearts off the
// foundations.
func nearlyWon(t *testing.T) *table.Table {
	tb, err := table.NewFromStacks(map[table.StackID][]cards.Card{
		table.Foundation1: faceUp(mustList("AS 2S 3S 4S 5S 6S 7S 8S 9S TS JS QS")),
		table.Foundation2: faceUp(mustList("AC 2C 3C 4C 5C 6C 7C 8C 9C TC JC QC")),
		table.Foundation3: faceUp(mustList("AH 2H 3H 4H 5H 6H 7H 8H 9H TH JH")),
		table.Foundation4: faceUp(mustList("AD 2D 3D 4D 5D 6D 7D 8D 9D TD JD QD")),
		table.Stock:       mustList("-KH -KC"),
		table.Tableau1:    mustList("-QH KS"),
		table.Tableau4:    mustList("KD"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

// blocked has nothing to play but the draw pile, and every card in it
// is black with only black cards showing on the tableau.
func blocked(t *testing.T) *table.Table {
	tb, err := table.NewFromStacks(map[table.StackID][]cards.Card{
		table.Stock:    mustList("-3C -4C -5C -6C -7C -8C"),
		table.Tableau1: mustList("-AS -3S -5S -7S -9S -JS -KS 2S"),
		table.Tableau2: mustList("-AC -9C -TC -JC -QC -KC 4S"),
		table.Tableau3: mustList("-AH -2H -3H -4H -5H -6H -7H -8H -9H -TH -JH -QH -KH 6S"),
		table.Tableau4: mustList("-AD -2D -3D -4D -5D -6D -7D -8D -9D -TD -JD -QD -KD 8S"),
		table.Tableau5: mustList("TS"),
		table.Tableau6: mustList("QS"),
		table.Tableau7: mustList("2C"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func replay(t *testing.T, root *table.Table, plays []move.Play) *table.Table {
	tb := root
	for _, p := range plays {
		if err := move.Validate(p, tb); err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		tb = move.Apply(p, tb)
	}
	return tb
}

func TestSolveNearlyWon(t *testing.T) {
	is := is.New(t)
	root := nearlyWon(t)
	res := Solve(context.Background(), root, DefaultOptions())
	is.Equal(res.Outcome, OutcomeWon)
	is.True(res.Won())
	is.True(res.Final.Winner())
	is.True(len(res.Plays) > 0)
	is.True(replay(t, root, res.Plays).Winner())
	// the root is untouched
	is.Equal(root.CardsInFoundation(), 47)
}

func TestSolveDealtSeeds(t *testing.T) {
	for _, seed := range []uint64{331, 1021, 1058} {
		is := is.New(t)
		root := table.New(seed)
		opts := DefaultOptions()
		opts.PartialRuns = true
		opts.MaxIterations = 5000
		res := Solve(context.Background(), root, opts)
		is.Equal(res.Outcome, OutcomeWon)
		is.True(res.Iterations < 1000)
		is.True(res.Final.Winner())
		is.True(replay(t, root, res.Plays).Winner())
		is.Equal(root.CardsInFoundation(), 0)
	}
}

func TestSolveBlockedExhausts(t *testing.T) {
	for _, prune := range []bool{false, true} {
		is := is.New(t)
		opts := DefaultOptions()
		opts.PruneVisited = prune
		e := NewEngine(blocked(t), opts)
		res := e.Solve(context.Background())
		is.Equal(res.Outcome, OutcomeExhausted)
		is.True(!res.Final.Winner())
		is.Equal(len(e.Frames()), 0)
		is.True(e.Current() == nil)
		is.Equal(len(res.Plays), 0)
		if prune {
			is.True(res.Pruned > 0)
		}
	}
}

func TestSolveNothingToPlay(t *testing.T) {
	is := is.New(t)
	// the blocked position with its stock buried under Tableau7
	tb, err := table.NewFromStacks(map[table.StackID][]cards.Card{
		table.Tableau1: mustList("-AS -3S -5S -7S -9S -JS -KS 2S"),
		table.Tableau2: mustList("-AC -9C -TC -JC -QC -KC 4S"),
		table.Tableau3: mustList("-AH -2H -3H -4H -5H -6H -7H -8H -9H -TH -JH -QH -KH 6S"),
		table.Tableau4: mustList("-AD -2D -3D -4D -5D -6D -7D -8D -9D -TD -JD -QD -KD 8S"),
		table.Tableau5: mustList("TS"),
		table.Tableau6: mustList("QS"),
		table.Tableau7: mustList("-2C -8C -7C -6C -5C -4C 3C"),
	})
	is.NoErr(err)

	e := NewEngine(tb, DefaultOptions())
	is.True(e.Step())
	is.Equal(e.Outcome(), OutcomeExhausted)
	is.Equal(e.Iterations(), 1)
}

func TestIterationCap(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.MaxIterations = 25
	res := Solve(context.Background(), table.New(324), opts)
	is.Equal(res.Outcome, OutcomeCapReached)
	is.Equal(res.Iterations, 25)
	is.True(res.MaxDepth > 0)
}

func TestCanceled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Solve(ctx, table.New(324), DefaultOptions())
	is.Equal(res.Outcome, OutcomeCanceled)
	is.Equal(res.Iterations, 0)
}

func TestAlreadyWon(t *testing.T) {
	is := is.New(t)
	tb, err := table.NewFromStacks(map[table.StackID][]cards.Card{
		table.Foundation1: faceUp(mustList("AS 2S 3S 4S 5S 6S 7S 8S 9S TS JS QS KS")),
		table.Foundation2: faceUp(mustList("AC 2C 3C 4C 5C 6C 7C 8C 9C TC JC QC KC")),
		table.Foundation3: faceUp(mustList("AH 2H 3H 4H 5H 6H 7H 8H 9H TH JH QH KH")),
		table.Foundation4: faceUp(mustList("AD 2D 3D 4D 5D 6D 7D 8D 9D TD JD QD KD")),
	})
	is.NoErr(err)
	e := NewEngine(tb, DefaultOptions())
	is.True(e.Done())
	is.True(e.Step())
	is.Equal(e.Result().Outcome, OutcomeWon)
	is.Equal(e.Iterations(), 0)
}

func TestStepIsDeterministic(t *testing.T) {
	is := is.New(t)
	a := NewEngine(table.New(77), DefaultOptions())
	b := NewEngine(table.New(77), DefaultOptions())
	for i := 0; i < 300; i++ {
		a.Step()
		b.Step()
	}
	is.Equal(a.Path(), b.Path())
	is.Equal(a.Current().Table.Key(), b.Current().Table.Key())
}

// Every frame on the stack must hold a legal table derived from its
// parent by its play, with foundations never shrinking.
func TestSearchInvariants(t *testing.T) {
	is := is.New(t)
	for _, partial := range []bool{false, true} {
		opts := DefaultOptions()
		opts.PartialRuns = partial
		e := NewEngine(table.New(324), opts)
		for i := 0; i < 2000 && !e.Step(); i++ {
			frames := e.Frames()
			is.Equal(frames[0].Play, move.Setup)
			is.Equal(len(e.Path()), len(frames))
			for d := 1; d < len(frames); d++ {
				f := frames[d]
				parent := frames[f.Parent]
				is.Equal(f.Parent, d-1)
				is.Equal(e.Path()[d], f.Play)
				is.NoErr(f.Table.Check())
				is.True(!f.Table.CardsInHand())
				is.True(f.Table.CardsInFoundation() >= parent.Table.CardsInFoundation())
				is.Equal(move.Apply(f.Play, parent.Table).Key(), f.Table.Key())
			}
			for d := 0; d < len(frames)-1; d++ {
				is.Equal(frames[d].State, FrameExpanded)
			}
		}
	}
}

func TestRecycleNeverRepeatsWithoutProgress(t *testing.T) {
	is := is.New(t)
	e := NewEngine(table.New(1004), DefaultOptions())
	for i := 0; i < 3000 && !e.Step(); i++ {
		path := e.Path()
		last := path[len(path)-1]
		if last.Type != move.PlayTypeRecycleWaste {
			continue
		}
		for j := len(path) - 2; j >= 0; j-- {
			if path[j].Type == move.PlayTypeDrawFromStock {
				continue
			}
			is.True(path[j].Type != move.PlayTypeRecycleWaste)
			break
		}
	}
}

func TestPruneVisitedNeverRepeats(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.PruneVisited = true
	e := NewEngine(table.New(9), opts)
	for i := 0; i < 1500 && !e.Step(); i++ {
		seen := map[table.Key]bool{}
		for _, f := range e.Frames() {
			k := f.Table.Key()
			is.True(!seen[k])
			seen[k] = true
		}
	}
}
