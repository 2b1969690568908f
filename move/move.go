// Package move defines the plays a Klondike table accepts and how they
// are applied.
package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/domino14/klondike/table"
)

// PlayType is the tag of a Play.
type PlayType uint8

const (
	// PlayTypeSetup labels the root of a search. It is never legal to apply.
	PlayTypeSetup PlayType = iota
	PlayTypeDrawFromStock
	PlayTypeRecycleWaste
	PlayTypeMoveCards
)

var (
	ErrIllegalPlay  = errors.New("illegal play")
	ErrBadNotation  = errors.New("unrecognized play notation")
	ErrSetupApplied = errors.New("the setup play cannot be applied")
)

// Play is a tagged variant. Source and Target are only meaningful for
// PlayTypeMoveCards.
type Play struct {
	Type   PlayType
	Source table.Source
	Target table.StackID
}

var (
	Setup         = Play{Type: PlayTypeSetup}
	DrawFromStock = Play{Type: PlayTypeDrawFromStock}
	RecycleWaste  = Play{Type: PlayTypeRecycleWaste}
)

// MoveCards moves the run starting at src onto target.
func MoveCards(src table.Source, target table.StackID) Play {
	return Play{Type: PlayTypeMoveCards, Source: src, Target: target}
}

func (p Play) IsDrawOrRecycle() bool {
	return p.Type == PlayTypeDrawFromStock || p.Type == PlayTypeRecycleWaste
}

// ShortDescription is the notation used in logs, play files and the
// shell: "setup", "draw", "recycle" or "T3:4>F1".
func (p Play) ShortDescription() string {
	switch p.Type {
	case PlayTypeSetup:
		return "setup"
	case PlayTypeDrawFromStock:
		return "draw"
	case PlayTypeRecycleWaste:
		return "recycle"
	case PlayTypeMoveCards:
		return fmt.Sprintf("%s:%d>%s", p.Source.Stack.Short(), p.Source.Index, p.Target.Short())
	}
	return "UNHANDLED"
}

func (p Play) String() string {
	return p.ShortDescription()
}

var reMove = regexp.MustCompile(`^(?P<from>[A-Za-z]+[1-7]?):(?P<index>[0-9]+)>(?P<to>[A-Za-z]+[1-7]?)$`)

// Parse reads the ShortDescription notation back into a Play.
func Parse(s string) (Play, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "setup":
		return Setup, nil
	case "draw", "d":
		return DrawFromStock, nil
	case "recycle", "r":
		return RecycleWaste, nil
	}
	m := reMove.FindStringSubmatch(s)
	if m == nil {
		return Play{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	from, err := table.ParseStackID(m[reMove.SubexpIndex("from")])
	if err != nil {
		return Play{}, err
	}
	to, err := table.ParseStackID(m[reMove.SubexpIndex("to")])
	if err != nil {
		return Play{}, err
	}
	idx, err := strconv.Atoi(m[reMove.SubexpIndex("index")])
	if err != nil {
		return Play{}, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	return MoveCards(table.Source{Stack: from, Index: idx}, to), nil
}

// Validate reports whether p may be applied to t under the table's
// rules. It never mutates t.
func Validate(p Play, t *table.Table) error {
	switch p.Type {
	case PlayTypeSetup:
		return ErrSetupApplied
	case PlayTypeDrawFromStock:
		if !t.HasCardsInStock() {
			return fmt.Errorf("%w: draw from an empty stock", ErrIllegalPlay)
		}
		return nil
	case PlayTypeRecycleWaste:
		if t.HasCardsInStock() {
			return fmt.Errorf("%w: recycle while the stock has cards", ErrIllegalPlay)
		}
		if !t.HasCardsInWaste() {
			return fmt.Errorf("%w: recycle an empty waste", ErrIllegalPlay)
		}
		return nil
	case PlayTypeMoveCards:
		return validateMove(p, t)
	}
	return fmt.Errorf("%w: unknown play type %d", ErrIllegalPlay, p.Type)
}

func validateMove(p Play, t *table.Table) error {
	if t.CardsInHand() {
		return fmt.Errorf("%w: %v", ErrIllegalPlay, table.ErrHandNotEmpty)
	}
	if p.Source.Stack == table.Hand || p.Target == table.Hand || p.Source.Stack == p.Target {
		return fmt.Errorf("%w: %v", ErrIllegalPlay, p)
	}
	src := t.Stack(p.Source.Stack)
	c, ok := t.Card(p.Source)
	if !ok {
		return fmt.Errorf("%w: %v has no card at %d", ErrIllegalPlay, p.Source.Stack, p.Source.Index)
	}
	if !c.FaceUp {
		return fmt.Errorf("%w: %v is face-down", ErrIllegalPlay, p.Source)
	}
	count := src.Len() - p.Source.Index
	if src.Type != table.TypeTableau && count != 1 {
		return fmt.Errorf("%w: only the top card of %v can move", ErrIllegalPlay, p.Source.Stack)
	}
	if !t.Stack(p.Target).CanAcceptRun(c, count) {
		return fmt.Errorf("%w: %v cannot take %v", ErrIllegalPlay, p.Target, c)
	}
	return nil
}

// Apply returns the table that results from playing p on a copy of t.
// It panics if p is not legal; plays taken from the move generator
// always are.
func Apply(p Play, t *table.Table) *table.Table {
	if err := Validate(p, t); err != nil {
		panic(fmt.Sprintf("apply %v: %v", p, err))
	}
	child := t.Clone()
	switch p.Type {
	case PlayTypeDrawFromStock:
		child.DealFromStock()
	case PlayTypeRecycleWaste:
		child.RecycleWaste()
	case PlayTypeMoveCards:
		child.TakeSelectedCardsFromStack(p.Source.Stack, p.Source.Index)
		child.PutHandOnStack(p.Source, p.Target)
	case PlayTypeSetup:
	}
	return child
}
