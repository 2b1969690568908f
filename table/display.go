package table

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the table for a terminal. If cur is not nil the
// selected source card is marked with '>' and the target with '*'.
func (t *Table) ToDisplayText(cur *Cursor) string {
	var sb strings.Builder
	for id := Stock; id <= Hand; id++ {
		s := &t.stacks[id]
		if id == Hand && s.IsEmpty() {
			continue
		}
		marker := " "
		if cur != nil && t.CardsInHand() && cur.Target == id {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s%-12s", marker, id.String()+":")
		if s.IsEmpty() {
			sb.WriteString(" --")
		}
		for i, c := range s.Cards {
			sel := " "
			if cur != nil && !t.CardsInHand() && cur.Source.Stack == id && cur.Source.Index == i {
				sel = ">"
			}
			sb.WriteString(sel)
			sb.WriteString(c.String())
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, " foundations: %d/52\n", t.CardsInFoundation())
	return sb.String()
}

func (t *Table) String() string {
	return t.ToDisplayText(nil)
}
