package table

import (
	"encoding/hex"
)

// KeySize holds one byte per card plus a separator between stacks.
const KeySize = 52 + NumStacks

// Key is a comparable snapshot of the full table content: every card,
// the pile it sits in, its position and its orientation. Two tables with
// the same Key are the same position.
type Key [KeySize]byte

const faceUpBit = 0x80

// Key encodes the table. Card bytes are 1 + ordinal, with the high bit
// set for face-up cards; 0 separates consecutive stacks.
func (t *Table) Key() Key {
	var k Key
	pos := 0
	for id := Stock; id <= Hand; id++ {
		for _, c := range t.stacks[id].Cards {
			if pos >= KeySize {
				panic("table key: more than one deck on the table")
			}
			b := byte(c.Ordinal() + 1)
			if c.FaceUp {
				b |= faceUpBit
			}
			k[pos] = b
			pos++
		}
		if id != Hand {
			if pos >= KeySize {
				panic("table key: more than one deck on the table")
			}
			pos++
		}
	}
	return k
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}
