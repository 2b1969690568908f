package solver

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/table"
	"github.com/domino14/klondike/zobrist"
)

// Rough cost of one stored key, including its share of map and slice
// overhead.
const visitedEntrySize = table.KeySize + 48

const minVisitedCapacity = 1 << 16

// VisitedSet remembers every table the search has produced. Membership
// is exact: keys are compared in full, the zobrist hash only picks the
// bucket. Once the capacity is reached new tables are no longer
// recorded.
type VisitedSet struct {
	zobrist  *zobrist.Zobrist
	buckets  map[uint64][]table.Key
	count    int
	capacity int
	refused  int
}

// NewVisitedSet sizes the set to fractionOfMemory of system memory.
func NewVisitedSet(fractionOfMemory float64, z *zobrist.Zobrist) *VisitedSet {
	if z == nil {
		z = &zobrist.Zobrist{}
		z.Initialize()
	}
	totalMem := memory.TotalMemory()
	capacity := int(fractionOfMemory * float64(totalMem) / float64(visitedEntrySize))
	if capacity < minVisitedCapacity {
		capacity = minVisitedCapacity
	}
	log.Debug().Int("capacity", capacity).
		Uint64("total-system-memory-bytes", totalMem).
		Float64("fraction", fractionOfMemory).
		Msg("visited-set-size")
	return &VisitedSet{
		zobrist:  z,
		buckets:  make(map[uint64][]table.Key),
		capacity: capacity,
	}
}

// Insert records t and reports whether it was new.
func (v *VisitedSet) Insert(t *table.Table) bool {
	h := v.zobrist.Hash(t)
	k := t.Key()
	for _, seen := range v.buckets[h] {
		if seen == k {
			return false
		}
	}
	if v.count >= v.capacity {
		v.refused++
		return true
	}
	v.buckets[h] = append(v.buckets[h], k)
	v.count++
	return true
}

func (v *VisitedSet) Contains(t *table.Table) bool {
	k := t.Key()
	for _, seen := range v.buckets[v.zobrist.Hash(t)] {
		if seen == k {
			return true
		}
	}
	return false
}

func (v *VisitedSet) Len() int {
	return v.count
}

func (v *VisitedSet) Capacity() int {
	return v.capacity
}

// Refused counts inserts dropped because the set was full.
func (v *VisitedSet) Refused() int {
	return v.refused
}
