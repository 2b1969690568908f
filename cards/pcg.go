package cards

import "math/bits"

const (
	pcgMultiplier = 6364136223846793005
	// seedIncrement drives the generator that expands a u64 seed into
	// the 128-bit PCG state and stream.
	seedIncrement = 11634580027462260723
)

// pcg32 is the PCG XSH-RR 64/32 generator. Seeding and bounded draws
// follow the widely used rand_pcg/rand conventions so a seed names the
// same deal everywhere it is quoted.
type pcg32 struct {
	state     uint64
	increment uint64
}

func output(s uint64) uint32 {
	return bits.RotateLeft32(uint32(((s>>18)^s)>>27), -int(s>>59))
}

func newPCG32(seed uint64) *pcg32 {
	var words [4]uint32
	st := seed
	for i := range words {
		st = st*pcgMultiplier + seedIncrement
		words[i] = output(st)
	}
	p := &pcg32{
		state:     uint64(words[0]) | uint64(words[1])<<32,
		increment: (uint64(words[2]) | uint64(words[3])<<32) | 1,
	}
	p.state += p.increment
	p.step()
	return p
}

func (p *pcg32) step() {
	p.state = p.state*pcgMultiplier + p.increment
}

func (p *pcg32) next() uint32 {
	s := p.state
	p.step()
	return output(s)
}

// below returns a uniform value in [0, n) by widening multiply with
// rejection. n must be positive.
func (p *pcg32) below(n uint32) uint32 {
	zone := (n << bits.LeadingZeros32(n)) - 1
	for {
		hi, lo := bits.Mul32(p.next(), n)
		if lo <= zone {
			return hi
		}
	}
}

// shuffle permutes deck in place, swapping from the back.
func (p *pcg32) shuffle(deck []Card) {
	for i := len(deck) - 1; i > 0; i-- {
		j := p.below(uint32(i + 1))
		deck[i], deck[j] = deck[j], deck[i]
	}
}
