package sim

import (
	"math"
	"math/rand/v2"
)

// Source supplies uniform floats in [0, 1). Every random draw the engine
// makes goes through a Source so a seeded run can be replayed exactly.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG-backed source for seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SequenceSource replays a fixed list of values, cycling when exhausted.
// Tests use it to pin individual draws.
type SequenceSource struct {
	Values []float64
	next   int
}

// Float64 implements Source.
func (s *SequenceSource) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// between returns a value in [lo, hi).
func between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// centered returns a value in [-spread/2, spread/2).
func centered(src Source, spread float64) float64 {
	return (src.Float64() - 0.5) * spread
}

// chance reports whether a draw falls under p.
func chance(src Source, p float64) bool {
	return src.Float64() < p
}

// angle returns a random phase in [0, 2π).
func angle(src Source) float64 {
	return src.Float64() * 2 * math.Pi
}
