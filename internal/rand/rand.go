// Package rand provides the single random source the simulation draws from.
package rand

import (
	"github.com/MichaelTJones/pcg"
)

// Source is the subset of random operations the engine uses. Tests supply
// scripted implementations.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

const pcgSequence = 0xda3e39cb94b95bdb

// PCG is a Source backed by a 32-bit permuted congruential generator.
type PCG struct {
	r *pcg.PCG32
}

func New(seed int64) *PCG {
	p := &PCG{r: pcg.NewPCG32()}
	p.Seed(seed)
	return p
}

func (p *PCG) Seed(s int64) {
	p.r.Seed(uint64(s), pcgSequence)
}

func (p *PCG) Intn(n int) int {
	if n <= 0 {
		panic("rand: Intn called with non-positive n")
	}
	return int(p.r.Bounded(uint32(n)))
}

func (p *PCG) Float64() float64 {
	// 53 random bits from two draws.
	hi := uint64(p.r.Random())
	lo := uint64(p.r.Random())
	return float64((hi<<32|lo)>>11) / (1 << 53)
}

// Uniform returns a value in [lo, hi).
func Uniform(s Source, lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// Chance reports whether a draw lands under p.
func Chance(s Source, p float64) bool {
	return s.Float64() < p
}

// SampleFiltered returns the index of a uniformly chosen element that
// satisfies pred, or -1 when none does.
func SampleFiltered[T any](s Source, slice []T, pred func(T) bool) int {
	var candidates []int
	for i, v := range slice {
		if pred(v) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[s.Intn(len(candidates))]
}
