package game

import "math/rand/v2"

// pcgStream separates the respawn stream from any other PCG use of the seed.
const pcgStream = 0x61707065 // "appe"

// seededRand draws uniform integers from a PCG source.
type seededRand struct {
	r *rand.Rand
}

func newRand(seed int64) *seededRand {
	return &seededRand{r: rand.New(rand.NewPCG(uint64(seed), pcgStream))}
}

// IntBetween returns a uniform integer in [lo, hi].
func (s *seededRand) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}
