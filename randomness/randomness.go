// Package randomness provides an explicit, seedable random source.
// All random decisions of the engine run through one shared Source so a run
// is reproducible under a fixed seed; there is no package-level PRNG state.
package randomness

import "math/rand"

type Source struct {
	rng *rand.Rand
}

func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NextFloat returns a float in [0, 1).
func (s *Source) NextFloat() float64 {
	return s.rng.Float64()
}

// IntRange returns an int in the half-open interval [lo, hi).
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		panic("IntRange: empty interval")
	}
	return lo + s.rng.Intn(hi-lo)
}

// Choice picks a uniformly random element. Panics on an empty slice,
// callers must check first.
func Choice[T any](s *Source, items []T) T {
	return items[s.rng.Intn(len(items))]
}

// Choices picks one element with probability proportional to its weight.
// Weights must be non-negative with a positive total.
func Choices[T any](s *Source, items []T, weights []float64) T {
	if len(items) != len(weights) {
		panic("Choices: items and weights differ in length")
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("Choices: weights sum to zero")
	}
	r := s.NextFloat() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return items[i]
		}
	}
	return items[len(items)-1]
}
