package randomness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedReproducibility(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.NextFloat(), b.NextFloat())
	}
}

func TestNextFloatRange(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		f := s.NextFloat()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestIntRange(t *testing.T) {
	s := New(1)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := s.IntRange(3, 7)
		require.GreaterOrEqual(t, n, 3)
		require.Less(t, n, 7)
		seen[n] = true
	}
	assert.Len(t, seen, 4, "every value of [3, 7) appears")

	assert.Panics(t, func() { s.IntRange(5, 5) })
	assert.Panics(t, func() { s.IntRange(7, 3) })
}

func TestChoice(t *testing.T) {
	s := New(1)
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		seen[Choice(s, items)] = true
	}
	assert.Len(t, seen, 3)

	assert.Panics(t, func() { Choice(s, []string{}) })
}

func TestChoicesRespectsWeights(t *testing.T) {
	s := New(1)
	items := []string{"never", "rare", "common"}
	weights := []float64{0, 1, 9}

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[Choices(s, items, weights)]++
	}
	assert.Zero(t, counts["never"], "zero weight is never drawn")
	assert.Greater(t, counts["common"], counts["rare"])
	assert.Greater(t, counts["rare"], 0)
}

func TestChoicesSingleWinner(t *testing.T) {
	s := New(1)
	for i := 0; i < 50; i++ {
		got := Choices(s, []string{"a", "b", "c"}, []float64{0, 1, 0})
		require.Equal(t, "b", got)
	}
}

func TestChoicesPanics(t *testing.T) {
	s := New(1)
	assert.Panics(t, func() { Choices(s, []string{"a"}, []float64{1, 2}) })
	assert.Panics(t, func() { Choices(s, []string{"a", "b"}, []float64{0, 0}) })
}
