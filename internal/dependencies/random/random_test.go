package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededRandomIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestShuffleKeepsElements(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6, 7, 8}
	NewSeeded(7).Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, values)
}

func TestIntnNonPositive(t *testing.T) {
	assert.Equal(t, 0, New().Intn(0))
	assert.Equal(t, 0, NewSeeded(1).Intn(-3))
}

func TestCryptoIntnInRange(t *testing.T) {
	r := New()
	for i := 0; i < 50; i++ {
		v := r.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
}
