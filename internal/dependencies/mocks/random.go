package mocks

import (
	"github.com/mcoot/pelada/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// ShuffleCalls records the length passed to each Shuffle call
	ShuffleCalls []int
	// Reverse makes Shuffle reverse the slice instead of leaving it untouched
	Reverse bool
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Shuffle leaves the order unchanged, or reverses it when Reverse is set
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {
	r.ShuffleCalls = append(r.ShuffleCalls, n)
	if !r.Reverse {
		return
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}

// Reset clears all queued results and recorded calls
func (r *MockRandom) Reset() {
	r.IntnResults = nil
	r.intnIndex = 0
	r.ShuffleCalls = nil
	r.Reverse = false
}
