package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Picker chooses n distinct indices in [0, size). Implementations decide
// the order; callers check the contract with checkPick.
type Picker interface {
	Pick(n, size int) []int
}

// RandomPicker picks uniformly without replacement. It is safe for
// concurrent use.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPicker returns a picker seeded with seed.
func NewRandomPicker(seed uint64) *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns the first n entries of a shuffled index range.
func (p *RandomPicker) Pick(n, size int) []int {
	if n <= 0 || size <= 0 {
		return nil
	}
	if n > size {
		n = size
	}
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	p.mu.Lock()
	p.rng.Shuffle(size, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	p.mu.Unlock()
	return idx[:n]
}

// FirstPicker always picks the lowest indices. It makes plans fully
// reproducible and is used by tests and dry runs.
type FirstPicker struct{}

func (FirstPicker) Pick(n, size int) []int {
	if n > size {
		n = size
	}
	out := make([]int, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// checkPick verifies a picker result: exactly want distinct in-range indices.
func checkPick(got []int, want, size int) error {
	if len(got) != want {
		return fmt.Errorf("picker returned %d indices, want %d", len(got), want)
	}
	seen := make(map[int]bool, len(got))
	for _, i := range got {
		if i < 0 || i >= size {
			return fmt.Errorf("picker index %d out of range [0,%d)", i, size)
		}
		if seen[i] {
			return fmt.Errorf("picker returned index %d twice", i)
		}
		seen[i] = true
	}
	return nil
}
