package dice

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness provider for the engine
type Source interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}

type randSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a source seeded from the clock
func NewRandomSource() Source {
	return NewSeededSource(time.Now().UnixNano())
}

// NewSeededSource returns a deterministic source for the given seed
func NewSeededSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
