package analysis

import (
	"math/rand/v2"
	"sync"
)

// RandomSource supplies the random draws of an analysis run.
type RandomSource interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// DefaultRandom draws from the process-wide generator.
func DefaultRandom() RandomSource { return globalSource{} }

// lockedSource serialises access to a seeded generator so one Analyzer can
// be shared by concurrent runs.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom returns a deterministic source. The same seed replays the
// same sequence of draws.
func NewSeededRandom(seed uint64) RandomSource {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// between returns an integer in [lo, hi).
func between(rng RandomSource, lo, hi int) int {
	return lo + rng.IntN(hi-lo)
}
