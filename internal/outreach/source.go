package outreach

import (
	"math/rand/v2"
	"sync"

	"outreach/internal/models"
)

// Source produces the metrics reported for a run. executionSeconds is the
// already-floored execution time.
type Source interface {
	Generate(executionSeconds int) models.OutreachResult
}

// Deterministic reports fixed success values.
type Deterministic struct{}

// Generate implements Source.
func (Deterministic) Generate(executionSeconds int) models.OutreachResult {
	return models.OutreachResult{
		ClientsReached:     50,
		ExecutionTime:      executionSeconds,
		EmailsSent:         50,
		SuccessRate:        100,
		AvgPersonalization: 95,
	}
}

// Randomized ranges, inclusive.
const (
	MinClientsReached     = 45
	MaxClientsReached     = 54
	MinSuccessRate        = 96
	MaxSuccessRate        = 100
	MinAvgPersonalization = 90
	MaxAvgPersonalization = 99
)

// Randomized reports plausible metrics drawn uniformly from fixed ranges.
// Every reached client gets exactly one email.
type Randomized struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomized creates a randomized source seeded with seed.
func NewRandomized(seed uint64) *Randomized {
	return &Randomized{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate implements Source.
func (r *Randomized) Generate(executionSeconds int) models.OutreachResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients := between(r.rng, MinClientsReached, MaxClientsReached)
	return models.OutreachResult{
		ClientsReached:     clients,
		ExecutionTime:      executionSeconds,
		EmailsSent:         clients,
		SuccessRate:        between(r.rng, MinSuccessRate, MaxSuccessRate),
		AvgPersonalization: between(r.rng, MinAvgPersonalization, MaxAvgPersonalization),
	}
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// Fixed always reports the same result, ignoring the execution time.
type Fixed models.OutreachResult

// Generate implements Source.
func (f Fixed) Generate(int) models.OutreachResult {
	return models.OutreachResult(f)
}
