package batch

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// SubmitResult is the outcome of one marketplace listing attempt. A rejected
// listing is a modeled business outcome, not an error.
type SubmitResult struct {
	OK           bool
	ErrorMessage string
}

// Submitter pushes one item to its marketplace. Implementations must be safe
// for sequential reuse across a processing run.
type Submitter interface {
	Submit(ctx context.Context, item Item) (SubmitResult, error)
}

// submissionFailures is the fixed set of causes the simulator draws from.
var submissionFailures = []string{
	"API rate limit exceeded",
	"Invalid product data",
	"Marketplace authentication failed",
	"Product already exists",
	"Missing required fields",
}

// SimulatedSubmitter stands in for real marketplace APIs: it waits a small
// fixed delay and succeeds with the configured probability.
type SimulatedSubmitter struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
	delay       time.Duration
}

// NewSimulatedSubmitter constructs the simulator. successRate is clamped to
// [0,1].
func NewSimulatedSubmitter(successRate float64, delay time.Duration) *SimulatedSubmitter {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	return &SimulatedSubmitter{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		successRate: successRate,
		delay:       delay,
	}
}

// Submit simulates one listing attempt.
func (s *SimulatedSubmitter) Submit(ctx context.Context, _ Item) (SubmitResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return SubmitResult{}, ctx.Err()
		}
	}
	s.mu.Lock()
	roll := s.rng.Float64()
	pick := s.rng.Intn(len(submissionFailures))
	s.mu.Unlock()
	if roll < s.successRate {
		return SubmitResult{OK: true}, nil
	}
	return SubmitResult{OK: false, ErrorMessage: submissionFailures[pick]}, nil
}
