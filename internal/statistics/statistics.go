package statistics

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoSuccesses is returned when the expected number of turns is queried
// for a sample with zero successes, where the geometric mean is undefined.
var ErrNoSuccesses = errors.New("no successful turns observed, expected turns is undefined")

// Statistics aggregates the outcomes of simulated Yahtzee turns. Outcomes
// fold in one at a time; independent batches combine with Merge, which is
// what the parallel estimator relies on for its final reduction.
type Statistics struct {
	Trials    int // Turns simulated
	Successes int // Turns that produced a Yahtzee
}

// Add incorporates a single turn outcome
func (s *Statistics) Add(success bool) {
	s.Trials++
	if success {
		s.Successes++
	}
}

// Merge folds another batch of outcomes into this one.
func (s *Statistics) Merge(other *Statistics) {
	s.Trials += other.Trials
	s.Successes += other.Successes
}

// PHat returns the empirical per-turn success probability. Zero when no
// turns have been recorded.
func (s *Statistics) PHat() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Trials)
}

// ExpectedTurns returns the expected number of turns until the first
// Yahtzee, counting the successful turn itself: the mean of a geometric
// distribution with success probability PHat. When no successes were
// observed the value is undefined and ErrNoSuccesses is returned rather
// than +Inf.
func (s *Statistics) ExpectedTurns() (float64, error) {
	if s.Successes == 0 {
		return 0, ErrNoSuccesses
	}
	return 1 / s.PHat(), nil
}

// StdError returns the standard error of PHat, sqrt(p(1-p)/n). The error
// scales as O(1/sqrt(n)): callers wanting k decimal digits of precision
// should run roughly 10^(2k) trials.
func (s *Statistics) StdError() float64 {
	if s.Trials == 0 {
		return 0
	}
	p := s.PHat()
	return math.Sqrt(p * (1 - p) / float64(s.Trials))
}

// ConfidenceInterval95 returns the 95% confidence interval for PHat
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	p := s.PHat()
	margin := 1.96 * s.StdError() // 95% confidence
	return p - margin, p + margin
}

// Validate checks internal consistency before results are reported
func (s *Statistics) Validate() error {
	if s.Trials < 0 || s.Successes < 0 {
		return fmt.Errorf("negative counts: trials=%d successes=%d", s.Trials, s.Successes)
	}
	if s.Successes > s.Trials {
		return fmt.Errorf("successes %d exceed trials %d", s.Successes, s.Trials)
	}
	return nil
}
