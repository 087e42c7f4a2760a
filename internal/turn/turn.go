// Package turn simulates a single Yahtzee turn under a fixed keep-the-mode
// strategy: after each roll the player keeps every die showing the most
// common face and re-rolls the rest, stopping at three rolls or the moment
// all five dice match.
package turn

import (
	"github.com/charmbracelet/log"

	"github.com/lox/yahtzeeodds/internal/dice"
)

// MaxRolls is the number of rolls allowed in one turn.
const MaxRolls = 3

// RollObserver receives each sub-roll as it happens. Purely diagnostic: the
// simulation result does not depend on it.
type RollObserver func(roll int, hand dice.Hand, modeCount int)

// Simulator runs single turns. The zero value is ready to use.
type Simulator struct {
	observer RollObserver
	logger   *log.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithObserver registers a per-roll diagnostic callback.
func WithObserver(fn RollObserver) Option {
	return func(s *Simulator) { s.observer = fn }
}

// WithLogger enables debug logging of each roll.
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// New creates a Simulator.
func New(opts ...Option) *Simulator {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate plays one turn and reports whether it produced a Yahtzee.
//
// Each roll replaces every non-kept die with a fresh uniform draw. The
// keep step fires only when at least two dice share a face: the most
// common face is kept, with ties between equally common faces broken
// uniformly at random. An arbitrary first-match tie-break would skew the
// strategy toward low faces and bias the estimate, so the random selection
// here is load-bearing, not cosmetic. The turn ends the instant all five
// dice match, even on the first or second roll.
func (s *Simulator) Simulate(src dice.Source) bool {
	var hand dice.Hand
	keptFace, keptCount := 0, 0
	best := 0

	for roll := 0; roll < MaxRolls && best < dice.HandSize; roll++ {
		for i := range hand {
			if i < keptCount {
				hand[i] = keptFace
				continue
			}
			hand[i] = dice.RollFace(src)
		}

		var candidates []int
		counts := hand.Count()
		best, candidates = counts.Mode()

		if best > 1 {
			keptFace = candidates[0]
			if len(candidates) > 1 {
				keptFace = candidates[src.IntN(len(candidates))]
			}
			// Keep every die showing the chosen face, not just the
			// counted frequency.
			keptCount = hand.Matching(keptFace)
		}

		if s.observer != nil {
			s.observer(roll+1, hand, best)
		}
		if s.logger != nil {
			s.logger.Debug("rolled", "roll", roll+1, "hand", hand, "mode", best, "kept", keptCount)
		}
	}

	return best == dice.HandSize
}
