package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/yahtzeeodds/internal/dice"
	"github.com/lox/yahtzeeodds/internal/randutil"
)

// constantSource always produces the same face.
type constantSource struct{ face int }

func (s constantSource) IntN(n int) int {
	return (s.face - dice.MinFace) % n
}

// cycleSource produces faces 1,2,3,4,5,6,1,2,... so no two dice in a hand
// ever match.
type cycleSource struct{ next int }

func (s *cycleSource) IntN(n int) int {
	v := s.next % n
	s.next++
	return v
}

// scriptSource replays a fixed sequence of draws and fails the test if the
// simulation asks for more than scripted.
type scriptSource struct {
	t      *testing.T
	values []int
	pos    int
}

func (s *scriptSource) IntN(n int) int {
	if s.pos >= len(s.values) {
		s.t.Fatalf("script exhausted after %d draws", s.pos)
	}
	v := s.values[s.pos]
	s.pos++
	if v >= n {
		s.t.Fatalf("scripted value %d out of range for IntN(%d) at draw %d", v, n, s.pos)
	}
	return v
}

func TestSimulate_ConstantSourceWinsInOneRoll(t *testing.T) {
	rolls := 0
	sim := New(WithObserver(func(roll int, hand dice.Hand, modeCount int) {
		rolls = roll
	}))

	result := sim.Simulate(constantSource{face: 4})

	assert.True(t, result, "five matching dice on the first roll must be a Yahtzee")
	assert.Equal(t, 1, rolls, "turn must stop the roll the Yahtzee appears")
}

func TestSimulate_CycleSourceNeverWins(t *testing.T) {
	rolls := 0
	sim := New(WithObserver(func(roll int, hand dice.Hand, modeCount int) {
		rolls = roll
		assert.Equal(t, 1, modeCount, "cycling faces can never pair")
	}))

	src := &cycleSource{}
	result := sim.Simulate(src)

	assert.False(t, result)
	assert.Equal(t, MaxRolls, rolls, "a losing turn uses all three rolls")
}

func TestSimulate_NeverExceedsThreeRolls(t *testing.T) {
	rng := randutil.New(12345)
	sim := New(WithObserver(func(roll int, hand dice.Hand, modeCount int) {
		if roll > MaxRolls {
			t.Fatalf("observed roll %d past the limit", roll)
		}
	}))

	for i := 0; i < 10000; i++ {
		sim.Simulate(rng)
	}
}

func TestSimulate_StopsEarlyOnSecondRollYahtzee(t *testing.T) {
	// Roll 1 lands {3,3,3,6,6}; the trips are kept and the re-rolled pair
	// comes back as threes. Draws are face-1.
	src := &scriptSource{t: t, values: []int{
		2, 2, 2, 5, 5, // roll 1
		2, 2, // roll 2 re-rolls the two sixes
	}}

	var hands []dice.Hand
	sim := New(WithObserver(func(roll int, hand dice.Hand, modeCount int) {
		hands = append(hands, hand)
	}))

	result := sim.Simulate(src)

	require.True(t, result)
	require.Len(t, hands, 2, "turn must not roll a third time after the Yahtzee")
	assert.Equal(t, dice.Hand{3, 3, 3, 6, 6}, hands[0])
	assert.Equal(t, dice.Hand{3, 3, 3, 3, 3}, hands[1])
}

func TestSimulate_KeepsEveryDieMatchingChosenFace(t *testing.T) {
	// Roll 1 lands the two-pair tie {2,2,5,5,6}; the scripted tie-break
	// picks the second candidate (fives). Both fives must carry into roll
	// 2, with exactly three dice re-rolled.
	src := &scriptSource{t: t, values: []int{
		1, 1, 4, 4, 5, // roll 1: {2,2,5,5,6}
		1,       // tie-break across candidates [2 5] picks 5
		0, 1, 2, // roll 2 re-rolls three dice: {1,2,3}
		0, 1, 2, // roll 3: pair of fives kept again, no better mode
	}}

	var hands []dice.Hand
	sim := New(WithObserver(func(roll int, hand dice.Hand, modeCount int) {
		hands = append(hands, hand)
	}))

	result := sim.Simulate(src)

	require.False(t, result)
	require.Len(t, hands, 3)
	assert.Equal(t, dice.Hand{2, 2, 5, 5, 6}, hands[0])
	for _, hand := range hands[1:] {
		assert.Equal(t, 5, hand[0], "kept dice must show the chosen face")
		assert.Equal(t, 5, hand[1], "kept dice must show the chosen face")
		assert.Equal(t, 2, hand.Matching(5), "kept count must equal the matching dice in the prior hand")
	}
}

func TestSimulate_NoPairKeepsNothing(t *testing.T) {
	// Roll 1 has no pair, so the whole hand re-rolls: roll 2 must not
	// retain any dice from roll 1.
	src := &scriptSource{t: t, values: []int{
		0, 1, 2, 3, 4, // roll 1: {1,2,3,4,5}
		5, 5, 3, 1, 0, // roll 2: {6,6,4,2,1}, full re-roll
		2, 0, 3, // roll 3 re-rolls three dice around the pair of sixes
	}}

	var hands []dice.Hand
	sim := New(WithObserver(func(roll int, hand dice.Hand, modeCount int) {
		hands = append(hands, hand)
	}))

	sim.Simulate(src)

	require.Len(t, hands, 3)
	assert.Equal(t, dice.Hand{1, 2, 3, 4, 5}, hands[0])
	assert.Equal(t, dice.Hand{6, 6, 4, 2, 1}, hands[1])
	assert.Equal(t, dice.Hand{6, 6, 3, 1, 4}, hands[2], "only the pair of sixes carries into roll 3")
}

// With a real RNG the success rate should sit near the known per-turn
// Yahtzee probability for this strategy, about 0.046.
func TestSimulate_SuccessRateNearBaseline(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	rng := randutil.New(42)
	sim := New()

	const trials = 200000
	successes := 0
	for i := 0; i < trials; i++ {
		if sim.Simulate(rng) {
			successes++
		}
	}

	p := float64(successes) / float64(trials)
	assert.InDelta(t, 0.046, p, 0.003, "per-turn probability drifted from the Monte Carlo baseline")
}
