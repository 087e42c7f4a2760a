package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by
// rand/v2 so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Stream returns a *rand.Rand for one worker in a parallel batch. Each
// (seed, worker) pair maps to its own PCG state, so worker streams never
// overlap and a batch replays exactly given the same seed and worker count.
func Stream(seed int64, worker int) *rand.Rand {
	u := uint64(seed) + uint64(worker+1)*goldenRatio64
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
