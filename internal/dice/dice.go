package dice

// MinFace and MaxFace bound the face values of a standard die.
const (
	MinFace = 1
	MaxFace = 6
)

// HandSize is the number of dice in a Yahtzee hand.
const HandSize = 5

// Source provides uniform random integers in [0,n). *rand.Rand from
// math/rand/v2 satisfies it; tests substitute rigged implementations.
type Source interface {
	IntN(n int) int
}

// RollFace draws a uniform face value in [MinFace, MaxFace].
func RollFace(src Source) int {
	return MinFace + src.IntN(MaxFace)
}

// Hand represents five dice
type Hand [HandSize]int

// Counts is a face frequency table indexed by face value; index 0 is unused
type Counts [MaxFace + 1]int

// Count tallies how many dice in the hand show each face.
func (h Hand) Count() Counts {
	var c Counts
	for _, face := range h {
		c[face]++
	}
	return c
}

// Matching returns the number of dice in the hand showing the given face.
func (h Hand) Matching(face int) int {
	n := 0
	for _, f := range h {
		if f == face {
			n++
		}
	}
	return n
}

// Mode returns the highest frequency in the table and every face attaining
// it. A two-step reduction: find the max count first, then collect the faces,
// so a tie never admits a face with a strictly lower count.
func (c Counts) Mode() (best int, faces []int) {
	for face := MinFace; face <= MaxFace; face++ {
		if c[face] > best {
			best = c[face]
		}
	}
	if best == 0 {
		return 0, nil
	}
	for face := MinFace; face <= MaxFace; face++ {
		if c[face] == best {
			faces = append(faces, face)
		}
	}
	return best, faces
}
