package doubles

import (
	"math/rand"
	"time"
)

// RNG is the only source of randomness the engine uses. Tests can script it.
type RNG interface {
	// Next returns a value in [0, 1).
	Next() float64
}

type mathRand struct {
	r *rand.Rand
}

func (m mathRand) Next() float64 { return m.r.Float64() }

// NewRand returns a seeded RNG. A zero seed is replaced with the current time.
func NewRand(seed int64) RNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mathRand{r: rand.New(rand.NewSource(seed))}
}

// Sequence replays fixed values, wrapping around. It is meant for tests.
type Sequence struct {
	Values []float64
	i      int
}

func (s *Sequence) Next() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.i%len(s.Values)]
	s.i++
	return v
}

// Intn returns a value in [0, n).
func Intn(rng RNG, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(rng.Next() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Jitter returns uniform noise in [-width, +width).
func Jitter(rng RNG, width float64) float64 {
	return (rng.Next()*2 - 1) * width
}

// Shuffle permutes s in place (Fisher-Yates).
func Shuffle[T any](rng RNG, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := Intn(rng, i+1)
		s[i], s[j] = s[j], s[i]
	}
}
