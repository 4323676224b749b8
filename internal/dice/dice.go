package dice

import (
	"math/rand"
	"time"
)

// Roller provides the randomness for dealing hands and picking the
// opening turn. A non-zero seed makes it deterministic for tests.
type Roller struct {
	random *rand.Rand
}

// Config for the roller.
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new roller.
func New(cfg *Config) *Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &Roller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a single die value in [1,6].
func (r *Roller) Roll() int {
	return r.random.Intn(6) + 1
}

// Hand returns n freshly rolled dice.
func (r *Roller) Hand(n int) []int {
	hand := make([]int, n)
	for i := range hand {
		hand[i] = r.Roll()
	}
	return hand
}

// Intn returns a uniform value in [0,n). Used to choose who opens a round.
func (r *Roller) Intn(n int) int {
	return r.random.Intn(n)
}
