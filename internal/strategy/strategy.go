package strategy

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/derekprior/doubles/internal/doubles"
)

// Kind names a construction strategy.
type Kind string

const (
	SkillBalancedKind      Kind = "skill_balanced"
	RandomizedBalancedKind Kind = "randomized_balanced"
	MixedGenderKind        Kind = "mixed_gender"
)

// DefaultJitter is the half-width of the noise added to candidate rankings.
const DefaultJitter = 0.3

// Strategy decides which teams may be formed from a pool, and in what order
// they should be tried. The shared Construct loop does the rest.
type Strategy interface {
	Name() Kind
	// Check rejects rosters the strategy cannot serve.
	Check(players []doubles.Player) error
	// Candidates ranks the teams that may be formed from the pool.
	Candidates(pool []doubles.Player, env Env) []Candidate
}

// Env carries what a strategy needs to rank candidates.
type Env struct {
	Scorer doubles.Scorer
	RNG    doubles.RNG
	Jitter float64
}

// Kinds lists the registered strategies.
func Kinds() []Kind {
	return []Kind{SkillBalancedKind, RandomizedBalancedKind, MixedGenderKind}
}

// Get returns a Strategy by name.
func Get(name Kind) (Strategy, error) {
	switch name {
	case SkillBalancedKind, "":
		return &SkillBalanced{}, nil
	case RandomizedBalancedKind:
		return &RandomizedBalanced{}, nil
	case MixedGenderKind:
		return &MixedGender{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// Options configures one construction run.
type Options struct {
	Courts   int
	MinGames int
	Scorer   doubles.Scorer
	RNG      doubles.RNG
	Jitter   float64
	Budget   doubles.Budget
	Logger   zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Courts < 1 {
		o.Courts = 1
	}
	if o.MinGames < 1 {
		o.MinGames = 1
	}
	if o.RNG == nil {
		o.RNG = doubles.NewRand(0)
	}
	return o
}

func (o Options) env() Env {
	return Env{Scorer: o.Scorer, RNG: o.RNG, Jitter: o.Jitter}
}

// TargetMatches is the number of matches needed so every player can reach
// minGames, but never less than one full pass over the roster.
func TargetMatches(players, minGames int) int {
	target := ceilDiv(players*minGames, 4)
	if pass := ceilDiv(players, 4); target < pass {
		target = pass
	}
	return target
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// rankDescending orders candidates by tier, then rank (fairness plus jitter) descending.
func rankDescending(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Tier != cands[j].Tier {
			return cands[i].Tier < cands[j].Tier
		}
		return cands[i].Rank > cands[j].Rank
	})
}
