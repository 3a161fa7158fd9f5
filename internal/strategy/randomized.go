package strategy

import "github.com/derekprior/doubles/internal/doubles"

// RandomizedBalanced shuffles the pool and pairs players in shuffled order,
// keeping two players of the same coarse skill group (the tier's letter) off the
// same team whenever the pool allows it. Opponents still pass the hard gate.
type RandomizedBalanced struct{}

func (s *RandomizedBalanced) Name() Kind { return RandomizedBalancedKind }

func (s *RandomizedBalanced) Check(players []doubles.Player) error { return nil }

func (s *RandomizedBalanced) Candidates(pool []doubles.Player, env Env) []Candidate {
	shuffled := make([]doubles.Player, len(pool))
	copy(shuffled, pool)
	doubles.Shuffle(env.RNG, shuffled)

	var mixed, same []Candidate
	order := 0
	for i := 0; i < len(shuffled); i++ {
		for j := i + 1; j < len(shuffled); j++ {
			c := newCandidate(doubles.NewTeam(shuffled[i], shuffled[j]), env)
			// shuffled order decides who goes first, not fairness
			c.Rank = -float64(order)
			order++
			if shuffled[i].SkillGroup() == shuffled[j].SkillGroup() {
				c.Tier = 1
				same = append(same, c)
			} else {
				mixed = append(mixed, c)
			}
		}
	}
	// same-group pairs trail so they are only used when cross-group pairs cannot form a match
	return append(mixed, same...)
}
