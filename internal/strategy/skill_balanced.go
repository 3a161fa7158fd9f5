package strategy

import "github.com/derekprior/doubles/internal/doubles"

// SkillBalanced fields the fairest teams first: strong pairs whose two players
// are close in skill. Opponents must pass the hard gate.
type SkillBalanced struct{}

func (s *SkillBalanced) Name() Kind { return SkillBalancedKind }

func (s *SkillBalanced) Check(players []doubles.Player) error { return nil }

func (s *SkillBalanced) Candidates(pool []doubles.Player, env Env) []Candidate {
	return BuildTeams(pool, env)
}
