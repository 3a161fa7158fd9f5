package strategy

import (
	"github.com/samber/lo"

	"github.com/derekprior/doubles/internal/doubles"
)

// Preference tiers for mixed-gender teams, most preferred first.
const (
	tierMixed = iota
	tierUnspecifiedMale
	tierUnspecifiedFemale
	tierSameGender
	tierUnspecifiedPair
)

// MixedGender prefers one man and one woman per team, falling back to pairs
// with an unspecified player, then same-gender pairs, then two unspecified
// players. Within a tier the fairest teams come first.
//
// A match is judged by its less preferred team first, then by the other one.
// So an unspecified+male team against another unspecified+male team beats a
// male+female team against an unspecified+female team; when the less
// preferred teams tie, the pairing that keeps a male+female team wins.
type MixedGender struct{}

func (s *MixedGender) Name() Kind { return MixedGenderKind }

// Check requires at least two players of each gender so two mixed teams can exist.
func (s *MixedGender) Check(players []doubles.Player) error {
	men := lo.CountBy(players, func(p doubles.Player) bool { return p.Gender == doubles.Male })
	women := lo.CountBy(players, func(p doubles.Player) bool { return p.Gender == doubles.Female })
	if men < 2 || women < 2 {
		return doubles.ErrInsufficientGenderMix
	}
	return nil
}

func (s *MixedGender) Candidates(pool []doubles.Player, env Env) []Candidate {
	cands := BuildTeams(pool, env)
	for i := range cands {
		cands[i].Tier = genderTier(cands[i].Team)
	}
	rankDescending(cands)
	return cands
}

func genderTier(t doubles.Team) int {
	a, b := t.Player1.Gender, t.Player2.Gender
	if a > b {
		a, b = b, a
	}
	// Unspecified sorts first because it is the empty string.
	switch {
	case a == doubles.Female && b == doubles.Male:
		return tierMixed
	case a == doubles.Unspecified && b == doubles.Male:
		return tierUnspecifiedMale
	case a == doubles.Unspecified && b == doubles.Female:
		return tierUnspecifiedFemale
	case a == doubles.Unspecified && b == doubles.Unspecified:
		return tierUnspecifiedPair
	default:
		return tierSameGender
	}
}
