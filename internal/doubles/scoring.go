package doubles

import (
	"github.com/intinig/go-openskill/rating"
	"github.com/intinig/go-openskill/types"
)

// DefaultTiers maps the ten skill tiers, strongest first, to points.
var DefaultTiers = map[string]int{
	"A1": 10, "A2": 9,
	"B1": 8, "B2": 7,
	"C1": 6, "C2": 5,
	"D1": 4, "D2": 3,
	"E1": 2, "E2": 1,
}

const (
	// DefaultMaxTeamScoreDiff is the hard gate between opposing team scores.
	DefaultMaxTeamScoreDiff = 1

	defaultSigma = 1.0
)

// Scorer turns skill tiers into team and match metrics.
type Scorer struct {
	Tiers   map[string]int // nil means DefaultTiers
	MaxDiff int            // hard gate on team-score difference
	Sigma   float64        // rating uncertainty used for predictions; 0 means 1.0
}

// NewScorer returns a Scorer over the default tier table and gate.
func NewScorer() Scorer {
	return Scorer{Tiers: DefaultTiers, MaxDiff: DefaultMaxTeamScoreDiff}
}

func (s Scorer) tiers() map[string]int {
	if s.Tiers == nil {
		return DefaultTiers
	}
	return s.Tiers
}

// Known reports whether the tier is in the table.
func (s Scorer) Known(tier string) bool {
	_, ok := s.tiers()[tier]
	return ok
}

// Score maps a player's tier to points. Unknown tiers score zero.
func (s Scorer) Score(p Player) int {
	return s.tiers()[p.SkillLevel]
}

// TeamScore is the sum of both players' scores.
func (s Scorer) TeamScore(t Team) int {
	return s.Score(t.Player1) + s.Score(t.Player2)
}

// TeamBalance is the skill gap inside a team.
func (s Scorer) TeamBalance(t Team) int {
	return abs(s.Score(t.Player1) - s.Score(t.Player2))
}

// TeamFairness rewards strong teams that are internally balanced. It only ranks candidates.
func (s Scorer) TeamFairness(t Team) float64 {
	return float64(s.TeamScore(t) - 2*s.TeamBalance(t))
}

// MatchScore ranks opponents; lower is better. It never overrides the gate.
func (s Scorer) MatchScore(a, b Team) float64 {
	sa, sb := s.TeamScore(a), s.TeamScore(b)
	scoreDiff := float64(abs(sa - sb))
	balanceDiff := float64(abs(s.TeamBalance(a) - s.TeamBalance(b)))
	avgDiff := absf(float64(sa)/2 - float64(sb)/2)
	return 0.7*scoreDiff + 0.2*balanceDiff + 0.1*avgDiff
}

// TeamDiff is the absolute team-score difference between two teams.
func (s Scorer) TeamDiff(a, b Team) int {
	return abs(s.TeamScore(a) - s.TeamScore(b))
}

// Diff is the team-score difference of a match.
func (s Scorer) Diff(m Match) int {
	return s.TeamDiff(m.Team1, m.Team2)
}

// Acceptable reports whether two teams pass the hard gate.
func (s Scorer) Acceptable(a, b Team) bool {
	return s.TeamDiff(a, b) <= s.MaxDiff
}

// MaxDiffOf returns the largest team-score difference in a schedule.
func (s Scorer) MaxDiffOf(matches []Match) int {
	worst := 0
	for _, m := range matches {
		if d := s.Diff(m); d > worst {
			worst = d
		}
	}
	return worst
}

// TotalDiff sums the team-score differences of a schedule.
func (s Scorer) TotalDiff(matches []Match) int {
	total := 0
	for _, m := range matches {
		total += s.Diff(m)
	}
	return total
}

// Splits lists the three ways to divide four players into two teams of two.
func Splits(ps [4]Player) [3][2]Team {
	return [3][2]Team{
		{NewTeam(ps[0], ps[1]), NewTeam(ps[2], ps[3])},
		{NewTeam(ps[0], ps[2]), NewTeam(ps[1], ps[3])},
		{NewTeam(ps[0], ps[3]), NewTeam(ps[1], ps[2])},
	}
}

// BestSplit picks the split with the smallest team-score difference, breaking ties
// by MatchScore. A gated split is always preferred since it has the smaller diff.
func (s Scorer) BestSplit(ps [4]Player) (Team, Team, int) {
	splits := Splits(ps)
	best := 0
	bestDiff := s.TeamDiff(splits[0][0], splits[0][1])
	bestScore := s.MatchScore(splits[0][0], splits[0][1])
	for i := 1; i < len(splits); i++ {
		d := s.TeamDiff(splits[i][0], splits[i][1])
		ms := s.MatchScore(splits[i][0], splits[i][1])
		if d < bestDiff || (d == bestDiff && ms < bestScore) {
			best, bestDiff, bestScore = i, d, ms
		}
	}
	return splits[best][0], splits[best][1], bestDiff
}

func (s Scorer) rating(p Player) types.Rating {
	mu := float64(s.Score(p))
	sigma := s.Sigma
	if sigma <= 0 {
		sigma = defaultSigma
	}
	return rating.NewWithOptions(&types.OpenSkillOptions{
		Mu:    &mu,
		Sigma: &sigma,
	})
}

func (s Scorer) ratings(t Team) types.Team {
	return types.Team{s.rating(t.Player1), s.rating(t.Player2)}
}

// PredictDraw estimates how evenly matched the two teams are, in [0, 1].
func (s Scorer) PredictDraw(m Match) float64 {
	return rating.PredictDraw([]types.Team{s.ratings(m.Team1), s.ratings(m.Team2)}, nil)
}

// PredictWin estimates team1's chance of winning.
func (s Scorer) PredictWin(m Match) float64 {
	probs := rating.PredictWin([]types.Team{s.ratings(m.Team1), s.ratings(m.Team2)}, nil)
	if len(probs) == 0 {
		return 0.5
	}
	return probs[0]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
