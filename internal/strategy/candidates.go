package strategy

import (
	"github.com/derekprior/doubles/internal/doubles"
)

// Candidate is a scored team that a strategy is willing to field.
type Candidate struct {
	Team     doubles.Team
	Score    int
	Fairness float64
	Rank     float64 // fairness plus jitter; higher is tried first
	Tier     int     // preference class; lower is tried first
}

func newCandidate(t doubles.Team, env Env) Candidate {
	fairness := env.Scorer.TeamFairness(t)
	return Candidate{
		Team:     t,
		Score:    env.Scorer.TeamScore(t),
		Fairness: fairness,
		Rank:     fairness + doubles.Jitter(env.RNG, env.Jitter),
	}
}

// BuildTeams scores every unordered pair in the pool and sorts them by fairness,
// highest first, with jitter so equally fair teams do not always come out in the
// same order. It is O(n²); callers should keep pools to tens of players.
func BuildTeams(pool []doubles.Player, env Env) []Candidate {
	cands := make([]Candidate, 0, len(pool)*(len(pool)-1)/2)
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			cands = append(cands, newCandidate(doubles.NewTeam(pool[i], pool[j]), env))
		}
	}
	rankDescending(cands)
	return cands
}

// selection is the outcome of selectMatch.
type selection struct {
	match doubles.Match
	gated bool // false when the deadlock fallback was used
}

// selectMatch walks first-team candidates in order and pairs each with the
// gated opponent of lowest (tier, MatchScore). Pairings compare on the worse
// team's tier; candidates are sorted by tier, so among equal worse tiers the
// earliest first team, which has the better tier, is kept. The search stops at
// the first pairing that cannot be beaten on tier. When no pairing passes the gate, the
// top candidate takes its lowest-MatchScore opponent instead.
func selectMatch(cands []Candidate, sc doubles.Scorer) (selection, bool) {
	if len(cands) < 2 {
		return selection{}, false
	}

	bestFirst, bestOpp := -1, -1
	bestTier := 0
	for i, first := range cands {
		if bestFirst >= 0 && first.Tier >= bestTier {
			break
		}
		opp := bestOpponent(cands, i, sc, true)
		if opp < 0 {
			continue
		}
		tier := max(first.Tier, cands[opp].Tier)
		if bestFirst < 0 || tier < bestTier {
			bestFirst, bestOpp, bestTier = i, opp, tier
		}
		if tier == first.Tier {
			break
		}
	}
	if bestFirst >= 0 {
		return selection{
			match: doubles.NewMatch(cands[bestFirst].Team, cands[bestOpp].Team),
			gated: true,
		}, true
	}

	opp := bestOpponent(cands, 0, sc, false)
	if opp < 0 {
		return selection{}, false
	}
	return selection{match: doubles.NewMatch(cands[0].Team, cands[opp].Team)}, true
}

func bestOpponent(cands []Candidate, first int, sc doubles.Scorer, gated bool) int {
	best := -1
	var bestTier int
	var bestScore float64
	team := cands[first].Team
	for j, c := range cands {
		if j == first || team.Overlaps(c.Team) {
			continue
		}
		if gated && !sc.Acceptable(team, c.Team) {
			continue
		}
		ms := sc.MatchScore(team, c.Team)
		if best < 0 || c.Tier < bestTier || (c.Tier == bestTier && ms < bestScore) {
			best, bestTier, bestScore = j, c.Tier, ms
		}
	}
	return best
}
