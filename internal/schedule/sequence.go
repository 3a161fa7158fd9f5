package schedule

import (
	"strings"

	"github.com/samber/lo"

	"github.com/derekprior/doubles/internal/doubles"
)

// Sequence reorders a schedule so players are not booked into back-to-back
// matches where that can be avoided. It uses the default five passes.
func Sequence(matches []doubles.Match) []doubles.Match {
	return SequenceWithBudget(matches, doubles.Budget{MaxAttempts: 5})
}

// SequenceWithBudget runs up to budget passes. In each pass, when two adjacent
// matches share a player, the nearest later match that shares nobody with either
// neighbour is swapped into the second position. Conflicts with no valid swap are
// left in place. The result is always a permutation of the input.
func SequenceWithBudget(matches []doubles.Match, budget doubles.Budget) []doubles.Match {
	out := doubles.Clone(matches)
	passes := budget.Or(5)
	for pass := 0; pass < passes; pass++ {
		changed := false
		for i := 0; i+1 < len(out); i++ {
			if !out[i].Shares(out[i+1]) {
				continue
			}
			for j := i + 2; j < len(out); j++ {
				if out[j].Shares(out[i]) {
					continue
				}
				if j != i+2 && i+2 < len(out) && out[j].Shares(out[i+2]) {
					continue
				}
				out[i+1], out[j] = out[j], out[i+1]
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	return out
}

// Conflicts counts adjacent pairs of matches that share a player.
func Conflicts(matches []doubles.Match) int {
	n := 0
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Shares(matches[i]) {
			n++
		}
	}
	return n
}

func sharedPlayers(a, b doubles.Match) []doubles.Player {
	ps := a.Players()
	return lo.Filter(ps[:], func(p doubles.Player, _ int) bool {
		return b.Has(p.ID)
	})
}

func joinPlayers(ps []doubles.Player) string {
	return strings.Join(lo.Map(ps, func(p doubles.Player, _ int) string { return p.String() }), ", ")
}
