package schedule

import (
	"github.com/derekprior/doubles/internal/doubles"
)

// stagnationLimit is how many non-improving iterations the search tolerates once
// every match is within the gate.
const stagnationLimit = 300

// OptimizeBalance runs Optimize with default options.
func OptimizeBalance(matches []doubles.Match) []doubles.Match {
	return Optimize(matches, DefaultOptions())
}

// Optimize is a randomized hill climb over an existing schedule that reduces the
// largest team-score difference, and secondarily the total difference. It keeps
// the best schedule seen, so the result is never worse than the input; it is not
// guaranteed to be globally balanced, and callers should check the returned
// schedule's max diff against their own threshold.
//
// Each iteration works on the worst match above the gate, re-pairing its four
// players when that strictly helps. When it cannot help, or when only matches at
// the gate remain, one random player is swapped between two random matches, which
// may make things temporarily worse. The search stops after the iteration budget,
// when every match is tied, when there is nothing left to swap, or after
// stagnationLimit iterations without a new best while every match is within the
// gate. That last exit can fire on a plateau that is not optimal.
//
// Players move between matches but the multiset of players is unchanged, so
// participation counts are preserved.
func Optimize(matches []doubles.Match, opts Options) []doubles.Match {
	opts = opts.withDefaults()
	sc := opts.Scorer
	gate := sc.MaxDiff
	rng := opts.RNG

	current := doubles.Clone(matches)
	if len(current) == 0 {
		return current
	}
	best := doubles.Clone(current)
	bestMax, bestTotal := sc.MaxDiffOf(best), sc.TotalDiff(best)

	limit := opts.Budgets.Optimize.Or(100000)
	stagnant := 0
	iter := 0
	for ; iter < limit; iter++ {
		worst, worstDiff := -1, 0
		var near []int
		for i, m := range current {
			d := sc.Diff(m)
			if d > worstDiff {
				worst, worstDiff = i, d
			}
			if d > 0 && d <= gate {
				near = append(near, i)
			}
		}
		if worstDiff == 0 {
			break
		}

		if worstDiff > gate {
			t1, t2, d := sc.BestSplit(current[worst].Players())
			if d < worstDiff {
				current[worst].Team1, current[worst].Team2 = t1, t2
			} else {
				explore := append(near, worst)
				if len(explore) < 2 {
					explore = allIndices(len(current))
				}
				if len(explore) < 2 {
					break
				}
				swapRandomPlayers(current, explore, rng)
			}
		} else {
			if len(near) < 2 {
				break
			}
			swapRandomPlayers(current, near, rng)
		}

		curMax, curTotal := sc.MaxDiffOf(current), sc.TotalDiff(current)
		if curMax < bestMax || (curMax == bestMax && curTotal < bestTotal) {
			best = doubles.Clone(current)
			bestMax, bestTotal = curMax, curTotal
			stagnant = 0
		} else {
			stagnant++
		}
		if stagnant >= stagnationLimit && curMax <= gate {
			break
		}
	}

	opts.Logger.Debug().
		Str("phase", "optimize").
		Int("iterations", iter).
		Int("max_diff", bestMax).
		Int("total_diff", bestTotal).
		Msg("local search finished")
	return best
}

// swapRandomPlayers exchanges one random player between two distinct matches
// drawn from candidates. The swap is skipped if it would double-book a player.
func swapRandomPlayers(matches []doubles.Match, candidates []int, rng doubles.RNG) {
	i := doubles.Intn(rng, len(candidates))
	j := doubles.Intn(rng, len(candidates)-1)
	if j >= i {
		j++
	}
	a, b := &matches[candidates[i]], &matches[candidates[j]]
	pa, pb := a.Slot(doubles.Intn(rng, 4)), b.Slot(doubles.Intn(rng, 4))
	if a.Has(pb.ID) || b.Has(pa.ID) {
		return
	}
	*pa, *pb = *pb, *pa
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
