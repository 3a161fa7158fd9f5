package strategy

import (
	"sort"

	"github.com/samber/lo"

	"github.com/derekprior/doubles/internal/doubles"
)

// Construct builds matches round by round until the target match count is
// reached or no player is below MinGames. A round fields at most one match per
// court and never uses a player twice. The counter is updated in place.
func Construct(s Strategy, players []doubles.Player, counter *doubles.Counter, opts Options) ([]doubles.Match, error) {
	if err := s.Check(players); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	target := TargetMatches(len(players), opts.MinGames)
	limit := opts.Budget.Or(100)
	if n := len(players) * opts.MinGames; n > limit {
		limit = n
	}

	log := opts.Logger.With().Str("phase", "construct").Str("strategy", string(s.Name())).Logger()
	log.Debug().Int("target", target).Int("limit", limit).Msg("starting construction")

	var matches []doubles.Match
	fallbacks := 0
	for round := 1; round <= limit && len(matches) < target; round++ {
		if len(counter.Below(opts.MinGames)) == 0 {
			break
		}

		used := make(map[string]bool)
		played := 0
		for played < opts.Courts && len(matches) < target {
			pool := roundPool(players, counter, used, opts.MinGames, opts.RNG)
			if len(pool) < 4 {
				break
			}
			sel, ok := selectMatch(s.Candidates(pool, opts.env()), opts.Scorer)
			if !ok {
				break
			}
			if !sel.gated {
				fallbacks++
			}
			matches = append(matches, sel.match)
			counter.Add(sel.match)
			for _, p := range sel.match.Players() {
				used[p.ID] = true
			}
			played++
		}
		if played == 0 {
			break
		}
		log.Debug().Int("round", round).Int("played", played).Int("matches", len(matches)).Msg("round complete")
	}

	log.Debug().
		Int("matches", len(matches)).
		Int("fallbacks", fallbacks).
		Int("underserved", len(counter.Below(opts.MinGames))).
		Msg("construction finished")
	return matches, nil
}

// roundPool returns the unused players still below minGames, topped up with the
// lowest-count unused players when fewer than four remain. It returns nil when no
// under-served player is available, so a round does not pad itself with players
// who need nothing.
func roundPool(players []doubles.Player, counter *doubles.Counter, used map[string]bool, minGames int, rng doubles.RNG) []doubles.Player {
	free := lo.Filter(players, func(p doubles.Player, _ int) bool {
		return !used[p.ID]
	})
	needy := lo.Filter(free, func(p doubles.Player, _ int) bool {
		return counter.Count(p.ID) < minGames
	})
	if len(needy) == 0 {
		return nil
	}
	doubles.Shuffle(rng, needy)
	if len(needy) >= 4 {
		return needy
	}

	rest := lo.Filter(free, func(p doubles.Player, _ int) bool {
		return counter.Count(p.ID) >= minGames
	})
	doubles.Shuffle(rng, rest)
	sort.SliceStable(rest, func(i, j int) bool {
		return counter.Count(rest[i].ID) < counter.Count(rest[j].ID)
	})
	need := 4 - len(needy)
	if need > len(rest) {
		need = len(rest)
	}
	return append(needy, rest[:need]...)
}
