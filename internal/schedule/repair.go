package schedule

import (
	"github.com/samber/lo"

	"github.com/derekprior/doubles/internal/doubles"
	"github.com/derekprior/doubles/internal/strategy"
)

// Repair makes sure nobody is left without a match, and tries to bring everyone
// up to MinGamesPerPlayer. While the schedule is under its match cap it appends
// new matches; once the cap is reached it substitutes under-served players into
// existing matches instead, but only where the match stays within the gate.
// Players it cannot serve stay under-served and show up on the Result.
//
// With MaxMatches left at 0 the cap is TargetMatches for the roster. That cap
// gives way only for players still at zero after every swap has been tried.
func Repair(matches []doubles.Match, players []doubles.Player, counter *doubles.Counter, opts Options) []doubles.Match {
	opts = opts.withDefaults()
	r := &repairer{
		matches: matches,
		players: players,
		roster:  doubles.NewRoster(players),
		counter: counter,
		opts:    opts,
		limit:   opts.MaxMatches,
	}
	if r.limit == 0 {
		r.limit = strategy.TargetMatches(len(players), opts.MinGamesPerPlayer)
	}
	budget := opts.Budgets.Rescue.Or(50)
	log := opts.Logger.With().Str("phase", "repair").Logger()

	// Zero-game rescue.
	rescued := 0
	for i := 0; i < budget && r.underCap(); i++ {
		zero := counter.Zero()
		if len(zero) == 0 {
			break
		}
		if !r.appendFor(zero) {
			break
		}
		rescued++
	}

	// Cap reached: swap the remaining zero-game players in, first from donors
	// above the target, then from anyone who would still keep a match.
	swapped := 0
	for _, id := range counter.Zero() {
		if r.swapIn(r.roster[id], opts.MinGamesPerPlayer) || r.swapIn(r.roster[id], 1) {
			swapped++
		}
	}

	// Nobody is left at zero under the default cap.
	if opts.MaxMatches == 0 {
		for i := 0; i < budget; i++ {
			zero := counter.Zero()
			if len(zero) == 0 || !r.appendFor(zero) {
				break
			}
			rescued++
		}
	}

	// Bring players below the target up, the same way.
	toppedUp := 0
	for i := 0; i < budget; i++ {
		short := counter.Below(opts.MinGamesPerPlayer)
		if len(short) == 0 {
			break
		}
		if r.underCap() {
			if !r.appendFor(short) {
				break
			}
			toppedUp++
			continue
		}
		progress := false
		for _, id := range short {
			if r.swapIn(r.roster[id], opts.MinGamesPerPlayer) {
				progress = true
				swapped++
			}
		}
		if !progress {
			break
		}
	}

	log.Debug().
		Int("rescued", rescued).
		Int("topped_up", toppedUp).
		Int("swapped", swapped).
		Int("zero", len(counter.Zero())).
		Int("underserved", len(counter.Below(opts.MinGamesPerPlayer))).
		Msg("repair finished")
	return r.matches
}

type repairer struct {
	matches []doubles.Match
	players []doubles.Player
	roster  doubles.Roster
	counter *doubles.Counter
	opts    Options
	limit   int // NoMatchCap for none
}

func (r *repairer) underCap() bool {
	return r.limit == NoMatchCap || len(r.matches) < r.limit
}

// appendFor adds a match built around up to two of the needy players, filled
// with the lowest-count other players and split as evenly as possible.
func (r *repairer) appendFor(needy []string) bool {
	if len(r.players) < 4 || len(needy) == 0 {
		return false
	}
	chosen := append([]string(nil), needy[:min(2, len(needy))]...)
	for _, id := range r.counter.Ascending() {
		if len(chosen) == 4 {
			break
		}
		if !lo.Contains(chosen, id) {
			chosen = append(chosen, id)
		}
	}
	if len(chosen) < 4 {
		return false
	}

	var four [4]doubles.Player
	for i, id := range chosen {
		four[i] = r.roster[id]
	}
	t1, t2, _ := r.opts.Scorer.BestSplit(four)
	m := doubles.NewMatch(t1, t2)
	r.matches = append(r.matches, m)
	r.counter.Add(m)
	return true
}

// swapIn replaces a donor whose count is above floor with p, in whichever match
// and slot keeps the match within the gate, preferring the busiest donor and
// then the smallest resulting diff.
func (r *repairer) swapIn(p doubles.Player, floor int) bool {
	sc := r.opts.Scorer
	bestMatch, bestSlot := -1, -1
	bestCount, bestDiff := 0, 0
	for mi, m := range r.matches {
		if m.Has(p.ID) {
			continue
		}
		for slot := 0; slot < 4; slot++ {
			donor := *m.Slot(slot)
			count := r.counter.Count(donor.ID)
			if count <= floor {
				continue
			}
			trial := m
			*trial.Slot(slot) = p
			d := sc.Diff(trial)
			if d > sc.MaxDiff {
				continue
			}
			if bestMatch < 0 || count > bestCount || (count == bestCount && d < bestDiff) {
				bestMatch, bestSlot, bestCount, bestDiff = mi, slot, count, d
			}
		}
	}
	if bestMatch < 0 {
		return false
	}

	m := &r.matches[bestMatch]
	donor := *m.Slot(bestSlot)
	*m.Slot(bestSlot) = p
	r.counter.Dec(donor.ID)
	r.counter.Inc(p.ID)
	return true
}
