package schedule

import (
	"sort"

	"github.com/derekprior/doubles/internal/doubles"
)

// AssignCourts numbers courts round-robin in schedule order: match i plays on
// court i%courts+1 in round i/courts+1. Rounds are cut from the sequenced
// order, so a player can land in two matches of one round.
func AssignCourts(matches []doubles.Match, courts int) {
	if courts < 1 {
		courts = 1
	}
	for i := range matches {
		matches[i].Court = i%courts + 1
		matches[i].Round = i/courts + 1
	}
}

// Round is a wave of matches, one per court. The matches are not guaranteed
// to be playable at the same time: a player may appear in more than one of
// them, which the validator reports as a warning.
type Round struct {
	Number  int
	Matches []doubles.Match
}

// Rounds groups matches by their round number, in order.
func Rounds(matches []doubles.Match) []Round {
	byNumber := make(map[int][]doubles.Match)
	for _, m := range matches {
		byNumber[m.Round] = append(byNumber[m.Round], m)
	}
	rounds := make([]Round, 0, len(byNumber))
	for n, ms := range byNumber {
		sort.Slice(ms, func(i, j int) bool { return ms[i].Court < ms[j].Court })
		rounds = append(rounds, Round{Number: n, Matches: ms})
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })
	return rounds
}

// Resting returns the players who sit out the round, in roster order.
func (r Round) Resting(players []doubles.Player) []doubles.Player {
	var out []doubles.Player
	for _, p := range players {
		playing := false
		for _, m := range r.Matches {
			if m.Has(p.ID) {
				playing = true
				break
			}
		}
		if !playing {
			out = append(out, p)
		}
	}
	return out
}
