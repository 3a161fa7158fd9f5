package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/doubles"
	"github.com/derekprior/doubles/internal/excel"
)

// Violation represents a problem found in a schedule workbook.
type Violation struct {
	Row      int
	Type     string // "error" or "warning"
	Message  string
	Severity int // for balance warnings: the team-score difference (0 = not applicable)
}

// Validate reads a schedule workbook and checks it against the config.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := excel.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading matches: %w", err)
	}

	return Check(cfg, rows), nil
}

// Check runs every rule over parsed rows. Rows with unknown players or
// malformed teams are reported and left out of the remaining checks.
func Check(cfg *config.Config, rows []excel.MatchRow) []Violation {
	players := cfg.Roster()
	matches, violations := resolve(rows, players)

	// Hard constraints
	violations = append(violations, checkDistinctPlayers(matches)...)
	violations = append(violations, checkCourts(cfg, matches)...)
	violations = append(violations, checkRoundBooking(matches)...)
	violations = append(violations, checkZeroGames(players, matches)...)

	// Soft constraints
	violations = append(violations, checkBalance(cfg, matches)...)
	violations = append(violations, checkMinimumGames(cfg, players, matches)...)
	violations = append(violations, checkBackToBack(matches)...)
	violations = append(violations, checkMatchCap(cfg, matches)...)

	return violations
}

type parsedMatch struct {
	Row int
	doubles.Match
}

func resolve(rows []excel.MatchRow, players []doubles.Player) ([]parsedMatch, []Violation) {
	byName := make(map[string]doubles.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}

	var matches []parsedMatch
	var violations []Violation
	for _, r := range rows {
		if len(r.Team1) != 2 || len(r.Team2) != 2 {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("teams need 2 players each, got %d and %d", len(r.Team1), len(r.Team2)),
			})
			continue
		}
		var four [4]doubles.Player
		known := true
		for i, name := range r.Names() {
			p, ok := byName[name]
			if !ok {
				violations = append(violations, Violation{
					Row:     r.Row,
					Type:    "error",
					Message: fmt.Sprintf("unknown player %q", name),
				})
				known = false
				continue
			}
			four[i] = p
		}
		if !known {
			continue
		}
		m := doubles.Match{
			ID:    r.ID,
			Team1: doubles.NewTeam(four[0], four[1]),
			Team2: doubles.NewTeam(four[2], four[3]),
			Court: r.Court,
			Round: r.Round,
		}
		matches = append(matches, parsedMatch{Row: r.Row, Match: m})
	}
	return matches, violations
}

func checkDistinctPlayers(matches []parsedMatch) []Violation {
	var violations []Violation
	for _, m := range matches {
		if !m.Valid() {
			violations = append(violations, Violation{
				Row:     m.Row,
				Type:    "error",
				Message: fmt.Sprintf("a player appears twice in %s", m.Match),
			})
		}
	}
	return violations
}

func checkCourts(cfg *config.Config, matches []parsedMatch) []Violation {
	var violations []Violation
	for _, m := range matches {
		if m.Court < 1 || m.Court > cfg.Courts {
			violations = append(violations, Violation{
				Row:     m.Row,
				Type:    "error",
				Message: fmt.Sprintf("court %d is out of range (1-%d)", m.Court, cfg.Courts),
			})
		}
	}
	return violations
}

// checkRoundBooking finds two matches sharing a court in the same round, and
// warns about players booked into two matches of one round. Courts are handed
// out cyclically, so the second can happen when sequencing leaves a conflict.
func checkRoundBooking(matches []parsedMatch) []Violation {
	type playerRound struct {
		id    string
		round int
	}
	type courtRound struct {
		court int
		round int
	}
	seen := make(map[playerRound]bool)
	courts := make(map[courtRound]bool)

	var violations []Violation
	for _, m := range matches {
		if m.Round < 1 {
			continue
		}
		cr := courtRound{m.Court, m.Round}
		if courts[cr] {
			violations = append(violations, Violation{
				Row:     m.Row,
				Type:    "error",
				Message: fmt.Sprintf("court %d is used twice in round %d", m.Court, m.Round),
			})
		}
		courts[cr] = true

		for _, p := range m.Players() {
			pr := playerRound{p.ID, m.Round}
			if seen[pr] {
				violations = append(violations, Violation{
					Row:     m.Row,
					Type:    "warning",
					Message: fmt.Sprintf("%s plays twice in round %d", p, m.Round),
				})
			}
			seen[pr] = true
		}
	}
	return violations
}

func checkZeroGames(players []doubles.Player, matches []parsedMatch) []Violation {
	counter := doubles.CountMatches(players, plain(matches))
	var violations []Violation
	for _, p := range players {
		if counter.Count(p.ID) == 0 {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s has no matches scheduled", p),
			})
		}
	}
	return violations
}

func checkBalance(cfg *config.Config, matches []parsedMatch) []Violation {
	sc := cfg.Scorer()
	var violations []Violation
	for _, m := range matches {
		d := sc.Diff(m.Match)
		if d > sc.MaxDiff {
			violations = append(violations, Violation{
				Row:      m.Row,
				Type:     "warning",
				Severity: d,
				Message: fmt.Sprintf("%s team scores %d vs %d (diff %d, max %d)",
					m.Match, sc.TeamScore(m.Team1), sc.TeamScore(m.Team2), d, sc.MaxDiff),
			})
		}
	}
	// Worst imbalance first
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Severity > violations[j].Severity
	})
	return violations
}

func checkMinimumGames(cfg *config.Config, players []doubles.Player, matches []parsedMatch) []Violation {
	counter := doubles.CountMatches(players, plain(matches))
	var violations []Violation
	for _, p := range players {
		n := counter.Count(p.ID)
		if n > 0 && n < cfg.MinGamesPerPlayer {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s has %d of %d matches", p, n, cfg.MinGamesPerPlayer),
			})
		}
	}
	return violations
}

func checkBackToBack(matches []parsedMatch) []Violation {
	var violations []Violation
	for i := 1; i < len(matches); i++ {
		prev, cur := matches[i-1], matches[i]
		var shared []string
		for _, p := range prev.Players() {
			if cur.Has(p.ID) {
				shared = append(shared, p.String())
			}
		}
		if len(shared) > 0 {
			violations = append(violations, Violation{
				Row:     cur.Row,
				Type:    "warning",
				Message: fmt.Sprintf("%s play back-to-back with the previous match", strings.Join(shared, ", ")),
			})
		}
	}
	return violations
}

func checkMatchCap(cfg *config.Config, matches []parsedMatch) []Violation {
	if cfg.MaxMatches <= 0 || len(matches) <= cfg.MaxMatches {
		return nil
	}
	return []Violation{{
		Type:    "warning",
		Message: fmt.Sprintf("%d matches scheduled (max %d)", len(matches), cfg.MaxMatches),
	}}
}

func plain(matches []parsedMatch) []doubles.Match {
	return lo.Map(matches, func(m parsedMatch, _ int) doubles.Match { return m.Match })
}
