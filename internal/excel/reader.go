package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/doubles"
	"github.com/derekprior/doubles/internal/schedule"
)

// MatchRow is one line of the Matches sheet with player names unresolved.
type MatchRow struct {
	Row   int
	Round int
	Court int
	Team1 []string
	Team2 []string
	ID    string
}

// Names returns all player names in the row, team 1 first.
func (r MatchRow) Names() []string {
	return append(append([]string(nil), r.Team1...), r.Team2...)
}

// ReadRows parses the Matches sheet. Rows without a team column are skipped.
func ReadRows(f *excelize.File) ([]MatchRow, error) {
	rows, err := f.GetRows(MatchesSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", MatchesSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", MatchesSheet)
	}

	col := make(map[string]int)
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range []string{"Team 1", "Team 2"} {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("%s has no %q column", MatchesSheet, h)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []MatchRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		t1, t2 := cell(row, "Team 1"), cell(row, "Team 2")
		if t1 == "" && t2 == "" {
			continue
		}
		round, _ := strconv.Atoi(cell(row, "Round"))
		court, _ := strconv.Atoi(cell(row, "Court"))
		out = append(out, MatchRow{
			Row:   i + 1,
			Round: round,
			Court: court,
			Team1: parseTeamCell(t1),
			Team2: parseTeamCell(t2),
			ID:    cell(row, "ID"),
		})
	}
	return out, nil
}

// parseTeamCell splits "Alice & Bob" into its names.
func parseTeamCell(cell string) []string {
	var names []string
	for _, part := range strings.Split(cell, "&") {
		if n := strings.TrimSpace(part); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Resolve turns rows into matches, looking players up by name.
func Resolve(rows []MatchRow, players []doubles.Player) ([]doubles.Match, error) {
	byName := make(map[string]doubles.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}
	lookup := func(r MatchRow, names []string) (doubles.Team, error) {
		if len(names) != 2 {
			return doubles.Team{}, fmt.Errorf("row %d: team needs 2 players, got %d", r.Row, len(names))
		}
		a, ok := byName[names[0]]
		if !ok {
			return doubles.Team{}, fmt.Errorf("row %d: unknown player %q", r.Row, names[0])
		}
		b, ok := byName[names[1]]
		if !ok {
			return doubles.Team{}, fmt.Errorf("row %d: unknown player %q", r.Row, names[1])
		}
		return doubles.NewTeam(a, b), nil
	}

	matches := make([]doubles.Match, 0, len(rows))
	for _, r := range rows {
		t1, err := lookup(r, r.Team1)
		if err != nil {
			return nil, err
		}
		t2, err := lookup(r, r.Team2)
		if err != nil {
			return nil, err
		}
		m := doubles.NewMatch(t1, t2)
		if r.ID != "" {
			m.ID = r.ID
		}
		m.Round, m.Court = r.Round, r.Court
		if !m.Valid() {
			return nil, fmt.Errorf("row %d: a player appears twice in %s", r.Row, m)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// ReadMatches opens a generated workbook and returns its matches.
func ReadMatches(path string, players []doubles.Player) ([]doubles.Match, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, err
	}
	return Resolve(rows, players)
}

// UpdateSheets rebuilds the Rounds and Players sheets from the Matches sheet,
// so hand edits to the match list show up in the derived views.
func UpdateSheets(path string, cfg *config.Config) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return err
	}
	players := cfg.Roster()
	matches, err := Resolve(rows, players)
	if err != nil {
		return err
	}
	result := schedule.Summarize(players, matches, cfg.Options(zerolog.Nop()))

	for _, sheet := range []string{RoundsSheet, PlayersSheet} {
		if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
			if err := f.DeleteSheet(sheet); err != nil {
				return fmt.Errorf("removing %s: %w", sheet, err)
			}
		}
	}
	if err := writeRoundsSheet(f, cfg, result); err != nil {
		return fmt.Errorf("writing rounds sheet: %w", err)
	}
	if err := writePlayersSheet(f, cfg, result); err != nil {
		return fmt.Errorf("writing players sheet: %w", err)
	}
	return f.Save()
}
