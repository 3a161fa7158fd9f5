package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/schedule"
)

const (
	RoundsSheet  = "Rounds"
	MatchesSheet = "Matches"
	PlayersSheet = "Players"
)

var matchHeaders = []string{"Match", "Round", "Court", "Team 1", "Team 2", "T1 Score", "T2 Score", "Diff", "Draw %", "ID"}

// Generate creates a workbook with a round-by-court grid, the match list and
// per-player totals.
func Generate(cfg *config.Config, result *schedule.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetDefaultFont("Arial")

	if err := writeRoundsSheet(f, cfg, result); err != nil {
		return nil, fmt.Errorf("writing rounds sheet: %w", err)
	}

	if err := writeMatchesSheet(f, cfg, result); err != nil {
		return nil, fmt.Errorf("writing matches sheet: %w", err)
	}

	if err := writePlayersSheet(f, cfg, result); err != nil {
		return nil, fmt.Errorf("writing players sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

type styles struct {
	header int
	cell   int
	center int
	alert  int
}

func newStyles(f *excelize.File) styles {
	var s styles
	s.header, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	s.cell, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	s.center, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	// Conditional formats take a differential style, not a cell style.
	s.alert, _ = f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	return s
}

func writeHeaders(f *excelize.File, sheet string, headers []string, st styles) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
		if st.header != 0 {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), st.header)
		}
	}
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) {
	if style == 0 {
		return
	}
	f.SetCellStyle(sheet, cellRef(1, row), cellRef(cols, row), style)
}

// writeRoundsSheet lays the schedule out as one row per round and one column
// per court, with the players sitting out in the last column.
func writeRoundsSheet(f *excelize.File, cfg *config.Config, result *schedule.Result) error {
	sheet := RoundsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)

	headers := []string{"Round"}
	for c := 1; c <= cfg.Courts; c++ {
		headers = append(headers, fmt.Sprintf("Court %d", c))
	}
	headers = append(headers, "Resting")
	writeHeaders(f, sheet, headers, st)

	players := cfg.Roster()
	rounds := schedule.Rounds(result.Matches)
	for i, r := range rounds {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), r.Number)
		for _, m := range r.Matches {
			if m.Court >= 1 && m.Court <= cfg.Courts {
				f.SetCellValue(sheet, cellRef(m.Court+1, row), m.String())
			}
		}
		var resting []string
		for _, p := range r.Resting(players) {
			resting = append(resting, p.String())
		}
		f.SetCellValue(sheet, cellRef(len(headers), row), strings.Join(resting, ", "))
		styleRow(f, sheet, row, len(headers), st.center)
	}

	f.SetColWidth(sheet, "A", "A", 10)
	for c := 2; c <= cfg.Courts+1; c++ {
		col := colLetter(c)
		f.SetColWidth(sheet, col, col, 40)
	}
	last := colLetter(len(headers))
	f.SetColWidth(sheet, last, last, 40)
	return nil
}

func writeMatchesSheet(f *excelize.File, cfg *config.Config, result *schedule.Result) error {
	sheet := MatchesSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)
	writeHeaders(f, sheet, matchHeaders, st)

	sc := cfg.Scorer()
	for i, m := range result.Matches {
		row := i + 2
		values := []interface{}{
			i + 1,
			m.Round,
			m.Court,
			m.Team1.String(),
			m.Team2.String(),
			sc.TeamScore(m.Team1),
			sc.TeamScore(m.Team2),
			sc.Diff(m),
			fmt.Sprintf("%.0f%%", sc.PredictDraw(m)*100),
			m.ID,
		}
		for col, v := range values {
			f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		styleRow(f, sheet, row, len(matchHeaders), st.cell)
	}

	widths := map[string]float64{"A": 10, "B": 10, "C": 10, "D": 30, "E": 30, "F": 12, "G": 12, "H": 8, "I": 10, "J": 40}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	// Diff cells above the gate get light red.
	if len(result.Matches) > 0 {
		lastRow := len(result.Matches) + 1
		f.SetConditionalFormat(sheet, fmt.Sprintf("H2:H%d", lastRow), []excelize.ConditionalFormatOptions{
			{
				Type:     "formula",
				Criteria: fmt.Sprintf("H2>%d", sc.MaxDiff),
				Format:   &st.alert,
			},
		})
	}
	return nil
}

func writePlayersSheet(f *excelize.File, cfg *config.Config, result *schedule.Result) error {
	sheet := PlayersSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)

	headers := []string{"Player", "ID", "Skill", "Gender", "Matches", "Shortfall", "Back-to-back"}
	writeHeaders(f, sheet, headers, st)

	players := cfg.Roster()
	for i, p := range players {
		row := i + 2
		metrics := result.Players[p.ID]
		if metrics == nil {
			metrics = &schedule.PlayerMetrics{}
		}
		values := []interface{}{p.Name, p.ID, p.SkillLevel, p.Gender.String(), metrics.Matches, metrics.Shortfall, metrics.BackToBack}
		for col, v := range values {
			f.SetCellValue(sheet, cellRef(col+1, row), v)
		}
		styleRow(f, sheet, row, len(headers), st.cell)
	}

	widths := map[string]float64{"A": 24, "B": 14, "C": 8, "D": 14, "E": 10, "F": 12, "G": 14}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	// Players short of their minimum get light red.
	if len(players) > 0 {
		lastRow := len(players) + 1
		f.SetConditionalFormat(sheet, fmt.Sprintf("A2:G%d", lastRow), []excelize.ConditionalFormatOptions{
			{
				Type:     "formula",
				Criteria: "$F2>0",
				Format:   &st.alert,
			},
		})
	}
	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
