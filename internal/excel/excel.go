package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"flms/internal/league"
)

// Generate creates an Excel workbook with the master fixture list and
// one sheet per team.
func Generate(leagueName, season string, teams []league.Team, cal *league.Calendar) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	byID := make(map[string]league.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	if err := writeMasterSheet(f, leagueName, season, byID, cal); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}

	if err := writeTeamSheets(f, teams, byID, cal); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func teamName(byID map[string]league.Team, id string) string {
	if t, ok := byID[id]; ok {
		return t.Name
	}
	return id
}

func scoreLabel(fx league.Fixture) string {
	if !fx.Played {
		return ""
	}
	return fmt.Sprintf("%d-%d", fx.HomeScore, fx.AwayScore)
}

func writeMasterSheet(f *excelize.File, leagueName, season string, byID map[string]league.Team, cal *league.Calendar) error {
	sheet := "Master Schedule"
	f.NewSheet(sheet)

	f.SetCellValue(sheet, cellRef(1, 1), fmt.Sprintf("%s %s", leagueName, season))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 18, Family: "Arial"},
	})
	if titleStyle != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(1, 1), titleStyle)
	}

	headers := []string{"Week", "Home", "Away", "Venue", "Status", "Score"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 2), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 2), cellRef(i+1, 2), headerStyle)
		}
	}

	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	weekCellStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	fixtures := cal.Sorted()
	for i, fx := range fixtures {
		row := i + 3
		venue := ""
		if home, ok := byID[fx.HomeID]; ok {
			venue = home.Venue
		}
		f.SetCellValue(sheet, cellRef(1, row), fx.Week)
		f.SetCellValue(sheet, cellRef(2, row), teamName(byID, fx.HomeID))
		f.SetCellValue(sheet, cellRef(3, row), teamName(byID, fx.AwayID))
		f.SetCellValue(sheet, cellRef(4, row), venue)
		f.SetCellValue(sheet, cellRef(5, row), string(fx.Status))
		f.SetCellValue(sheet, cellRef(6, row), scoreLabel(fx))

		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), weekCellStyle)
			for col := 2; col <= len(headers); col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
			}
		}
	}

	// Set column widths (sized for Arial 16)
	widths := map[string]float64{"A": 10, "B": 24, "C": 24, "D": 28, "E": 16, "F": 12}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	// Conditional formatting: rescheduled fixtures get a light red status cell
	lastRow := len(fixtures) + 2
	redFill, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	cellRange := fmt.Sprintf("E3:E%d", lastRow)
	formula := fmt.Sprintf(`E3="%s"`, league.StatusRescheduled)
	f.SetConditionalFormat(sheet, cellRange, []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: formula,
			Format:   &redFill,
		},
	})

	return nil
}

func writeTeamSheets(f *excelize.File, teams []league.Team, byID map[string]league.Team, cal *league.Calendar) error {
	for _, team := range teams {
		sheet := team.Name
		f.NewSheet(sheet)

		headers := []string{"Week", "Opponent", "Home/Away", "Venue", "Status", "Result"}
		for i, h := range headers {
			f.SetCellValue(sheet, cellRef(i+1, 1), h)
		}

		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if headerStyle != 0 {
			for i := range headers {
				f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
			}
		}

		cellStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Size: 16, Family: "Arial"},
		})

		for i, fx := range cal.ByTeam(team.ID) {
			row := i + 2
			opponentID := fx.AwayID
			homeAway := "Home"
			if fx.AwayID == team.ID {
				opponentID = fx.HomeID
				homeAway = "Away"
			}
			venue := ""
			if home, ok := byID[fx.HomeID]; ok {
				venue = home.Venue
			}

			f.SetCellValue(sheet, cellRef(1, row), fx.Week)
			f.SetCellValue(sheet, cellRef(2, row), teamName(byID, opponentID))
			f.SetCellValue(sheet, cellRef(3, row), homeAway)
			f.SetCellValue(sheet, cellRef(4, row), venue)
			f.SetCellValue(sheet, cellRef(5, row), string(fx.Status))
			f.SetCellValue(sheet, cellRef(6, row), resultLabel(fx, team.ID))

			if cellStyle != 0 {
				for col := 1; col <= len(headers); col++ {
					f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
				}
			}
		}

		// Set column widths (sized for Arial 16)
		widths := map[string]float64{"A": 10, "B": 24, "C": 14, "D": 28, "E": 16, "F": 12}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}

	return nil
}

// resultLabel renders a played fixture from one team's perspective,
// e.g. "W 2-1" for a home win.
func resultLabel(fx league.Fixture, teamID string) string {
	if !fx.Played {
		return ""
	}
	us, them := fx.HomeScore, fx.AwayScore
	if fx.AwayID == teamID {
		us, them = them, us
	}
	switch {
	case us > them:
		return fmt.Sprintf("W %d-%d", us, them)
	case us < them:
		return fmt.Sprintf("L %d-%d", us, them)
	default:
		return fmt.Sprintf("D %d-%d", us, them)
	}
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
