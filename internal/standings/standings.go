package standings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"flms/internal/league"
)

var (
	ErrFixtureNotFound = errors.New("fixture not found")
	ErrAlreadyPlayed   = errors.New("result already recorded")
	ErrNegativeScore   = errors.New("scores cannot be negative")
)

// RecordResult attaches a final score to a fixture. Only the score
// fields change: week, leg, and status are scheduling state and stay
// untouched. A fixture takes one result; recording twice fails.
func RecordResult(cal *league.Calendar, fixtureID string, homeScore, awayScore int) error {
	f := cal.Find(fixtureID)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrFixtureNotFound, fixtureID)
	}
	if f.Played {
		return fmt.Errorf("%w: %s finished %d-%d", ErrAlreadyPlayed, fixtureID, f.HomeScore, f.AwayScore)
	}
	if homeScore < 0 || awayScore < 0 {
		return ErrNegativeScore
	}

	f.HomeScore = homeScore
	f.AwayScore = awayScore
	f.Played = true
	return nil
}

// Row is one team's line in the league table.
type Row struct {
	Pos          int
	TeamID       string
	Name         string
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
	Points       int
}

// Table computes the standings from played fixtures: three points for a
// win, one for a draw. Ties break on goal difference, then goals
// scored, then name. The table is recomputed from scratch on every
// call; nothing is accumulated anywhere else.
func Table(cal *league.Calendar, teams []league.Team) []Row {
	byID := make(map[string]*Row, len(teams))
	rows := make([]Row, len(teams))
	for i, t := range teams {
		rows[i] = Row{TeamID: t.ID, Name: t.Name}
		byID[t.ID] = &rows[i]
	}

	for _, f := range cal.Fixtures {
		if !f.Played {
			continue
		}
		home, away := byID[f.HomeID], byID[f.AwayID]
		if home == nil || away == nil {
			// Stale fixture from before a roster change; the
			// validator reports it, the table just skips it.
			continue
		}

		home.Played++
		away.Played++
		home.GoalsFor += f.HomeScore
		home.GoalsAgainst += f.AwayScore
		away.GoalsFor += f.AwayScore
		away.GoalsAgainst += f.HomeScore

		switch {
		case f.HomeScore > f.AwayScore:
			home.Won++
			home.Points += 3
			away.Lost++
		case f.HomeScore < f.AwayScore:
			away.Won++
			away.Points += 3
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
		}
	}

	for i := range rows {
		rows[i].GoalDiff = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	for i := range rows {
		rows[i].Pos = i + 1
	}
	return rows
}
