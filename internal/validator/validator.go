package validator

import (
	"fmt"
	"sort"

	"flms/internal/league"
)

// Violation kinds.
const (
	KindDuplicateFixture = "duplicate_fixture"
	KindSelfMatch        = "self_match"
	KindInvalidTeamRef   = "invalid_team_reference"
	KindDoubleBooking    = "week_double_booking"
	KindIncompleteRound  = "incomplete_round"
)

// Violation is one integrity finding. Findings are collected into a
// report rather than returned as errors: an invalid calendar is a
// legitimate value to hold mid-edit, and callers usually want every
// problem in one pass.
type Violation struct {
	Kind      string
	Severity  string // "error" or "warning"
	FixtureID string
	Week      int
	Message   string
}

// Validate scans the calendar against the roster and returns all
// violations found, empty when the calendar is fully valid. The scan is
// read-only.
func Validate(cal *league.Calendar, teams []league.Team) []Violation {
	var violations []Violation

	violations = append(violations, checkDuplicates(cal)...)
	violations = append(violations, checkSelfMatches(cal)...)
	violations = append(violations, checkTeamRefs(cal, teams)...)
	violations = append(violations, checkDoubleBookings(cal)...)
	violations = append(violations, checkRoundCompleteness(cal, teams)...)

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Week != violations[j].Week {
			return violations[i].Week < violations[j].Week
		}
		if violations[i].FixtureID != violations[j].FixtureID {
			return violations[i].FixtureID < violations[j].FixtureID
		}
		return violations[i].Kind < violations[j].Kind
	})
	return violations
}

// checkDuplicates flags ordered (home, away) pairs that appear more
// than once. A double round-robin holds each unordered pair exactly
// twice, once per orientation, so any repeat of the same orientation is
// a duplicate.
func checkDuplicates(cal *league.Calendar) []Violation {
	type matchup struct{ home, away string }
	seen := make(map[matchup][]league.Fixture)
	for _, f := range cal.Fixtures {
		mk := matchup{f.HomeID, f.AwayID}
		seen[mk] = append(seen[mk], f)
	}

	var violations []Violation
	for mk, fixtures := range seen {
		if len(fixtures) <= 1 {
			continue
		}
		for _, f := range fixtures[1:] {
			violations = append(violations, Violation{
				Kind:      KindDuplicateFixture,
				Severity:  "error",
				FixtureID: f.ID,
				Week:      f.Week,
				Message:   fmt.Sprintf("%s vs %s scheduled %d times with the same orientation", mk.home, mk.away, len(fixtures)),
			})
		}
	}
	return violations
}

func checkSelfMatches(cal *league.Calendar) []Violation {
	var violations []Violation
	for _, f := range cal.Fixtures {
		if f.HomeID == f.AwayID {
			violations = append(violations, Violation{
				Kind:      KindSelfMatch,
				Severity:  "error",
				FixtureID: f.ID,
				Week:      f.Week,
				Message:   fmt.Sprintf("team %s is scheduled against itself", f.HomeID),
			})
		}
	}
	return violations
}

func checkTeamRefs(cal *league.Calendar, teams []league.Team) []Violation {
	valid := make(map[string]bool, len(teams))
	for _, t := range teams {
		valid[t.ID] = true
	}

	var violations []Violation
	for _, f := range cal.Fixtures {
		for _, id := range []string{f.HomeID, f.AwayID} {
			if !valid[id] {
				violations = append(violations, Violation{
					Kind:      KindInvalidTeamRef,
					Severity:  "error",
					FixtureID: f.ID,
					Week:      f.Week,
					Message:   fmt.Sprintf("team %s is not in the roster", id),
				})
			}
		}
	}
	return violations
}

// checkDoubleBookings flags any team that appears in two fixtures of
// the same week.
func checkDoubleBookings(cal *league.Calendar) []Violation {
	type weekTeam struct {
		week int
		team string
	}
	first := make(map[weekTeam]string) // -> fixture ID of first appearance

	var violations []Violation
	for _, f := range cal.Sorted() {
		for _, id := range []string{f.HomeID, f.AwayID} {
			wt := weekTeam{f.Week, id}
			if prev, ok := first[wt]; ok {
				violations = append(violations, Violation{
					Kind:      KindDoubleBooking,
					Severity:  "error",
					FixtureID: f.ID,
					Week:      f.Week,
					Message:   fmt.Sprintf("team %s plays twice in week %d (also fixture %s)", id, f.Week, prev),
				})
				continue
			}
			first[wt] = f.ID
		}
	}
	return violations
}

// checkRoundCompleteness warns when a week in the generated span holds
// fewer fixtures than a full round. Only a freshly generated calendar
// is held to this: once anything has been rescheduled, sparse weeks are
// legitimate and the check is skipped entirely.
func checkRoundCompleteness(cal *league.Calendar, teams []league.Team) []Violation {
	if cal.Len() == 0 || cal.Rescheduled() {
		return nil
	}

	n := len(teams)
	perWeek := n / 2
	padded := n
	if padded%2 != 0 {
		padded++
	}
	totalWeeks := 2 * (padded - 1)
	if perWeek == 0 {
		return nil
	}

	counts := make(map[int]int)
	for _, f := range cal.Fixtures {
		counts[f.Week]++
	}

	var violations []Violation
	for week := 1; week <= totalWeeks; week++ {
		if counts[week] < perWeek {
			violations = append(violations, Violation{
				Kind:     KindIncompleteRound,
				Severity: "warning",
				Week:     week,
				Message:  fmt.Sprintf("week %d has %d fixtures, a full round has %d", week, counts[week], perWeek),
			})
		}
	}
	return violations
}
