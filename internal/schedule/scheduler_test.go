package schedule

import (
	"errors"
	"reflect"
	"testing"

	"flms/internal/league"
	"flms/internal/validator"
)

func testRoster(n int) []league.Team {
	names := []string{"Rovers", "United", "Athletic", "Wanderers", "Rangers", "County", "Albion", "Town"}
	teams := make([]league.Team, 0, n)
	for _, name := range names[:n] {
		teams = append(teams, league.Team{
			ID:    league.Slug(name),
			Name:  name,
			Venue: name + " Park",
		})
	}
	return teams
}

func TestGenerate(t *testing.T) {
	cal, err := Generate(testRoster(4))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("fixture count", func(t *testing.T) {
		if cal.Len() != 12 {
			t.Errorf("fixtures = %d, want 12", cal.Len())
		}
	})

	t.Run("weeks run 1 through 6 with no gaps", func(t *testing.T) {
		weeks := cal.Weeks()
		if len(weeks) != 6 {
			t.Fatalf("weeks = %d, want 6", len(weeks))
		}
		for i, w := range weeks {
			if w != i+1 {
				t.Errorf("week[%d] = %d, want %d", i, w, i+1)
			}
		}
	})

	t.Run("two fixtures per week", func(t *testing.T) {
		for _, w := range cal.Weeks() {
			if got := len(cal.ByWeek(w)); got != 2 {
				t.Errorf("week %d has %d fixtures, want 2", w, got)
			}
		}
	})

	t.Run("every pairing plays home and away", func(t *testing.T) {
		type matchup struct{ home, away string }
		seen := make(map[matchup]int)
		for _, f := range cal.Fixtures {
			seen[matchup{f.HomeID, f.AwayID}]++
		}
		if len(seen) != 12 {
			t.Errorf("distinct oriented matchups = %d, want 12", len(seen))
		}
		for m, count := range seen {
			if count != 1 {
				t.Errorf("matchup %s vs %s appears %d times, want 1", m.home, m.away, count)
			}
			if seen[matchup{m.away, m.home}] != 1 {
				t.Errorf("matchup %s vs %s has no reverse fixture", m.home, m.away)
			}
		}
	})

	t.Run("home and away balance", func(t *testing.T) {
		homes := make(map[string]int)
		aways := make(map[string]int)
		for _, f := range cal.Fixtures {
			homes[f.HomeID]++
			aways[f.AwayID]++
		}
		for _, team := range testRoster(4) {
			if homes[team.ID] != 3 || aways[team.ID] != 3 {
				t.Errorf("%s has %d home and %d away fixtures, want 3 and 3", team.ID, homes[team.ID], aways[team.ID])
			}
		}
	})

	t.Run("no team plays twice in one week", func(t *testing.T) {
		type weekTeam struct {
			week int
			team string
		}
		seen := make(map[weekTeam]int)
		for _, f := range cal.Fixtures {
			seen[weekTeam{f.Week, f.HomeID}]++
			seen[weekTeam{f.Week, f.AwayID}]++
		}
		for wt, count := range seen {
			if count > 1 {
				t.Errorf("%s plays %d fixtures in week %d", wt.team, count, wt.week)
			}
		}
	})

	t.Run("ids are unique and derived from the generated week", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, f := range cal.Fixtures {
			want := league.FixtureID(f.Week, f.HomeID, f.AwayID)
			if f.ID != want {
				t.Errorf("fixture id = %q, want %q", f.ID, want)
			}
			if seen[f.ID] {
				t.Errorf("duplicate fixture id %q", f.ID)
			}
			seen[f.ID] = true
		}
	})

	t.Run("legs split the season in half", func(t *testing.T) {
		for _, f := range cal.Fixtures {
			wantLeg := league.LegFirst
			if f.Week > 3 {
				wantLeg = league.LegSecond
			}
			if f.Leg != wantLeg {
				t.Errorf("fixture %s in week %d has leg %d, want %d", f.ID, f.Week, f.Leg, wantLeg)
			}
		}
	})

	t.Run("everything starts scheduled and unplayed", func(t *testing.T) {
		for _, f := range cal.Fixtures {
			if f.Status != league.StatusScheduled {
				t.Errorf("fixture %s status = %q, want %q", f.ID, f.Status, league.StatusScheduled)
			}
			if f.Played {
				t.Errorf("fixture %s generated as already played", f.ID)
			}
		}
	})
}

func TestGenerateOddRoster(t *testing.T) {
	roster := testRoster(5)
	cal, err := Generate(roster)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("fixture count", func(t *testing.T) {
		if cal.Len() != 20 {
			t.Errorf("fixtures = %d, want 20", cal.Len())
		}
	})

	t.Run("season spans 10 weeks", func(t *testing.T) {
		if got := len(cal.Weeks()); got != 10 {
			t.Errorf("weeks = %d, want 10", got)
		}
	})

	t.Run("two fixtures per week", func(t *testing.T) {
		for _, w := range cal.Weeks() {
			if got := len(cal.ByWeek(w)); got != 2 {
				t.Errorf("week %d has %d fixtures, want 2", w, got)
			}
		}
	})

	t.Run("each team plays 8 and sits out 2 weeks", func(t *testing.T) {
		for _, team := range roster {
			fixtures := cal.ByTeam(team.ID)
			if len(fixtures) != 8 {
				t.Errorf("%s plays %d fixtures, want 8", team.ID, len(fixtures))
			}
			homes := 0
			for _, f := range fixtures {
				if f.HomeID == team.ID {
					homes++
				}
			}
			if homes != 4 {
				t.Errorf("%s has %d home fixtures, want 4", team.ID, homes)
			}
		}
	})

	t.Run("every team sits out one week per leg", func(t *testing.T) {
		for _, team := range roster {
			weeks := make(map[int]bool)
			firstLeg := 0
			for _, f := range cal.ByTeam(team.ID) {
				if weeks[f.Week] {
					t.Errorf("%s plays twice in week %d", team.ID, f.Week)
				}
				weeks[f.Week] = true
				if f.Leg == league.LegFirst {
					firstLeg++
				}
			}
			// Eight fixtures over two five-week legs, four in each.
			if firstLeg != 4 {
				t.Errorf("%s plays %d first-leg fixtures, want 4", team.ID, firstLeg)
			}
		}
	})
}

func TestGenerateDeterministic(t *testing.T) {
	first, err := Generate(testRoster(6))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	second, err := Generate(testRoster(6))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !reflect.DeepEqual(first.Fixtures, second.Fixtures) {
		t.Error("two generations from the same roster differ")
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Run("too few teams", func(t *testing.T) {
		_, err := Generate(testRoster(3))
		if !errors.Is(err, ErrInsufficientTeams) {
			t.Errorf("Generate() error = %v, want ErrInsufficientTeams", err)
		}
	})

	t.Run("duplicate team ids", func(t *testing.T) {
		roster := testRoster(4)
		roster[3].ID = roster[0].ID
		_, err := Generate(roster)
		if !errors.Is(err, ErrDuplicateTeam) {
			t.Errorf("Generate() error = %v, want ErrDuplicateTeam", err)
		}
	})
}

func TestReschedule(t *testing.T) {
	t.Run("moves the fixture and marks it", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		id := cal.Fixtures[0].ID

		if err := Reschedule(cal, id, 9); err != nil {
			t.Fatalf("Reschedule() error: %v", err)
		}

		f := cal.Find(id)
		if f.Week != 9 {
			t.Errorf("week = %d, want 9", f.Week)
		}
		if f.Status != league.StatusRescheduled {
			t.Errorf("status = %q, want %q", f.Status, league.StatusRescheduled)
		}
		if f.ID != id {
			t.Errorf("id changed to %q after move", f.ID)
		}
	})

	t.Run("moving back restores the original week", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		f := cal.Fixtures[0]

		if err := Reschedule(cal, f.ID, 9); err != nil {
			t.Fatalf("Reschedule() away error: %v", err)
		}
		if err := Reschedule(cal, f.ID, f.Week); err != nil {
			t.Fatalf("Reschedule() back error: %v", err)
		}

		moved := cal.Find(f.ID)
		if moved.Week != f.Week {
			t.Errorf("week = %d, want %d", moved.Week, f.Week)
		}
		if moved.Status != league.StatusRescheduled {
			t.Errorf("status = %q, want %q after a round trip", moved.Status, league.StatusRescheduled)
		}
	})

	t.Run("move within its own week succeeds", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		f := cal.Fixtures[0]

		if err := Reschedule(cal, f.ID, f.Week); err != nil {
			t.Errorf("Reschedule() to own week error: %v", err)
		}
	})

	t.Run("clash with an occupied week", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		moving := cal.Fixtures[0]

		// With 4 teams every team plays every week, so any move into
		// another in-season week double-books both sides.
		err := Reschedule(cal, moving.ID, 2)
		var clash *ClashError
		if !errors.As(err, &clash) {
			t.Fatalf("Reschedule() error = %v, want ClashError", err)
		}
		if clash.Week != 2 {
			t.Errorf("clash week = %d, want 2", clash.Week)
		}
		if !moving.Involves(clash.TeamID) {
			t.Errorf("clash team %s is not in the moving fixture", clash.TeamID)
		}
		blocking := cal.Find(clash.FixtureID)
		if blocking == nil {
			t.Fatalf("clash names unknown fixture %q", clash.FixtureID)
		}
		if blocking.Week != 2 || !blocking.Involves(clash.TeamID) {
			t.Errorf("clash names fixture %s which does not block week 2 for %s", clash.FixtureID, clash.TeamID)
		}
	})

	t.Run("failed move leaves the calendar untouched", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		before := append([]league.Fixture(nil), cal.Fixtures...)

		err := Reschedule(cal, cal.Fixtures[0].ID, 2)
		var clash *ClashError
		if !errors.As(err, &clash) {
			t.Fatalf("Reschedule() error = %v, want ClashError", err)
		}
		if !reflect.DeepEqual(before, cal.Fixtures) {
			t.Error("rejected move modified the calendar")
		}
	})

	t.Run("unknown fixture", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		err := Reschedule(cal, "w1_nobody_vs_anybody", 9)
		if !errors.Is(err, ErrFixtureNotFound) {
			t.Errorf("Reschedule() error = %v, want ErrFixtureNotFound", err)
		}
	})

	t.Run("played fixture", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		f := &cal.Fixtures[0]
		f.Played = true

		err := Reschedule(cal, f.ID, 9)
		if !errors.Is(err, ErrFixturePlayed) {
			t.Errorf("Reschedule() error = %v, want ErrFixturePlayed", err)
		}
	})

	t.Run("invalid week", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		err := Reschedule(cal, cal.Fixtures[0].ID, 0)
		if !errors.Is(err, ErrInvalidWeek) {
			t.Errorf("Reschedule() error = %v, want ErrInvalidWeek", err)
		}
	})
}

func TestRegenerate(t *testing.T) {
	t.Run("roster change rebuilds and discards results", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		cal.Fixtures[0].Played = true
		cal.Fixtures[0].HomeScore = 2
		cal.Fixtures[0].AwayScore = 1

		if err := Regenerate(cal, testRoster(5)); err != nil {
			t.Fatalf("Regenerate() error: %v", err)
		}
		if cal.Len() != 20 {
			t.Errorf("fixtures = %d, want 20", cal.Len())
		}
		for _, f := range cal.Fixtures {
			if f.Played || f.Status != league.StatusScheduled {
				t.Errorf("fixture %s kept state across regeneration", f.ID)
			}
		}
	})

	t.Run("departed team vanishes from the new calendar", func(t *testing.T) {
		roster := testRoster(5)
		cal, err := Generate(roster)
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}

		remaining := roster[:4]
		if err := Regenerate(cal, remaining); err != nil {
			t.Fatalf("Regenerate() error: %v", err)
		}

		if cal.Len() != 12 {
			t.Errorf("fixtures = %d, want 12", cal.Len())
		}
		for _, f := range cal.Fixtures {
			if f.Involves("rangers") {
				t.Errorf("fixture %s still references the departed team", f.ID)
			}
		}
		if vs := validator.Validate(cal, remaining); len(vs) != 0 {
			t.Errorf("regenerated calendar has %d violations, want 0", len(vs))
		}
	})

	t.Run("same roster reproduces the same calendar", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)
		original := append([]league.Fixture(nil), cal.Fixtures...)

		if err := Reschedule(cal, cal.Fixtures[0].ID, 9); err != nil {
			t.Fatalf("Reschedule() error: %v", err)
		}
		if err := Regenerate(cal, testRoster(4)); err != nil {
			t.Fatalf("Regenerate() error: %v", err)
		}
		if !reflect.DeepEqual(original, cal.Fixtures) {
			t.Error("regeneration from the same roster produced a different calendar")
		}
	})

	t.Run("shrunken roster leaves the calendar empty", func(t *testing.T) {
		cal := generateTestCalendar(t, 4)

		err := Regenerate(cal, testRoster(3))
		if !errors.Is(err, ErrRosterTooSmall) {
			t.Errorf("Regenerate() error = %v, want ErrRosterTooSmall", err)
		}
		if cal.Len() != 0 {
			t.Errorf("calendar holds %d fixtures after failed regeneration, want 0", cal.Len())
		}
	})
}

func generateTestCalendar(t *testing.T, n int) *league.Calendar {
	t.Helper()
	cal, err := Generate(testRoster(n))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return cal
}
