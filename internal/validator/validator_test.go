package validator

import (
	"testing"

	"flms/internal/league"
	"flms/internal/schedule"
)

func testRoster() []league.Team {
	return []league.Team{
		{ID: "rovers", Name: "Rovers", Venue: "Rovers Park"},
		{ID: "united", Name: "United", Venue: "Union Road"},
		{ID: "athletic", Name: "Athletic", Venue: "Athletic Ground"},
		{ID: "wanderers", Name: "Wanderers", Venue: "Wanderers Lane"},
	}
}

func fx(week int, home, away string) league.Fixture {
	return league.Fixture{
		ID:     league.FixtureID(week, home, away),
		HomeID: home,
		AwayID: away,
		Week:   week,
		Leg:    league.LegFirst,
		Status: league.StatusScheduled,
	}
}

// editedCalendar builds a calendar whose last fixture has been moved by
// hand. The rescheduled marker keeps the round-completeness check out
// of these scenarios, which only stage a handful of fixtures.
func editedCalendar(fixtures ...league.Fixture) *league.Calendar {
	fixtures[len(fixtures)-1].Status = league.StatusRescheduled
	return &league.Calendar{Fixtures: fixtures}
}

func kinds(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Kind)
	}
	return out
}

func TestValidateCleanCalendar(t *testing.T) {
	for _, n := range []int{4, 5} {
		roster := []league.Team{
			{ID: "rovers"}, {ID: "united"}, {ID: "athletic"}, {ID: "wanderers"}, {ID: "rangers"},
		}[:n]

		cal, err := schedule.Generate(roster)
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if violations := Validate(cal, roster); len(violations) != 0 {
			t.Errorf("%d-team calendar has %d violations, want 0: %v", n, len(violations), kinds(violations))
		}
	}
}

func TestValidateDuplicateFixture(t *testing.T) {
	cal := editedCalendar(
		fx(1, "rovers", "united"),
		fx(2, "athletic", "wanderers"),
		fx(3, "rovers", "united"),
	)

	violations := Validate(cal, testRoster())
	if len(violations) != 1 {
		t.Fatalf("violations = %d, want 1: %v", len(violations), kinds(violations))
	}
	v := violations[0]
	if v.Kind != KindDuplicateFixture {
		t.Errorf("kind = %q, want %q", v.Kind, KindDuplicateFixture)
	}
	if v.Severity != "error" {
		t.Errorf("severity = %q, want error", v.Severity)
	}
	if v.FixtureID != league.FixtureID(3, "rovers", "united") {
		t.Errorf("violation names %q, want the repeat occurrence", v.FixtureID)
	}
}

func TestValidateReverseFixtureIsNotDuplicate(t *testing.T) {
	cal := editedCalendar(
		fx(1, "rovers", "united"),
		fx(2, "united", "rovers"),
	)

	if violations := Validate(cal, testRoster()); len(violations) != 0 {
		t.Errorf("home and away legs flagged as duplicates: %v", kinds(violations))
	}
}

func TestValidateSelfMatch(t *testing.T) {
	cal := editedCalendar(
		fx(1, "rovers", "rovers"),
	)

	violations := Validate(cal, testRoster())
	if len(violations) != 1 {
		t.Fatalf("violations = %d, want 1: %v", len(violations), kinds(violations))
	}
	if violations[0].Kind != KindSelfMatch {
		t.Errorf("kind = %q, want %q", violations[0].Kind, KindSelfMatch)
	}
}

func TestValidateInvalidTeamReference(t *testing.T) {
	cal := editedCalendar(
		fx(1, "rovers", "ghosts"),
	)

	violations := Validate(cal, testRoster())
	if len(violations) != 1 {
		t.Fatalf("violations = %d, want 1: %v", len(violations), kinds(violations))
	}
	v := violations[0]
	if v.Kind != KindInvalidTeamRef {
		t.Errorf("kind = %q, want %q", v.Kind, KindInvalidTeamRef)
	}
	if v.Week != 1 {
		t.Errorf("week = %d, want 1", v.Week)
	}
}

func TestValidateDoubleBooking(t *testing.T) {
	cal := editedCalendar(
		fx(1, "rovers", "united"),
		fx(1, "rovers", "athletic"),
	)

	violations := Validate(cal, testRoster())
	if len(violations) != 1 {
		t.Fatalf("violations = %d, want 1: %v", len(violations), kinds(violations))
	}
	v := violations[0]
	if v.Kind != KindDoubleBooking {
		t.Errorf("kind = %q, want %q", v.Kind, KindDoubleBooking)
	}
	if v.FixtureID != league.FixtureID(1, "rovers", "athletic") {
		t.Errorf("violation names %q, want the second booking", v.FixtureID)
	}
}

func TestValidateIncompleteRound(t *testing.T) {
	roster := testRoster()
	cal, err := schedule.Generate(roster)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// Drop one of week 3's fixtures to leave a short round.
	kept := cal.Fixtures[:0]
	dropped := false
	for _, f := range cal.Fixtures {
		if f.Week == 3 && !dropped {
			dropped = true
			continue
		}
		kept = append(kept, f)
	}
	cal.Fixtures = kept

	violations := Validate(cal, roster)
	if len(violations) != 1 {
		t.Fatalf("violations = %d, want 1: %v", len(violations), kinds(violations))
	}
	v := violations[0]
	if v.Kind != KindIncompleteRound {
		t.Errorf("kind = %q, want %q", v.Kind, KindIncompleteRound)
	}
	if v.Severity != "warning" {
		t.Errorf("severity = %q, want warning", v.Severity)
	}
	if v.Week != 3 {
		t.Errorf("week = %d, want 3", v.Week)
	}
}

func TestValidateRescheduleSuppressesRoundCheck(t *testing.T) {
	roster := testRoster()
	cal, err := schedule.Generate(roster)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// Moving a fixture out of its round leaves that week short, which
	// is fine once the calendar has been hand-edited.
	if err := schedule.Reschedule(cal, cal.Fixtures[0].ID, 9); err != nil {
		t.Fatalf("Reschedule() error: %v", err)
	}

	if violations := Validate(cal, roster); len(violations) != 0 {
		t.Errorf("rescheduled calendar has %d violations, want 0: %v", len(violations), kinds(violations))
	}
}

func TestValidateOrdering(t *testing.T) {
	cal := editedCalendar(
		fx(5, "rovers", "ghosts"),
		fx(2, "united", "united"),
		fx(1, "athletic", "phantoms"),
	)

	violations := Validate(cal, testRoster())
	if len(violations) != 3 {
		t.Fatalf("violations = %d, want 3: %v", len(violations), kinds(violations))
	}
	for i := 1; i < len(violations); i++ {
		if violations[i-1].Week > violations[i].Week {
			t.Errorf("violations out of week order: %d before %d", violations[i-1].Week, violations[i].Week)
		}
	}
}
