package schedule

import (
	"errors"
	"fmt"

	"flms/internal/league"
)

// Algorithm identifies the generation scheme. It is persisted alongside
// the fixtures: a calendar is fully reproducible from the team list and
// this version string, so no generator state is ever stored.
const Algorithm = "double-round-robin/v1"

// MinTeams is the smallest roster the engine will schedule. Odd counts
// of five or more are supported through a bye rotation.
const MinTeams = 4

var (
	ErrInsufficientTeams = errors.New("not enough teams to schedule")
	ErrDuplicateTeam     = errors.New("duplicate team id")
	ErrRosterTooSmall    = errors.New("roster below minimum size")
	ErrRoundMismatch     = errors.New("round count mismatch")
	ErrFixtureNotFound   = errors.New("fixture not found")
	ErrFixturePlayed     = errors.New("fixture already played")
	ErrInvalidWeek       = errors.New("week must be 1 or greater")
)

// ClashError rejects a fixture move that would double-book a team. The
// calendar is left untouched when it is returned.
type ClashError struct {
	FixtureID string // the fixture already occupying the week
	TeamID    string
	Week      int
}

func (e *ClashError) Error() string {
	return fmt.Sprintf("clash: team %s already plays in week %d (fixture %s)", e.TeamID, e.Week, e.FixtureID)
}

// Generate builds the complete double round-robin calendar for a roster.
// Round i becomes week i, weeks numbered from 1 with no gaps, and every
// fixture ID is minted from its generated week. Generation is
// deterministic: the same roster in the same order always yields the
// same calendar.
func Generate(teams []league.Team) (*league.Calendar, error) {
	ids, err := rosterIDs(teams)
	if err != nil {
		return nil, err
	}

	rounds, err := expandLegs(roundRobinPairings(ids), len(ids))
	if err != nil {
		return nil, err
	}

	cal := &league.Calendar{}
	for r, round := range rounds {
		week := r + 1
		for _, g := range round {
			cal.Fixtures = append(cal.Fixtures, league.Fixture{
				ID:     league.FixtureID(week, g.home, g.away),
				HomeID: g.home,
				AwayID: g.away,
				Week:   week,
				Leg:    g.leg,
				Status: league.StatusScheduled,
			})
		}
	}
	return cal, nil
}

// Reschedule moves one fixture to a new week. The move is checked
// against the target week first and rejected wholesale on a clash, so a
// failed call leaves the calendar exactly as it was. Played fixtures
// cannot be moved. A successful move updates only the fixture's week
// and marks it rescheduled; its ID never changes.
func Reschedule(cal *league.Calendar, fixtureID string, newWeek int) error {
	if newWeek < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeek, newWeek)
	}

	f := cal.Find(fixtureID)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrFixtureNotFound, fixtureID)
	}
	if f.Played {
		return fmt.Errorf("%w: %q", ErrFixturePlayed, fixtureID)
	}

	if err := weekClash(cal, f, newWeek); err != nil {
		return err
	}

	f.Week = newWeek
	f.Status = league.StatusRescheduled
	return nil
}

// weekClash checks whether either team of the moving fixture already
// appears in the target week. Only that week's fixtures are scanned;
// the moving fixture itself is excluded so a move within its own week
// succeeds.
func weekClash(cal *league.Calendar, moving *league.Fixture, week int) error {
	for i := range cal.Fixtures {
		g := &cal.Fixtures[i]
		if g.ID == moving.ID || g.Week != week {
			continue
		}
		for _, team := range []string{moving.HomeID, moving.AwayID} {
			if g.Involves(team) {
				return &ClashError{FixtureID: g.ID, TeamID: team, Week: week}
			}
		}
	}
	return nil
}

// Regenerate discards the whole calendar and rebuilds it from the
// roster. Round-robin structure depends globally on team count and
// order, so a roster change always means a full rebuild rather than an
// incremental patch; recorded results are discarded with the old
// fixtures. If the new roster is too small the calendar stays empty
// until a later generation succeeds.
func Regenerate(cal *league.Calendar, teams []league.Team) error {
	cal.Clear()

	if len(teams) < MinTeams {
		return fmt.Errorf("%w: have %d, need %d", ErrRosterTooSmall, len(teams), MinTeams)
	}

	fresh, err := Generate(teams)
	if err != nil {
		return err
	}
	cal.Fixtures = fresh.Fixtures
	return nil
}

func rosterIDs(teams []league.Team) ([]string, error) {
	if len(teams) < MinTeams {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientTeams, len(teams), MinTeams)
	}

	ids := make([]string, 0, len(teams))
	seen := make(map[string]bool, len(teams))
	for _, t := range teams {
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTeam, t.ID)
		}
		seen[t.ID] = true
		ids = append(ids, t.ID)
	}
	return ids, nil
}
