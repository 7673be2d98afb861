package league

import (
	"fmt"
	"strings"
)

// Team is a league participant. The scheduler only ever stores team IDs
// inside fixtures; names and venues stay here.
type Team struct {
	ID    string
	Name  string
	Venue string
}

// Slug derives a team ID from a display name: lowercased with spaces
// collapsed to underscores.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Status tracks whether a fixture still sits in its generated week.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusRescheduled Status = "rescheduled"
)

// Legs of a double round-robin. Second-leg fixtures reverse the
// first-leg home/away orientation.
const (
	LegFirst  = 1
	LegSecond = 2
)

// Fixture is one scheduled match. Week and Status are owned by the
// scheduling engine; the score fields are attached afterwards by result
// recording and never influence scheduling.
type Fixture struct {
	ID     string
	HomeID string
	AwayID string
	Week   int
	Leg    int
	Status Status

	HomeScore int
	AwayScore int
	Played    bool
}

// FixtureID builds the stable fixture key. It embeds the week the
// fixture was generated into; rescheduling moves the fixture but never
// renames it.
func FixtureID(week int, homeID, awayID string) string {
	return fmt.Sprintf("w%d_%s_vs_%s", week, homeID, awayID)
}

// Involves reports whether the fixture includes the given team.
func (f *Fixture) Involves(teamID string) bool {
	return f.HomeID == teamID || f.AwayID == teamID
}
