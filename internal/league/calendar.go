package league

import "sort"

// Calendar is the fixture set for one league-season. It is a plain
// value: callers own it for the duration of an operation and pass it
// explicitly, there is no shared ambient state and no locking.
type Calendar struct {
	Fixtures []Fixture
}

// Len returns the number of fixtures.
func (c *Calendar) Len() int {
	return len(c.Fixtures)
}

// Clear discards all fixtures.
func (c *Calendar) Clear() {
	c.Fixtures = nil
}

// Find returns a pointer to the fixture with the given ID, or nil.
func (c *Calendar) Find(id string) *Fixture {
	for i := range c.Fixtures {
		if c.Fixtures[i].ID == id {
			return &c.Fixtures[i]
		}
	}
	return nil
}

// Sorted returns all fixtures ordered by week, then fixture ID.
func (c *Calendar) Sorted() []Fixture {
	out := make([]Fixture, len(c.Fixtures))
	copy(out, c.Fixtures)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ByWeek returns the fixtures assigned to one week, ordered by ID.
func (c *Calendar) ByWeek(week int) []Fixture {
	var out []Fixture
	for _, f := range c.Fixtures {
		if f.Week == week {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByTeam returns the fixtures involving one team, ordered by week.
func (c *Calendar) ByTeam(teamID string) []Fixture {
	var out []Fixture
	for _, f := range c.Fixtures {
		if f.Involves(teamID) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Weeks returns the distinct week numbers in ascending order. Weeks can
// be sparse after reschedules.
func (c *Calendar) Weeks() []int {
	seen := make(map[int]bool)
	var weeks []int
	for _, f := range c.Fixtures {
		if !seen[f.Week] {
			seen[f.Week] = true
			weeks = append(weeks, f.Week)
		}
	}
	sort.Ints(weeks)
	return weeks
}

// WeekIndex maps week number to the IDs of that week's fixtures. It is
// derived on demand and never persisted.
func (c *Calendar) WeekIndex() map[int][]string {
	idx := make(map[int][]string)
	for _, w := range c.Weeks() {
		for _, f := range c.ByWeek(w) {
			idx[w] = append(idx[w], f.ID)
		}
	}
	return idx
}

// Rescheduled reports whether any fixture has been moved from its
// generated week.
func (c *Calendar) Rescheduled() bool {
	for _, f := range c.Fixtures {
		if f.Status == StatusRescheduled {
			return true
		}
	}
	return false
}
