package store

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"flms/internal/league"
)

// Snapshot is the portable JSON form of a season: league metadata, the
// roster, and every fixture with results. It holds everything needed to
// rebuild the store on another machine.
type Snapshot struct {
	League    string          `json:"league"`
	Season    string          `json:"season"`
	Algorithm string          `json:"algorithm"`
	SavedAt   time.Time       `json:"saved_at"`
	Teams     []TeamRecord    `json:"teams"`
	Fixtures  []FixtureRecord `json:"fixtures"`
}

type TeamRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Venue string `json:"venue"`
}

type FixtureRecord struct {
	ID        string `json:"id"`
	HomeID    string `json:"home_id"`
	AwayID    string `json:"away_id"`
	Week      int    `json:"week"`
	Leg       int    `json:"leg"`
	Status    string `json:"status"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
	Played    bool   `json:"played"`
}

// BuildSnapshot captures the current season state. Fixture order
// follows the calendar's sorted order so two snapshots of the same
// season diff cleanly.
func BuildSnapshot(meta Meta, teams []league.Team, cal *league.Calendar) Snapshot {
	snap := Snapshot{
		League:    meta.League,
		Season:    meta.Season,
		Algorithm: meta.Algorithm,
		SavedAt:   time.Now().UTC().Truncate(time.Second),
		Teams:     make([]TeamRecord, 0, len(teams)),
		Fixtures:  make([]FixtureRecord, 0, cal.Len()),
	}
	for _, t := range teams {
		snap.Teams = append(snap.Teams, TeamRecord{ID: t.ID, Name: t.Name, Venue: t.Venue})
	}
	for _, f := range cal.Sorted() {
		rec := FixtureRecord{
			ID:     f.ID,
			HomeID: f.HomeID,
			AwayID: f.AwayID,
			Week:   f.Week,
			Leg:    f.Leg,
			Status: string(f.Status),
			Played: f.Played,
		}
		if f.Played {
			home, away := f.HomeScore, f.AwayScore
			rec.HomeScore = &home
			rec.AwayScore = &away
		}
		snap.Fixtures = append(snap.Fixtures, rec)
	}
	return snap
}

// Meta returns the store metadata carried by the snapshot.
func (s Snapshot) Meta() Meta {
	return Meta{
		League:      s.League,
		Season:      s.Season,
		Algorithm:   s.Algorithm,
		GeneratedAt: s.SavedAt,
	}
}

// Calendar rebuilds the fixture calendar from the snapshot records.
func (s Snapshot) Calendar() *league.Calendar {
	cal := &league.Calendar{Fixtures: make([]league.Fixture, 0, len(s.Fixtures))}
	for _, rec := range s.Fixtures {
		f := league.Fixture{
			ID:     rec.ID,
			HomeID: rec.HomeID,
			AwayID: rec.AwayID,
			Week:   rec.Week,
			Leg:    rec.Leg,
			Status: league.Status(rec.Status),
			Played: rec.Played,
		}
		if rec.HomeScore != nil {
			f.HomeScore = *rec.HomeScore
		}
		if rec.AwayScore != nil {
			f.AwayScore = *rec.AwayScore
		}
		cal.Fixtures = append(cal.Fixtures, f)
	}
	return cal
}

// WriteSnapshot writes the snapshot to path as indented JSON.
func WriteSnapshot(path string, snap Snapshot) error {
	data, err := sonic.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a snapshot previously written by WriteSnapshot.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return snap, nil
}
