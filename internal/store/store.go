package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"flms/internal/league"
)

// ErrNotGenerated is returned when the store holds no calendar yet.
var ErrNotGenerated = errors.New("no calendar in store; run generate first")

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	league       TEXT NOT NULL,
	season       TEXT NOT NULL,
	algorithm    TEXT NOT NULL,
	generated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fixtures (
	id         TEXT PRIMARY KEY,
	home_id    TEXT NOT NULL,
	away_id    TEXT NOT NULL,
	week       INTEGER NOT NULL,
	leg        INTEGER NOT NULL,
	status     TEXT NOT NULL,
	home_score INTEGER,
	away_score INTEGER,
	played     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_fixtures_week ON fixtures(week);
`

// Meta describes the calendar held in the store.
type Meta struct {
	League      string
	Season      string
	Algorithm   string
	GeneratedAt time.Time
}

// Store persists one league's fixture records in an embedded SQLite
// database. The engine never touches it; callers load a calendar, run
// engine operations on the value, and save it back.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// SQLite wants a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("store opened")
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type metaRow struct {
	League      string `db:"league"`
	Season      string `db:"season"`
	Algorithm   string `db:"algorithm"`
	GeneratedAt string `db:"generated_at"`
}

type fixtureRow struct {
	ID        string        `db:"id"`
	HomeID    string        `db:"home_id"`
	AwayID    string        `db:"away_id"`
	Week      int           `db:"week"`
	Leg       int           `db:"leg"`
	Status    string        `db:"status"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`
	Played    bool          `db:"played"`
}

func toRow(f league.Fixture) fixtureRow {
	row := fixtureRow{
		ID:     f.ID,
		HomeID: f.HomeID,
		AwayID: f.AwayID,
		Week:   f.Week,
		Leg:    f.Leg,
		Status: string(f.Status),
		Played: f.Played,
	}
	if f.Played {
		row.HomeScore = sql.NullInt64{Int64: int64(f.HomeScore), Valid: true}
		row.AwayScore = sql.NullInt64{Int64: int64(f.AwayScore), Valid: true}
	}
	return row
}

func (r fixtureRow) toDomain() league.Fixture {
	return league.Fixture{
		ID:        r.ID,
		HomeID:    r.HomeID,
		AwayID:    r.AwayID,
		Week:      r.Week,
		Leg:       r.Leg,
		Status:    league.Status(r.Status),
		HomeScore: int(r.HomeScore.Int64),
		AwayScore: int(r.AwayScore.Int64),
		Played:    r.Played,
	}
}

// SaveCalendar replaces the stored calendar wholesale. Save is
// all-or-nothing: done in one transaction so a failed save leaves the
// previous calendar intact.
func (s *Store) SaveCalendar(ctx context.Context, meta Meta, cal *league.Calendar) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fixtures`); err != nil {
		return fmt.Errorf("clearing fixtures: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meta`); err != nil {
		return fmt.Errorf("clearing meta: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta(id, league, season, algorithm, generated_at) VALUES(1,?,?,?,?)`,
		meta.League, meta.Season, meta.Algorithm, meta.GeneratedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("saving meta: %w", err)
	}

	for _, f := range cal.Fixtures {
		row := toRow(f)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fixtures(id, home_id, away_id, week, leg, status, home_score, away_score, played)
			 VALUES(?,?,?,?,?,?,?,?,?)`,
			row.ID, row.HomeID, row.AwayID, row.Week, row.Leg, row.Status,
			row.HomeScore, row.AwayScore, row.Played,
		); err != nil {
			return fmt.Errorf("saving fixture %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	s.log.Debug().Int("fixtures", cal.Len()).Msg("calendar saved")
	return nil
}

// LoadCalendar reads the stored calendar back. ErrNotGenerated when the
// store is empty.
func (s *Store) LoadCalendar(ctx context.Context) (Meta, *league.Calendar, error) {
	var m metaRow
	err := s.db.GetContext(ctx, &m, `SELECT league, season, algorithm, generated_at FROM meta WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Meta{}, nil, ErrNotGenerated
	}
	if err != nil {
		return Meta{}, nil, fmt.Errorf("loading meta: %w", err)
	}

	generatedAt, err := time.Parse(time.RFC3339, m.GeneratedAt)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parsing generated_at: %w", err)
	}
	meta := Meta{
		League:      m.League,
		Season:      m.Season,
		Algorithm:   m.Algorithm,
		GeneratedAt: generatedAt,
	}

	var rows []fixtureRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM fixtures ORDER BY week, id`); err != nil {
		return Meta{}, nil, fmt.Errorf("loading fixtures: %w", err)
	}

	cal := &league.Calendar{Fixtures: make([]league.Fixture, 0, len(rows))}
	for _, r := range rows {
		cal.Fixtures = append(cal.Fixtures, r.toDomain())
	}

	s.log.Debug().Int("fixtures", cal.Len()).Msg("calendar loaded")
	return meta, cal, nil
}

// UpdateFixture writes back a single fixture, used after a reschedule
// or a recorded result so the rest of the calendar is untouched.
func (s *Store) UpdateFixture(ctx context.Context, f league.Fixture) error {
	row := toRow(f)
	res, err := s.db.ExecContext(ctx,
		`UPDATE fixtures SET week=?, leg=?, status=?, home_score=?, away_score=?, played=? WHERE id=?`,
		row.Week, row.Leg, row.Status, row.HomeScore, row.AwayScore, row.Played, row.ID,
	)
	if err != nil {
		return fmt.Errorf("updating fixture %s: %w", f.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating fixture %s: %w", f.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("fixture %q is not in the store", f.ID)
	}
	return nil
}
