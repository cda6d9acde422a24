package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// fixed width so stored timestamps compare correctly as text
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLitePreferences implements prefs.Store on the pure Go sqlite driver.
type SQLitePreferences struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLitePreferences opens (or creates) the database at path and applies the schema.
func NewSQLitePreferences(path string, logger *zap.SugaredLogger) (*SQLitePreferences, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; sqlite serialises anyway and ":memory:" needs a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warnw("could not set WAL mode", "error", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS preferences (
		id TEXT PRIMARY KEY,
		units TEXT NOT NULL,
		theme TEXT NOT NULL,
		last_location TEXT,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_preferences_updated_at ON preferences(updated_at)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create updated_at index: %w", err)
	}

	return &SQLitePreferences{db: db, logger: logger}, nil
}

func (s *SQLitePreferences) Save(ctx context.Context, p prefs.Preferences) error {
	var location sql.NullString
	if p.LastLocation != nil {
		b, err := json.Marshal(p.LastLocation)
		if err != nil {
			return err
		}
		location = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO preferences(id, units, theme, last_location, updated_at) VALUES(?,?,?,?,?)`,
		p.ID, string(p.Units), string(p.Theme), location, p.UpdatedAt.UTC().Format(timestampLayout))
	return err
}

func (s *SQLitePreferences) Get(ctx context.Context, id string) (prefs.Preferences, error) {
	var (
		p        prefs.Preferences
		units    string
		theme    string
		location sql.NullString
		ts       string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, units, theme, last_location, updated_at FROM preferences WHERE id = ?`, id).
		Scan(&p.ID, &units, &theme, &location, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs.Preferences{}, prefs.ErrNotFound
	}
	if err != nil {
		return prefs.Preferences{}, err
	}

	p.Units = weather.Units(units)
	p.Theme = prefs.Theme(theme)
	if location.Valid {
		var loc geo.Location
		if err := json.Unmarshal([]byte(location.String), &loc); err != nil {
			s.logger.Warnw("discarding unreadable last location", "id", id, "error", err)
		} else {
			p.LastLocation = &loc
		}
	}
	if t, err := time.Parse(timestampLayout, ts); err == nil {
		p.UpdatedAt = t
	}
	return p, nil
}

// DeleteOlderThan removes rows last updated before cutoff.
func (s *SQLitePreferences) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE updated_at < ?`,
		cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLitePreferences) Close() error {
	return s.db.Close()
}
