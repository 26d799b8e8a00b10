// Package history keeps a SQLite record of capture cycles and the last
// configuration the daemon accepted.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/autoshot/autoshot/pkg/shotlib"
	_ "modernc.org/sqlite"
)

const DefaultLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	skipped     INTEGER NOT NULL DEFAULT 0,
	skip_reason TEXT NOT NULL DEFAULT '',
	displays    INTEGER NOT NULL DEFAULT 0,
	successes   INTEGER NOT NULL DEFAULT 0,
	failures    TEXT NOT NULL DEFAULT '[]',
	files       TEXT NOT NULL DEFAULT '[]',
	bytes       INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS cycles_started_at ON cycles (started_at);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const lastConfigKey = "last_configuration"

var ErrClosed = errors.New("history store is closed")

// Store is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path))
	if err != nil {
		return nil, fmt.Errorf("error: cannot open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: cannot initialise history database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores one cycle result. Recording the same ID twice replaces the
// earlier row.
func (s *Store) Record(r shotlib.CycleResult) error {
	failures, err := json.Marshal(r.Failures)
	if err != nil {
		return err
	}
	files, err := json.Marshal(r.Files)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
        INSERT OR REPLACE INTO cycles
            (id, started_at, finished_at, skipped, skip_reason, displays, successes, failures, files, bytes, error)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixNano(), r.FinishedAt.UnixNano(), boolToInt(r.Skipped), string(r.SkipReason),
		r.Displays, r.Successes, string(failures), string(files), r.Bytes, r.Error)
	if err != nil {
		return fmt.Errorf("error: failed to record cycle %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit cycles, newest first. A limit of zero or less
// uses DefaultLimit.
func (s *Store) Recent(limit int) ([]shotlib.CycleResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.Query(`
        SELECT id, started_at, finished_at, skipped, skip_reason, displays, successes, failures, files, bytes, error
        FROM cycles
        ORDER BY started_at DESC, rowid DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query cycles: %w", err)
	}
	defer rows.Close()

	var out []shotlib.CycleResult
	for rows.Next() {
		var (
			r                 shotlib.CycleResult
			started, finished int64
			skipped           int
			reason            string
			failures, files   string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &skipped, &reason, &r.Displays, &r.Successes,
			&failures, &files, &r.Bytes, &r.Error); err != nil {
			return nil, fmt.Errorf("error: failed to scan cycle row: %w", err)
		}
		r.StartedAt = time.Unix(0, started)
		r.FinishedAt = time.Unix(0, finished)
		r.Skipped = skipped != 0
		r.SkipReason = shotlib.SkipReason(reason)
		if err := json.Unmarshal([]byte(failures), &r.Failures); err != nil {
			return nil, fmt.Errorf("error: corrupt failures for cycle %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(files), &r.Files); err != nil {
			return nil, fmt.Errorf("error: corrupt files for cycle %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate cycle rows: %w", err)
	}
	return out, nil
}

// Totals summarises all recorded cycles.
type Totals struct {
	Cycles   int   `json:"cycles"`
	Skipped  int   `json:"skipped"`
	Captured int   `json:"captured"`
	Bytes    int64 `json:"bytes"`
}

func (s *Store) Totals() (Totals, error) {
	var t Totals
	err := s.db.QueryRow(`
        SELECT COUNT(*), COALESCE(SUM(skipped), 0), COALESCE(SUM(successes), 0), COALESCE(SUM(bytes), 0)
        FROM cycles`).Scan(&t.Cycles, &t.Skipped, &t.Captured, &t.Bytes)
	if err != nil {
		return t, fmt.Errorf("error: failed to total cycles: %w", err)
	}
	return t, nil
}

// Prune deletes cycles that started before cutoff and returns how many
// rows were removed.
func (s *Store) Prune(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM cycles WHERE started_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("error: failed to prune cycles: %w", err)
	}
	return res.RowsAffected()
}

// SaveConfiguration remembers cfg as the last accepted configuration.
func (s *Store) SaveConfiguration(cfg shotlib.Configuration) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, lastConfigKey, string(b))
	if err != nil {
		return fmt.Errorf("error: failed to save configuration: %w", err)
	}
	return nil
}

// LastConfiguration returns the configuration saved by SaveConfiguration.
// ok is false when nothing has been saved yet.
func (s *Store) LastConfiguration() (cfg shotlib.Configuration, ok bool, err error) {
	var value string
	err = s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, lastConfigKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("error: failed to load configuration: %w", err)
	}
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return cfg, false, fmt.Errorf("error: corrupt saved configuration: %w", err)
	}
	return cfg, true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
