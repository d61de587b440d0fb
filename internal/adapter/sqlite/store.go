// Package sqlite persists enriched AIS records to a SQLite database so runs
// can be queried without re-reading CSV output.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

const table = "enriched_ais"

// Store wraps a SQLite database holding the enriched_ais table.
// It implements pipeline.RecordSink.
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name identifies the sink in logs and metrics.
func (s *Store) Name() string { return "sqlite" }

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS enriched_ais (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		sourcemmsi INTEGER NOT NULL,
		t INTEGER NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		speedoverground REAL NOT NULL,
		courseoverground REAL,
		volume REAL,
		draught REAL,
		ocean_hs REAL,
		ocean_dir REAL,
		ocean_lm REAL,
		weather_wind_ID REAL,
		weather_Ff REAL,
		weather_P REAL,
		weather_T REAL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_enriched_ais_vessel ON enriched_ais(sourcemmsi, t);
	`
	_, err := db.Exec(schema)
	return err
}

// WriteRecords inserts the records of one run in a single transaction. seq is
// the record's position in the fact table.
func (s *Store) WriteRecords(ctx context.Context, runID string, records []domain.EnrichedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, insertStatement())
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		args := append([]any{runID, i}, rec.Row().Values()...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CountRows returns the number of rows stored for a run.
func (s *Store) CountRows(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enriched_ais WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func insertStatement() string {
	cols := append([]string{"run_id", "seq"}, domain.OutputColumns...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)
}
