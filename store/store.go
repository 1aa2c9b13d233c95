// Package store persists formed families to SQLite.
//
// Schema:
//
//	runs(id, seed, attempt, created_at)
//	families(run_id, family_id, type)
//	members(run_id, family_id, position, person_id, status, sex, age, age_min, age_max)
//
// A run is written in one transaction; a failure leaves nothing behind.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	seed       INTEGER NOT NULL,
	attempt    INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS families (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	family_id INTEGER NOT NULL,
	type      TEXT NOT NULL,
	PRIMARY KEY (run_id, family_id)
);
CREATE TABLE IF NOT EXISTS members (
	run_id    TEXT NOT NULL,
	family_id INTEGER NOT NULL,
	position  INTEGER NOT NULL,
	person_id INTEGER NOT NULL,
	status    TEXT NOT NULL,
	sex       TEXT NOT NULL,
	age       INTEGER NOT NULL,
	age_min   INTEGER NOT NULL,
	age_max   INTEGER NOT NULL,
	PRIMARY KEY (run_id, family_id, position),
	FOREIGN KEY (run_id, family_id) REFERENCES families(run_id, family_id) ON DELETE CASCADE
);
`

// Run identifies one persisted synthesis run.
type Run struct {
	ID      string
	Seed    int64
	Attempt int
}

// Store wraps a *sql.DB.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// New wraps an open database. It does not migrate.
func New(db *sql.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: logger.OrNop(log)}
}

// Open opens (or creates) the SQLite database at path and migrates it.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, log *zap.SugaredLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %s", path)
	}
	// One connection: SQLite serialises writers and :memory: is per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "store: enable foreign keys")
	}
	s := New(db, log)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.log.Debugw("store opened", logger.FieldPath, path)
	return s, nil
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "store: migrate")
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveFamilies writes the run and its families in one transaction.
func (s *Store) SaveFamilies(ctx context.Context, run Run, fams []*family.Family) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "store: begin")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.WithSecondaryError(err, rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, attempt, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Seed, run.Attempt, time.Now().UTC(),
	); err != nil {
		return errors.Wrapf(err, "store: insert run %s", run.ID)
	}

	for _, f := range fams {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO families (run_id, family_id, type) VALUES (?, ?, ?)`,
			run.ID, uint64(f.ID), f.Type.String(),
		); err != nil {
			return errors.Wrapf(err, "store: insert family %d", f.ID)
		}
		for pos, m := range f.Members() {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO members (run_id, family_id, position, person_id, status, sex, age, age_min, age_max)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, uint64(f.ID), pos, uint64(m.ID), m.Status.String(), m.Sex.String(),
				m.Age, m.AgeRange.Min, m.AgeRange.Max,
			); err != nil {
				return errors.Wrapf(err, "store: insert member %s of family %d", m.ID, f.ID)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "store: commit")
	}
	s.log.Infow("run saved", logger.FieldRunID, run.ID, logger.FieldCount, len(fams))
	return nil
}

// CountFamilies returns the number of stored families per type for a run.
func (s *Store) CountFamilies(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM families WHERE run_id = ? GROUP BY type`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "store: count families")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, errors.Wrap(err, "store: scan family count")
		}
		out[typ] = n
	}
	return out, errors.Wrap(rows.Err(), "store: iterate family counts")
}

// CountMembers returns the number of stored members for a run.
func (s *Store) CountMembers(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "store: count members")
	}
	return n, nil
}
