// Package frontier persists enumeration results. Each enumeration run is
// keyed by a generated run ID; entries store the textual program form and
// its log-likelihood, nothing more.
package frontier

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS frontier (
	run_id         TEXT NOT NULL,
	request        TEXT NOT NULL,
	program        TEXT NOT NULL,
	log_likelihood REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS frontier_run ON frontier (run_id, log_likelihood DESC);
`

// Entry is one stored result.
type Entry struct {
	Program       string
	LogLikelihood float64
}

// Store is a SQLite-backed frontier database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the frontier database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening frontier %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "initializing frontier %s", path)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewRunID returns a fresh identifier for one enumeration run.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun stores the entries of one run in a single transaction.
func (s *Store) SaveRun(runID, request string, entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning frontier transaction")
	}
	stmt, err := tx.Prepare("INSERT INTO frontier (run_id, request, program, log_likelihood) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "preparing frontier insert")
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(runID, request, e.Program, e.LogLikelihood); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "storing %s", e.Program)
		}
	}
	return errors.Wrap(tx.Commit(), "committing frontier run")
}

// TopK returns the k most likely entries of a run, most likely first.
func (s *Store) TopK(runID string, k int) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT program, log_likelihood FROM frontier WHERE run_id = ? ORDER BY log_likelihood DESC LIMIT ?",
		runID, k)
	if err != nil {
		return nil, errors.Wrapf(err, "querying run %s", runID)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Program, &e.LogLikelihood); err != nil {
			return nil, errors.Wrap(err, "scanning frontier entry")
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "reading frontier entries")
}
