package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	total       INTEGER NOT NULL DEFAULT 0,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0,
	invalid     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS email_results (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	email_id       TEXT NOT NULL,
	success        INTEGER NOT NULL,
	classification TEXT,
	response_sent  INTEGER NOT NULL,
	error          TEXT,
	processed_at   TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT,
	email_id    TEXT NOT NULL,
	stage       TEXT NOT NULL,
	decision    TEXT NOT NULL,
	reason      TEXT,
	detail_json TEXT,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tickets (
	ticket_id  TEXT PRIMARY KEY,
	email_id   TEXT NOT NULL,
	kind       TEXT NOT NULL,
	category   TEXT,
	context    TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outbound_responses (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	email_id   TEXT NOT NULL,
	kind       TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS customer_feedback (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	email_id   TEXT NOT NULL,
	feedback   TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists runs, per-email results and downstream actions in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// :memory: databases are per-connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close


// #region runs
// StartRun inserts a new run row with a fresh id.
func (s *Store) StartRun(source string, startedAt time.Time) (Run, error) {
	run := Run{
		RunID:     uuid.New().String(),
		Source:    source,
		StartedAt: startedAt.UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, source, started_at) VALUES (?, ?, ?)`,
		run.RunID, run.Source, formatTime(run.StartedAt),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stores the final totals of a run.
func (s *Store) FinishRun(runID string, totals RunTotals, finishedAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, total = ?, succeeded = ?, failed = ?, invalid = ?
		 WHERE run_id = ?`,
		formatTime(finishedAt),
		totals.Total, totals.Succeeded, totals.Failed, totals.Invalid,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(runID string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, source, started_at, finished_at, total, succeeded, failed, invalid
		 FROM runs WHERE run_id = ?`, runID,
	)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, source, started_at, finished_at, total, succeeded, failed, invalid
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var startedStr string
	var finishedStr sql.NullString
	err := sc.Scan(&run.RunID, &run.Source, &startedStr, &finishedStr,
		&run.Totals.Total, &run.Totals.Succeeded, &run.Totals.Failed, &run.Totals.Invalid)
	if err != nil {
		return Run{}, err
	}
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	if finishedStr.Valid {
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedStr.String)
	}
	return run, nil
}

// #endregion runs

// #region results
// RecordResult inserts one processed email.
func (s *Store) RecordResult(rec ResultRecord) error {
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO email_results (run_id, email_id, success, classification, response_sent, error, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.EmailID, rec.Success, nullIfEmpty(rec.Classification),
		rec.ResponseSent, nullIfEmpty(rec.Error), formatTime(rec.ProcessedAt),
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", rec.EmailID, err)
	}
	return nil
}

// ListResults returns the results of a run in processing order.
func (s *Store) ListResults(runID string) ([]ResultRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, email_id, success, classification, response_sent, error, processed_at
		 FROM email_results WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		var classification, errStr sql.NullString
		var processedStr string
		if err := rows.Scan(&rec.RunID, &rec.EmailID, &rec.Success, &classification,
			&rec.ResponseSent, &errStr, &processedStr); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Classification = classification.String
		rec.Error = errStr.String
		rec.ProcessedAt, _ = time.Parse(time.RFC3339Nano, processedStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion results

// #region helpers
// dsn enables foreign keys on every pooled connection, not just the first.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// timeLayout is fixed-width so stored timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
