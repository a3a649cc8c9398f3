package store

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-decision
// LogDecision writes a provenance entry to the provenance_log table.
func LogDecision(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (run_id, email_id, stage, decision, reason, detail_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.RunID),
		entry.EmailID,
		entry.Stage,
		entry.Decision,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.DetailJSON),
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// LogDecision records a provenance entry in the store's database.
func (s *Store) LogDecision(entry ProvenanceEntry) error {
	return LogDecision(s.db, entry)
}

// #endregion log-decision

// #region list-decisions
// ListDecisions returns the provenance trail for one email within a run, oldest first.
func (s *Store) ListDecisions(runID, emailID string) ([]ProvenanceEntry, error) {
	rows, err := s.db.Query(
		`SELECT run_id, email_id, stage, decision, reason, detail_json, created_at
		 FROM provenance_log WHERE run_id = ? AND email_id = ? ORDER BY id`, runID, emailID,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []ProvenanceEntry
	for rows.Next() {
		var e ProvenanceEntry
		var run, reason, detail sql.NullString
		var createdStr string
		if err := rows.Scan(&run, &e.EmailID, &e.Stage, &e.Decision, &reason, &detail, &createdStr); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.RunID = run.String
		e.Reason = reason.String
		e.DetailJSON = detail.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-decisions
