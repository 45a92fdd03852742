package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportRecord is one document written by an export run.
type ExportRecord struct {
	ID        string
	RunID     string
	Dataset   string
	Format    string
	Target    string
	Bytes     int64
	Error     string
	CreatedAt time.Time
}

// ExportLog persists export history.
type ExportLog struct {
	db *DB
}

// NewExportLog creates an export log over db.
func NewExportLog(db *DB) *ExportLog {
	return &ExportLog{db: db}
}

// Record stores entries of one run in a single transaction. Missing ids and
// timestamps are filled in.
func (l *ExportLog) Record(entries []ExportRecord) error {
	return l.db.WithTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO export_log (id, run_id, dataset, format, target, bytes, error, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare export insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = time.Now()
			}
			var errText sql.NullString
			if e.Error != "" {
				errText = sql.NullString{String: e.Error, Valid: true}
			}
			if _, err := stmt.Exec(e.ID, e.RunID, e.Dataset, e.Format, e.Target, e.Bytes, errText,
				formatTime(e.CreatedAt)); err != nil {
				return fmt.Errorf("failed to record export: %w", err)
			}
		}
		return nil
	})
}

// Run returns the entries of one export run ordered by dataset and format.
func (l *ExportLog) Run(runID string) ([]ExportRecord, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, dataset, format, target, bytes, error, created_at
		FROM export_log
		WHERE run_id = ?
		ORDER BY dataset, format
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query export log: %w", err)
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var e ExportRecord
		var errText sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Dataset, &e.Format, &e.Target, &e.Bytes, &errText, &createdAt); err != nil {
			return nil, err
		}
		e.Error = errText.String
		if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at format: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
