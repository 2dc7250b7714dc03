package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"calibration-report/internal/storage"
)

// SaveHistory stores a finished report and drops the oldest entries beyond the
// configured limit.
func (s *Storage) SaveHistory(ctx context.Context, report storage.ReportDraft, totals storage.Totals) (*storage.HistoryEntry, error) {
	const op = "storage.mysql.SaveHistory"

	now := time.Now().UTC()
	entry := &storage.HistoryEntry{
		ID:      fmt.Sprintf("REPORT_%d_%s", now.UnixMilli(), uuid.NewString()[:8]),
		SavedAt: now,
		Report:  report,
		Totals:  totals,
	}

	reportJSON, err := json.Marshal(entry.Report)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal report: %w", op, err)
	}
	totalsJSON, err := json.Marshal(entry.Totals)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal totals: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO report_history (id, saved_at, report, totals) VALUES (?, ?, ?, ?)",
		entry.ID, entry.SavedAt, string(reportJSON), string(totalsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	if s.historyLimit > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM report_history
			WHERE seq NOT IN (
				SELECT seq FROM (
					SELECT seq FROM report_history ORDER BY seq DESC LIMIT ?
				) AS newest
			)`, s.historyLimit)
		if err != nil {
			return nil, fmt.Errorf("%s: trim: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return entry, nil
}

// ListHistory returns stored reports, newest first.
func (s *Storage) ListHistory(ctx context.Context) ([]storage.HistoryEntry, error) {
	const op = "storage.mysql.ListHistory"

	rows, err := s.db.QueryContext(ctx, "SELECT id, saved_at, report, totals FROM report_history ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	entries := []storage.HistoryEntry{}
	for rows.Next() {
		var (
			e          storage.HistoryEntry
			reportJSON string
			totalsJSON string
		)
		if err := rows.Scan(&e.ID, &e.SavedAt, &reportJSON, &totalsJSON); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if err := json.Unmarshal([]byte(reportJSON), &e.Report); err != nil {
			return nil, fmt.Errorf("%s: unmarshal report %s: %w", op, e.ID, err)
		}
		if err := json.Unmarshal([]byte(totalsJSON), &e.Totals); err != nil {
			return nil, fmt.Errorf("%s: unmarshal totals %s: %w", op, e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

func (s *Storage) ClearHistory(ctx context.Context) error {
	const op = "storage.mysql.ClearHistory"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM report_history"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
