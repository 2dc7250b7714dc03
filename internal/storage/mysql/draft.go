package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"calibration-report/internal/storage"
)

// the draft is a single overwritable slot
const draftSlot = 1

func (s *Storage) SaveDraft(ctx context.Context, draft storage.Draft) error {
	const op = "storage.mysql.SaveDraft"

	data, err := json.Marshal(draft.Report)
	if err != nil {
		return fmt.Errorf("%s: marshal draft: %w", op, err)
	}

	stmt := `
		INSERT INTO report_draft (slot, data, version, saved_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data), version = VALUES(version), saved_at = VALUES(saved_at)
	`
	if _, err := s.db.ExecContext(ctx, stmt, draftSlot, string(data), draft.Version, draft.SavedAt.UTC()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) LoadDraft(ctx context.Context) (*storage.Draft, error) {
	const op = "storage.mysql.LoadDraft"

	var (
		draft    storage.Draft
		dataJSON string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT data, version, saved_at FROM report_draft WHERE slot = ?", draftSlot,
	).Scan(&dataJSON, &draft.Version, &draft.SavedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrDraftNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal([]byte(dataJSON), &draft.Report); err != nil {
		return nil, fmt.Errorf("%s: unmarshal draft: %w", op, err)
	}

	return &draft, nil
}

func (s *Storage) ClearDraft(ctx context.Context) error {
	const op = "storage.mysql.ClearDraft"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM report_draft WHERE slot = ?", draftSlot); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
