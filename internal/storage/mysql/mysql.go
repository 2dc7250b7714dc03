package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"calibration-report/internal/config"
)

type Storage struct {
	db           *sql.DB
	historyLimit int
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	db, err := sql.Open("mysql", cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db, historyLimit: cfg.History.Limit}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS report_draft (
		slot     TINYINT     NOT NULL PRIMARY KEY,
		data     JSON        NOT NULL,
		version  VARCHAR(16) NOT NULL,
		saved_at DATETIME(3) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS report_history (
		seq      BIGINT      NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id       VARCHAR(64) NOT NULL UNIQUE,
		saved_at DATETIME(3) NOT NULL,
		report   JSON        NOT NULL,
		totals   JSON        NOT NULL,
		INDEX idx_report_history_saved_at (saved_at)
	)`,
}

// Migrate creates the tables if they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.mysql.Migrate"

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
