// Package storage keeps the report run archive: one row per generated
// report, so scheduled jobs leave an auditable trail beyond the artifact
// files themselves. API payloads are never persisted here.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ReportRun is one archived report generation.
type ReportRun struct {
	ID              string
	GeneratedAt     time.Time
	StartDate       string
	EndDate         string
	CategoryID      string
	AccountID       string
	TxnCount        int
	TotalMilliunits int64
	CSVPath         string
	XLSXPath        string
	PDFPath         string
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordRun archives a completed report generation.
func (r *SQLiteRepository) RecordRun(ctx context.Context, run ReportRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_runs (
			id, generated_at, start_date, end_date, category_id, account_id,
			txn_count, total_milliunits, csv_path, xlsx_path, pdf_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.GeneratedAt.UTC(), run.StartDate, run.EndDate,
		run.CategoryID, run.AccountID, run.TxnCount, run.TotalMilliunits,
		run.CSVPath, run.XLSXPath, run.PDFPath,
	)
	if err != nil {
		return fmt.Errorf("insert report run: %w", err)
	}

	slog.InfoContext(ctx, "Report run archived",
		"component", "storage",
		"run_id", run.ID,
		"txn_count", run.TxnCount,
		"total_milliunits", run.TotalMilliunits)
	return nil
}

// RecentRuns lists the most recently generated reports, newest first.
func (r *SQLiteRepository) RecentRuns(ctx context.Context, limit int) ([]ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, generated_at, start_date, end_date, category_id, account_id,
		       txn_count, total_milliunits, csv_path, xlsx_path, pdf_path
		FROM report_runs
		ORDER BY generated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer rows.Close()

	var runs []ReportRun
	for rows.Next() {
		var run ReportRun
		if err := rows.Scan(
			&run.ID, &run.GeneratedAt, &run.StartDate, &run.EndDate,
			&run.CategoryID, &run.AccountID, &run.TxnCount, &run.TotalMilliunits,
			&run.CSVPath, &run.XLSXPath, &run.PDFPath,
		); err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report runs: %w", err)
	}

	return runs, nil
}
