// Package worker generates report artifacts on a schedule and on demand.
// It is a thin consumer of the retrieval core: fetch, render, archive,
// announce. The core holds no timers; they all live here.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"redflag/internal/amqp"
	"redflag/internal/core"
	"redflag/internal/report"
	"redflag/internal/services"
	"redflag/internal/sheets"
	"redflag/internal/storage"
)

// Retriever is the retrieval core boundary (*services.FlaggedService).
type Retriever interface {
	RedFlagged(ctx context.Context, q services.Query, useCache bool) ([]core.Transaction, error)
}

// Archiver records completed runs (*storage.SQLiteRepository).
type Archiver interface {
	RecordRun(ctx context.Context, run storage.ReportRun) error
}

// Notifier announces completed runs (*amqp.Client).
type Notifier interface {
	PublishReportGenerated(ctx context.Context, msg *amqp.ReportGeneratedMessage) error
}

// ReportWorker owns one reports directory. Archive, publisher, and
// notifier are optional; a nil collaborator is skipped.
type ReportWorker struct {
	retriever  Retriever
	archive    Archiver
	publisher  sheets.ReportPublisher
	notifier   Notifier
	reportsDir string
}

func NewReportWorker(retriever Retriever, archive Archiver, publisher sheets.ReportPublisher, notifier Notifier, reportsDir string) *ReportWorker {
	return &ReportWorker{
		retriever:  retriever,
		archive:    archive,
		publisher:  publisher,
		notifier:   notifier,
		reportsDir: reportsDir,
	}
}

// Generate fetches the matching red-flagged set with guaranteed-fresh
// data, writes the requested artifacts, and records and announces the
// run. Formats is any subset of csv, xlsx, pdf; empty means all three.
func (w *ReportWorker) Generate(ctx context.Context, q services.Query, formats []string) (storage.ReportRun, error) {
	txns, err := w.retriever.RedFlagged(ctx, q, false)
	if err != nil {
		return storage.ReportRun{}, fmt.Errorf("retrieve transactions: %w", err)
	}

	rep := report.New(txns)
	runID := uuid.NewString()
	now := time.Now()

	paths, err := w.artifactPaths(formats, now)
	if err != nil {
		return storage.ReportRun{}, err
	}

	if err := rep.ExportAll(paths, report.OrderInput); err != nil {
		return storage.ReportRun{}, fmt.Errorf("export artifacts: %w", err)
	}

	run := storage.ReportRun{
		ID:              runID,
		GeneratedAt:     now,
		StartDate:       dateString(q.StartDate),
		EndDate:         dateString(q.EndDate),
		CategoryID:      q.CategoryID,
		AccountID:       q.AccountID,
		TxnCount:        rep.Count(),
		TotalMilliunits: int64(rep.TotalMilliunits()),
		CSVPath:         paths.CSV,
		XLSXPath:        paths.XLSX,
		PDFPath:         paths.PDF,
	}

	if w.archive != nil {
		if err := w.archive.RecordRun(ctx, run); err != nil {
			// The artifacts exist; a broken archive must not undo the run.
			slog.ErrorContext(ctx, "Failed to archive report run",
				"component", "worker",
				"run_id", runID,
				"error", err)
		}
	}

	if w.publisher != nil {
		if err := w.publisher.PublishReport(ctx, runID, txns, rep.TotalMilliunits()); err != nil {
			slog.ErrorContext(ctx, "Failed to publish report to spreadsheet",
				"component", "worker",
				"run_id", runID,
				"error", err)
		}
	}

	if w.notifier != nil {
		msg := &amqp.ReportGeneratedMessage{
			RunID:           runID,
			GeneratedAt:     now,
			TxnCount:        rep.Count(),
			TotalMilliunits: int64(rep.TotalMilliunits()),
			CSVPath:         paths.CSV,
			XLSXPath:        paths.XLSX,
			PDFPath:         paths.PDF,
		}
		if err := w.notifier.PublishReportGenerated(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish report event",
				"component", "worker",
				"run_id", runID,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Report generated",
		"component", "worker",
		"run_id", runID,
		"txn_count", rep.Count(),
		"total", rep.Total().StringFixed(2))

	return run, nil
}

// HandleRequestMessage serves an on-demand report request from the
// queue.
func (w *ReportWorker) HandleRequestMessage(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	q, err := queryFromMessage(msg)
	if err != nil {
		return fmt.Errorf("invalid report request: %w", err)
	}

	_, err = w.Generate(ctx, q, msg.Formats)
	return err
}

// RunPeriodic generates a report over the trailing window every interval
// until the context ends. A failed cycle is logged and the loop keeps
// going; one bad cycle must not kill the schedule.
func (w *ReportWorker) RunPeriodic(ctx context.Context, interval time.Duration, windowDays int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Report schedule started",
		"component", "worker",
		"interval", interval,
		"window_days", windowDays)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Report schedule stopped", "reason", ctx.Err())
			return
		case <-ticker.C:
			q := trailingWindowQuery(time.Now(), windowDays)
			if _, err := w.Generate(ctx, q, nil); err != nil {
				slog.ErrorContext(ctx, "Scheduled report failed",
					"component", "worker",
					"error", err)
			}
		}
	}
}

func (w *ReportWorker) artifactPaths(formats []string, now time.Time) (report.ArtifactPaths, error) {
	if len(formats) == 0 {
		formats = []string{"csv", "xlsx", "pdf"}
	}

	stamp := now.Format("20060102_150405")
	var paths report.ArtifactPaths
	for _, format := range formats {
		name := filepath.Join(w.reportsDir, "red_flag_report_"+stamp+"."+format)
		switch format {
		case "csv":
			paths.CSV = name
		case "xlsx":
			paths.XLSX = name
		case "pdf":
			paths.PDF = name
		default:
			return report.ArtifactPaths{}, fmt.Errorf("unsupported report format %q", format)
		}
	}
	return paths, nil
}

func queryFromMessage(msg *amqp.ReportRequestMessage) (services.Query, error) {
	var q services.Query

	if msg.StartDate != "" {
		start, err := core.ParseDate(msg.StartDate)
		if err != nil {
			return q, fmt.Errorf("start date: %w", err)
		}
		q.StartDate = start
	}
	if msg.EndDate != "" {
		end, err := core.ParseDate(msg.EndDate)
		if err != nil {
			return q, fmt.Errorf("end date: %w", err)
		}
		q.EndDate = end
	}
	q.CategoryID = msg.CategoryID
	q.AccountID = msg.AccountID
	return q, nil
}

// dateString renders a query bound for archival, keeping an unset bound empty.
func dateString(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func trailingWindowQuery(now time.Time, windowDays int) services.Query {
	end := core.Date{Time: now.UTC().Truncate(24 * time.Hour)}
	start := core.Date{Time: end.AddDate(0, 0, -windowDays)}
	return services.Query{StartDate: start, EndDate: end}
}
