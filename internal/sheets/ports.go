package sheets

import (
	"context"

	"redflag/internal/core"
)

// ReportPublisher mirrors a generated report into a shared spreadsheet
// so dashboard collaborators see the latest flagged set without touching
// the artifact files.
type ReportPublisher interface {
	PublishReport(ctx context.Context, runID string, txns []core.Transaction, total core.Milliunits) error
}
