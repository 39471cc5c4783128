// Package memory is an in-process ReportPublisher used in tests and when
// no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"redflag/internal/core"
)

// PublishedReport is one captured publish call.
type PublishedReport struct {
	RunID        string
	Transactions []core.Transaction
	Total        core.Milliunits
}

type Publisher struct {
	mu      sync.Mutex
	reports []PublishedReport
}

func New() *Publisher {
	return &Publisher{}
}

func (p *Publisher) PublishReport(_ context.Context, runID string, txns []core.Transaction, total core.Milliunits) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]core.Transaction, len(txns))
	copy(copied, txns)
	p.reports = append(p.reports, PublishedReport{
		RunID:        runID,
		Transactions: copied,
		Total:        total,
	})
	return nil
}

// Reports returns the captured publishes in order.
func (p *Publisher) Reports() []PublishedReport {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]PublishedReport, len(p.reports))
	copy(out, p.reports)
	return out
}
