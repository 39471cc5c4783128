package memory

import (
	"context"
	"testing"

	"redflag/internal/core"
)

func TestPublisher_CapturesReports(t *testing.T) {
	p := New()
	txns := []core.Transaction{
		{ID: "t1", Date: core.NewDate(2024, 1, 5), Amount: -50000, Flag: core.FlagRed},
	}

	if err := p.PublishReport(context.Background(), "run-1", txns, -50000); err != nil {
		t.Fatalf("PublishReport returned error: %v", err)
	}

	reports := p.Reports()
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	if reports[0].RunID != "run-1" || reports[0].Total != -50000 {
		t.Errorf("got %+v", reports[0])
	}

	// The publisher holds its own copy.
	txns[0].Amount = 0
	if p.Reports()[0].Transactions[0].Amount != -50000 {
		t.Error("published transactions must be isolated from the caller's slice")
	}
}

func TestPublisher_EmptyReport(t *testing.T) {
	p := New()
	if err := p.PublishReport(context.Background(), "run-2", nil, 0); err != nil {
		t.Fatalf("PublishReport returned error: %v", err)
	}
	if len(p.Reports()[0].Transactions) != 0 {
		t.Error("expected empty transaction list")
	}
}
