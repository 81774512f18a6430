package usecase

import (
	"context"
	"fmt"
	"time"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
)

// Reconcile builds the reconciliation report for a counterparty over a
// dispatch date range. Zero dates leave that side of the range open.
func (uc *ConsignmentUseCase) Reconcile(ctx context.Context, counterpartyID string, start, end time.Time) (*domain.ReconciliationReport, error) {
	// Step 1: Data Ingestion
	consignments, err := uc.repo.ListConsignments(ctx, domain.ListFilter{
		CounterpartyID: counterpartyID,
		Start:          start,
		End:            end,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list consignments: %w", err)
	}

	// Step 2: Timeframe Filtering
	filtered := engine.FilterRows(consignments, counterpartyID, start, end)

	// Step 3: Fold
	report := engine.Summarize(filtered)
	report.ReconciliationSummary.CounterpartyID = counterpartyID
	report.ReconciliationSummary.TimeframeStart = formatDay(start)
	report.ReconciliationSummary.TimeframeEnd = formatDay(end)

	return &report, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
