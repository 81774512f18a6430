package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
)

// Project builds the report row for one consignment and its returns.
func Project(c domain.Consignment) domain.ReportRow {
	returned := NetReturned(c)
	return domain.ReportRow{
		ConsignmentID:  c.ID,
		CounterpartyID: c.CounterpartyID,
		ItemID:         c.ItemID,
		DispatchDate:   c.DispatchDate,
		Status:         c.Status,
		SentStock:      c.SentQuantity,
		ReturnStock:    returned,
		UsedStock:      UsedQuantity(c.SentQuantity, returned),
		NetWeight:      c.SentQuantity,
		GrossWeight:    GrossWeight(c),
		TotalJobPay:    c.JobPay(),
		TotalAmount:    c.TotalAmount(),
	}
}

// Summarize folds consignments into report totals. The totals are plain
// sums and rows are sorted by dispatch date then id, so the input order
// never changes the result.
func Summarize(rows []domain.Consignment) domain.ReconciliationReport {
	report := domain.ReconciliationReport{
		TotalSentStock:   decimal.Zero,
		TotalReturnStock: decimal.Zero,
		TotalUsed:        decimal.Zero,
		TotalPaidRs:      decimal.Zero,
		Rows:             make([]domain.ReportRow, 0, len(rows)),
	}

	for _, c := range rows {
		row := Project(c)
		report.TotalSentStock = report.TotalSentStock.Add(row.SentStock)
		report.TotalReturnStock = report.TotalReturnStock.Add(row.ReturnStock)
		report.TotalUsed = report.TotalUsed.Add(row.UsedStock)
		report.TotalPaidRs = report.TotalPaidRs.Add(row.TotalAmount)
		report.ReconciliationSummary.ReturnsRecorded += len(c.Returns)
		report.Rows = append(report.Rows, row)
	}
	report.ReconciliationSummary.ConsignmentsProcessed = len(rows)

	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if !a.DispatchDate.Equal(b.DispatchDate) {
			return a.DispatchDate.Before(b.DispatchDate)
		}
		return a.ConsignmentID < b.ConsignmentID
	})
	return report
}

// FilterRows keeps consignments of counterpartyID dispatched between start
// and the end of the end day. An empty counterparty or zero bound matches all.
func FilterRows(consignments []domain.Consignment, counterpartyID string, start, end time.Time) []domain.Consignment {
	var filtered []domain.Consignment
	for _, c := range consignments {
		if InRange(c, domain.ListFilter{CounterpartyID: counterpartyID, Start: start, End: end}) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// InRange reports whether c matches the filter.
func InRange(c domain.Consignment, f domain.ListFilter) bool {
	if f.CounterpartyID != "" && c.CounterpartyID != f.CounterpartyID {
		return false
	}
	d := c.DispatchDate
	if !f.Start.IsZero() && d.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && !d.Before(f.End.Add(24*time.Hour)) {
		return false
	}
	return true
}
