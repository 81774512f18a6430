package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is the read-only projection of one consignment and its returns.
type ReportRow struct {
	ConsignmentID  string          `json:"consignment_id"`
	CounterpartyID string          `json:"counterparty_id"`
	ItemID         string          `json:"item_id"`
	DispatchDate   time.Time       `json:"dispatch_date"`
	Status         Status          `json:"status"`
	SentStock      decimal.Decimal `json:"sent_stock"`
	ReturnStock    decimal.Decimal `json:"return_stock"`
	UsedStock      decimal.Decimal `json:"used_stock"`
	NetWeight      decimal.Decimal `json:"net_weight"`
	GrossWeight    decimal.Decimal `json:"gross_weight"`
	TotalJobPay    decimal.Decimal `json:"total_job_pay"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// Summary provides high-level statistics of the reconciliation run.
type Summary struct {
	CounterpartyID        string `json:"counterparty_id"`
	TimeframeStart        string `json:"timeframe_start"`
	TimeframeEnd          string `json:"timeframe_end"`
	ConsignmentsProcessed int    `json:"consignments_processed"`
	ReturnsRecorded       int    `json:"returns_recorded"`
}

// ReconciliationReport is the top-level structure for report output.
type ReconciliationReport struct {
	ReconciliationSummary Summary         `json:"reconciliation_summary"`
	TotalSentStock        decimal.Decimal `json:"total_sent_stock"`
	TotalReturnStock      decimal.Decimal `json:"total_return_stock"`
	TotalUsed             decimal.Decimal `json:"total_used"`
	TotalPaidRs           decimal.Decimal `json:"total_paid_rs"`
	Rows                  []ReportRow     `json:"rows"`
}

// Rounded returns a copy with every quantity rounded for display.
func (r ReconciliationReport) Rounded() ReconciliationReport {
	out := r
	out.TotalSentStock = Display(r.TotalSentStock)
	out.TotalReturnStock = Display(r.TotalReturnStock)
	out.TotalUsed = Display(r.TotalUsed)
	out.TotalPaidRs = Display(r.TotalPaidRs)
	out.Rows = make([]ReportRow, len(r.Rows))
	for i, row := range r.Rows {
		row.SentStock = Display(row.SentStock)
		row.ReturnStock = Display(row.ReturnStock)
		row.UsedStock = Display(row.UsedStock)
		row.NetWeight = Display(row.NetWeight)
		row.GrossWeight = Display(row.GrossWeight)
		row.TotalJobPay = Display(row.TotalJobPay)
		row.TotalAmount = Display(row.TotalAmount)
		out.Rows[i] = row
	}
	return out
}
