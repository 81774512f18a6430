package gateway

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"stock-reconciliation/internal/domain"
)

const (
	reportSheet  = "Reconciliation"
	summarySheet = "Summary"
)

var reportHeadings = []string{
	"Consignment", "Counterparty", "Item", "Dispatch Date", "Status",
	"Sent Stock", "Return Stock", "Used Stock", "Net Weight", "Gross Weight",
	"Job Pay", "Total Amount",
}

// WriteReportXLSX renders the report as a workbook with one row per
// consignment and a summary sheet holding the totals.
func WriteReportXLSX(report domain.ReconciliationReport, w io.Writer) error {
	f, err := buildReportWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}

// SaveReportXLSX writes the report workbook to path.
func SaveReportXLSX(report domain.ReconciliationReport, path string) error {
	f, err := buildReportWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save workbook %s: %w", path, err)
	}
	return nil
}

func buildReportWorkbook(report domain.ReconciliationReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}

	// Add headers
	col := 'A'
	for _, h := range reportHeadings {
		f.SetCellValue(reportSheet, string(col)+"1", h)
		col++
	}

	// Add data
	for i, row := range report.Rows {
		values := []interface{}{
			row.ConsignmentID,
			row.CounterpartyID,
			row.ItemID,
			row.DispatchDate.Format(dateLayout),
			string(row.Status),
			cellQuantity(row.SentStock),
			cellQuantity(row.ReturnStock),
			cellQuantity(row.UsedStock),
			cellQuantity(row.NetWeight),
			cellQuantity(row.GrossWeight),
			cellQuantity(row.TotalJobPay),
			cellQuantity(row.TotalAmount),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	s := report.ReconciliationSummary
	summary := [][]interface{}{
		{"Counterparty", s.CounterpartyID},
		{"Timeframe Start", s.TimeframeStart},
		{"Timeframe End", s.TimeframeEnd},
		{"Consignments", s.ConsignmentsProcessed},
		{"Returns", s.ReturnsRecorded},
		{"Total Sent Stock", cellQuantity(report.TotalSentStock)},
		{"Total Return Stock", cellQuantity(report.TotalReturnStock)},
		{"Total Used", cellQuantity(report.TotalUsed)},
		{"Total Paid (Rs)", cellQuantity(report.TotalPaidRs)},
	}
	for i, pair := range summary {
		if err := f.SetSheetRow(summarySheet, "A"+fmt.Sprint(i+1), &pair); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func cellQuantity(q decimal.Decimal) float64 {
	return domain.Display(q).InexactFloat64()
}
