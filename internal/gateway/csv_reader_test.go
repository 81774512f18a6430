package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
)

var consignmentHeader = []string{
	"id", "counterparty_id", "item_id", "dispatch_date", "sent_quantity", "unit", "packaging_type",
	"packaging_unit_weight_kg", "packaging_count", "price_per_unit", "processing_fee", "status", "remark",
}

const returnHeader = "id,consignment_id,return_date,shape,quantity,packaging_type,drum_unit_weight_grams,return_category,packaging_unit_weight_kg,packaging_count"

func TestCSVConsignmentReader_ReadConsignments(t *testing.T) {
	tests := []struct {
		name    string
		csvData [][]string
		check   func(t *testing.T, got []domain.Consignment)
		wantErr bool
	}{
		{
			name: "valid consignments",
			csvData: [][]string{
				consignmentHeader,
				{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "BAG", "0.5", "4", "10", "50", "", "first lot"},
				{"C-2", "JOBBER-7", "HANDLE", "2025-03-11", "250", "pc", "", "", "", "2.5", "", "completed", ""},
			},
			check: func(t *testing.T, got []domain.Consignment) {
				require.Len(t, got, 2)

				first := got[0]
				assert.Equal(t, "C-1", first.ID)
				assert.Equal(t, "JOBBER-7", first.CounterpartyID)
				assert.Equal(t, "BRASS-ROD", first.ItemID)
				assert.True(t, first.DispatchDate.Equal(mustParseDate("2025-03-10")))
				assert.Equal(t, "100", first.SentQuantity.String())
				assert.Equal(t, domain.UnitKG, first.Unit)
				require.NotNil(t, first.Packaging)
				assert.Equal(t, domain.PackagingBag, first.Packaging.Type)
				assert.Equal(t, "0.5", first.Packaging.UnitWeightKg.String())
				assert.Equal(t, 4, first.Packaging.Count)
				require.NotNil(t, first.ProcessingFee)
				assert.Equal(t, "50", first.ProcessingFee.String())
				assert.Equal(t, domain.StatusInProcess, first.Status)
				assert.Equal(t, "first lot", first.Remark)

				second := got[1]
				assert.Equal(t, domain.UnitPC, second.Unit)
				assert.Nil(t, second.Packaging)
				assert.Nil(t, second.ProcessingFee)
				assert.Equal(t, domain.StatusCompleted, second.Status)
			},
		},
		{
			name:    "empty file with header only",
			csvData: [][]string{consignmentHeader},
			check: func(t *testing.T, got []domain.Consignment) {
				assert.Empty(t, got)
			},
		},
		{
			name: "invalid sent quantity",
			csvData: [][]string{
				consignmentHeader,
				{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "lots", "KG", "", "", "", "10", "", "", ""},
			},
			wantErr: true,
		},
		{
			name: "invalid dispatch date",
			csvData: [][]string{
				consignmentHeader,
				{"C-1", "JOBBER-7", "BRASS-ROD", "10/03/2025", "100", "KG", "", "", "", "10", "", "", ""},
			},
			wantErr: true,
		},
		{
			name: "unknown status",
			csvData: [][]string{
				consignmentHeader,
				{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "LOST", ""},
			},
			wantErr: true,
		},
		{
			name: "packaging count is not a number",
			csvData: [][]string{
				consignmentHeader,
				{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "BAG", "0.5", "four", "10", "", "", ""},
			},
			wantErr: true,
		},
		{
			name: "wrong number of columns",
			csvData: [][]string{
				consignmentHeader,
				{"C-1", "JOBBER-7", "BRASS-ROD"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile, err := createTempCSV(tt.csvData)
			if err != nil {
				t.Fatalf("Failed to create temp CSV file: %v", err)
			}
			defer os.Remove(tmpFile)

			reader := NewCSVConsignmentReader()
			got, err := reader.ReadConsignments(context.Background(), tmpFile)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestCSVConsignmentReader_ReadConsignments_FileErrors(t *testing.T) {
	reader := NewCSVConsignmentReader()
	ctx := context.Background()

	t.Run("file not found", func(t *testing.T) {
		_, err := reader.ReadConsignments(ctx, "nonexistent_file.csv")
		assert.Error(t, err)
	})

	t.Run("file with no header", func(t *testing.T) {
		tmpFile, err := os.CreateTemp("", "empty_*.csv")
		if err != nil {
			t.Fatalf("Failed to create temp file: %v", err)
		}
		defer os.Remove(tmpFile.Name())
		tmpFile.Close()

		_, err = reader.ReadConsignments(ctx, tmpFile.Name())
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		tmpFile, err := createTempCSV([][]string{
			consignmentHeader,
			{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "", ""},
		})
		if err != nil {
			t.Fatalf("Failed to create temp CSV file: %v", err)
		}
		defer os.Remove(tmpFile)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = reader.ReadConsignments(cancelled, tmpFile)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCSVConsignmentReader_ReadReturns(t *testing.T) {
	tests := []struct {
		name      string
		filesData [][]string
		check     func(t *testing.T, got []domain.Return)
		wantErr   bool
	}{
		{
			name: "both shapes from a single file",
			filesData: [][]string{
				{
					returnHeader,
					"R-1,C-1,2025-03-20,ELEMENT_COUNT,3,DRUM,10000,TAYAR_MAAL,,",
					"R-2,C-2,2025-03-21,GROSS_WEIGHT,42.5,BAG,,,0.5,5",
				},
			},
			check: func(t *testing.T, got []domain.Return) {
				require.Len(t, got, 2)

				drum := got[0]
				assert.Equal(t, domain.ShapeElementCount, drum.Shape())
				assert.Equal(t, "C-1", drum.ConsignmentID)
				assert.True(t, drum.ReturnDate.Equal(mustParseDate("2025-03-20")))
				assert.Equal(t, "3", drum.ElementCount.ElementCount.String())
				assert.Equal(t, domain.PackagingDrum, drum.ElementCount.PackagingType)
				require.NotNil(t, drum.ElementCount.DrumUnitWeightGrams)
				assert.Equal(t, "10000", drum.ElementCount.DrumUnitWeightGrams.String())
				assert.Equal(t, domain.CategoryTayarMaal, drum.ElementCount.Category)

				gross := got[1]
				assert.Equal(t, domain.ShapeGrossWeight, gross.Shape())
				assert.Equal(t, "42.5", gross.GrossWeight.GrossQuantity.String())
				assert.Equal(t, domain.PackagingBag, gross.GrossWeight.Packaging.Type)
				assert.Equal(t, "0.5", gross.GrossWeight.Packaging.UnitWeightKg.String())
				assert.Equal(t, 5, gross.GrossWeight.Packaging.Count)
			},
		},
		{
			name: "returns from multiple files",
			filesData: [][]string{
				{returnHeader, "R-1,C-1,2025-03-20,ELEMENT_COUNT,12,BAG,,MAAL,,"},
				{returnHeader, "R-2,C-2,2025-03-22,ELEMENT_COUNT,4,FOAM,,CHHOL,,"},
			},
			check: func(t *testing.T, got []domain.Return) {
				require.Len(t, got, 2)
				assert.Equal(t, "R-1", got[0].ID)
				assert.Equal(t, "R-2", got[1].ID)
				assert.Nil(t, got[0].ElementCount.DrumUnitWeightGrams)
			},
		},
		{
			name:      "empty files with headers only",
			filesData: [][]string{{returnHeader}, {returnHeader}},
			check: func(t *testing.T, got []domain.Return) {
				assert.Empty(t, got)
			},
		},
		{
			name:      "unknown shape",
			filesData: [][]string{{returnHeader, "R-1,C-1,2025-03-20,BY_VOLUME,3,BAG,,MAAL,,"}},
			wantErr:   true,
		},
		{
			name:      "invalid quantity",
			filesData: [][]string{{returnHeader, "R-1,C-1,2025-03-20,ELEMENT_COUNT,three,BAG,,MAAL,,"}},
			wantErr:   true,
		},
		{
			name:      "invalid return date",
			filesData: [][]string{{returnHeader, "R-1,C-1,yesterday,ELEMENT_COUNT,3,BAG,,MAAL,,"}},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tmpFiles []string
			for i, fileData := range tt.filesData {
				tmpFile, err := createTempCSVFromLines(t, fileData, fmt.Sprintf("returns_%d.csv", i))
				if err != nil {
					t.Fatalf("Failed to create temp CSV file %d: %v", i, err)
				}
				tmpFiles = append(tmpFiles, tmpFile)
			}

			reader := NewCSVConsignmentReader()
			got, err := reader.ReadReturns(context.Background(), tmpFiles)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestCSVConsignmentReader_ReadLedger(t *testing.T) {
	consignments, err := createTempCSV([][]string{
		consignmentHeader,
		{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "", ""},
		{"C-2", "JOBBER-7", "HANDLE", "2025-03-11", "40", "KG", "", "", "", "5", "", "", ""},
	})
	if err != nil {
		t.Fatalf("Failed to create temp CSV file: %v", err)
	}
	defer os.Remove(consignments)

	reader := NewCSVConsignmentReader()
	ctx := context.Background()

	t.Run("returns are attached to their consignment", func(t *testing.T) {
		returns, err := createTempCSVFromLines(t, []string{
			returnHeader,
			"R-1,C-2,2025-03-20,ELEMENT_COUNT,12,BAG,,MAAL,,",
		}, "ledger_returns.csv")
		require.NoError(t, err)

		got, err := reader.ReadLedger(ctx, consignments, []string{returns}, engine.SingleReturn)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Empty(t, got[0].Returns)
		require.Len(t, got[1].Returns, 1)
		assert.Equal(t, "R-1", got[1].Returns[0].ID)
	})

	t.Run("return for an unknown consignment", func(t *testing.T) {
		returns, err := createTempCSVFromLines(t, []string{
			returnHeader,
			"R-1,C-9,2025-03-20,ELEMENT_COUNT,12,BAG,,MAAL,,",
		}, "orphan_returns.csv")
		require.NoError(t, err)

		_, err = reader.ReadLedger(ctx, consignments, []string{returns}, engine.SingleReturn)
		assert.ErrorContains(t, err, "unknown consignment C-9")
	})

	t.Run("duplicate consignment id", func(t *testing.T) {
		dup, err := createTempCSV([][]string{
			consignmentHeader,
			{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "", ""},
			{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-12", "100", "KG", "", "", "", "10", "", "", ""},
		})
		require.NoError(t, err)
		defer os.Remove(dup)

		_, err = reader.ReadLedger(ctx, dup, nil, engine.SingleReturn)
		assert.ErrorContains(t, err, "duplicate consignment id C-1")
	})

	t.Run("status is applied after the returns", func(t *testing.T) {
		completed, err := createTempCSV([][]string{
			consignmentHeader,
			{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "COMPLETED", ""},
		})
		require.NoError(t, err)
		defer os.Remove(completed)
		returns, err := createTempCSVFromLines(t, []string{
			returnHeader,
			"R-1,C-1,2025-03-20,GROSS_WEIGHT,42,BAG,,,0.5,4",
		}, "completed_returns.csv")
		require.NoError(t, err)

		got, err := reader.ReadLedger(ctx, completed, []string{returns}, engine.SingleReturn)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.StatusCompleted, got[0].Status)
		require.Len(t, got[0].Returns, 1)
		assert.Equal(t, "C-1", got[0].Returns[0].ConsignmentID)
	})
}

func TestCSVConsignmentReader_ReadLedgerRejectsRows(t *testing.T) {
	ctx := context.Background()
	reader := NewCSVConsignmentReader()

	goodConsignments, err := createTempCSV([][]string{
		consignmentHeader,
		{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "", ""},
	})
	require.NoError(t, err)
	defer os.Remove(goodConsignments)

	tests := []struct {
		name         string
		consignments [][]string
		returns      []string
		policy       engine.ReturnPolicy
		wantLine     string
		wantKind     domain.ErrorKind
		wantMsg      string
	}{
		{
			name: "negative sent quantity",
			consignments: [][]string{
				consignmentHeader,
				{"C-2", "JOBBER-7", "HANDLE", "2025-03-11", "-5", "KG", "", "", "", "5", "", "", ""},
			},
			wantLine: ":2:",
			wantKind: domain.ErrorKindInvalidQuantity,
			wantMsg:  "consignment C-2 rejected",
		},
		{
			name: "unknown unit",
			consignments: [][]string{
				consignmentHeader,
				{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "", ""},
				{"C-2", "JOBBER-7", "HANDLE", "2025-03-11", "5", "XX", "", "", "", "5", "", "", ""},
			},
			wantLine: ":3:",
			wantKind: domain.ErrorKindInvalidField,
			wantMsg:  "consignment C-2 rejected",
		},
		{
			name:     "over return",
			returns:  []string{returnHeader, "R-1,C-1,2025-03-20,GROSS_WEIGHT,150,BAG,,,0,0"},
			wantLine: ":2:",
			wantKind: domain.ErrorKindExceedsSent,
			wantMsg:  "return R-1 rejected",
		},
		{
			name:     "return before dispatch",
			returns:  []string{returnHeader, "R-1,C-1,2025-03-01,GROSS_WEIGHT,40,BAG,,,0,0"},
			wantLine: ":2:",
			wantKind: domain.ErrorKindReturnBeforeDispatch,
			wantMsg:  "return R-1 rejected",
		},
		{
			name: "second return under the single policy",
			returns: []string{
				returnHeader,
				"R-1,C-1,2025-03-20,GROSS_WEIGHT,40,BAG,,,0,0",
				"R-2,C-1,2025-03-21,GROSS_WEIGHT,10,BAG,,,0,0",
			},
			wantLine: ":3:",
			wantKind: domain.ErrorKindReturnAlreadyRecorded,
			wantMsg:  "return R-2 rejected",
		},
		{
			name: "returns together exceed sent under the multiple policy",
			returns: []string{
				returnHeader,
				"R-1,C-1,2025-03-20,GROSS_WEIGHT,60,BAG,,,0,0",
				"R-2,C-1,2025-03-21,GROSS_WEIGHT,60,BAG,,,0,0",
			},
			policy:   engine.MultipleReturns,
			wantLine: ":3:",
			wantKind: domain.ErrorKindExceedsSent,
			wantMsg:  "return R-2 rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consignments := goodConsignments
			if tt.consignments != nil {
				path, err := createTempCSV(tt.consignments)
				require.NoError(t, err)
				defer os.Remove(path)
				consignments = path
			}
			var returnPaths []string
			if tt.returns != nil {
				path, err := createTempCSVFromLines(t, tt.returns, "returns.csv")
				require.NoError(t, err)
				returnPaths = []string{path}
			}
			policy := tt.policy
			if policy == "" {
				policy = engine.SingleReturn
			}

			got, err := reader.ReadLedger(ctx, consignments, returnPaths, policy)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorContains(t, err, tt.wantMsg)

			file := consignments
			if tt.returns != nil {
				file = returnPaths[0]
			}
			assert.ErrorContains(t, err, file+tt.wantLine)

			var verrs domain.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.True(t, verrs.Has(tt.wantKind), "got kinds %v", verrs.Kinds())
		})
	}
}

func TestCSVConsignmentReader_ReadLedgerUsedStockStaysNonNegative(t *testing.T) {
	ctx := context.Background()
	consignments, err := createTempCSV([][]string{
		consignmentHeader,
		{"C-1", "JOBBER-7", "BRASS-ROD", "2025-03-10", "100", "KG", "", "", "", "10", "", "", ""},
	})
	require.NoError(t, err)
	defer os.Remove(consignments)
	returns, err := createTempCSVFromLines(t, []string{
		returnHeader,
		"R-1,C-1,2025-03-20,GROSS_WEIGHT,60,BAG,,,0,0",
		"R-2,C-1,2025-03-21,GROSS_WEIGHT,40,BAG,,,0,0",
	}, "full_returns.csv")
	require.NoError(t, err)

	got, err := NewCSVConsignmentReader().ReadLedger(ctx, consignments, []string{returns}, engine.MultipleReturns)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, engine.NetReturned(got[0]).Equal(got[0].SentQuantity))
	assert.True(t, engine.UsedQuantity(got[0].SentQuantity, engine.NetReturned(got[0])).IsZero())
}

// Helper functions

func createTempCSV(data [][]string) (string, error) {
	tmpFile, err := os.CreateTemp("", "test_*.csv")
	if err != nil {
		return "", err
	}

	writer := csv.NewWriter(tmpFile)
	for _, record := range data {
		if err := writer.Write(record); err != nil {
			tmpFile.Close()
			os.Remove(tmpFile.Name())
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", err
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}
	return tmpFile.Name(), nil
}

func createTempCSVFromLines(tb testing.TB, lines []string, filename string) (string, error) {
	tmpFile := filepath.Join(tb.TempDir(), filename)

	file, err := os.Create(tmpFile)
	if err != nil {
		return "", err
	}
	defer file.Close()

	for i, line := range lines {
		if i > 0 {
			file.WriteString("\n")
		}
		file.WriteString(line)
	}
	return tmpFile, nil
}

func mustParseDate(dateStr string) time.Time {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// Benchmark tests

func BenchmarkReadConsignments(b *testing.B) {
	data := [][]string{consignmentHeader}
	for i := 0; i < 1000; i++ {
		data = append(data, []string{
			fmt.Sprintf("C-%d", i), "JOBBER-7", "BRASS-ROD", "2025-03-10", "100.5", "KG", "BAG", "0.5", "4", "10", "", "", "",
		})
	}

	tmpFile, err := createTempCSV(data)
	if err != nil {
		b.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile)

	reader := NewCSVConsignmentReader()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reader.ReadConsignments(ctx, tmpFile); err != nil {
			b.Fatalf("Error in benchmark: %v", err)
		}
	}
}

func BenchmarkReadReturns(b *testing.B) {
	lines := []string{returnHeader}
	for i := 0; i < 1000; i++ {
		lines = append(lines, fmt.Sprintf("R-%d,C-1,2025-03-20,GROSS_WEIGHT,42.5,BAG,,,0.5,5", i))
	}

	tmpFile, err := createTempCSVFromLines(b, lines, "benchmark.csv")
	if err != nil {
		b.Fatalf("Failed to create temp file: %v", err)
	}

	reader := NewCSVConsignmentReader()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reader.ReadReturns(ctx, []string{tmpFile}); err != nil {
			b.Fatalf("Error in benchmark: %v", err)
		}
	}
}
