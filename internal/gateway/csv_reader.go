package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
)

const dateLayout = "2006-01-02"

// Column layout of the consignments CSV:
// id,counterparty_id,item_id,dispatch_date,sent_quantity,unit,packaging_type,
// packaging_unit_weight_kg,packaging_count,price_per_unit,processing_fee,status,remark
const consignmentColumns = 13

// Column layout of the returns CSV:
// id,consignment_id,return_date,shape,quantity,packaging_type,
// drum_unit_weight_grams,return_category,packaging_unit_weight_kg,packaging_count
// quantity is the element count or the gross return quantity depending on shape.
const returnColumns = 10

// CSVConsignmentReader loads consignment and return ledgers from CSV files.
type CSVConsignmentReader struct{}

// NewCSVConsignmentReader creates a new reader instance.
func NewCSVConsignmentReader() *CSVConsignmentReader {
	return &CSVConsignmentReader{}
}

// ReadConsignments reads and parses a consignments CSV file.
func (r *CSVConsignmentReader) ReadConsignments(ctx context.Context, path string) ([]domain.Consignment, error) {
	var consignments []domain.Consignment
	err := readRecords(ctx, path, consignmentColumns, func(record []string) error {
		c, err := parseConsignment(record)
		if err != nil {
			return err
		}
		consignments = append(consignments, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consignments, nil
}

// ReadReturns reads and parses one or more returns CSV files.
func (r *CSVConsignmentReader) ReadReturns(ctx context.Context, paths []string) ([]domain.Return, error) {
	var returns []domain.Return
	for _, path := range paths {
		err := readRecords(ctx, path, returnColumns, func(record []string) error {
			ret, err := parseReturn(record)
			if err != nil {
				return err
			}
			returns = append(returns, ret)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return returns, nil
}

// ReadLedger loads a ledger through the same rules the service applies.
// Each consignment is rebuilt with engine.NewConsignment and every return is
// replayed in file order with engine.ApplyReturn under the given policy.
// The status column is applied once all returns are attached, so a
// COMPLETED row may carry the returns that preceded its completion.
// The first rejected row stops the load with an error naming its file and line.
func (r *CSVConsignmentReader) ReadLedger(ctx context.Context, consignmentsPath string, returnPaths []string, policy engine.ReturnPolicy) ([]domain.Consignment, error) {
	opts := engine.Options{Policy: policy}

	var (
		consignments []domain.Consignment
		statuses     []domain.Status
	)
	index := make(map[string]int)
	err := readRecords(ctx, consignmentsPath, consignmentColumns, func(record []string) error {
		parsed, err := parseConsignment(record)
		if err != nil {
			return err
		}
		if _, dup := index[parsed.ID]; dup {
			return fmt.Errorf("duplicate consignment id %s", parsed.ID)
		}
		c, err := engine.NewConsignment(consignmentInput(parsed))
		if err != nil {
			return fmt.Errorf("consignment %s rejected: %w", parsed.ID, err)
		}
		index[c.ID] = len(consignments)
		consignments = append(consignments, c)
		statuses = append(statuses, parsed.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, path := range returnPaths {
		err := readRecords(ctx, path, returnColumns, func(record []string) error {
			ret, err := parseReturn(record)
			if err != nil {
				return err
			}
			if ret.ID != "" {
				if _, dup := seen[ret.ID]; dup {
					return fmt.Errorf("duplicate return id %s", ret.ID)
				}
				seen[ret.ID] = struct{}{}
			}
			i, ok := index[ret.ConsignmentID]
			if !ok {
				return fmt.Errorf("return %s references unknown consignment %s", ret.ID, ret.ConsignmentID)
			}
			applied, err := engine.ApplyReturn(consignments[i], ret, opts)
			if err != nil {
				return fmt.Errorf("return %s rejected: %w", ret.ID, err)
			}
			consignments[i] = applied.Consignment
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for i := range consignments {
		consignments[i].Status = statuses[i]
	}
	return consignments, nil
}

func consignmentInput(c domain.Consignment) domain.ConsignmentInput {
	return domain.ConsignmentInput{
		ID:             c.ID,
		CounterpartyID: c.CounterpartyID,
		ItemID:         c.ItemID,
		DispatchDate:   c.DispatchDate,
		SentQuantity:   c.SentQuantity,
		Unit:           c.Unit,
		Packaging:      c.Packaging,
		PricePerUnit:   c.PricePerUnit,
		ProcessingFee:  c.ProcessingFee,
		Remark:         c.Remark,
	}
}

// readRecords calls fn for every data row. Errors from fn come back
// prefixed with path:line.
func readRecords(ctx context.Context, path string, columns int, fn func(record []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = columns
	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading record from %s: %w", path, err)
		}
		if err := fn(record); err != nil {
			line, _ := reader.FieldPos(0)
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}

func parseConsignment(record []string) (domain.Consignment, error) {
	dispatch, err := time.Parse(dateLayout, record[3])
	if err != nil {
		return domain.Consignment{}, fmt.Errorf("could not parse dispatch_date '%s': %w", record[3], err)
	}
	sent, err := parseDecimal("sent_quantity", record[4])
	if err != nil {
		return domain.Consignment{}, err
	}
	packaging, err := parsePackaging(record[6], record[7], record[8])
	if err != nil {
		return domain.Consignment{}, err
	}
	price, err := parseDecimal("price_per_unit", record[9])
	if err != nil {
		return domain.Consignment{}, err
	}
	fee, err := parseOptionalDecimal("processing_fee", record[10])
	if err != nil {
		return domain.Consignment{}, err
	}
	status := domain.Status(strings.ToUpper(strings.TrimSpace(record[11])))
	if status == "" {
		status = domain.StatusInProcess
	}
	if !status.IsValid() {
		return domain.Consignment{}, fmt.Errorf("unknown status '%s'", record[11])
	}

	return domain.Consignment{
		ID:             record[0],
		CounterpartyID: record[1],
		ItemID:         record[2],
		DispatchDate:   dispatch,
		SentQuantity:   sent,
		Unit:           domain.Unit(strings.ToUpper(strings.TrimSpace(record[5]))),
		Packaging:      packaging,
		PricePerUnit:   price,
		ProcessingFee:  fee,
		Status:         status,
		Remark:         record[12],
	}, nil
}

func parseReturn(record []string) (domain.Return, error) {
	returnDate, err := time.Parse(dateLayout, record[2])
	if err != nil {
		return domain.Return{}, fmt.Errorf("could not parse return_date '%s': %w", record[2], err)
	}
	qty, err := parseDecimal("quantity", record[4])
	if err != nil {
		return domain.Return{}, err
	}
	packagingType := domain.PackagingType(strings.ToUpper(strings.TrimSpace(record[5])))

	ret := domain.Return{
		ID:            record[0],
		ConsignmentID: record[1],
		ReturnDate:    returnDate,
	}
	switch domain.ReturnShape(strings.ToUpper(strings.TrimSpace(record[3]))) {
	case domain.ShapeElementCount:
		grams, err := parseOptionalDecimal("drum_unit_weight_grams", record[6])
		if err != nil {
			return domain.Return{}, err
		}
		ret.ElementCount = &domain.ElementCountReturn{
			ElementCount:        qty,
			PackagingType:       packagingType,
			DrumUnitWeightGrams: grams,
			Category:            domain.ReturnCategory(strings.ToUpper(strings.TrimSpace(record[7]))),
		}
	case domain.ShapeGrossWeight:
		packaging, err := parsePackaging(record[5], record[8], record[9])
		if err != nil {
			return domain.Return{}, err
		}
		gw := &domain.GrossWeightReturn{GrossQuantity: qty}
		if packaging != nil {
			gw.Packaging = *packaging
		}
		ret.GrossWeight = gw
	default:
		return domain.Return{}, fmt.Errorf("unknown return shape '%s'", record[3])
	}
	return ret, nil
}

func parsePackaging(kind, unitWeight, count string) (*domain.Packaging, error) {
	if strings.TrimSpace(kind) == "" {
		return nil, nil
	}
	weight, err := parseDecimal("packaging_unit_weight_kg", unitWeight)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return nil, fmt.Errorf("could not parse packaging_count '%s': %w", count, err)
	}
	return &domain.Packaging{
		Type:         domain.PackagingType(strings.ToUpper(strings.TrimSpace(kind))),
		UnitWeightKg: weight,
		Count:        n,
	}, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not parse %s '%s': %w", field, raw, err)
	}
	return d, nil
}

func parseOptionalDecimal(field, raw string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
