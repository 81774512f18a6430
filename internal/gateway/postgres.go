package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresRepository stores consignments and their returns in PostgreSQL.
type PostgresRepository struct {
	DB     *sql.DB
	policy engine.ReturnPolicy
}

func NewPostgresRepository(db *sql.DB, policy engine.ReturnPolicy) *PostgresRepository {
	return &PostgresRepository{DB: db, policy: policy}
}

// ------------------------ Helper Functions ------------------------

const consignmentColumnsSQL = `id, counterparty_id, item_id, dispatch_date, sent_quantity, unit,
	packaging_type, packaging_unit_weight_kg, packaging_count,
	price_per_unit, processing_fee, status, remark`

const returnColumnsSQL = `id, consignment_id, return_date, shape, element_count, packaging_type,
	drum_unit_weight_grams, return_category, gross_return_quantity,
	packaging_unit_weight_kg, packaging_count, credit_item_name, credit_unit_price, credit_pieces`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsignment(row rowScanner) (domain.Consignment, error) {
	var (
		c             domain.Consignment
		packagingType sql.NullString
		packWeight    decimal.NullDecimal
		packCount     sql.NullInt64
		fee           decimal.NullDecimal
	)
	err := row.Scan(&c.ID, &c.CounterpartyID, &c.ItemID, &c.DispatchDate, &c.SentQuantity, &c.Unit,
		&packagingType, &packWeight, &packCount, &c.PricePerUnit, &fee, &c.Status, &c.Remark)
	if err != nil {
		return domain.Consignment{}, err
	}
	if packagingType.Valid {
		c.Packaging = &domain.Packaging{
			Type:         domain.PackagingType(packagingType.String),
			UnitWeightKg: packWeight.Decimal,
			Count:        int(packCount.Int64),
		}
	}
	if fee.Valid {
		f := fee.Decimal
		c.ProcessingFee = &f
	}
	return c, nil
}

func scanReturn(row rowScanner) (domain.Return, error) {
	var (
		r            domain.Return
		shape        domain.ReturnShape
		elementCount decimal.NullDecimal
		packType     string
		drumGrams    decimal.NullDecimal
		category     sql.NullString
		gross        decimal.NullDecimal
		packWeight   decimal.NullDecimal
		packCount    sql.NullInt64
		creditName   sql.NullString
		creditPrice  decimal.NullDecimal
		creditPieces sql.NullInt64
	)
	err := row.Scan(&r.ID, &r.ConsignmentID, &r.ReturnDate, &shape, &elementCount, &packType,
		&drumGrams, &category, &gross, &packWeight, &packCount, &creditName, &creditPrice, &creditPieces)
	if err != nil {
		return domain.Return{}, err
	}

	switch shape {
	case domain.ShapeElementCount:
		ec := &domain.ElementCountReturn{
			ElementCount:  elementCount.Decimal,
			PackagingType: domain.PackagingType(packType),
			Category:      domain.ReturnCategory(category.String),
		}
		if drumGrams.Valid {
			g := drumGrams.Decimal
			ec.DrumUnitWeightGrams = &g
		}
		r.ElementCount = ec
	case domain.ShapeGrossWeight:
		r.GrossWeight = &domain.GrossWeightReturn{
			GrossQuantity: gross.Decimal,
			Packaging: domain.Packaging{
				Type:         domain.PackagingType(packType),
				UnitWeightKg: packWeight.Decimal,
				Count:        int(packCount.Int64),
			},
		}
	default:
		return domain.Return{}, fmt.Errorf("return %s has unknown shape %q", r.ID, shape)
	}

	if creditName.Valid {
		credit := &domain.InventoryCredit{
			ItemName:  creditName.String,
			UnitPrice: creditPrice.Decimal,
		}
		if creditPieces.Valid {
			n := int(creditPieces.Int64)
			credit.Pieces = &n
		}
		r.InventoryCredit = credit
	}
	return r, nil
}

func (r *PostgresRepository) insertReturn(ctx context.Context, tx *sql.Tx, consignmentID string, ret domain.Return) error {
	var (
		elementCount, drumGrams, gross, packWeight decimal.NullDecimal
		packCount                                  sql.NullInt64
		category                                   sql.NullString
		packType                                   domain.PackagingType
		creditName                                 sql.NullString
		creditPrice                                decimal.NullDecimal
		creditPieces                               sql.NullInt64
	)
	shape := ret.Shape()
	switch shape {
	case domain.ShapeElementCount:
		ec := ret.ElementCount
		elementCount = decimal.NullDecimal{Decimal: ec.ElementCount, Valid: true}
		packType = ec.PackagingType
		category = sql.NullString{String: string(ec.Category), Valid: true}
		if ec.DrumUnitWeightGrams != nil {
			drumGrams = decimal.NullDecimal{Decimal: *ec.DrumUnitWeightGrams, Valid: true}
		}
	case domain.ShapeGrossWeight:
		gw := ret.GrossWeight
		gross = decimal.NullDecimal{Decimal: gw.GrossQuantity, Valid: true}
		packType = gw.Packaging.Type
		packWeight = decimal.NullDecimal{Decimal: gw.Packaging.UnitWeightKg, Valid: true}
		packCount = sql.NullInt64{Int64: int64(gw.Packaging.Count), Valid: true}
	default:
		return fmt.Errorf("return %s has no shape", ret.ID)
	}
	if c := ret.InventoryCredit; c != nil {
		creditName = sql.NullString{String: c.ItemName, Valid: true}
		creditPrice = decimal.NullDecimal{Decimal: c.UnitPrice, Valid: true}
		if c.Pieces != nil {
			creditPieces = sql.NullInt64{Int64: int64(*c.Pieces), Valid: true}
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO consignment_returns(`+returnColumnsSQL+`)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, ret.ID, consignmentID, ret.ReturnDate, shape, elementCount, packType,
		drumGrams, category, gross, packWeight, packCount, creditName, creditPrice, creditPieces)
	return err
}

func (r *PostgresRepository) loadReturns(ctx context.Context, ids []string) (map[string][]domain.Return, error) {
	out := make(map[string][]domain.Return, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+returnColumnsSQL+`
		FROM consignment_returns
		WHERE consignment_id = ANY($1)
		ORDER BY return_date, created_at, id
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		out[ret.ConsignmentID] = append(out[ret.ConsignmentID], ret)
	}
	return out, rows.Err()
}

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// ------------------------ Repository ------------------------

func (r *PostgresRepository) CreateConsignment(ctx context.Context, c domain.Consignment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var (
		packType   sql.NullString
		packWeight decimal.NullDecimal
		packCount  sql.NullInt64
		fee        decimal.NullDecimal
	)
	if c.Packaging != nil {
		packType = sql.NullString{String: string(c.Packaging.Type), Valid: true}
		packWeight = decimal.NullDecimal{Decimal: c.Packaging.UnitWeightKg, Valid: true}
		packCount = sql.NullInt64{Int64: int64(c.Packaging.Count), Valid: true}
	}
	if c.ProcessingFee != nil {
		fee = decimal.NullDecimal{Decimal: *c.ProcessingFee, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO consignments(`+consignmentColumnsSQL+`)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, c.ID, c.CounterpartyID, c.ItemID, c.DispatchDate, c.SentQuantity, c.Unit,
		packType, packWeight, packCount, c.PricePerUnit, fee, c.Status, c.Remark)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return ErrDuplicateConsignment
		}
		return err
	}

	for _, ret := range c.Returns {
		if err := r.insertReturn(ctx, tx, c.ID, ret); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) GetConsignment(ctx context.Context, id string) (domain.Consignment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+consignmentColumnsSQL+` FROM consignments WHERE id = $1`, id)
	c, err := scanConsignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Consignment{}, domain.ErrConsignmentNotFound
	}
	if err != nil {
		return domain.Consignment{}, err
	}

	returns, err := r.loadReturns(ctx, []string{id})
	if err != nil {
		return domain.Consignment{}, err
	}
	c.Returns = returns[id]
	return c, nil
}

// AttachReturn locks the consignment row so the status read and the
// return count stay valid until the insert commits.
func (r *PostgresRepository) AttachReturn(ctx context.Context, consignmentID string, ret domain.Return) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status domain.Status
	err = tx.QueryRowContext(ctx, `SELECT status FROM consignments WHERE id = $1 FOR UPDATE`, consignmentID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrConsignmentNotFound
	}
	if err != nil {
		return err
	}
	if !engine.AcceptsReturns(status) {
		return domain.ErrConsignmentClosed
	}

	if r.policy != engine.MultipleReturns {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM consignment_returns WHERE consignment_id = $1`, consignmentID).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrReturnAlreadyExists
		}
	}

	if err := r.insertReturn(ctx, tx, consignmentID, ret); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE consignments SET updated_at = now() WHERE id = $1`, consignmentID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateStatus is a compare-and-set on the status column.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE consignments SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM consignments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrConsignmentNotFound
	}
	return domain.ErrStatusConflict
}

func (r *PostgresRepository) DeleteConsignment(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM consignments WHERE id = $1`, id)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return domain.ErrConsignmentHasReturns
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConsignmentNotFound
	}
	return nil
}

func (r *PostgresRepository) ListConsignments(ctx context.Context, filter domain.ListFilter) ([]domain.Consignment, error) {
	var (
		where []string
		args  []any
	)
	if filter.CounterpartyID != "" {
		args = append(args, filter.CounterpartyID)
		where = append(where, fmt.Sprintf("counterparty_id = $%d", len(args)))
	}
	if !filter.Start.IsZero() {
		args = append(args, filter.Start)
		where = append(where, fmt.Sprintf("dispatch_date >= $%d::date", len(args)))
	}
	if !filter.End.IsZero() {
		args = append(args, filter.End)
		where = append(where, fmt.Sprintf("dispatch_date <= $%d::date", len(args)))
	}

	query := `SELECT ` + consignmentColumnsSQL + ` FROM consignments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY dispatch_date, id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		consignments []domain.Consignment
		ids          []string
	)
	for rows.Next() {
		c, err := scanConsignment(rows)
		if err != nil {
			return nil, err
		}
		consignments = append(consignments, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	returns, err := r.loadReturns(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range consignments {
		consignments[i].Returns = returns[consignments[i].ID]
	}
	return consignments, nil
}
