package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
)

// ReturnPolicy controls how many returns a consignment may carry.
type ReturnPolicy string

const (
	// SingleReturn allows one return per consignment.
	SingleReturn ReturnPolicy = "single"
	// MultipleReturns allows partial returns until the sent quantity is used up.
	MultipleReturns ReturnPolicy = "multiple"
)

func (p ReturnPolicy) IsValid() bool {
	return p == SingleReturn || p == MultipleReturns
}

// Options tunes validation. The zero value is the single-return policy.
type Options struct {
	Policy ReturnPolicy
}

func (o Options) multiple() bool {
	return o.Policy == MultipleReturns
}

// Result holds blocking errors and advisory warnings for a proposed return.
// Warnings never block and may be present on an error-free result.
type Result struct {
	Errors   domain.ValidationErrors `json:"errors"`
	Warnings []string                `json:"warnings"`
}

// OK reports whether the return may be recorded.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks a proposed return against the consignment as it is seen
// now. Every blocking rule runs, so the result lists all violations at once.
func Validate(c domain.Consignment, r domain.Return, now time.Time, opts Options) Result {
	res := Result{
		Errors:   domain.ValidationErrors{},
		Warnings: []string{},
	}
	allowed := AllowedReturn(c, opts)

	if r.ConsignmentID != "" && r.ConsignmentID != c.ID {
		res.Errors = append(res.Errors, domain.ValidationError{
			Kind:    domain.ErrorKindInvalidField,
			Field:   "consignment_id",
			Message: fmt.Sprintf("return references consignment %s, not %s", r.ConsignmentID, c.ID),
		})
	}

	if r.Shape() == "" {
		res.Errors = append(res.Errors, invalidQuantity("return", "exactly one of element_count or gross_weight must be given"))
	} else {
		res.Errors = append(res.Errors, checkPositivity(r)...)
		res.Errors = append(res.Errors, checkOverReturn(r, allowed)...)
		res.Errors = append(res.Errors, checkPackaging(r)...)
		res.Errors = append(res.Errors, checkInventoryCredit(r)...)
		res.Errors = append(res.Errors, checkUnit(c, r)...)
	}
	res.Errors = append(res.Errors, checkDates(c, r)...)
	res.Errors = append(res.Errors, checkStatus(c)...)
	if !opts.multiple() && c.HasReturns() {
		res.Errors = append(res.Errors, domain.ValidationError{
			Kind:    domain.ErrorKindReturnAlreadyRecorded,
			Message: "a return has already been recorded for this consignment",
		})
	}

	if !r.ReturnDate.IsZero() && calendarDay(r.ReturnDate).After(calendarDay(now)) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("return date %s is in the future", r.ReturnDate.Format(time.DateOnly)))
	}
	if res.OK() && c.Status == domain.StatusInProcess && r.DrivingQuantity().Equal(allowed) {
		res.Warnings = append(res.Warnings, "the full sent quantity has been returned; consider marking the consignment COMPLETED")
	}
	return res
}

// AllowedReturn is the most a new return may bring back. Under the
// multiple-return policy it shrinks by what earlier returns already
// recovered.
func AllowedReturn(c domain.Consignment, opts Options) decimal.Decimal {
	if !opts.multiple() {
		return c.SentQuantity
	}
	remaining := c.SentQuantity.Sub(NetReturned(c))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// AcceptsReturns reports whether returns may be attached in the given status.
func AcceptsReturns(s domain.Status) bool {
	return s != domain.StatusCompleted
}

func checkPositivity(r domain.Return) domain.ValidationErrors {
	var errs domain.ValidationErrors
	switch r.Shape() {
	case domain.ShapeElementCount:
		ec := r.ElementCount
		if !ec.ElementCount.IsPositive() {
			errs = append(errs, invalidQuantity("element_count", "element count must be greater than zero"))
		}
		if !ec.PackagingType.IsValid() {
			errs = append(errs, invalidQuantity("packaging_type", "unknown packaging type "+string(ec.PackagingType)))
		}
		if ec.PackagingType == domain.PackagingDrum && (ec.DrumUnitWeightGrams == nil || !ec.DrumUnitWeightGrams.IsPositive()) {
			errs = append(errs, invalidQuantity("drum_unit_weight_grams", "drum unit weight is required for drum packaging"))
		}
		if !ec.Category.IsValid() {
			errs = append(errs, invalidQuantity("return_category", "unknown return category "+string(ec.Category)))
		}
	case domain.ShapeGrossWeight:
		if !r.GrossWeight.GrossQuantity.IsPositive() {
			errs = append(errs, invalidQuantity("gross_return_quantity", "gross return quantity must be greater than zero"))
		}
		errs = append(errs, packagingErrors("packaging", r.GrossWeight.Packaging)...)
	}
	return errs
}

func checkOverReturn(r domain.Return, allowed decimal.Decimal) domain.ValidationErrors {
	driving := r.DrivingQuantity()
	if driving.GreaterThan(allowed) || NetReturnQuantity(r).GreaterThan(allowed) {
		return domain.ValidationErrors{{
			Kind:    domain.ErrorKindExceedsSent,
			Field:   drivingField(r),
			Message: fmt.Sprintf("return of %s exceeds the allowed maximum of %s", domain.DisplayString(driving), domain.DisplayString(allowed)),
		}}
	}
	return nil
}

// checkUnit keeps kilogram-based returns off piece-count consignments.
func checkUnit(c domain.Consignment, r domain.Return) domain.ValidationErrors {
	if r.Shape() != domain.ShapeGrossWeight || c.Unit != domain.UnitPC {
		return nil
	}
	return domain.ValidationErrors{{
		Kind:    domain.ErrorKindInvalidField,
		Field:   "gross_weight",
		Message: "gross-weight returns are in kilograms; use an element count for a PC consignment",
	}}
}

func checkPackaging(r domain.Return) domain.ValidationErrors {
	if r.Shape() != domain.ShapeGrossWeight {
		return nil
	}
	gross := r.GrossWeight.GrossQuantity
	deduction := r.GrossWeight.Packaging.Weight()
	if gross.IsPositive() && deduction.GreaterThanOrEqual(gross) {
		return domain.ValidationErrors{{
			Kind:    domain.ErrorKindPackagingExceedsGross,
			Field:   "packaging",
			Message: fmt.Sprintf("packaging weight %s consumes the whole gross return of %s", domain.DisplayString(deduction), domain.DisplayString(gross)),
		}}
	}
	return nil
}

func checkDates(c domain.Consignment, r domain.Return) domain.ValidationErrors {
	if r.ReturnDate.IsZero() {
		return domain.ValidationErrors{{
			Kind:    domain.ErrorKindInvalidField,
			Field:   "return_date",
			Message: "return_date is required",
		}}
	}
	if calendarDay(r.ReturnDate).Before(calendarDay(c.DispatchDate)) {
		return domain.ValidationErrors{{
			Kind:    domain.ErrorKindReturnBeforeDispatch,
			Field:   "return_date",
			Message: fmt.Sprintf("return date %s is before dispatch date %s", r.ReturnDate.Format(time.DateOnly), c.DispatchDate.Format(time.DateOnly)),
		}}
	}
	return nil
}

func checkStatus(c domain.Consignment) domain.ValidationErrors {
	if AcceptsReturns(c.Status) {
		return nil
	}
	return domain.ValidationErrors{{
		Kind:    domain.ErrorKindConsignmentClosed,
		Field:   "status",
		Message: "consignment is COMPLETED; reopen it to IN_PROCESS before recording a return",
	}}
}

func checkInventoryCredit(r domain.Return) domain.ValidationErrors {
	credit := r.InventoryCredit
	if credit == nil {
		return nil
	}
	if r.Shape() != domain.ShapeGrossWeight {
		return domain.ValidationErrors{{
			Kind:    domain.ErrorKindInventoryCreditInvalid,
			Field:   "inventory_credit",
			Message: "inventory credit is only supported for gross-weight returns",
		}}
	}
	errs := fieldErrors(*credit, func(field, tag string) domain.ValidationError {
		sub := domain.CreditQuantity
		if field == "item_name" {
			sub = domain.CreditName
		}
		return domain.ValidationError{
			Kind:    domain.ErrorKindInventoryCreditInvalid,
			SubKind: sub,
			Field:   "inventory_credit." + field,
			Message: tagMessage(field, tag),
		}
	})
	if !credit.UnitPrice.IsPositive() {
		errs = append(errs, domain.ValidationError{
			Kind:    domain.ErrorKindInventoryCreditInvalid,
			SubKind: domain.CreditPrice,
			Field:   "inventory_credit.unit_price",
			Message: "unit price must be greater than zero",
		})
	}
	return errs
}

func drivingField(r domain.Return) string {
	if r.Shape() == domain.ShapeElementCount {
		return "element_count"
	}
	return "gross_return_quantity"
}

// calendarDay drops the time of day so dates compare by day in their own zone.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
