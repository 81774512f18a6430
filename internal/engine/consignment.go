package engine

import (
	"github.com/google/uuid"

	"stock-reconciliation/internal/domain"
)

// NewConsignment validates a dispatch and returns the consignment in its
// initial IN_PROCESS state. Failures are returned as domain.ValidationErrors.
func NewConsignment(in domain.ConsignmentInput) (domain.Consignment, error) {
	errs := fieldErrors(in, func(field, tag string) domain.ValidationError {
		return domain.ValidationError{
			Kind:    domain.ErrorKindInvalidField,
			Field:   field,
			Message: tagMessage(field, tag),
		}
	})

	if in.DispatchDate.IsZero() {
		errs = append(errs, domain.ValidationError{
			Kind:    domain.ErrorKindInvalidField,
			Field:   "dispatch_date",
			Message: "dispatch_date is required",
		})
	}
	if !in.SentQuantity.IsPositive() {
		errs = append(errs, invalidQuantity("sent_quantity", "sent quantity must be greater than zero"))
	} else if in.Unit == domain.UnitPC && !in.SentQuantity.IsInteger() {
		errs = append(errs, invalidQuantity("sent_quantity", "piece counts must be whole numbers"))
	}
	if in.PricePerUnit.IsNegative() {
		errs = append(errs, invalidQuantity("price_per_unit", "price per unit must not be negative"))
	}
	if in.ProcessingFee != nil && in.ProcessingFee.IsNegative() {
		errs = append(errs, invalidQuantity("processing_fee", "processing fee must not be negative"))
	}
	if in.Packaging != nil {
		if in.Unit != domain.UnitKG {
			errs = append(errs, invalidQuantity("packaging", "packaging can only be added to kilogram quantities"))
		}
		errs = append(errs, packagingErrors("packaging", *in.Packaging)...)
	}

	if len(errs) > 0 {
		return domain.Consignment{}, errs
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	var packaging *domain.Packaging
	if in.Packaging != nil {
		p := *in.Packaging
		packaging = &p
	}
	return domain.Consignment{
		ID:             id,
		CounterpartyID: in.CounterpartyID,
		ItemID:         in.ItemID,
		DispatchDate:   in.DispatchDate,
		SentQuantity:   in.SentQuantity,
		Unit:           in.Unit,
		Packaging:      packaging,
		PricePerUnit:   in.PricePerUnit,
		ProcessingFee:  in.ProcessingFee,
		Status:         domain.StatusInProcess,
		Remark:         in.Remark,
	}, nil
}

func invalidQuantity(field, msg string) domain.ValidationError {
	return domain.ValidationError{
		Kind:    domain.ErrorKindInvalidQuantity,
		Field:   field,
		Message: msg,
	}
}

func packagingErrors(prefix string, p domain.Packaging) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if !p.Type.IsValid() {
		errs = append(errs, invalidQuantity(prefix+".packaging_type", "unknown packaging type "+string(p.Type)))
	}
	if p.UnitWeightKg.IsNegative() {
		errs = append(errs, invalidQuantity(prefix+".unit_weight_kg", "packaging unit weight must not be negative"))
	}
	if p.Count < 0 {
		errs = append(errs, invalidQuantity(prefix+".count", "packaging count must not be negative"))
	}
	return errs
}

// CheckPackaging reports what is wrong with a packaging description on its own.
func CheckPackaging(p domain.Packaging) domain.ValidationErrors {
	return packagingErrors("packaging", p)
}
