package domain

import (
	"errors"
	"strings"
)

var (
	ErrConsignmentNotFound   = errors.New("consignment not found")
	ErrConsignmentHasReturns = errors.New("consignment has recorded returns")
	ErrReturnAlreadyExists   = errors.New("consignment already has a recorded return")
	ErrConsignmentClosed     = errors.New("consignment is completed")
	ErrTransitionNotAllowed  = errors.New("status transition not allowed")
	ErrStatusConflict        = errors.New("consignment status changed concurrently")
)

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	ErrorKindInvalidQuantity        ErrorKind = "INVALID_QUANTITY"
	ErrorKindExceedsSent            ErrorKind = "EXCEEDS_SENT"
	ErrorKindPackagingExceedsGross  ErrorKind = "PACKAGING_EXCEEDS_GROSS"
	ErrorKindReturnBeforeDispatch   ErrorKind = "RETURN_BEFORE_DISPATCH"
	ErrorKindConsignmentClosed      ErrorKind = "CONSIGNMENT_CLOSED"
	ErrorKindInventoryCreditInvalid ErrorKind = "INVENTORY_CREDIT_INVALID"
	ErrorKindReturnAlreadyRecorded  ErrorKind = "RETURN_ALREADY_RECORDED"
	ErrorKindInvalidField           ErrorKind = "INVALID_FIELD"
)

// CreditSubKind narrows an InventoryCreditInvalid error to the offending input.
type CreditSubKind string

const (
	CreditName     CreditSubKind = "name"
	CreditPrice    CreditSubKind = "price"
	CreditQuantity CreditSubKind = "quantity"
)

// ValidationError is a single recoverable validation failure, addressed to
// a field so a form can show it next to the input.
type ValidationError struct {
	Kind    ErrorKind     `json:"kind"`
	SubKind CreditSubKind `json:"sub_kind,omitempty"`
	Field   string        `json:"field,omitempty"`
	Message string        `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind) + " (" + e.Field + "): " + e.Message
}

// ValidationErrors is the full set of failures for one input.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Kinds lists the kind of every failure, in order.
func (v ValidationErrors) Kinds() []ErrorKind {
	kinds := make([]ErrorKind, 0, len(v))
	for _, e := range v {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Has reports whether any failure is of the given kind.
func (v ValidationErrors) Has(kind ErrorKind) bool {
	for _, e := range v {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
