package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the processing state of a consignment.
type Status string

const (
	StatusInProcess Status = "IN_PROCESS"
	StatusCompleted Status = "COMPLETED"
	StatusRejected  Status = "REJECTED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusInProcess, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// Consignment is material handed to a counterparty for external processing.
// Packaging is only set for two-stage shipments. Gross weight is never
// stored; it is derived from SentQuantity and Packaging on demand.
type Consignment struct {
	ID             string           `json:"id"`
	CounterpartyID string           `json:"counterparty_id"`
	ItemID         string           `json:"item_id"`
	DispatchDate   time.Time        `json:"dispatch_date"`
	SentQuantity   decimal.Decimal  `json:"sent_quantity"`
	Unit           Unit             `json:"unit"`
	Packaging      *Packaging       `json:"packaging,omitempty"`
	PricePerUnit   decimal.Decimal  `json:"price_per_unit"`
	ProcessingFee  *decimal.Decimal `json:"processing_fee,omitempty"`
	Status         Status           `json:"status"`
	Remark         string           `json:"remark"`
	Returns        []Return         `json:"returns"`
}

// HasReturns reports whether any return has been recorded against the consignment.
func (c Consignment) HasReturns() bool {
	return len(c.Returns) > 0
}

// JobPay is the processing fee owed for the consignment, zero when none was agreed.
func (c Consignment) JobPay() decimal.Decimal {
	if c.ProcessingFee == nil {
		return decimal.Zero
	}
	return *c.ProcessingFee
}

// TotalAmount is the priced value of the dispatched material plus the job pay.
func (c Consignment) TotalAmount() decimal.Decimal {
	return c.PricePerUnit.Mul(c.SentQuantity).Add(c.JobPay())
}

// ConsignmentInput carries the caller-supplied fields for a new dispatch.
type ConsignmentInput struct {
	ID             string           `json:"id"`
	CounterpartyID string           `json:"counterparty_id" validate:"notblank"`
	ItemID         string           `json:"item_id" validate:"notblank"`
	DispatchDate   time.Time        `json:"dispatch_date"`
	SentQuantity   decimal.Decimal  `json:"sent_quantity"`
	Unit           Unit             `json:"unit" validate:"oneof=KG PC"`
	Packaging      *Packaging       `json:"packaging,omitempty"`
	PricePerUnit   decimal.Decimal  `json:"price_per_unit"`
	ProcessingFee  *decimal.Decimal `json:"processing_fee,omitempty"`
	Remark         string           `json:"remark"`
}

// ListFilter selects consignments for a counterparty dispatched within
// [Start, End]. A zero bound is open.
type ListFilter struct {
	CounterpartyID string
	Start          time.Time
	End            time.Time
}
