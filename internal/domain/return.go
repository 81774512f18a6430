package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnCategory classifies what came back in an element-count return.
type ReturnCategory string

const (
	CategoryMaal      ReturnCategory = "MAAL"
	CategoryChhol     ReturnCategory = "CHHOL"
	CategoryTayarMaal ReturnCategory = "TAYAR_MAAL"
)

func (c ReturnCategory) IsValid() bool {
	switch c {
	case CategoryMaal, CategoryChhol, CategoryTayarMaal:
		return true
	default:
		return false
	}
}

// ReturnShape names which input shape a return was recorded with.
type ReturnShape string

const (
	ShapeElementCount ReturnShape = "ELEMENT_COUNT"
	ShapeGrossWeight  ReturnShape = "GROSS_WEIGHT"
)

// ElementCountReturn is the simple variant: a count of elements, which is
// a count of drums for DRUM packaging and a kilogram quantity otherwise.
type ElementCountReturn struct {
	ElementCount        decimal.Decimal  `json:"element_count"`
	PackagingType       PackagingType    `json:"packaging_type"`
	DrumUnitWeightGrams *decimal.Decimal `json:"drum_unit_weight_grams,omitempty"`
	Category            ReturnCategory   `json:"return_category"`
}

// GrossWeightReturn is the two-stage variant: a measured gross weight with
// the packaging that must be deducted from it.
type GrossWeightReturn struct {
	GrossQuantity decimal.Decimal `json:"gross_return_quantity"`
	Packaging     Packaging       `json:"packaging"`
}

// InventoryCredit is filled when returned stock is credited into general
// inventory.
type InventoryCredit struct {
	ItemName  string          `json:"item_name" validate:"notblank"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Pieces    *int            `json:"pieces,omitempty" validate:"omitempty,gte=0"`
}

// Return is material coming back from a counterparty. Exactly one of
// ElementCount and GrossWeight is set.
type Return struct {
	ID              string              `json:"id"`
	ConsignmentID   string              `json:"consignment_id"`
	ReturnDate      time.Time           `json:"return_date"`
	ElementCount    *ElementCountReturn `json:"element_count,omitempty"`
	GrossWeight     *GrossWeightReturn  `json:"gross_weight,omitempty"`
	InventoryCredit *InventoryCredit    `json:"inventory_credit,omitempty"`
}

// Shape returns the input shape of the return, or "" when neither or both
// shapes are set.
func (r Return) Shape() ReturnShape {
	switch {
	case r.ElementCount != nil && r.GrossWeight == nil:
		return ShapeElementCount
	case r.GrossWeight != nil && r.ElementCount == nil:
		return ShapeGrossWeight
	default:
		return ""
	}
}

// DrivingQuantity is the quantity the caller entered: the element count
// or the gross return quantity.
func (r Return) DrivingQuantity() decimal.Decimal {
	switch r.Shape() {
	case ShapeElementCount:
		return r.ElementCount.ElementCount
	case ShapeGrossWeight:
		return r.GrossWeight.GrossQuantity
	default:
		return decimal.Zero
	}
}
