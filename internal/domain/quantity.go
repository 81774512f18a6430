package domain

import "github.com/shopspring/decimal"

// DisplayPrecision is the number of decimal places quantities are rounded to on output.
const DisplayPrecision = 3

var gramsPerKg = decimal.NewFromInt(1000)

// Unit is the unit a consignment's sent quantity is measured in.
type Unit string

const (
	UnitKG Unit = "KG"
	UnitPC Unit = "PC"
)

func (u Unit) IsValid() bool {
	switch u {
	case UnitKG, UnitPC:
		return true
	default:
		return false
	}
}

// PackagingType is the kind of container wrapped around material.
type PackagingType string

const (
	PackagingBag  PackagingType = "BAG"
	PackagingFoam PackagingType = "FOAM"
	PackagingPeti PackagingType = "PETI"
	PackagingDrum PackagingType = "DRUM"
)

func (p PackagingType) IsValid() bool {
	switch p {
	case PackagingBag, PackagingFoam, PackagingPeti, PackagingDrum:
		return true
	default:
		return false
	}
}

// Packaging describes the containers around a quantity: what they are,
// how much one weighs and how many there are.
type Packaging struct {
	Type         PackagingType   `json:"packaging_type"`
	UnitWeightKg decimal.Decimal `json:"unit_weight_kg"`
	Count        int             `json:"count"`
}

// Weight is the total packaging weight in kilograms.
func (p Packaging) Weight() decimal.Decimal {
	return p.UnitWeightKg.Mul(decimal.NewFromInt(int64(p.Count)))
}

// GramsToKg converts a gram-denominated weight to kilograms.
func GramsToKg(grams decimal.Decimal) decimal.Decimal {
	return grams.Div(gramsPerKg)
}

// Display rounds a quantity for presentation. Arithmetic must always be
// done on the unrounded value.
func Display(q decimal.Decimal) decimal.Decimal {
	return q.Round(DisplayPrecision)
}

// DisplayString formats a quantity with exactly DisplayPrecision decimals.
func DisplayString(q decimal.Decimal) string {
	return q.StringFixed(DisplayPrecision)
}
