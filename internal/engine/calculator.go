// Package engine holds the pure reconciliation logic: weight arithmetic,
// return validation, the status lifecycle and the report fold. Nothing in
// this package performs I/O or keeps state between calls.
package engine

import (
	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
)

// ToGross adds packaging weight to a net quantity.
func ToGross(net decimal.Decimal, p domain.Packaging) decimal.Decimal {
	return net.Add(p.Weight())
}

// ToNet removes packaging weight from a gross quantity. The result never
// goes below zero.
func ToNet(gross decimal.Decimal, p domain.Packaging) decimal.Decimal {
	net := gross.Sub(p.Weight())
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// GrossWeight is the dispatched weight including packaging. Consignments
// without packaging weigh exactly their sent quantity.
func GrossWeight(c domain.Consignment) decimal.Decimal {
	if c.Packaging == nil {
		return c.SentQuantity
	}
	return ToGross(c.SentQuantity, *c.Packaging)
}

// ElementCountNet converts an element count into kilograms. Only drums
// carry a unit weight; every other element is already a kilogram.
func ElementCountNet(r domain.ElementCountReturn) decimal.Decimal {
	if r.PackagingType != domain.PackagingDrum {
		return r.ElementCount
	}
	if r.DrumUnitWeightGrams == nil {
		return decimal.Zero
	}
	return r.ElementCount.Mul(domain.GramsToKg(*r.DrumUnitWeightGrams))
}

// NetReturnQuantity derives the usable quantity of a return using the
// strategy that matches its shape.
func NetReturnQuantity(r domain.Return) decimal.Decimal {
	switch r.Shape() {
	case domain.ShapeElementCount:
		return ElementCountNet(*r.ElementCount)
	case domain.ShapeGrossWeight:
		return ToNet(r.GrossWeight.GrossQuantity, r.GrossWeight.Packaging)
	default:
		return decimal.Zero
	}
}

// UsedQuantity is what the counterparty consumed: sent minus returned.
func UsedQuantity(sent, netReturned decimal.Decimal) decimal.Decimal {
	return sent.Sub(netReturned)
}

// NetReturned sums the net quantity of every return recorded on c.
func NetReturned(c domain.Consignment) decimal.Decimal {
	total := decimal.Zero
	for _, r := range c.Returns {
		total = total.Add(NetReturnQuantity(r))
	}
	return total
}
