package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
	"stock-reconciliation/internal/usecase"
)

const dateLayout = time.DateOnly

// Quantities leave the API as fixed three-decimal strings.

type packagingView struct {
	Type         domain.PackagingType `json:"packaging_type"`
	UnitWeightKg string               `json:"unit_weight_kg"`
	Count        int                  `json:"count"`
	Weight       string               `json:"weight"`
}

type returnView struct {
	ID                string                     `json:"id"`
	ConsignmentID     string                     `json:"consignment_id"`
	ReturnDate        string                     `json:"return_date"`
	Shape             domain.ReturnShape         `json:"shape"`
	ElementCount      *domain.ElementCountReturn `json:"element_count,omitempty"`
	GrossWeight       *domain.GrossWeightReturn  `json:"gross_weight,omitempty"`
	InventoryCredit   *domain.InventoryCredit    `json:"inventory_credit,omitempty"`
	NetReturnQuantity string                     `json:"net_return_quantity"`
}

type consignmentView struct {
	ID              string          `json:"id"`
	CounterpartyID  string          `json:"counterparty_id"`
	ItemID          string          `json:"item_id"`
	DispatchDate    string          `json:"dispatch_date"`
	SentQuantity    string          `json:"sent_quantity"`
	Unit            domain.Unit     `json:"unit"`
	Packaging       *packagingView  `json:"packaging,omitempty"`
	GrossWeight     string          `json:"gross_weight"`
	PricePerUnit    string          `json:"price_per_unit"`
	ProcessingFee   *string         `json:"processing_fee,omitempty"`
	TotalAmount     string          `json:"total_amount"`
	Status          domain.Status   `json:"status"`
	AllowedStatuses []domain.Status `json:"allowed_statuses,omitempty"`
	Remark          string          `json:"remark"`
	Returns         []returnView    `json:"returns"`
	NetReturned     string          `json:"net_returned"`
	UsedQuantity    string          `json:"used_quantity"`
	AcceptsReturns  bool            `json:"accepts_returns"`
}

type receiptView struct {
	Consignment       consignmentView `json:"consignment"`
	Return            returnView      `json:"return"`
	NetReturnQuantity string          `json:"net_return_quantity"`
	UsedQuantity      string          `json:"used_quantity"`
	Warnings          []string        `json:"warnings"`
}

func newPackagingView(p *domain.Packaging) *packagingView {
	if p == nil {
		return nil
	}
	return &packagingView{
		Type:         p.Type,
		UnitWeightKg: domain.DisplayString(p.UnitWeightKg),
		Count:        p.Count,
		Weight:       domain.DisplayString(p.Weight()),
	}
}

func newReturnView(r domain.Return) returnView {
	return returnView{
		ID:                r.ID,
		ConsignmentID:     r.ConsignmentID,
		ReturnDate:        r.ReturnDate.Format(dateLayout),
		Shape:             r.Shape(),
		ElementCount:      r.ElementCount,
		GrossWeight:       r.GrossWeight,
		InventoryCredit:   r.InventoryCredit,
		NetReturnQuantity: domain.DisplayString(engine.NetReturnQuantity(r)),
	}
}

func newConsignmentView(c domain.Consignment, lifecycle *engine.Lifecycle) consignmentView {
	returned := engine.NetReturned(c)
	v := consignmentView{
		ID:             c.ID,
		CounterpartyID: c.CounterpartyID,
		ItemID:         c.ItemID,
		DispatchDate:   c.DispatchDate.Format(dateLayout),
		SentQuantity:   domain.DisplayString(c.SentQuantity),
		Unit:           c.Unit,
		Packaging:      newPackagingView(c.Packaging),
		GrossWeight:    domain.DisplayString(engine.GrossWeight(c)),
		PricePerUnit:   domain.DisplayString(c.PricePerUnit),
		TotalAmount:    domain.DisplayString(c.TotalAmount()),
		Status:         c.Status,
		Remark:         c.Remark,
		Returns:        make([]returnView, 0, len(c.Returns)),
		NetReturned:    domain.DisplayString(returned),
		UsedQuantity:   domain.DisplayString(engine.UsedQuantity(c.SentQuantity, returned)),
		AcceptsReturns: engine.AcceptsReturns(c.Status),
	}
	if lifecycle != nil {
		v.AllowedStatuses = lifecycle.Allowed(c.Status)
	}
	if c.ProcessingFee != nil {
		fee := domain.DisplayString(*c.ProcessingFee)
		v.ProcessingFee = &fee
	}
	for _, r := range c.Returns {
		v.Returns = append(v.Returns, newReturnView(r))
	}
	return v
}

func newReceiptView(r *usecase.ReturnReceipt, lifecycle *engine.Lifecycle) receiptView {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return receiptView{
		Consignment:       newConsignmentView(r.Consignment, lifecycle),
		Return:            newReturnView(r.Return),
		NetReturnQuantity: domain.DisplayString(r.NetReturnQuantity),
		UsedQuantity:      domain.DisplayString(r.UsedQuantity),
		Warnings:          warnings,
	}
}

type quantityView struct {
	Quantity string `json:"quantity"`
}

func newQuantityView(q decimal.Decimal) quantityView {
	return quantityView{Quantity: domain.DisplayString(q)}
}
