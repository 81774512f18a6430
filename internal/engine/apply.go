package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
)

// Applied is the outcome of attaching a return to a consignment.
type Applied struct {
	Consignment       domain.Consignment `json:"consignment"`
	Return            domain.Return      `json:"return"`
	NetReturnQuantity decimal.Decimal    `json:"net_return_quantity"`
	UsedQuantity      decimal.Decimal    `json:"used_quantity"`
}

// ApplyReturn attaches r to a copy of c. It re-runs the blocking rules and
// refuses with domain.ValidationErrors if any fail. The status of the
// consignment is never changed here, even when everything came back.
func ApplyReturn(c domain.Consignment, r domain.Return, opts Options) (Applied, error) {
	res := Validate(c, r, r.ReturnDate, opts)
	if !res.OK() {
		return Applied{}, res.Errors
	}

	r.ConsignmentID = c.ID
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	next := c
	next.Returns = make([]domain.Return, 0, len(c.Returns)+1)
	next.Returns = append(next.Returns, c.Returns...)
	next.Returns = append(next.Returns, r)

	return Applied{
		Consignment:       next,
		Return:            r,
		NetReturnQuantity: NetReturnQuantity(r),
		UsedQuantity:      UsedQuantity(next.SentQuantity, NetReturned(next)),
	}, nil
}
