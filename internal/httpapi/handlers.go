package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
	"stock-reconciliation/internal/gateway"
)

type handler struct {
	svc Service
}

type createConsignmentRequest struct {
	ID             string            `json:"id"`
	CounterpartyID string            `json:"counterparty_id"`
	ItemID         string            `json:"item_id"`
	DispatchDate   string            `json:"dispatch_date"`
	SentQuantity   decimal.Decimal   `json:"sent_quantity"`
	Unit           domain.Unit       `json:"unit"`
	Packaging      *domain.Packaging `json:"packaging"`
	PricePerUnit   decimal.Decimal   `json:"price_per_unit"`
	ProcessingFee  *decimal.Decimal  `json:"processing_fee"`
	Remark         string            `json:"remark"`
}

type returnRequest struct {
	ID              string                     `json:"id"`
	ConsignmentID   string                     `json:"consignment_id"`
	ReturnDate      string                     `json:"return_date"`
	ElementCount    *domain.ElementCountReturn `json:"element_count"`
	GrossWeight     *domain.GrossWeightReturn  `json:"gross_weight"`
	InventoryCredit *domain.InventoryCredit    `json:"inventory_credit"`
}

type statusRequest struct {
	Status domain.Status `json:"status"`
}

type packagingRequest struct {
	Quantity  decimal.Decimal  `json:"quantity"`
	Packaging domain.Packaging `json:"packaging"`
}

// parseDay accepts an empty string as the zero time.
func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

func (h *handler) createConsignment(c *gin.Context) {
	var req createConsignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	dispatch, err := parseDay(req.DispatchDate)
	if err != nil {
		badField(c, "dispatch_date", "dispatch_date must be YYYY-MM-DD")
		return
	}

	created, err := h.svc.CreateConsignment(c.Request.Context(), domain.ConsignmentInput{
		ID:             req.ID,
		CounterpartyID: req.CounterpartyID,
		ItemID:         req.ItemID,
		DispatchDate:   dispatch,
		SentQuantity:   req.SentQuantity,
		Unit:           domain.Unit(strings.ToUpper(string(req.Unit))),
		Packaging:      req.Packaging,
		PricePerUnit:   req.PricePerUnit,
		ProcessingFee:  req.ProcessingFee,
		Remark:         req.Remark,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newConsignmentView(created, h.svc.Lifecycle()))
}

func (h *handler) getConsignment(c *gin.Context) {
	found, err := h.svc.GetConsignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newConsignmentView(found, h.svc.Lifecycle()))
}

func (h *handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), domain.Status(strings.ToUpper(string(req.Status))))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newConsignmentView(updated, h.svc.Lifecycle()))
}

func (h *handler) deleteConsignment(c *gin.Context) {
	if err := h.svc.DeleteConsignment(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindReturn decodes the request body into a return. It writes the error
// response itself and reports false when decoding failed.
func (h *handler) bindReturn(c *gin.Context) (domain.Return, bool) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return domain.Return{}, false
	}
	day, err := parseDay(req.ReturnDate)
	if err != nil {
		badField(c, "return_date", "return_date must be YYYY-MM-DD")
		return domain.Return{}, false
	}
	return domain.Return{
		ID:              req.ID,
		ConsignmentID:   req.ConsignmentID,
		ReturnDate:      day,
		ElementCount:    req.ElementCount,
		GrossWeight:     req.GrossWeight,
		InventoryCredit: req.InventoryCredit,
	}, true
}

func (h *handler) validateReturn(c *gin.Context) {
	r, ok := h.bindReturn(c)
	if !ok {
		return
	}
	res, err := h.svc.ValidateReturn(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) recordReturn(c *gin.Context) {
	r, ok := h.bindReturn(c)
	if !ok {
		return
	}
	receipt, err := h.svc.RecordReturn(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReceiptView(receipt, h.svc.Lifecycle()))
}

func (h *handler) convertPackaging(c *gin.Context, convert func(decimal.Decimal, domain.Packaging) decimal.Decimal) {
	var req packagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	errs := engine.CheckPackaging(req.Packaging)
	if req.Quantity.IsNegative() {
		errs = append(errs, domain.ValidationError{
			Kind:    domain.ErrorKindInvalidQuantity,
			Field:   "quantity",
			Message: "quantity must not be negative",
		})
	}
	if len(errs) > 0 {
		writeError(c, errs)
		return
	}
	c.JSON(http.StatusOK, newQuantityView(convert(req.Quantity, req.Packaging)))
}

func (h *handler) toGross(c *gin.Context) {
	h.convertPackaging(c, engine.ToGross)
}

func (h *handler) toNet(c *gin.Context) {
	h.convertPackaging(c, engine.ToNet)
}

func (h *handler) reconciliationReport(c *gin.Context) {
	start, err := parseDay(c.Query("start"))
	if err != nil {
		badField(c, "start", "start must be YYYY-MM-DD")
		return
	}
	end, err := parseDay(c.Query("end"))
	if err != nil {
		badField(c, "end", "end must be YYYY-MM-DD")
		return
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		badField(c, "end", "end must not be before start")
		return
	}

	report, err := h.svc.Reconcile(c.Request.Context(), c.Query("counterparty"), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "xlsx") {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", reportFilename(c.Query("counterparty"))))
		if err := gateway.WriteReportXLSX(*report, c.Writer); err != nil {
			_ = c.Error(err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, report.Rounded())
}

func reportFilename(counterparty string) string {
	if counterparty == "" {
		return "reconciliation.xlsx"
	}
	return "reconciliation-" + counterparty + ".xlsx"
}
