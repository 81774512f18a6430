// Package httpapi exposes the consignment use case as a JSON API.
package httpapi

import (
	"context"
	"time"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
	"stock-reconciliation/internal/usecase"
)

// Service is the slice of the use case the handlers call.
type Service interface {
	CreateConsignment(ctx context.Context, in domain.ConsignmentInput) (domain.Consignment, error)
	GetConsignment(ctx context.Context, id string) (domain.Consignment, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Consignment, error)
	DeleteConsignment(ctx context.Context, id string) error
	ValidateReturn(ctx context.Context, consignmentID string, r domain.Return) (engine.Result, error)
	RecordReturn(ctx context.Context, consignmentID string, r domain.Return) (*usecase.ReturnReceipt, error)
	Lifecycle() *engine.Lifecycle
	Reconcile(ctx context.Context, counterpartyID string, start, end time.Time) (*domain.ReconciliationReport, error)
}

var _ Service = (*usecase.ConsignmentUseCase)(nil)
