package usecase

import (
	"context"

	"stock-reconciliation/internal/domain"
)

// ConsignmentRepository defines the persistence collaborator.
// The usecase layer depends on this interface, not on a concrete implementation.
// Implementations must enforce the return policy and the COMPLETED guard
// atomically with the write, since the engine only sees a snapshot.
// UpdateStatus only writes when the stored status still equals from and
// reports domain.ErrStatusConflict otherwise.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go ConsignmentRepository
type ConsignmentRepository interface {
	CreateConsignment(ctx context.Context, c domain.Consignment) error
	GetConsignment(ctx context.Context, id string) (domain.Consignment, error)
	AttachReturn(ctx context.Context, consignmentID string, r domain.Return) error
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) error
	DeleteConsignment(ctx context.Context, id string) error
	ListConsignments(ctx context.Context, filter domain.ListFilter) ([]domain.Consignment, error)
}
