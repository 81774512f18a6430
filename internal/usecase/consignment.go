package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"stock-reconciliation/internal/config"
	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
)

const moduleName = "usecase"

// ConsignmentUseCase orchestrates the reconciliation engine against the
// persistence collaborator.
type ConsignmentUseCase struct {
	repo      ConsignmentRepository
	lifecycle *engine.Lifecycle
	opts      engine.Options
	logger    *logrus.Logger
	now       func() time.Time
}

// Option configures a ConsignmentUseCase.
type Option func(*ConsignmentUseCase)

// WithLifecycle replaces the default loose transition table.
func WithLifecycle(l *engine.Lifecycle) Option {
	return func(uc *ConsignmentUseCase) { uc.lifecycle = l }
}

// WithReturnPolicy selects single or multiple returns per consignment.
func WithReturnPolicy(p engine.ReturnPolicy) Option {
	return func(uc *ConsignmentUseCase) { uc.opts.Policy = p }
}

// WithLogger sets the logger used for audit and failure logs.
func WithLogger(l *logrus.Logger) Option {
	return func(uc *ConsignmentUseCase) { uc.logger = l }
}

// WithClock overrides the source of "now" used for date advisories.
func WithClock(now func() time.Time) Option {
	return func(uc *ConsignmentUseCase) { uc.now = now }
}

// NewConsignmentUseCase creates a new instance of the usecase.
func NewConsignmentUseCase(repo ConsignmentRepository, opts ...Option) *ConsignmentUseCase {
	uc := &ConsignmentUseCase{
		repo:      repo,
		lifecycle: engine.NewLifecycle(nil),
		opts:      engine.Options{Policy: engine.SingleReturn},
		logger:    logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Policy reports the return policy in force.
func (uc *ConsignmentUseCase) Policy() engine.ReturnPolicy {
	return uc.opts.Policy
}

// Lifecycle returns the status transition table in force.
func (uc *ConsignmentUseCase) Lifecycle() *engine.Lifecycle {
	return uc.lifecycle
}

// CreateConsignment validates a dispatch and persists it.
func (uc *ConsignmentUseCase) CreateConsignment(ctx context.Context, in domain.ConsignmentInput) (domain.Consignment, error) {
	c, err := engine.NewConsignment(in)
	if err != nil {
		uc.logger.WithFields(logrus.Fields{
			"module":       moduleName,
			"counterparty": in.CounterpartyID,
			"error":        err.Error(),
		}).Info("consignment rejected")
		return domain.Consignment{}, err
	}

	if err := uc.repo.CreateConsignment(ctx, c); err != nil {
		config.LogError(uc.logger, moduleName, "CreateConsignment", "persist consignment", c.ID, err)
		return domain.Consignment{}, fmt.Errorf("could not create consignment: %w", err)
	}

	uc.logger.WithFields(logrus.Fields{
		"module":       moduleName,
		"consignment":  c.ID,
		"counterparty": c.CounterpartyID,
		"sent":         c.SentQuantity.String(),
		"unit":         c.Unit,
	}).Info("consignment dispatched")
	return c, nil
}

// GetConsignment loads one consignment with its returns.
func (uc *ConsignmentUseCase) GetConsignment(ctx context.Context, id string) (domain.Consignment, error) {
	c, err := uc.repo.GetConsignment(ctx, id)
	if err != nil {
		return domain.Consignment{}, fmt.Errorf("could not get consignment %s: %w", id, err)
	}
	return c, nil
}

// UpdateStatus moves a consignment to a new status through the lifecycle table.
// The write only lands if nobody changed the status since it was read.
func (uc *ConsignmentUseCase) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Consignment, error) {
	c, err := uc.GetConsignment(ctx, id)
	if err != nil {
		return domain.Consignment{}, err
	}

	next, err := uc.lifecycle.Transition(c, status)
	if err != nil {
		return domain.Consignment{}, err
	}
	if next.Status == c.Status {
		return next, nil
	}

	if err := uc.repo.UpdateStatus(ctx, id, c.Status, next.Status); err != nil {
		config.LogError(uc.logger, moduleName, "UpdateStatus", "persist status", map[string]any{"id": id, "status": status}, err)
		return domain.Consignment{}, fmt.Errorf("could not update status: %w", err)
	}

	uc.logger.WithFields(logrus.Fields{
		"module":      moduleName,
		"consignment": id,
		"from":        c.Status,
		"to":          next.Status,
	}).Info("consignment status changed")
	return next, nil
}

// DeleteConsignment removes a consignment that has no recorded returns.
func (uc *ConsignmentUseCase) DeleteConsignment(ctx context.Context, id string) error {
	c, err := uc.GetConsignment(ctx, id)
	if err != nil {
		return err
	}
	if c.HasReturns() {
		return fmt.Errorf("could not delete consignment %s: %w", id, domain.ErrConsignmentHasReturns)
	}
	if err := uc.repo.DeleteConsignment(ctx, id); err != nil {
		return fmt.Errorf("could not delete consignment %s: %w", id, err)
	}
	return nil
}
