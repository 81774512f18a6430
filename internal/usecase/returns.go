package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"stock-reconciliation/internal/config"
	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
)

// ReturnReceipt is what a caller gets back after a return is recorded.
type ReturnReceipt struct {
	engine.Applied
	Warnings []string `json:"warnings"`
}

// ValidateReturn checks a proposed return without recording it.
func (uc *ConsignmentUseCase) ValidateReturn(ctx context.Context, consignmentID string, r domain.Return) (engine.Result, error) {
	c, err := uc.GetConsignment(ctx, consignmentID)
	if err != nil {
		return engine.Result{}, err
	}
	return engine.Validate(c, r, uc.now(), uc.opts), nil
}

// RecordReturn validates a return and attaches it. Validation failures are
// returned as domain.ValidationErrors; the consignment status is left alone
// even when the warnings suggest completing it.
func (uc *ConsignmentUseCase) RecordReturn(ctx context.Context, consignmentID string, r domain.Return) (*ReturnReceipt, error) {
	c, err := uc.GetConsignment(ctx, consignmentID)
	if err != nil {
		return nil, err
	}

	res := engine.Validate(c, r, uc.now(), uc.opts)
	if !res.OK() {
		uc.logger.WithFields(logrus.Fields{
			"module":      moduleName,
			"consignment": consignmentID,
			"kinds":       res.Errors.Kinds(),
		}).Info("return rejected")
		return nil, res.Errors
	}

	applied, err := engine.ApplyReturn(c, r, uc.opts)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.AttachReturn(ctx, consignmentID, applied.Return); err != nil {
		config.LogError(uc.logger, moduleName, "RecordReturn", "attach return", consignmentID, err)
		return nil, fmt.Errorf("could not attach return: %w", err)
	}

	for _, w := range res.Warnings {
		uc.logger.WithFields(logrus.Fields{
			"module":      moduleName,
			"consignment": consignmentID,
		}).Info(w)
	}
	uc.logger.WithFields(logrus.Fields{
		"module":      moduleName,
		"consignment": consignmentID,
		"return":      applied.Return.ID,
		"net":         applied.NetReturnQuantity.String(),
		"used":        applied.UsedQuantity.String(),
	}).Info("return recorded")

	return &ReturnReceipt{Applied: applied, Warnings: res.Warnings}, nil
}
