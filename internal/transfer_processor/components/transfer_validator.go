package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pin-banking-ledger/internal/domain/shared"
	"github.com/pin-banking-ledger/internal/ledger"
	"github.com/pin-banking-ledger/internal/transfer_processor/service"
)

type TransferValidatorImpl struct {
	outcomes *OutcomeLog
	logger   *slog.Logger
}

func NewTransferValidator(outcomes *OutcomeLog, logger *slog.Logger) service.TransferValidator {
	return &TransferValidatorImpl{
		outcomes: outcomes,
		logger:   logger,
	}
}

// Validate checks transfer request validity
func (v *TransferValidatorImpl) Validate(ctx context.Context, request *shared.TransferRequest) error {
	if request.RequestID == uuid.Nil {
		return shared.ErrMissingRequestID
	}
	if request.FromAccountID == "" || request.ToAccountID == "" {
		return shared.ErrMissingAccountID
	}
	if !request.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %s: %w", request.Amount.String(), ledger.ErrInvalidAmount)
	}
	if request.FromAccountID == request.ToAccountID {
		return fmt.Errorf("account %s: %w", request.FromAccountID, ledger.ErrSameAccount)
	}
	return nil
}

// CheckIdempotency checks if the request was already processed
func (v *TransferValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.TransferRequest) (bool, error) {
	if v.outcomes.Claim(request.RequestID) {
		return false, nil
	}

	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}
	outcome, _ := v.outcomes.Lookup(request.RequestID)
	logger.Info("Transfer already processed (idempotency)", "request_id", request.RequestID.String(), "status", outcome.Status)
	return true, nil
}
