package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pin-banking-ledger/internal/domain/shared"
	"github.com/pin-banking-ledger/internal/ledger"
)

type ProcessingServiceImpl struct {
	ledger    Ledger
	validator TransferValidator
	outcomes  OutcomeRecorder
	logger    *slog.Logger
}

func NewProcessingService(
	bank Ledger,
	validator TransferValidator,
	outcomes OutcomeRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		ledger:    bank,
		validator: validator,
		outcomes:  outcomes,
		logger:    logger,
	}
}

// ProcessTransfer validates, deduplicates and posts a single transfer.
// Business rejections are recorded and return nil; only cancellation and
// unclassified errors are returned to the caller.
func (s *ProcessingServiceImpl) ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Debug("Processing transfer",
		"request_id", request.RequestID.String(),
		"from_account_id", request.FromAccountID,
		"to_account_id", request.ToAccountID,
	)

	// 1. Validate the request
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Warn("Transfer validation failed", "request_id", request.RequestID.String(), "error", err)
		s.recordFailure(ctx, logger, request, FailureReasonFor(err))
		return nil
	}

	// 2. Claim the request id
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	// 3. Resolve both accounts
	from, ok := s.ledger.Account(request.FromAccountID)
	if !ok {
		s.recordFailure(ctx, logger, request, shared.FailureReasonAccountNotFound)
		return nil
	}
	to, ok := s.ledger.Account(request.ToAccountID)
	if !ok {
		s.recordFailure(ctx, logger, request, shared.FailureReasonAccountNotFound)
		return nil
	}

	// 4. Post
	if err := s.ledger.Transfer(from, to, request.Amount, request.Memo); err != nil {
		reason := FailureReasonFor(err)
		s.recordFailure(ctx, logger, request, reason)
		if reason == shared.FailureReasonUnknownError {
			return fmt.Errorf("transfer request %s: %w", request.RequestID.String(), err)
		}
		return nil
	}

	if err := s.outcomes.RecordCompletion(ctx, request); err != nil {
		logger.Error("Failed to record transfer completion", "request_id", request.RequestID.String(), "error", err)
	}
	return nil
}

func (s *ProcessingServiceImpl) recordFailure(ctx context.Context, logger *slog.Logger, request *shared.TransferRequest, reason shared.FailureReason) {
	if err := s.outcomes.RecordFailure(ctx, request, reason); err != nil {
		logger.Error("Failed to record transfer failure", "request_id", request.RequestID.String(), "reason", reason, "error", err)
	}
}

// FailureReasonFor maps a ledger or validation error to its failure code
func FailureReasonFor(err error) shared.FailureReason {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return shared.FailureReasonInvalidAmount
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return shared.FailureReasonInsufficientFunds
	case errors.Is(err, ledger.ErrSameAccount):
		return shared.FailureReasonSameAccount
	case errors.Is(err, ledger.ErrUnknownAccount):
		return shared.FailureReasonAccountNotFound
	case errors.Is(err, shared.ErrMissingAccountID), errors.Is(err, shared.ErrMissingRequestID):
		return shared.FailureReasonInvalidRequest
	default:
		return shared.FailureReasonUnknownError
	}
}
