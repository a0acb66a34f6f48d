package service

import (
	"context"

	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProcessingService defines the interface for processing transfer requests.
type ProcessingService interface {
	ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error
}

// TransferValidator validates transfer requests before processing
type TransferValidator interface {
	Validate(ctx context.Context, request *shared.TransferRequest) error
	// CheckIdempotency claims the request id. It returns true when the
	// request was already claimed and must be skipped.
	CheckIdempotency(ctx context.Context, request *shared.TransferRequest) (bool, error)
}

// Ledger resolves accounts and posts transfers; *ledger.Bank satisfies it
type Ledger interface {
	Account(id string) (*account.Account, bool)
	Transfer(from, to *account.Account, amount decimal.Decimal, memo string) error
}

// OutcomeRecorder records how each claimed request ended
type OutcomeRecorder interface {
	RecordCompletion(ctx context.Context, request *shared.TransferRequest) error
	RecordFailure(ctx context.Context, request *shared.TransferRequest, reason shared.FailureReason) error
}
