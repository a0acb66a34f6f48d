package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingAccountID = errors.New("transfer request is missing an account id")
	ErrMissingRequestID = errors.New("transfer request is missing its request id")
)

// TransferRequest asks the processing service to move money between two
// accounts of the same bank
type TransferRequest struct {
	RequestID     uuid.UUID       `json:"request_id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Memo          string          `json:"memo,omitempty"`
	CorrelationID string          `json:"correlation_id"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewTransferRequest stamps a request with a fresh id and the current time
func NewTransferRequest(fromAccountID, toAccountID string, amount decimal.Decimal, memo string) *TransferRequest {
	return &TransferRequest{
		RequestID:     uuid.New(),
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		Memo:          memo,
		Timestamp:     time.Now().UTC(),
	}
}
