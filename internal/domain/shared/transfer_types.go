package shared

// TransferStatus defines transfer processing states
type TransferStatus string

const (
	TransferStatusProcessing TransferStatus = "PROCESSING"
	TransferStatusCompleted  TransferStatus = "COMPLETED"
	TransferStatusFailed     TransferStatus = "FAILED"
)

// IsTerminal reports whether a request in this state must not run again
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusFailed
}

// FailureReason defines transfer failure categories
type FailureReason string

const (
	FailureReasonAccountNotFound   FailureReason = "ACCOUNT_NOT_FOUND"
	FailureReasonInsufficientFunds FailureReason = "INSUFFICIENT_FUNDS"
	FailureReasonInvalidAmount     FailureReason = "INVALID_AMOUNT"
	FailureReasonSameAccount       FailureReason = "SAME_ACCOUNT"
	FailureReasonInvalidRequest    FailureReason = "INVALID_REQUEST"
	FailureReasonUnknownError      FailureReason = "UNKNOWN_ERROR"
)
