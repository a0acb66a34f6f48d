package ledger

import (
	"errors"

	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/credential"
	"github.com/pin-banking-ledger/internal/domain/identifier"
	"github.com/pin-banking-ledger/internal/domain/user"
)

// Errors surfaced by the Bank. Domain errors are re-exported so callers
// only need this package for errors.Is checks.
var (
	ErrUnknownUser    = errors.New("user is not registered with this bank")
	ErrUnknownAccount = errors.New("account is not registered with this bank")

	ErrAuthenticationFailed     = user.ErrAuthenticationFailed
	ErrIndexOutOfRange          = user.ErrIndexOutOfRange
	ErrInvalidAmount            = account.ErrInvalidAmount
	ErrInsufficientFunds        = account.ErrInsufficientFunds
	ErrSameAccount              = account.ErrSameAccount
	ErrIdentifierSpaceExhausted = identifier.ErrIdentifierSpaceExhausted
	ErrHashUnavailable          = credential.ErrHashUnavailable
)
