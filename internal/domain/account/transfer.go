package account

import (
	"github.com/shopspring/decimal"
)

// Move transfers amount from one account to another as a single unit.
// Both accounts are locked in ascending id order, the funds check runs under
// the locks, and the debit and credit are appended before either lock is
// released. A reader of either balance sees both postings or neither.
func Move(from, to *Account, amount decimal.Decimal, debitMemo, creditMemo string) (debit, credit Transaction, err error) {
	if !amount.IsPositive() {
		return Transaction{}, Transaction{}, ErrInvalidAmount
	}
	if from == to || from.ID == to.ID {
		return Transaction{}, Transaction{}, ErrSameAccount
	}

	first, second := from, to
	if second.ID < first.ID {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if amount.GreaterThan(from.balanceLocked()) {
		return Transaction{}, Transaction{}, ErrInsufficientFunds
	}

	debit = from.appendLocked(amount.Neg(), debitMemo)
	credit = to.appendLocked(amount, creditMemo)
	return debit, credit, nil
}
