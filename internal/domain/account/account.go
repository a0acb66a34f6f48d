package account

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptyLabel        = errors.New("account label cannot be empty")
	ErrEmptyID           = errors.New("account id cannot be empty")
	ErrSameAccount       = errors.New("source and destination account are the same")
)

// Default labels
const (
	LabelSavings  = "Savings"
	LabelChecking = "Checking"
)

// Account is a bank account whose balance is the sum of its postings.
// Postings are append-only; nothing is ever edited or removed.
type Account struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	OwnerID   string    `json:"owner_id"` // Resolved through the ledger, never a live handle
	CreatedAt time.Time `json:"created_at"`

	mu           sync.RWMutex
	transactions []Transaction
}

// NewAccount creates an empty account
func NewAccount(id, label, ownerID string) (*Account, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if label == "" {
		return nil, ErrEmptyLabel
	}

	return &Account{
		ID:        id,
		Label:     label,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}, nil
}

// Balance returns the sum of all posted amounts; zero for a new account
func (a *Account) Balance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balanceLocked()
}

func (a *Account) balanceLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.transactions {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// AddTransaction posts a signed amount. It never rejects: callers that need
// a funds check use Deposit, Withdraw or Move.
func (a *Account) AddTransaction(amount decimal.Decimal, memo string) Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.appendLocked(amount, memo)
}

func (a *Account) appendLocked(amount decimal.Decimal, memo string) Transaction {
	t := newTransaction(a.ID, amount, memo)
	a.transactions = append(a.transactions, t)
	return t
}

// Deposit posts a positive amount
func (a *Account) Deposit(amount decimal.Decimal, memo string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	return a.AddTransaction(amount, memo), nil
}

// Withdraw posts -amount if the balance covers it. The check and the posting
// happen under one lock.
func (a *Account) Withdraw(amount decimal.Decimal, memo string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.GreaterThan(a.balanceLocked()) {
		return Transaction{}, ErrInsufficientFunds
	}
	return a.appendLocked(amount.Neg(), memo), nil
}

// CanWithdraw checks if the account has sufficient funds for a withdrawal
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance().GreaterThanOrEqual(amount)
}

// History returns a copy of the postings in insertion order
func (a *Account) History() []Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// TransactionCount returns the number of postings
func (a *Account) TransactionCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.transactions)
}

// Summary is the one-line view of an account
type Summary struct {
	Label   string          `json:"label"`
	ID      string          `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// Summary returns the label, id and current balance
func (a *Account) Summary() Summary {
	return Summary{Label: a.Label, ID: a.ID, Balance: a.Balance()}
}

// String renders "id : $balance : label", negative balances in parentheses
func (s Summary) String() string {
	return fmt.Sprintf("%s : %s : %s", s.ID, FormatAmount(s.Balance), s.Label)
}

// FormatAmount renders a dollar amount with two decimals, negatives as ($x.xx)
func FormatAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "($" + d.Abs().StringFixed(2) + ")"
	}
	return "$" + d.StringFixed(2)
}
