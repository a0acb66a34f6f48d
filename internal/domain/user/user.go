// Package user models a bank customer and the accounts they own.
package user

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/credential"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrAuthenticationFailed = errors.New("incorrect user id or pin")
	ErrIndexOutOfRange      = errors.New("account index out of range")
	ErrEmptyName            = errors.New("first and last name cannot be empty")
	ErrForeignAccount       = errors.New("account belongs to another user")
)

// User owns an ordered list of accounts and authenticates with a hashed PIN
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	hasher credential.Hasher
	digest credential.Digest

	mu       sync.RWMutex
	accounts []*account.Account
}

// NewUser hashes pin with hasher and keeps only the digest
func NewUser(id, firstName, lastName, pin string, hasher credential.Hasher) (*User, error) {
	if firstName == "" || lastName == "" {
		return nil, ErrEmptyName
	}

	digest, err := hasher.Hash(pin)
	if err != nil {
		return nil, fmt.Errorf("creating user %s: %w", id, err)
	}

	return &User{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		hasher:    hasher,
		digest:    digest,
	}, nil
}

// FullName returns "Last, First"
func (u *User) FullName() string {
	return u.LastName + ", " + u.FirstName
}

// Authenticate reports whether pin matches the one the user was created with
func (u *User) Authenticate(pin string) bool {
	return u.hasher.Verify(pin, u.digest)
}

// AddAccount appends acc to the user's accounts
func (u *User) AddAccount(acc *account.Account) error {
	if acc.OwnerID != u.ID {
		return fmt.Errorf("adding account %s to user %s: %w", acc.ID, u.ID, ErrForeignAccount)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.accounts = append(u.accounts, acc)
	return nil
}

// AccountCount returns the number of accounts
func (u *User) AccountCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.accounts)
}

// Account returns the account at index
func (u *User) Account(index int) (*account.Account, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if index < 0 || index >= len(u.accounts) {
		return nil, fmt.Errorf("index %d with %d accounts: %w", index, len(u.accounts), ErrIndexOutOfRange)
	}
	return u.accounts[index], nil
}

// Accounts returns a copy of the account list
func (u *User) Accounts() []*account.Account {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]*account.Account, len(u.accounts))
	copy(out, u.accounts)
	return out
}

func (u *User) AccountBalance(index int) (decimal.Decimal, error) {
	acc, err := u.Account(index)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance(), nil
}

func (u *User) AccountID(index int) (string, error) {
	acc, err := u.Account(index)
	if err != nil {
		return "", err
	}
	return acc.ID, nil
}

func (u *User) AccountHistory(index int) ([]account.Transaction, error) {
	acc, err := u.Account(index)
	if err != nil {
		return nil, err
	}
	return acc.History(), nil
}

// PostTransaction appends a raw signed posting to the account at index.
// No funds check is made here.
func (u *User) PostTransaction(index int, amount decimal.Decimal, memo string) (account.Transaction, error) {
	acc, err := u.Account(index)
	if err != nil {
		return account.Transaction{}, err
	}
	return acc.AddTransaction(amount, memo), nil
}

// AccountsSummary returns one summary per account, in order
func (u *User) AccountsSummary() []account.Summary {
	accounts := u.Accounts()
	out := make([]account.Summary, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, acc.Summary())
	}
	return out
}
