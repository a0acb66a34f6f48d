package ledger

import (
	"fmt"

	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/user"
	"github.com/shopspring/decimal"
)

type userRegistry map[string]*user.User

func (r userRegistry) Contains(id string) bool {
	_, ok := r[id]
	return ok
}

func (r userRegistry) Len() int { return len(r) }

type accountRegistry map[string]*account.Account

func (r accountRegistry) Contains(id string) bool {
	_, ok := r[id]
	return ok
}

func (r accountRegistry) Len() int { return len(r) }

// User looks up a user by id
func (b *Bank) User(id string) (*user.User, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.users[id]
	return u, ok
}

// Account looks up an account by id
func (b *Bank) Account(id string) (*account.Account, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	acc, ok := b.accounts[id]
	return acc, ok
}

// Owner resolves an account's owner through the registry
func (b *Bank) Owner(acc *account.Account) (*user.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.users[acc.OwnerID]
	if !ok {
		return nil, fmt.Errorf("owner %s of account %s: %w", acc.OwnerID, acc.ID, ErrUnknownUser)
	}
	return u, nil
}

// UserCount returns the number of registered users
func (b *Bank) UserCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.users)
}

// AccountCount returns the number of registered accounts
func (b *Bank) AccountCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.accounts)
}

// Accounts returns every registered account in no particular order
func (b *Bank) Accounts() []*account.Account {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*account.Account, 0, len(b.accounts))
	for _, acc := range b.accounts {
		out = append(out, acc)
	}
	return out
}

// TotalBalance sums every account, locking one account at a time. While
// transfers are in flight it may count only one side of a transfer, so it is
// not an audit value until they stop; then it equals the sum of all deposits
// minus all withdrawals.
func (b *Bank) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, acc := range b.Accounts() {
		total = total.Add(acc.Balance())
	}
	return total
}

// CheckIntegrity verifies that the account registry and the users' account
// lists describe the same set, with matching owners.
func (b *Bank) CheckIntegrity() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[string]bool, len(b.accounts))
	for _, u := range b.users {
		for _, acc := range u.Accounts() {
			if registered, ok := b.accounts[acc.ID]; !ok || registered != acc {
				return fmt.Errorf("account %s of user %s: %w", acc.ID, u.ID, ErrUnknownAccount)
			}
			if acc.OwnerID != u.ID {
				return fmt.Errorf("account %s listed by user %s but owned by %s: %w", acc.ID, u.ID, acc.OwnerID, user.ErrForeignAccount)
			}
			seen[acc.ID] = true
		}
	}
	for id := range b.accounts {
		if !seen[id] {
			return fmt.Errorf("account %s has no owner in this bank: %w", id, ErrUnknownUser)
		}
	}
	return nil
}
