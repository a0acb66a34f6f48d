// Package ledger is the bank: the registry of users and accounts, the only
// issuer of their identifiers, the login gate and the transfer protocol.
package ledger

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/pin-banking-ledger/internal/config"
	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/credential"
	"github.com/pin-banking-ledger/internal/domain/identifier"
	"github.com/pin-banking-ledger/internal/domain/user"
	"github.com/shopspring/decimal"
)

// placeholderPIN is hashed once so failed lookups cost one verification too
const placeholderPIN = "placeholder-pin"

// Bank owns every user and account. All id issuance and registration happen
// under mu; balances are guarded by each account's own lock.
type Bank struct {
	name        string
	hasher      credential.Hasher
	logger      *slog.Logger
	userNS      identifier.Namespace
	accountNS   identifier.Namespace
	maxAttempts int
	placeholder credential.Digest

	mu       sync.RWMutex
	src      identifier.DigitSource
	users    userRegistry
	accounts accountRegistry
}

// Option customizes a Bank
type Option func(*Bank)

// WithDigitSource replaces the random source used for ids
func WithDigitSource(src identifier.DigitSource) Option {
	return func(b *Bank) { b.src = src }
}

// WithNamespaces overrides the user and account id lengths
func WithNamespaces(users, accounts identifier.Namespace) Option {
	return func(b *Bank) {
		b.userNS = users
		b.accountNS = accounts
	}
}

// WithMaxAttempts bounds id collisions per issuance
func WithMaxAttempts(n int) Option {
	return func(b *Bank) { b.maxAttempts = n }
}

// NewBank creates an empty bank
func NewBank(name string, hasher credential.Hasher, logger *slog.Logger, opts ...Option) (*Bank, error) {
	b := &Bank{
		name:        name,
		hasher:      hasher,
		logger:      logger,
		userNS:      identifier.Users,
		accountNS:   identifier.Accounts,
		maxAttempts: 1000,
		src:         globalSource{},
		users:       userRegistry{},
		accounts:    accountRegistry{},
	}
	for _, opt := range opts {
		opt(b)
	}

	placeholder, err := hasher.Hash(placeholderPIN)
	if err != nil {
		return nil, fmt.Errorf("initializing bank %q: %w", name, err)
	}
	b.placeholder = placeholder

	return b, nil
}

// NewBankFromConfig builds the hasher and namespaces from cfg. An unknown
// credential algorithm fails here with ErrHashUnavailable.
func NewBankFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Bank, error) {
	hasher, err := credential.NewHasher(cfg.Credential.Algorithm, cfg.Credential.BcryptCost)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithNamespaces(
			identifier.Namespace{Name: identifier.Users.Name, Length: cfg.Identifier.UserIDLength},
			identifier.Namespace{Name: identifier.Accounts.Name, Length: cfg.Identifier.AccountIDLength},
		),
		WithMaxAttempts(cfg.Identifier.MaxAttempts),
	}

	logger.Info("Bank initialized",
		"bank", cfg.Application.Name,
		"credential_algorithm", hasher.Algorithm(),
	)
	return NewBank(cfg.Application.Name, hasher, logger, append(base, opts...)...)
}

// Name returns the bank's display name
func (b *Bank) Name() string { return b.name }

// OnboardUser registers a new user with a default Savings account
func (b *Bank) OnboardUser(firstName, lastName, pin string) (*user.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userID, err := identifier.Generate(b.src, b.userNS, b.users, b.maxAttempts)
	if err != nil {
		b.logger.Error("Failed to issue user id", "error", err)
		return nil, err
	}

	u, err := user.NewUser(userID, firstName, lastName, pin, b.hasher)
	if err != nil {
		return nil, err
	}

	acc, err := b.newAccountLocked(u, account.LabelSavings)
	if err != nil {
		return nil, err
	}

	if err := b.registerAccountLocked(u, acc); err != nil {
		return nil, err
	}
	b.users[u.ID] = u

	b.logger.Info("User onboarded", "user_id", u.ID, "name", u.FullName(), "account_id", acc.ID)
	return u, nil
}

// OpenAccount registers an additional account for u
func (b *Bank) OpenAccount(u *user.User, label string) (*account.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if registered, ok := b.users[u.ID]; !ok || registered != u {
		return nil, fmt.Errorf("opening %q account for user %s: %w", label, u.ID, ErrUnknownUser)
	}

	acc, err := b.newAccountLocked(u, label)
	if err != nil {
		return nil, err
	}
	if err := b.registerAccountLocked(u, acc); err != nil {
		return nil, err
	}

	b.logger.Info("Account opened", "user_id", u.ID, "account_id", acc.ID, "label", label)
	return acc, nil
}

func (b *Bank) newAccountLocked(u *user.User, label string) (*account.Account, error) {
	accountID, err := identifier.Generate(b.src, b.accountNS, b.accounts, b.maxAttempts)
	if err != nil {
		b.logger.Error("Failed to issue account id", "user_id", u.ID, "error", err)
		return nil, err
	}
	return account.NewAccount(accountID, label, u.ID)
}

// registerAccountLocked adds acc to its owner and then to the registry, so a
// rejected account is in neither
func (b *Bank) registerAccountLocked(u *user.User, acc *account.Account) error {
	if err := u.AddAccount(acc); err != nil {
		return fmt.Errorf("registering account %s: %w", acc.ID, err)
	}
	b.accounts[acc.ID] = acc
	return nil
}

// Authenticate returns the user only if userID exists and pin matches.
// Unknown ids and wrong PINs produce the same error and the same work.
func (b *Bank) Authenticate(userID, pin string) (*user.User, error) {
	b.mu.RLock()
	u, ok := b.users[userID]
	b.mu.RUnlock()

	if !ok {
		b.hasher.Verify(pin, b.placeholder)
		b.logger.Warn("Login rejected", "user_id", userID)
		return nil, ErrAuthenticationFailed
	}
	if !u.Authenticate(pin) {
		b.logger.Warn("Login rejected", "user_id", userID)
		return nil, ErrAuthenticationFailed
	}

	b.logger.Info("Login succeeded", "user_id", userID)
	return u, nil
}

// Transfer moves amount from one registered account to another. The debit
// memo names the destination and the credit memo names the source; memo, if
// given, is appended to both.
func (b *Bank) Transfer(from, to *account.Account, amount decimal.Decimal, memo string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := b.checkRegistered(from); err != nil {
		return err
	}
	if err := b.checkRegistered(to); err != nil {
		return err
	}

	debitMemo := "Transfer to account " + to.ID
	creditMemo := "Transfer from account " + from.ID
	if memo != "" {
		debitMemo += ": " + memo
		creditMemo += ": " + memo
	}

	debit, credit, err := account.Move(from, to, amount, debitMemo, creditMemo)
	if err != nil {
		b.logger.Warn("Transfer rejected",
			"from_account_id", from.ID,
			"to_account_id", to.ID,
			"amount", amount.String(),
			"error", err,
		)
		return fmt.Errorf("transfer %s -> %s: %w", from.ID, to.ID, err)
	}

	b.logger.Info("Transfer posted",
		"from_account_id", from.ID,
		"to_account_id", to.ID,
		"amount", amount.String(),
		"debit_id", debit.ID.String(),
		"credit_id", credit.ID.String(),
	)
	return nil
}

// TransferBetween transfers between two of u's accounts by index
func (b *Bank) TransferBetween(u *user.User, fromIndex, toIndex int, amount decimal.Decimal, memo string) error {
	from, err := u.Account(fromIndex)
	if err != nil {
		return err
	}
	to, err := u.Account(toIndex)
	if err != nil {
		return err
	}
	return b.Transfer(from, to, amount, memo)
}

// Deposit credits a positive amount to u's account at index
func (b *Bank) Deposit(u *user.User, index int, amount decimal.Decimal, memo string) (account.Transaction, error) {
	acc, err := u.Account(index)
	if err != nil {
		return account.Transaction{}, err
	}

	t, err := acc.Deposit(amount, memo)
	if err != nil {
		return account.Transaction{}, err
	}

	b.logger.Info("Deposit posted", "user_id", u.ID, "account_id", acc.ID, "amount", amount.String(), "transaction_id", t.ID.String())
	return t, nil
}

// Withdraw debits amount from u's account at index if the balance covers it
func (b *Bank) Withdraw(u *user.User, index int, amount decimal.Decimal, memo string) (account.Transaction, error) {
	acc, err := u.Account(index)
	if err != nil {
		return account.Transaction{}, err
	}

	t, err := acc.Withdraw(amount, memo)
	if err != nil {
		b.logger.Warn("Withdrawal rejected", "user_id", u.ID, "account_id", acc.ID, "amount", amount.String(), "error", err)
		return account.Transaction{}, err
	}

	b.logger.Info("Withdrawal posted", "user_id", u.ID, "account_id", acc.ID, "amount", amount.String(), "transaction_id", t.ID.String())
	return t, nil
}

func (b *Bank) checkRegistered(acc *account.Account) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if registered, ok := b.accounts[acc.ID]; !ok || registered != acc {
		return fmt.Errorf("account %s: %w", acc.ID, ErrUnknownAccount)
	}
	return nil
}

// globalSource draws from math/rand/v2's goroutine-safe top-level generator
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }
