// Package atm drives the console menu on top of a ledger.Bank. It owns all
// prompting and input parsing; every balance change goes through the bank.
package atm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/user"
	"github.com/pin-banking-ledger/internal/ledger"
	"github.com/shopspring/decimal"
)

// errQuit ends a user menu; Run never returns it
var errQuit = errors.New("quit")

const (
	choiceHistory = iota + 1
	choiceWithdraw
	choiceDeposit
	choiceTransfer
	choiceQuit
)

// PINReader reads a PIN after the prompt has been written
type PINReader func() (string, error)

// Session is one console attached to a bank
type Session struct {
	bank   *ledger.Bank
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger

	readPIN PINReader
	alert   *color.Color
	heading *color.Color
}

// Option customizes a Session
type Option func(*Session)

// WithPINReader replaces line input for PIN entry, e.g. with a no-echo
// terminal reader. A nil reader keeps line input.
func WithPINReader(r PINReader) Option {
	return func(s *Session) {
		if r != nil {
			s.readPIN = r
		}
	}
}

// WithoutColor disables ANSI colors for this session
func WithoutColor() Option {
	return func(s *Session) {
		s.alert.DisableColor()
		s.heading.DisableColor()
	}
}

// NewSession reads commands from in and writes prompts to out
func NewSession(bank *ledger.Bank, in io.Reader, out io.Writer, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		bank:    bank,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger,
		alert:   color.New(color.FgRed),
		heading: color.New(color.FgCyan, color.Bold),
	}
	s.readPIN = s.readLine
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run alternates between the login prompt and the user menu until input is
// exhausted or ctx is cancelled. End of input is a normal exit.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		u, err := s.login()
		if err != nil {
			return endOfInput(err)
		}

		sessionID := uuid.New()
		logger := s.logger.With("session_id", sessionID.String(), "user_id", u.ID)
		logger.Info("ATM session started")

		err = s.userMenu(ctx, u)
		logger.Info("ATM session ended")
		if err != nil && !errors.Is(err, errQuit) {
			return endOfInput(err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// login prompts until a user id and PIN authenticate
func (s *Session) login() (*user.User, error) {
	for {
		fmt.Fprintf(s.out, "\n\nWelcome to %s\n\n", s.bank.Name())
		userID, err := s.prompt("Enter user ID: ")
		if err != nil {
			return nil, err
		}
		fmt.Fprint(s.out, "Enter pin: ")
		pin, err := s.readPIN()
		if err != nil {
			return nil, err
		}

		u, err := s.bank.Authenticate(userID, pin)
		if err == nil {
			return u, nil
		}
		s.alert.Fprintln(s.out, "Incorrect user ID/pin combination. Please try again.")
	}
}

func (s *Session) userMenu(ctx context.Context, u *user.User) error {
	s.printSummary(u)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(s.out, "Welcome %s, what would you like to do?\n", u.FirstName)
		fmt.Fprintln(s.out, " 1) Show account transaction history")
		fmt.Fprintln(s.out, " 2) Withdraw")
		fmt.Fprintln(s.out, " 3) Deposit")
		fmt.Fprintln(s.out, " 4) Transfer")
		fmt.Fprintln(s.out, " 5) Quit")
		fmt.Fprintln(s.out)

		choice, err := s.promptInt("Enter choice: ", choiceHistory, choiceQuit, "Invalid choice. Please choose 1-5")
		if err != nil {
			return err
		}

		switch choice {
		case choiceHistory:
			err = s.showHistory(u)
		case choiceWithdraw:
			err = s.withdraw(u)
		case choiceDeposit:
			err = s.deposit(u)
		case choiceTransfer:
			err = s.transfer(u)
		case choiceQuit:
			return errQuit
		}
		if err != nil {
			return err
		}
		s.printSummary(u)
	}
}

func (s *Session) printSummary(u *user.User) {
	s.heading.Fprintf(s.out, "\n\n%s's accounts summary\n", u.FirstName)
	for i, summary := range u.AccountsSummary() {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, summary)
	}
	fmt.Fprintln(s.out)
}

func (s *Session) showHistory(u *user.User) error {
	index, err := s.promptAccount(u, "whose transactions you want to see")
	if err != nil {
		return err
	}

	// An index from promptAccount is always in range.
	id, _ := u.AccountID(index)
	history, _ := u.AccountHistory(index)

	s.heading.Fprintf(s.out, "\nTransaction history for account %s\n", id)
	for i := len(history) - 1; i >= 0; i-- {
		fmt.Fprintf(s.out, "  %s\n", history[i].SummaryLine())
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Session) withdraw(u *user.User) error {
	index, err := s.promptAccount(u, "to withdraw from")
	if err != nil {
		return err
	}
	balance, _ := u.AccountBalance(index)
	if !balance.IsPositive() {
		s.alert.Fprintln(s.out, "This account has no funds to withdraw.")
		return nil
	}

	amount, err := s.promptAmount(
		fmt.Sprintf("Enter the amount to withdraw (max %s): $", account.FormatAmount(balance)),
		decimal.NewNullDecimal(balance),
	)
	if err != nil {
		return err
	}
	memo, err := s.prompt("Enter a memo: ")
	if err != nil {
		return err
	}

	if _, err := s.bank.Withdraw(u, index, amount, memo); err != nil {
		s.reportRejection(err)
	}
	return nil
}

func (s *Session) deposit(u *user.User) error {
	index, err := s.promptAccount(u, "to deposit in")
	if err != nil {
		return err
	}

	amount, err := s.promptAmount("Enter the amount to deposit: $", decimal.NullDecimal{})
	if err != nil {
		return err
	}
	memo, err := s.prompt("Enter a memo: ")
	if err != nil {
		return err
	}

	if _, err := s.bank.Deposit(u, index, amount, memo); err != nil {
		s.reportRejection(err)
	}
	return nil
}

func (s *Session) transfer(u *user.User) error {
	from, err := s.promptAccount(u, "to transfer from")
	if err != nil {
		return err
	}
	balance, _ := u.AccountBalance(from)
	if !balance.IsPositive() {
		s.alert.Fprintln(s.out, "This account has no funds to transfer.")
		return nil
	}

	to, err := s.promptAccount(u, "to transfer to")
	if err != nil {
		return err
	}

	amount, err := s.promptAmount(
		fmt.Sprintf("Enter the amount to transfer (max %s): $", account.FormatAmount(balance)),
		decimal.NewNullDecimal(balance),
	)
	if err != nil {
		return err
	}

	if err := s.bank.TransferBetween(u, from, to, amount, ""); err != nil {
		s.reportRejection(err)
	}
	return nil
}

// reportRejection prints why the bank refused a posting
func (s *Session) reportRejection(err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		s.alert.Fprintln(s.out, "Insufficient funds. Nothing was posted.")
	case errors.Is(err, ledger.ErrSameAccount):
		s.alert.Fprintln(s.out, "Source and destination must be different accounts.")
	case errors.Is(err, ledger.ErrInvalidAmount):
		s.alert.Fprintln(s.out, "Amount must be greater than zero")
	default:
		s.alert.Fprintf(s.out, "Transaction failed: %v\n", err)
	}
}

// promptAccount asks for a 1-based account number and returns its index
func (s *Session) promptAccount(u *user.User, purpose string) (int, error) {
	n := u.AccountCount()
	choice, err := s.promptInt(
		fmt.Sprintf("Enter the number (1-%d) of the account\n%s: ", n, purpose),
		1, n, "Invalid account. Please try again.",
	)
	if err != nil {
		return 0, err
	}
	return choice - 1, nil
}

func (s *Session) promptInt(prompt string, lo, hi int, invalid string) (int, error) {
	for {
		line, err := s.prompt(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		s.alert.Fprintln(s.out, invalid)
	}
}

// maxAmount caps a single console entry
var maxAmount = decimal.RequireFromString("999999999.99")

// promptAmount re-prompts until it reads a positive amount in whole cents,
// at most maxAmount and no greater than limit when limit is set
func (s *Session) promptAmount(prompt string, limit decimal.NullDecimal) (decimal.Decimal, error) {
	for {
		line, err := s.prompt(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(line)
		switch {
		case err != nil, strings.ContainsAny(line, "eE"), !amount.Equal(amount.Truncate(2)):
			s.alert.Fprintln(s.out, "Please enter a number, e.g. 12.50")
		case amount.GreaterThan(maxAmount):
			s.alert.Fprintf(s.out, "Amount must not be greater than %s.\n", account.FormatAmount(maxAmount))
		case !amount.IsPositive():
			s.alert.Fprintln(s.out, "Amount must be greater than zero")
		case limit.Valid && amount.GreaterThan(limit.Decimal):
			s.alert.Fprintf(s.out, "Amount must not be greater than\nbalance of %s.\n", account.FormatAmount(limit.Decimal))
		default:
			return amount, nil
		}
	}
}

func (s *Session) prompt(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	return s.readLine()
}

// readLine returns the next line without its terminator. A final line with
// no newline is still returned; io.EOF only follows it.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
