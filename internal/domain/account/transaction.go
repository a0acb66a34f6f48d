package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one posting against an account. Debits are negative,
// credits positive. Values are copied out of the account, so a Transaction
// held by a caller can not change the account's history.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo"`
	Timestamp time.Time       `json:"timestamp"`
}

func newTransaction(accountID string, amount decimal.Decimal, memo string) Transaction {
	return Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		Memo:      memo,
		Timestamp: time.Now(),
	}
}

// IsDebit reports whether the posting removed funds
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// SummaryLine renders "timestamp : $amount : memo"
func (t Transaction) SummaryLine() string {
	return fmt.Sprintf("%s : %s : %s", t.Timestamp.Format(time.DateTime), FormatAmount(t.Amount), t.Memo)
}
