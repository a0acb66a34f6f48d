package account

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	t.Run("ConservesFunds", func(t *testing.T) {
		a := newTestAccount(t, "1000000001")
		b := newTestAccount(t, "1000000002")
		a.AddTransaction(dec("100"), "seed")
		totalBefore := a.Balance().Add(b.Balance())

		debit, credit, err := Move(a, b, dec("40"), "Transfer to account 1000000002", "Transfer from account 1000000001")
		require.NoError(t, err)

		assert.True(t, dec("60").Equal(a.Balance()))
		assert.True(t, dec("40").Equal(b.Balance()))
		assert.True(t, totalBefore.Equal(a.Balance().Add(b.Balance())))

		assert.True(t, dec("-40").Equal(debit.Amount))
		assert.Equal(t, a.ID, debit.AccountID)
		assert.Equal(t, "Transfer to account 1000000002", debit.Memo)
		assert.True(t, dec("40").Equal(credit.Amount))
		assert.Equal(t, b.ID, credit.AccountID)
		assert.Equal(t, "Transfer from account 1000000001", credit.Memo)
	})

	t.Run("WholeBalance", func(t *testing.T) {
		a := newTestAccount(t, "1000000001")
		b := newTestAccount(t, "1000000002")
		a.AddTransaction(dec("25"), "seed")

		_, _, err := Move(a, b, dec("25"), "out", "in")
		require.NoError(t, err)
		assert.True(t, a.Balance().IsZero())
	})

	t.Run("Rejections", func(t *testing.T) {
		testCases := []struct {
			name    string
			amount  string
			same    bool
			wantErr error
		}{
			{"ZeroAmount", "0", false, ErrInvalidAmount},
			{"NegativeAmount", "-5", false, ErrInvalidAmount},
			{"InsufficientFunds", "1000", false, ErrInsufficientFunds},
			{"SameAccount", "1", true, ErrSameAccount},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				a := newTestAccount(t, "1000000001")
				b := newTestAccount(t, "1000000002")
				a.AddTransaction(dec("100"), "seed")
				if tc.same {
					b = a
				}

				_, _, err := Move(a, b, dec(tc.amount), "out", "in")
				assert.ErrorIs(t, err, tc.wantErr)
				assert.True(t, dec("100").Equal(a.Balance()))
				assert.Equal(t, 1, a.TransactionCount())
				if !tc.same {
					assert.Zero(t, b.TransactionCount())
				}
			})
		}
	})
}

func TestMove_ConcurrentOpposingTransfers(t *testing.T) {
	accounts := []*Account{
		newTestAccount(t, "2000000001"),
		newTestAccount(t, "2000000002"),
		newTestAccount(t, "2000000003"),
	}
	for _, acc := range accounts {
		acc.AddTransaction(dec("100"), "seed")
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed))
			for i := 0; i < 300; i++ {
				from := accounts[rng.IntN(len(accounts))]
				to := accounts[rng.IntN(len(accounts))]
				amount := decimal.NewFromInt(int64(rng.IntN(30) + 1))
				_, _, _ = Move(from, to, amount, "out", "in")
			}
		}(uint64(w))
	}

	// Balances stay non-negative for concurrent readers.
	done := make(chan struct{})
	var observerWg sync.WaitGroup
	observerWg.Add(1)
	go func() {
		defer observerWg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			for _, acc := range accounts {
				assert.False(t, acc.Balance().IsNegative(), "account %s overdrawn", acc.ID)
			}
		}
	}()

	wg.Wait()
	close(done)
	observerWg.Wait()

	total := decimal.Zero
	for _, acc := range accounts {
		total = total.Add(acc.Balance())
	}
	assert.True(t, dec("300").Equal(total), "total drifted to %s", total)
}
