package components

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/pin-banking-ledger/internal/config"
	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/credential"
	"github.com/pin-banking-ledger/internal/domain/shared"
	"github.com/pin-banking-ledger/internal/ledger"
	"github.com/pin-banking-ledger/internal/transfer_processor/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFundedBank(t *testing.T, deposit int64) (*ledger.Bank, []*account.Account) {
	t.Helper()
	hasher, err := credential.NewHasher(credential.AlgorithmSHA256, 0)
	require.NoError(t, err)
	bank, err := ledger.NewBank("Test Bank", hasher, discardLogger())
	require.NoError(t, err)

	var accounts []*account.Account
	for _, name := range []string{"Ada", "Grace", "Alan"} {
		u, err := bank.OnboardUser(name, "Tester", "1234")
		require.NoError(t, err)
		_, err = bank.Deposit(u, 0, decimal.NewFromInt(deposit), "initial")
		require.NoError(t, err)
		acc, err := u.Account(0)
		require.NoError(t, err)
		accounts = append(accounts, acc)
	}
	return bank, accounts
}

func TestCreateProcessingService(t *testing.T) {
	bank, _ := newFundedBank(t, 10)

	cfg := &config.Config{
		WorkerPool: config.WorkerPoolConfig{
			Size: 5,
		},
	}

	processingService := CreateProcessingService(bank, NewOutcomeLog(discardLogger()), discardLogger(), cfg)
	require.NotNil(t, processingService)

	workerPool, ok := processingService.(*service.WorkerPoolProcessingService)
	require.True(t, ok)
	defer workerPool.Shutdown()
	assert.Equal(t, 5, workerPool.Capacity())
}

func TestCreateProcessingService_EndToEnd(t *testing.T) {
	bank, accounts := newFundedBank(t, 100)
	outcomes := NewOutcomeLog(discardLogger())
	cfg := &config.Config{WorkerPool: config.WorkerPoolConfig{Size: 4}}

	processingService := CreateProcessingService(bank, outcomes, discardLogger(), cfg)
	workerPool := processingService.(*service.WorkerPoolProcessingService)
	defer workerPool.Shutdown()

	ctx := context.Background()
	ok := shared.NewTransferRequest(accounts[0].ID, accounts[1].ID, decimal.NewFromInt(40), "lunch")
	tooMuch := shared.NewTransferRequest(accounts[2].ID, accounts[0].ID, decimal.NewFromInt(500), "")
	missing := shared.NewTransferRequest(accounts[1].ID, "9999999999", decimal.NewFromInt(1), "")

	errs := workerPool.ProcessBatch(ctx, []*shared.TransferRequest{ok, tooMuch, missing})
	for _, err := range errs {
		assert.NoError(t, err)
	}

	// Replaying a processed request posts nothing.
	require.NoError(t, processingService.ProcessTransfer(ctx, ok))

	assert.Equal(t, "60", accounts[0].Balance().String())
	assert.Equal(t, "140", accounts[1].Balance().String())
	assert.Equal(t, "100", accounts[2].Balance().String())
	assert.Equal(t, "300", bank.TotalBalance().String())

	completed, failed := outcomes.Summary()
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, failed[shared.FailureReasonInsufficientFunds])
	assert.Equal(t, 1, failed[shared.FailureReasonAccountNotFound])
}

func TestCreateProcessingService_ConcurrentTransfersConserveFunds(t *testing.T) {
	bank, accounts := newFundedBank(t, 50)
	cfg := &config.Config{WorkerPool: config.WorkerPoolConfig{Size: 8}}
	processingService := CreateProcessingService(bank, NewOutcomeLog(discardLogger()), discardLogger(), cfg)
	defer processingService.(*service.WorkerPoolProcessingService).Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 300; i++ {
		from := accounts[i%3]
		to := accounts[(i+1)%3]
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := shared.NewTransferRequest(from.ID, to.ID, decimal.NewFromInt(int64(i%7+1)), "")
			assert.NoError(t, processingService.ProcessTransfer(context.Background(), req))
		}()
	}
	wg.Wait()

	assert.Equal(t, "150", bank.TotalBalance().String())
	for _, acc := range accounts {
		assert.False(t, acc.Balance().IsNegative(), "account %s", acc.ID)
	}
	require.NoError(t, bank.CheckIntegrity())
}
