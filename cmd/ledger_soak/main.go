package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pin-banking-ledger/internal/config"
	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/domain/shared"
	"github.com/pin-banking-ledger/internal/ledger"
	"github.com/pin-banking-ledger/internal/logger"
	"github.com/pin-banking-ledger/internal/transfer_processor/components"
	"github.com/pin-banking-ledger/internal/transfer_processor/service"
	"github.com/shopspring/decimal"
)

func main() {
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig("ledger_soak")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting ledger soak",
		"users", cfg.Soak.Users,
		"transfers", cfg.Soak.Transfers,
		"initial_deposit", cfg.Soak.InitialDeposit.String(),
		"pool_size", cfg.WorkerPool.Size,
	)

	bank, err := ledger.NewBankFromConfig(cfg, log)
	if err != nil {
		log.Error("Failed to initialize bank", "error", err)
		os.Exit(1)
	}

	accounts, err := seed(bank, cfg)
	if err != nil {
		log.Error("Failed to seed bank", "error", err)
		os.Exit(1)
	}
	expected := cfg.Soak.InitialDeposit.Mul(decimal.NewFromInt(int64(len(accounts))))

	outcomes := components.NewOutcomeLog(log)
	processingService := components.CreateProcessingService(bank, outcomes, log, cfg)
	if workerPool, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		defer workerPool.Shutdown()
	}

	requests := randomTransfers(accounts, cfg.Soak.Transfers, cfg.Soak.InitialDeposit)

	start := time.Now()
	failures := process(appCtx, processingService, requests)
	elapsed := time.Since(start)

	completed, rejected := outcomes.Summary()
	log.Info("Soak finished",
		"elapsed", elapsed.String(),
		"completed", completed,
		"rejected", rejected,
		"errors", failures,
	)

	violations := 0
	if total := bank.TotalBalance(); !total.Equal(expected) {
		log.Error("Funds were not conserved", "expected", expected.String(), "actual", total.String())
		violations++
	}
	for _, acc := range accounts {
		if acc.Balance().IsNegative() {
			log.Error("Account overdrawn", "account_id", acc.ID, "balance", acc.Balance().String())
			violations++
		}
	}
	if err := bank.CheckIntegrity(); err != nil {
		log.Error("Registry integrity check failed", "error", err)
		violations++
	}

	if violations > 0 || failures > 0 {
		os.Exit(1)
	}
	log.Info("Ledger invariants hold", "total", expected.String())
}

// seed onboards the configured users, each with a funded savings account
func seed(bank *ledger.Bank, cfg *config.Config) ([]*account.Account, error) {
	accounts := make([]*account.Account, 0, cfg.Soak.Users)
	for i := 0; i < cfg.Soak.Users; i++ {
		u, err := bank.OnboardUser(fmt.Sprintf("User%d", i), "Soak", fmt.Sprintf("%04d", i%10000))
		if err != nil {
			return nil, err
		}
		if _, err := bank.Deposit(u, 0, cfg.Soak.InitialDeposit, "initial deposit"); err != nil {
			return nil, err
		}
		acc, err := u.Account(0)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// randomTransfers draws n transfers between distinct accounts. Amounts go up
// to half the initial deposit so some of them overdraw and get rejected.
func randomTransfers(accounts []*account.Account, n int, deposit decimal.Decimal) []*shared.TransferRequest {
	maxCents := deposit.Shift(2).IntPart() / 2
	if maxCents < 1 {
		maxCents = 1
	}

	requests := make([]*shared.TransferRequest, 0, n)
	for i := 0; i < n; i++ {
		from := rand.IntN(len(accounts))
		to := rand.IntN(len(accounts) - 1)
		if to >= from {
			to++
		}
		amount := decimal.New(rand.Int64N(maxCents)+1, -2)
		request := shared.NewTransferRequest(accounts[from].ID, accounts[to].ID, amount, "soak")
		request.CorrelationID = fmt.Sprintf("soak-%d", i)
		requests = append(requests, request)
	}
	return requests
}

// process runs every request and counts the ones that returned an error
func process(ctx context.Context, svc service.ProcessingService, requests []*shared.TransferRequest) int {
	var errs []error
	if workerPool, ok := svc.(*service.WorkerPoolProcessingService); ok {
		errs = workerPool.ProcessBatch(ctx, requests)
	} else {
		for _, request := range requests {
			errs = append(errs, svc.ProcessTransfer(ctx, request))
		}
	}

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
		}
	}
	return failures
}
