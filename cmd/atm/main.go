package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pin-banking-ledger/internal/atm"
	"github.com/pin-banking-ledger/internal/config"
	"github.com/pin-banking-ledger/internal/domain/account"
	"github.com/pin-banking-ledger/internal/ledger"
	"github.com/pin-banking-ledger/internal/logger"
)

func main() {
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize configuration
	cfg, err := config.LoadConfig("atm")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout belongs to the menu
	log := logger.NewLogger(cfg)

	log.Info("Starting ATM",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	bank, err := ledger.NewBankFromConfig(cfg, log)
	if err != nil {
		log.Error("Failed to initialize bank", "error", err)
		os.Exit(1)
	}

	// Seed a user with a savings and a checking account
	demo, err := bank.OnboardUser("John", "Doe", "1234")
	if err != nil {
		log.Error("Failed to onboard demo user", "error", err)
		os.Exit(1)
	}
	if _, err := bank.OpenAccount(demo, account.LabelChecking); err != nil {
		log.Error("Failed to open demo checking account", "error", err)
		os.Exit(1)
	}
	fmt.Printf("New user %s with ID %s created.\n", demo.FullName(), demo.ID)

	session := atm.NewSession(bank, os.Stdin, os.Stdout, log,
		atm.WithPINReader(atm.TerminalPINReader(int(os.Stdin.Fd()), os.Stdout)),
	)

	done := make(chan error, 1)
	go func() {
		done <- session.Run(appCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Error("ATM session failed", "error", err)
			os.Exit(1)
		}
	case <-appCtx.Done():
		fmt.Println()
		log.Info("Shutdown signal received")
	}

	log.Info("ATM stopped")
}
