package components

import (
	"log/slog"

	"github.com/pin-banking-ledger/internal/config"
	"github.com/pin-banking-ledger/internal/transfer_processor/service"
)

// CreateProcessingService wires the validator and outcome log around the
// ledger and puts the result on a worker pool sized from cfg.
func CreateProcessingService(
	bank service.Ledger,
	outcomes *OutcomeLog,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewTransferValidator(outcomes, logger)

	baseService := service.NewProcessingService(bank, validator, outcomes, logger)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
