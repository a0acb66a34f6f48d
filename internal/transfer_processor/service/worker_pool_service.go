package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pin-banking-ledger/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolProcessingService runs a ProcessingService on a bounded pool
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessTransfer submits a transfer to the pool and waits for its result.
func (s *WorkerPoolProcessingService) ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error {
	resultChan := make(chan error, 1)

	requestCopy := *request
	err := s.pool.Submit(func() {
		resultChan <- s.baseService.ProcessTransfer(ctx, &requestCopy)
	})
	if err != nil {
		s.logger.Error("Failed to submit transfer to worker pool",
			"request_id", request.RequestID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// ProcessBatch submits every request and waits for all of them. errs[i] is
// the result of requests[i].
func (s *WorkerPoolProcessingService) ProcessBatch(ctx context.Context, requests []*shared.TransferRequest) []error {
	errs := make([]error, len(requests))

	var wg sync.WaitGroup
	for i, request := range requests {
		requestCopy := *request
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			errs[i] = s.baseService.ProcessTransfer(ctx, &requestCopy)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
			s.logger.Error("Failed to submit transfer to worker pool",
				"request_id", request.RequestID.String(),
				"error", err,
			)
		}
	}
	wg.Wait()

	s.logger.Info("Transfer batch processed", "requests", len(requests))
	return errs
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
