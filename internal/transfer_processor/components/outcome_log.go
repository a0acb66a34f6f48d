package components

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pin-banking-ledger/internal/domain/shared"
)

// Outcome is the last known state of a transfer request
type Outcome struct {
	Status shared.TransferStatus
	Reason shared.FailureReason
}

// OutcomeLog keeps the outcome of every request id seen during the
// process lifetime. It is the idempotency record for the validator.
type OutcomeLog struct {
	logger *slog.Logger

	mu       sync.Mutex
	outcomes map[uuid.UUID]Outcome
}

func NewOutcomeLog(logger *slog.Logger) *OutcomeLog {
	return &OutcomeLog{
		logger:   logger,
		outcomes: make(map[uuid.UUID]Outcome),
	}
}

// Claim marks requestID as processing. It returns false if the id was
// already claimed or recorded.
func (l *OutcomeLog) Claim(requestID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.outcomes[requestID]; ok {
		return false
	}
	l.outcomes[requestID] = Outcome{Status: shared.TransferStatusProcessing}
	return true
}

// Lookup returns the recorded outcome for requestID
func (l *OutcomeLog) Lookup(requestID uuid.UUID) (Outcome, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.outcomes[requestID]
	return o, ok
}

// RecordCompletion marks a request as posted
func (l *OutcomeLog) RecordCompletion(ctx context.Context, request *shared.TransferRequest) error {
	l.mu.Lock()
	l.outcomes[request.RequestID] = Outcome{Status: shared.TransferStatusCompleted}
	l.mu.Unlock()

	l.requestLogger(request).Debug("Transfer completed", "request_id", request.RequestID.String())
	return nil
}

// RecordFailure marks a request as failed. A request that already failed
// keeps its first reason.
func (l *OutcomeLog) RecordFailure(ctx context.Context, request *shared.TransferRequest, reason shared.FailureReason) error {
	logger := l.requestLogger(request)

	l.mu.Lock()
	existing, ok := l.outcomes[request.RequestID]
	if ok && existing.Status == shared.TransferStatusFailed {
		l.mu.Unlock()
		logger.Debug("Transfer already marked as FAILED", "request_id", request.RequestID.String())
		return nil
	}
	l.outcomes[request.RequestID] = Outcome{Status: shared.TransferStatusFailed, Reason: reason}
	l.mu.Unlock()

	logger.Info("Recorded failed transfer", "request_id", request.RequestID.String(), "reason", reason)
	return nil
}

// Summary counts completed requests and failed requests per reason
func (l *OutcomeLog) Summary() (completed int, failed map[shared.FailureReason]int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	failed = make(map[shared.FailureReason]int)
	for _, o := range l.outcomes {
		switch o.Status {
		case shared.TransferStatusCompleted:
			completed++
		case shared.TransferStatusFailed:
			failed[o.Reason]++
		}
	}
	return completed, failed
}

func (l *OutcomeLog) requestLogger(request *shared.TransferRequest) *slog.Logger {
	if request.CorrelationID != "" {
		return l.logger.With("correlation_id", request.CorrelationID)
	}
	return l.logger
}
