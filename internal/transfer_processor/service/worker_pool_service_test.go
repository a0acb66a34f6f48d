package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pin-banking-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProcessingService mocks the ProcessingService interface
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessTransfer(ctx context.Context, request *shared.TransferRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func newRequest() *shared.TransferRequest {
	return shared.NewTransferRequest("0000000001", "0000000002", decimal.NewFromInt(100), "")
}

func TestWorkerPoolProcessingService_ProcessTransfer(t *testing.T) {
	logger := slog.Default()
	request := newRequest()

	tests := []struct {
		name          string
		setupMocks    func(m *MockProcessingService)
		expectedError error
	}{
		{
			name: "successful processing",
			setupMocks: func(m *MockProcessingService) {
				m.On("ProcessTransfer", mock.Anything, mock.AnythingOfType("*shared.TransferRequest")).Return(nil).Once()
			},
		},
		{
			name: "processing error",
			setupMocks: func(m *MockProcessingService) {
				m.On("ProcessTransfer", mock.Anything, mock.AnythingOfType("*shared.TransferRequest")).Return(errors.New("processing error")).Once()
			},
			expectedError: errors.New("processing error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBaseService := &MockProcessingService{}
			workerPoolService, err := NewWorkerPoolProcessingService(
				mockBaseService,
				WorkerPoolConfig{
					Size: 2,
				},
				logger,
			)
			require.NoError(t, err)
			defer workerPoolService.Shutdown()

			tt.setupMocks(mockBaseService)

			err = workerPoolService.ProcessTransfer(context.Background(), request)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
			mockBaseService.AssertExpectations(t)
		})
	}
}

func TestWorkerPoolProcessingService_PassesACopy(t *testing.T) {
	mockBaseService := &MockProcessingService{}
	request := newRequest()

	var seen *shared.TransferRequest
	mockBaseService.On("ProcessTransfer", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		seen = args.Get(1).(*shared.TransferRequest)
	}).Return(nil).Once()

	workerPoolService, err := NewWorkerPoolProcessingService(mockBaseService, WorkerPoolConfig{Size: 1}, slog.Default())
	require.NoError(t, err)
	defer workerPoolService.Shutdown()

	require.NoError(t, workerPoolService.ProcessTransfer(context.Background(), request))
	require.NotNil(t, seen)
	assert.NotSame(t, request, seen)
	assert.Equal(t, request.RequestID, seen.RequestID)
}

func TestWorkerPoolProcessingService_Concurrency(t *testing.T) {
	mockBaseService := &MockProcessingService{}
	logger := slog.Default()

	workerPoolService, err := NewWorkerPoolProcessingService(
		mockBaseService,
		WorkerPoolConfig{
			Size: 5,
		},
		logger,
	)
	require.NoError(t, err)
	defer workerPoolService.Shutdown()

	var mu sync.Mutex
	counter := 0

	mockBaseService.On("ProcessTransfer", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		counter++
		mu.Unlock()
	}).Return(nil)

	numRequests := 10
	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func() {
			defer wg.Done()
			err := workerPoolService.ProcessTransfer(context.Background(), newRequest())
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Equal(t, numRequests, counter)
	assert.Equal(t, 5, workerPoolService.Capacity())
}

func TestWorkerPoolProcessingService_ProcessBatch(t *testing.T) {
	mockBaseService := &MockProcessingService{}

	var inFlight, peak atomic.Int32
	failing := newRequest()

	mockBaseService.On("ProcessTransfer", mock.Anything, mock.MatchedBy(func(r *shared.TransferRequest) bool {
		return r.RequestID == failing.RequestID
	})).Return(errors.New("rejected")).Once()
	mockBaseService.On("ProcessTransfer", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	}).Return(nil)

	workerPoolService, err := NewWorkerPoolProcessingService(mockBaseService, WorkerPoolConfig{Size: 3}, slog.Default())
	require.NoError(t, err)
	defer workerPoolService.Shutdown()

	requests := []*shared.TransferRequest{newRequest(), newRequest(), failing, newRequest(), newRequest(), newRequest()}
	errs := workerPoolService.ProcessBatch(context.Background(), requests)

	require.Len(t, errs, len(requests))
	for i, err := range errs {
		if i == 2 {
			assert.EqualError(t, err, "rejected")
		} else {
			assert.NoError(t, err)
		}
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
	mockBaseService.AssertNumberOfCalls(t, "ProcessTransfer", len(requests))
}

func TestWorkerPoolProcessingService_AfterShutdown(t *testing.T) {
	mockBaseService := &MockProcessingService{}
	workerPoolService, err := NewWorkerPoolProcessingService(mockBaseService, WorkerPoolConfig{Size: 2}, slog.Default())
	require.NoError(t, err)

	workerPoolService.Shutdown()

	err = workerPoolService.ProcessTransfer(context.Background(), newRequest())
	assert.Error(t, err)

	errs := workerPoolService.ProcessBatch(context.Background(), []*shared.TransferRequest{newRequest()})
	assert.Error(t, errs[0])
	mockBaseService.AssertNotCalled(t, "ProcessTransfer", mock.Anything, mock.Anything)
}
