package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/satriojati/loan-ledger/internal/domain"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateLoan(ctx context.Context, userID uuid.UUID, amount int64, currencyCode string, terms int, processedAt time.Time) (*domain.LoanAggregate, error) {
	args := m.Called(ctx, userID, amount, currencyCode, terms, processedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanAggregate), args.Error(1)
}

func (m *MockLedgerService) ApplyRepayment(ctx context.Context, loanID uuid.UUID, amount int64, currencyCode string, receivedAt time.Time) (*domain.LoanAggregate, error) {
	args := m.Called(ctx, loanID, amount, currencyCode, receivedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanAggregate), args.Error(1)
}

func (m *MockLedgerService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.LoanAggregate, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanAggregate), args.Error(1)
}
