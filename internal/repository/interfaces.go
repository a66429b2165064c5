package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/satriojati/loan-ledger/internal/domain"
)

// TxRunner executes a function within a single database transaction. The
// transaction is carried on the context; repository methods join it
// automatically.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan and takes a row lock on it,
	// serializing concurrent repayments on the same loan
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// UpdateBalance persists a loan's recomputed outstanding amount and status
	UpdateBalance(ctx context.Context, id uuid.UUID, outstanding int64, status string) error
}

// InstallmentRepository defines the interface for scheduled-installment data
// operations
type InstallmentRepository interface {
	// CreateBatch creates the full installment set of a loan
	CreateBatch(ctx context.Context, installments []*domain.ScheduledInstallment) error

	// ListByLoanID retrieves a loan's installments ordered by due date
	ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error)

	// Update persists an installment's amount, outstanding, due date and status
	Update(ctx context.Context, installment *domain.ScheduledInstallment) error

	// ListOverdue retrieves unpaid installments whose due date has passed
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.ScheduledInstallment, error)
}

// PaymentRepository defines the interface for received-payment data operations
type PaymentRepository interface {
	// Create appends a received-payment record
	Create(ctx context.Context, payment *domain.ReceivedPayment) error

	// ListByLoanID retrieves all payments received for a loan
	ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ReceivedPayment, error)
}
