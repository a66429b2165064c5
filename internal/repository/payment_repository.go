package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/satriojati/loan-ledger/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.ReceivedPayment) error {
	query := `
		INSERT INTO received_payments (id, loan_id, amount, currency_code, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.Amount,
		payment.CurrencyCode,
		payment.ReceivedAt,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ReceivedPayment, error) {
	query := `
		SELECT id, loan_id, amount, currency_code, received_at, created_at
		FROM received_payments
		WHERE loan_id = $1 AND deleted_at IS NULL
		ORDER BY received_at ASC, created_at ASC
	`

	var payments []*domain.ReceivedPayment
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &payments, query, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}
