package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/satriojati/loan-ledger/internal/domain"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []*domain.ScheduledInstallment) error {
	query := `
		INSERT INTO scheduled_installments (id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, installment := range installments {
		_, err := ext(ctx, r.db).ExecContext(ctx, query,
			installment.ID,
			installment.LoanID,
			installment.Amount,
			installment.OutstandingAmount,
			installment.CurrencyCode,
			installment.DueDate,
			installment.Status,
			installment.CreatedAt,
			installment.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *installmentRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.ScheduledInstallment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_installments
		WHERE loan_id = $1 AND deleted_at IS NULL
		ORDER BY due_date ASC, created_at ASC
	`

	var installments []*domain.ScheduledInstallment
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) Update(ctx context.Context, installment *domain.ScheduledInstallment) error {
	query := `
		UPDATE scheduled_installments
		SET amount = $2, outstanding_amount = $3, due_date = $4, status = $5, updated_at = $6
		WHERE id = $1
	`

	_, err := ext(ctx, r.db).ExecContext(ctx, query,
		installment.ID,
		installment.Amount,
		installment.OutstandingAmount,
		installment.DueDate,
		installment.Status,
		time.Now(),
	)

	return err
}

func (r *installmentRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.ScheduledInstallment, error) {
	query := `
		SELECT id, loan_id, amount, outstanding_amount, currency_code, due_date, status, created_at, updated_at
		FROM scheduled_installments
		WHERE status IN ('due', 'partial') AND due_date < $1 AND deleted_at IS NULL
		ORDER BY loan_id, due_date ASC
	`

	var installments []*domain.ScheduledInstallment
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &installments, query, asOf); err != nil {
		return nil, err
	}

	return installments, nil
}
