package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	InstallmentStatusDue     = "due"
	InstallmentStatusPartial = "partial"
	InstallmentStatusRepaid  = "repaid"
)

// ScheduledInstallment is one scheduled repayment obligation of a loan.
// Amount is the committed amount; OutstandingAmount is the unpaid remainder,
// 0 <= OutstandingAmount <= Amount.
type ScheduledInstallment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	LoanID            uuid.UUID `json:"loan_id" db:"loan_id"`
	Amount            int64     `json:"amount" db:"amount"`
	OutstandingAmount int64     `json:"outstanding_amount" db:"outstanding_amount"`
	CurrencyCode      string    `json:"currency_code" db:"currency_code"`
	DueDate           time.Time `json:"due_date" db:"due_date"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// IsOutstanding reports whether the installment still carries unpaid balance.
func (s *ScheduledInstallment) IsOutstanding() bool {
	return s.Status == InstallmentStatusDue || s.Status == InstallmentStatusPartial
}
