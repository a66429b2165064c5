package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusDue    = "due"
	LoanStatusRepaid = "repaid"
)

const (
	CurrencySGD = "SGD"
	CurrencyVND = "VND"
)

// Allowed term counts for a loan.
const (
	TermsThreeMonths = 3
	TermsSixMonths   = 6
)

// Loan represents a loan entity. All monetary fields are integers in minor
// currency units.
type Loan struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	Amount            int64     `json:"amount" db:"amount"`
	Terms             int       `json:"terms" db:"terms"`
	OutstandingAmount int64     `json:"outstanding_amount" db:"outstanding_amount"`
	CurrencyCode      string    `json:"currency_code" db:"currency_code"`
	Status            string    `json:"status" db:"status"`
	ProcessedAt       time.Time `json:"processed_at" db:"processed_at"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// LoanAggregate is a loan together with its ordered installments and
// received-payment history.
type LoanAggregate struct {
	Loan         *Loan                   `json:"loan"`
	Installments []*ScheduledInstallment `json:"installments"`
	Payments     []*ReceivedPayment      `json:"payments"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid4"`
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	CurrencyCode string `json:"currency_code" validate:"required,oneof=SGD VND"`
	Terms        int    `json:"terms" validate:"required,oneof=3 6"`
	ProcessedAt  string `json:"processed_at" validate:"required,datetime=2006-01-02"`
}

type RepayLoanRequest struct {
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	CurrencyCode string `json:"currency_code" validate:"required,oneof=SGD VND"`
	ReceivedAt   string `json:"received_at" validate:"required,datetime=2006-01-02"`
}

type LoanResponse struct {
	Loan               *Loan                   `json:"loan"`
	Installments       []*ScheduledInstallment `json:"installments"`
	Payments           []*ReceivedPayment      `json:"payments,omitempty"`
	OutstandingDisplay decimal.Decimal         `json:"outstanding_display"`
}
