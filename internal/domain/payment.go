package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReceivedPayment is an append-only record of an incoming repayment. It is
// created once per repayment call and never mutated.
type ReceivedPayment struct {
	ID           uuid.UUID `json:"id" db:"id"`
	LoanID       uuid.UUID `json:"loan_id" db:"loan_id"`
	Amount       int64     `json:"amount" db:"amount"`
	CurrencyCode string    `json:"currency_code" db:"currency_code"`
	ReceivedAt   time.Time `json:"received_at" db:"received_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
