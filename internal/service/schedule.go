package service

import (
	"time"

	"github.com/satriojati/loan-ledger/internal/domain"
	customError "github.com/satriojati/loan-ledger/pkg/errors"
	"github.com/satriojati/loan-ledger/pkg/money"
	"github.com/satriojati/loan-ledger/pkg/utils"
)

// AmortizationScheduler splits a loan principal into a fixed-term installment
// schedule.
type AmortizationScheduler struct{}

// InstallmentDraft is one scheduled installment before it is persisted.
type InstallmentDraft struct {
	Amount  int64
	DueDate time.Time
}

// GenerateSchedule produces exactly terms installment drafts whose amounts sum
// to principal. The base amount is floor(principal/terms); the remainder is
// carried by the trailing installments, one extra minor unit each. The first
// due date is one calendar month after processedAt, each subsequent one a
// month after the previous, clamping to the end of shorter months.
func (s AmortizationScheduler) GenerateSchedule(principal int64, terms int, processedAt time.Time) ([]InstallmentDraft, error) {
	if principal <= 0 {
		return nil, customError.WrapInvalidLoanAmount(principal)
	}

	if terms != domain.TermsThreeMonths && terms != domain.TermsSixMonths {
		return nil, customError.WrapInvalidTermCount(terms)
	}

	amounts := money.SplitTrailing(principal, terms)

	drafts := make([]InstallmentDraft, 0, terms)
	dueDate := utils.TruncateToDate(processedAt)
	for _, amount := range amounts {
		dueDate = utils.AddMonthsNoOverflow(dueDate, 1)
		drafts = append(drafts, InstallmentDraft{
			Amount:  amount,
			DueDate: dueDate,
		})
	}

	return drafts, nil
}
