package service

import (
	"time"

	"github.com/satriojati/loan-ledger/internal/domain"
	customError "github.com/satriojati/loan-ledger/pkg/errors"
	"github.com/satriojati/loan-ledger/pkg/money"
)

// RepaymentAllocator applies an incoming payment across a loan's outstanding
// installments, in due-date order.
type RepaymentAllocator struct{}

// AllocationResult carries the mutated installment set back to the ledger.
// HadPriorRepayment reports whether any installment was already repaid before
// this allocation started; the ledger uses it to pick the aggregate formula.
type AllocationResult struct {
	Installments      []*domain.ScheduledInstallment
	HadPriorRepayment bool
	Redistributed     bool
}

// Allocate mutates installments in place. The slice must be the loan's full
// installment set ordered ascending by due date.
func (a RepaymentAllocator) Allocate(loan *domain.Loan, installments []*domain.ScheduledInstallment, amount int64) (*AllocationResult, error) {
	if amount <= 0 {
		return nil, customError.WrapInvalidPaymentAmount(amount)
	}

	hadPriorRepayment := false
	for _, installment := range installments {
		if installment.Status == domain.InstallmentStatusRepaid {
			hadPriorRepayment = true
			break
		}
	}

	outstanding := make([]*domain.ScheduledInstallment, 0, len(installments))
	for _, installment := range installments {
		if installment.IsOutstanding() {
			outstanding = append(outstanding, installment)
		}
	}

	a.resequenceDueDates(installments, outstanding)
	redistributed := a.redistribute(loan, outstanding, amount)
	a.apply(outstanding, amount, redistributed)

	return &AllocationResult{
		Installments:      installments,
		HadPriorRepayment: hadPriorRepayment,
		Redistributed:     redistributed,
	}, nil
}

// resequenceDueDates keeps the visible due-date sequence contiguous once some
// installments are retired: the i-th still-outstanding installment takes the
// i-th due date of the full ordered set. Amounts are untouched.
func (a RepaymentAllocator) resequenceDueDates(all, outstanding []*domain.ScheduledInstallment) {
	anyRepaid := false
	for _, installment := range all {
		if installment.Status == domain.InstallmentStatusRepaid {
			anyRepaid = true
			break
		}
	}

	if !anyRepaid || len(outstanding) == 0 {
		return
	}

	dueDates := make([]time.Time, len(all))
	for i, installment := range all {
		dueDates[i] = installment.DueDate
	}

	for i, installment := range outstanding {
		installment.DueDate = dueDates[i]
	}
}

// redistribute rebases the remaining installments when the payment spills past
// the earliest one. New committed amounts split the loan's ORIGINAL principal
// across the outstanding installments, leading entries carrying the remainder,
// and outstanding resets to committed. Using the original principal rather
// than the remaining balance can raise later commitments above what they were;
// that behavior is load-bearing for existing ledgers, keep it.
func (a RepaymentAllocator) redistribute(loan *domain.Loan, outstanding []*domain.ScheduledInstallment, amount int64) bool {
	if len(outstanding) <= 1 {
		return false
	}

	if amount <= outstanding[0].OutstandingAmount {
		return false
	}

	parts := money.SplitLeading(loan.Amount, len(outstanding))
	for i, installment := range outstanding {
		installment.Amount = parts[i]
		installment.OutstandingAmount = parts[i]
	}

	return true
}

// apply walks the outstanding installments in due-date order, settling each in
// full until the payment runs out.
func (a RepaymentAllocator) apply(outstanding []*domain.ScheduledInstallment, amount int64, redistributed bool) {
	remaining := amount

	for _, installment := range outstanding {
		if remaining <= 0 {
			break
		}

		if remaining >= installment.OutstandingAmount {
			remaining -= installment.OutstandingAmount
			installment.OutstandingAmount = 0
			installment.Status = domain.InstallmentStatusRepaid
			continue
		}

		if redistributed {
			// In redistribution mode a partial payment leaves the unconsumed
			// payment remainder outstanding, not committed-minus-remainder.
			installment.OutstandingAmount = remaining
		} else {
			installment.OutstandingAmount -= remaining
		}
		installment.Status = domain.InstallmentStatusPartial
		remaining = 0
	}
}

// OutstandingTotal sums outstanding amounts across a loan's installments.
func OutstandingTotal(installments []*domain.ScheduledInstallment) int64 {
	var total int64
	for _, installment := range installments {
		total += installment.OutstandingAmount
	}
	return total
}
