package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/satriojati/loan-ledger/internal/config"
	"github.com/satriojati/loan-ledger/internal/domain"
	"github.com/satriojati/loan-ledger/internal/repository"
	customError "github.com/satriojati/loan-ledger/pkg/errors"
	"github.com/satriojati/loan-ledger/pkg/money"
	"github.com/satriojati/loan-ledger/pkg/utils"
)

// LedgerService owns the loan aggregate: loan, installments and received
// payments. CreateLoan and ApplyRepayment are the only mutation entry points,
// each executed as one transaction.
type LedgerService struct {
	LoanRepo        repository.LoanRepository
	InstallmentRepo repository.InstallmentRepository
	PaymentRepo     repository.PaymentRepository

	tx        repository.TxRunner
	redis     *redis.Client
	config    *config.Config
	logger    *zap.Logger
	scheduler AmortizationScheduler
	allocator RepaymentAllocator
}

func NewLedgerService(
	loanRepo repository.LoanRepository,
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	tx repository.TxRunner,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		LoanRepo:        loanRepo,
		InstallmentRepo: installmentRepo,
		PaymentRepo:     paymentRepo,
		tx:              tx,
		redis:           redisClient,
		config:          cfg,
		logger:          logger,
	}
}

// CreateLoan validates the input, generates the amortization schedule and
// persists the loan with its installments as one atomic unit.
func (s *LedgerService) CreateLoan(ctx context.Context, userID uuid.UUID, amount int64, currencyCode string, terms int, processedAt time.Time) (*domain.LoanAggregate, error) {
	if !money.IsSupportedCurrency(currencyCode) {
		return nil, customError.WrapUnsupportedCurrency(currencyCode)
	}

	// GenerateSchedule rejects non-positive principal and bad term counts
	// before anything is written.
	drafts, err := s.scheduler.GenerateSchedule(amount, terms, processedAt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:                uuid.New(),
		UserID:            userID,
		Amount:            amount,
		Terms:             terms,
		OutstandingAmount: amount,
		CurrencyCode:      currencyCode,
		Status:            domain.LoanStatusDue,
		ProcessedAt:       utils.TruncateToDate(processedAt),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	installments := make([]*domain.ScheduledInstallment, 0, len(drafts))
	for _, draft := range drafts {
		installments = append(installments, &domain.ScheduledInstallment{
			ID:                uuid.New(),
			LoanID:            loan.ID,
			Amount:            draft.Amount,
			OutstandingAmount: draft.Amount,
			CurrencyCode:      currencyCode,
			DueDate:           draft.DueDate,
			Status:            domain.InstallmentStatusDue,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.LoanRepo.Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := s.InstallmentRepo.CreateBatch(ctx, installments); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTxError(loan.ID, err)
	}

	aggregate := &domain.LoanAggregate{
		Loan:         loan,
		Installments: installments,
	}

	s.cacheAggregate(ctx, aggregate)

	return aggregate, nil
}

// ApplyRepayment records the incoming payment and allocates it across the
// loan's installments within one transaction. The loan row is locked first so
// concurrent repayments on the same loan serialize; different loans proceed in
// parallel.
func (s *LedgerService) ApplyRepayment(ctx context.Context, loanID uuid.UUID, amount int64, currencyCode string, receivedAt time.Time) (*domain.LoanAggregate, error) {
	if amount <= 0 {
		return nil, customError.WrapInvalidPaymentAmount(amount)
	}

	if !money.IsSupportedCurrency(currencyCode) {
		return nil, customError.WrapUnsupportedCurrency(currencyCode)
	}

	var aggregate *domain.LoanAggregate

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		loan, err := s.LoanRepo.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return customError.WrapLoanNotFound(loanID.String())
			}
			return customError.WrapDatabaseError(err)
		}

		now := time.Now()
		payment := &domain.ReceivedPayment{
			ID:           uuid.New(),
			LoanID:       loan.ID,
			Amount:       amount,
			CurrencyCode: currencyCode,
			ReceivedAt:   utils.TruncateToDate(receivedAt),
			CreatedAt:    now,
		}
		if err := s.PaymentRepo.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		installments, err := s.InstallmentRepo.ListByLoanID(ctx, loan.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		result, err := s.allocator.Allocate(loan, installments, amount)
		if err != nil {
			return err
		}

		for _, installment := range result.Installments {
			if err := s.InstallmentRepo.Update(ctx, installment); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		// Once any installment has ever been repaid the loan balance is
		// reconciled against the installments; before that it simply tracks
		// payments received.
		var newOutstanding int64
		if result.HadPriorRepayment {
			newOutstanding = OutstandingTotal(result.Installments)
		} else {
			newOutstanding = loan.OutstandingAmount - amount
			if newOutstanding < 0 {
				newOutstanding = 0
			}
		}

		newStatus := domain.LoanStatusDue
		if newOutstanding == 0 {
			newStatus = domain.LoanStatusRepaid
		}

		if err := s.LoanRepo.UpdateBalance(ctx, loan.ID, newOutstanding, newStatus); err != nil {
			return customError.WrapDatabaseError(err)
		}
		loan.OutstandingAmount = newOutstanding
		loan.Status = newStatus

		payments, err := s.PaymentRepo.ListByLoanID(ctx, loan.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		aggregate = &domain.LoanAggregate{
			Loan:         loan,
			Installments: result.Installments,
			Payments:     payments,
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTxError(loanID, err)
	}

	s.cacheAggregate(ctx, aggregate)

	return aggregate, nil
}

// GetLoan returns a loan aggregate, served from the Redis cache when present.
func (s *LedgerService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.LoanAggregate, error) {
	if cached := s.cachedAggregate(ctx, loanID); cached != nil {
		return cached, nil
	}

	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	installments, err := s.InstallmentRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	aggregate := &domain.LoanAggregate{
		Loan:         loan,
		Installments: installments,
		Payments:     payments,
	}

	s.cacheAggregate(ctx, aggregate)

	return aggregate, nil
}

func (s *LedgerService) mapTxError(loanID uuid.UUID, err error) error {
	if errors.Is(err, customError.ErrConcurrencyConflict) {
		return customError.WrapConcurrencyConflict(loanID.String(), err)
	}

	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		return err
	}

	return customError.WrapDatabaseError(err)
}

func cacheKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:%s", loanID)
}

func (s *LedgerService) cacheAggregate(ctx context.Context, aggregate *domain.LoanAggregate) {
	if s.redis == nil || aggregate == nil {
		return
	}

	payload, err := json.Marshal(aggregate)
	if err != nil {
		s.logger.Warn("failed to encode loan aggregate for cache", zap.Error(err))
		return
	}

	if err := s.redis.Set(ctx, cacheKey(aggregate.Loan.ID), payload, s.config.Business.LoanCacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache loan aggregate",
			zap.String("loan_id", aggregate.Loan.ID.String()),
			zap.Error(customError.WrapCacheError(err)),
		)
	}
}

func (s *LedgerService) cachedAggregate(ctx context.Context, loanID uuid.UUID) *domain.LoanAggregate {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, cacheKey(loanID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("failed to read loan aggregate cache",
				zap.String("loan_id", loanID.String()),
				zap.Error(customError.WrapCacheError(err)),
			)
		}
		return nil
	}

	var aggregate domain.LoanAggregate
	if err := json.Unmarshal(payload, &aggregate); err != nil {
		s.logger.Warn("corrupt loan aggregate cache entry, ignoring",
			zap.String("loan_id", loanID.String()),
			zap.Error(err),
		)
		return nil
	}

	return &aggregate
}
