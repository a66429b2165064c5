package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/satriojati/loan-ledger/internal/domain"
	customError "github.com/satriojati/loan-ledger/pkg/errors"
	"github.com/satriojati/loan-ledger/pkg/money"
	"github.com/satriojati/loan-ledger/pkg/response"
)

const dateLayout = "2006-01-02"

// LedgerService is the loan-ledger surface the HTTP layer needs.
type LedgerService interface {
	CreateLoan(ctx context.Context, userID uuid.UUID, amount int64, currencyCode string, terms int, processedAt time.Time) (*domain.LoanAggregate, error)
	ApplyRepayment(ctx context.Context, loanID uuid.UUID, amount int64, currencyCode string, receivedAt time.Time) (*domain.LoanAggregate, error)
	GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.LoanAggregate, error)
}

type LoanHandler struct {
	service   LedgerService
	validator *validator.Validate
}

func NewLoanHandler(service LedgerService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(w, "Invalid user ID", err)
		return
	}

	processedAt, err := time.Parse(dateLayout, req.ProcessedAt)
	if err != nil {
		response.BadRequest(w, "Invalid processed_at date", err)
		return
	}

	aggregate, err := h.service.CreateLoan(r.Context(), userID, req.Amount, req.CurrencyCode, req.Terms, processedAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, toLoanResponse(aggregate))
}

// RepayLoan handles POST /api/v1/loans/{loanId}/repayments
func (h *LoanHandler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	var req domain.RepayLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	receivedAt, err := time.Parse(dateLayout, req.ReceivedAt)
	if err != nil {
		response.BadRequest(w, "Invalid received_at date", err)
		return
	}

	aggregate, err := h.service.ApplyRepayment(r.Context(), loanID, req.Amount, req.CurrencyCode, receivedAt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, toLoanResponse(aggregate))
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	aggregate, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, toLoanResponse(aggregate))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case customError.IsInvalidInput(err):
		response.BadRequest(w, "Invalid input", err)
	case customError.IsNotFound(err):
		response.NotFound(w, err.Error())
	case customError.IsConflict(err):
		response.Conflict(w, "Concurrent modification, retry the request", err)
	default:
		response.InternalServerError(w, "Internal server error", err)
	}
}

func toLoanResponse(aggregate *domain.LoanAggregate) *domain.LoanResponse {
	return &domain.LoanResponse{
		Loan:               aggregate.Loan,
		Installments:       aggregate.Installments,
		Payments:           aggregate.Payments,
		OutstandingDisplay: money.Display(aggregate.Loan.OutstandingAmount, aggregate.Loan.CurrencyCode),
	}
}
