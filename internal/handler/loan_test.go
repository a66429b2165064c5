package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/satriojati/loan-ledger/internal/domain"
	"github.com/satriojati/loan-ledger/internal/handler"
	customError "github.com/satriojati/loan-ledger/pkg/errors"
	"github.com/satriojati/loan-ledger/tests/mocks"
)

func newRouter(svc *mocks.MockLedgerService) *mux.Router {
	h := handler.NewLoanHandler(svc)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}", h.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/repayments", h.RepayLoan).Methods("POST")
	return router
}

func performJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func sampleAggregate(loanID uuid.UUID) *domain.LoanAggregate {
	return &domain.LoanAggregate{
		Loan: &domain.Loan{
			ID:                loanID,
			UserID:            uuid.New(),
			Amount:            5000,
			Terms:             3,
			OutstandingAmount: 5000,
			CurrencyCode:      domain.CurrencySGD,
			Status:            domain.LoanStatusDue,
		},
		Installments: []*domain.ScheduledInstallment{
			{LoanID: loanID, Amount: 1666, OutstandingAmount: 1666, Status: domain.InstallmentStatusDue},
			{LoanID: loanID, Amount: 1666, OutstandingAmount: 1666, Status: domain.InstallmentStatusDue},
			{LoanID: loanID, Amount: 1667, OutstandingAmount: 1667, Status: domain.InstallmentStatusDue},
		},
	}
}

func TestCreateLoanHandler(t *testing.T) {
	userID := uuid.New()
	loanID := uuid.New()

	validBody := domain.CreateLoanRequest{
		UserID:       userID.String(),
		Amount:       5000,
		CurrencyCode: domain.CurrencySGD,
		Terms:        3,
		ProcessedAt:  "2020-01-20",
	}

	t.Run("returns 201 with the loan aggregate", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		svc.On("CreateLoan", mock.Anything, userID, int64(5000), domain.CurrencySGD, 3,
			time.Date(2020, time.January, 20, 0, 0, 0, 0, time.UTC)).
			Return(sampleAggregate(loanID), nil)

		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans", validBody)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		svc.AssertExpectations(t)
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		router := newRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewBufferString("{not json"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		svc.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns 400 when validation fails", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)

		body := validBody
		body.Terms = 4
		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans", body)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		svc.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps InvalidInput from the service to 400", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		svc.On("CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, customError.WrapInvalidLoanAmount(5000))

		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans", validBody)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestRepayLoanHandler(t *testing.T) {
	loanID := uuid.New()

	validBody := domain.RepayLoanRequest{
		Amount:       3000,
		CurrencyCode: domain.CurrencySGD,
		ReceivedAt:   "2020-02-20",
	}

	t.Run("returns 200 with the refreshed aggregate", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		svc.On("ApplyRepayment", mock.Anything, loanID, int64(3000), domain.CurrencySGD,
			time.Date(2020, time.February, 20, 0, 0, 0, 0, time.UTC)).
			Return(sampleAggregate(loanID), nil)

		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans/"+loanID.String()+"/repayments", validBody)

		assert.Equal(t, http.StatusOK, recorder.Code)
		svc.AssertExpectations(t)
	})

	t.Run("returns 400 on malformed loan id", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)

		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans/not-a-uuid/repayments", validBody)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		svc.AssertNotCalled(t, "ApplyRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects zero amount in validation", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)

		body := validBody
		body.Amount = 0
		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans/"+loanID.String()+"/repayments", body)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		svc.AssertNotCalled(t, "ApplyRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps NotFound to 404", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		svc.On("ApplyRepayment", mock.Anything, loanID, int64(3000), domain.CurrencySGD, mock.Anything).
			Return(nil, customError.WrapLoanNotFound(loanID.String()))

		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans/"+loanID.String()+"/repayments", validBody)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("maps ConcurrencyConflict to 409", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		svc.On("ApplyRepayment", mock.Anything, loanID, int64(3000), domain.CurrencySGD, mock.Anything).
			Return(nil, customError.WrapConcurrencyConflict(loanID.String(), nil))

		recorder := performJSON(t, newRouter(svc), http.MethodPost, "/api/v1/loans/"+loanID.String()+"/repayments", validBody)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestGetLoanHandler(t *testing.T) {
	loanID := uuid.New()

	t.Run("returns 200 with the aggregate", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		svc.On("GetLoan", mock.Anything, loanID).Return(sampleAggregate(loanID), nil)

		recorder := performJSON(t, newRouter(svc), http.MethodGet, "/api/v1/loans/"+loanID.String(), nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Success bool `json:"success"`
			Data    struct {
				Loan struct {
					OutstandingAmount int64 `json:"outstanding_amount"`
				} `json:"loan"`
				OutstandingDisplay string `json:"outstanding_display"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, int64(5000), envelope.Data.Loan.OutstandingAmount)
		assert.Equal(t, "50", envelope.Data.OutstandingDisplay)
	})

	t.Run("returns 404 for unknown loan", func(t *testing.T) {
		svc := new(mocks.MockLedgerService)
		svc.On("GetLoan", mock.Anything, loanID).Return(nil, customError.WrapLoanNotFound(loanID.String()))

		recorder := performJSON(t, newRouter(svc), http.MethodGet, "/api/v1/loans/"+loanID.String(), nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
