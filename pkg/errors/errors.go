package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrInvalidLoanAmount    = errors.New("loan amount must be positive")
	ErrInvalidTermCount     = errors.New("terms must be either 3 or 6 months")
	ErrInvalidPaymentAmount = errors.New("repayment amount must be positive")
	ErrUnsupportedCurrency  = errors.New("currency code is not supported")
	ErrConcurrencyConflict  = errors.New("concurrent modification on the same loan")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeLoanNotFound        = "LOAN_NOT_FOUND"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapInvalidLoanAmount(amount int64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		fmt.Sprintf("Invalid loan amount: %d", amount),
		ErrInvalidLoanAmount,
	)
}

func WrapInvalidTermCount(terms int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		fmt.Sprintf("Invalid term count: %d", terms),
		ErrInvalidTermCount,
	)
}

func WrapInvalidPaymentAmount(amount int64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		fmt.Sprintf("Invalid repayment amount: %d", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapUnsupportedCurrency(code string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		fmt.Sprintf("Unsupported currency code: %s", code),
		ErrUnsupportedCurrency,
	)
}

func WrapConcurrencyConflict(loanID string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrencyConflict,
		fmt.Sprintf("Loan with ID %s was modified concurrently, retry the repayment", loanID),
		errors.Join(ErrConcurrencyConflict, err),
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// IsInvalidInput reports whether err is a pre-mutation validation failure.
func IsInvalidInput(err error) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == ErrCodeInvalidInput
	}
	return false
}

// IsNotFound reports whether err means the loan could not be resolved.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLoanNotFound)
}

// IsConflict reports whether err is a retryable serialization failure.
func IsConflict(err error) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code == ErrCodeConcurrencyConflict
	}
	return false
}
