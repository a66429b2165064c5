package money

import (
	"github.com/shopspring/decimal"
)

// Minor-unit exponents per supported currency. VND has no minor unit.
var currencyExponents = map[string]int32{
	"SGD": 2,
	"VND": 0,
}

// SplitTrailing splits amount into n parts of floor(amount/n), adding the
// remainder one minor unit at a time to the trailing parts, so the parts
// always sum back to amount.
//
// SplitTrailing(5000, 3) = [1666, 1666, 1667]
func SplitTrailing(amount int64, n int) []int64 {
	if n <= 0 {
		return nil
	}

	base := amount / int64(n)
	remainder := amount % int64(n)

	parts := make([]int64, n)
	for i := 0; i < n; i++ {
		parts[i] = base
		if int64(i) >= int64(n)-remainder {
			parts[i]++
		}
	}

	return parts
}

// SplitLeading splits amount into n parts of floor(amount/n), adding the
// remainder one minor unit at a time to the leading parts.
//
// SplitLeading(5000, 3) = [1667, 1667, 1666]
func SplitLeading(amount int64, n int) []int64 {
	if n <= 0 {
		return nil
	}

	base := amount / int64(n)
	remainder := amount % int64(n)

	parts := make([]int64, n)
	for i := 0; i < n; i++ {
		parts[i] = base
		if int64(i) < remainder {
			parts[i]++
		}
	}

	return parts
}

// Sum adds up a slice of minor-unit amounts.
func Sum(amounts []int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total
}

// Display converts a minor-unit amount to its major-unit decimal
// representation for the given currency (e.g. 5000 SGD cents -> 50.00).
// Unknown currencies fall back to two decimal places.
func Display(amount int64, currencyCode string) decimal.Decimal {
	exp, ok := currencyExponents[currencyCode]
	if !ok {
		exp = 2
	}
	return decimal.New(amount, -exp)
}

// IsSupportedCurrency reports whether the currency code is one the ledger
// accepts.
func IsSupportedCurrency(code string) bool {
	_, ok := currencyExponents[code]
	return ok
}
