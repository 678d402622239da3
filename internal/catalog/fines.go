// internal/catalog/fines.go
package catalog

import "github.com/shopspring/decimal"

// FineStrategy computes the fine owed for a number of overdue days. The
// function is pure: zero or negative days always cost nothing.
type FineStrategy func(overdueDays int) decimal.Decimal

var (
	bookDailyRate = decimal.NewFromInt(10)
	cdDailyRate   = decimal.NewFromInt(20)
)

// StrategyFor resolves the fine rule for a media category.
func StrategyFor(category Category) FineStrategy {
	switch category {
	case CategoryCD:
		return perDay(cdDailyRate)
	default:
		return perDay(bookDailyRate)
	}
}

func perDay(rate decimal.Decimal) FineStrategy {
	return func(overdueDays int) decimal.Decimal {
		if overdueDays <= 0 {
			return decimal.Zero
		}
		return rate.Mul(decimal.NewFromInt(int64(overdueDays)))
	}
}

const (
	bookLoanDays = 28
	cdLoanDays   = 7
)

// LoanPeriodDays returns how long a category may be borrowed.
func LoanPeriodDays(category Category) int {
	if category == CategoryCD {
		return cdLoanDays
	}
	return bookLoanDays
}
