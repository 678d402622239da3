// internal/catalog/fines_test.go
package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFineStrategyRates(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		days     int
		want     int64
	}{
		{"book one day", CategoryBook, 1, 10},
		{"book two days", CategoryBook, 2, 20},
		{"cd one day", CategoryCD, 1, 20},
		{"cd three days", CategoryCD, 3, 60},
		{"book on time", CategoryBook, 0, 0},
		{"cd on time", CategoryCD, 0, 0},
		{"negative days", CategoryBook, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fine := StrategyFor(tt.category)(tt.days)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(fine),
				"want %d, got %s", tt.want, fine)
		})
	}
}

func TestFineStrategyProportional(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		days := rapid.IntRange(1, 10_000).Draw(t, "days")

		book := StrategyFor(CategoryBook)(days)
		cd := StrategyFor(CategoryCD)(days)

		assert.True(t, decimal.NewFromInt(int64(days)*10).Equal(book))
		assert.True(t, decimal.NewFromInt(int64(days)*20).Equal(cd))
		assert.True(t, cd.Equal(book.Mul(decimal.NewFromInt(2))))
	})
}

func TestFineStrategyNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		days := rapid.IntRange(-10_000, 0).Draw(t, "days")
		for _, category := range []Category{CategoryBook, CategoryCD} {
			assert.True(t, StrategyFor(category)(days).IsZero())
		}
	})
}

func TestLoanPeriodDays(t *testing.T) {
	assert.Equal(t, 28, LoanPeriodDays(CategoryBook))
	assert.Equal(t, 7, LoanPeriodDays(CategoryCD))
}
