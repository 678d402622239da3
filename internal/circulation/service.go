// internal/circulation/service.go
package circulation

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service defines the interface for the lending engine.
type Service interface {
	Borrow(ctx context.Context, userID, mediaID string) (*Loan, error)
	Return(ctx context.Context, loanID string) (decimal.Decimal, error)
}
