// internal/fines/service.go
package fines

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service defines the interface for the fines ledger.
type Service interface {
	PayFine(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	GenerateOverdueReport(ctx context.Context, userID string) (*OverdueReport, error)
}
