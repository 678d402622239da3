// internal/fines/domain.go
package fines

import (
	"errors"

	"github.com/shopspring/decimal"

	"libralend/internal/catalog"
)

var (
	ErrInvalidPaymentAmount  = errors.New("payment must be positive")
	ErrNoOutstandingFines    = errors.New("no outstanding fines to pay")
	ErrPaymentExceedsBalance = errors.New("payment exceeds outstanding fine")
)

// OverdueReport summarizes a user's overdue loans at a point in time. It
// is derived on demand and never persisted; generating it does not touch
// the user's balance.
type OverdueReport struct {
	UserID    string          `json:"user_id"`
	Items     []ReportItem    `json:"items"`
	TotalFine decimal.Decimal `json:"total_fine"`
}

// ReportItem is one overdue loan within a report.
type ReportItem struct {
	MediaTitle  string           `json:"media_title"`
	Category    catalog.Category `json:"category"`
	OverdueDays int              `json:"overdue_days"`
	FineAmount  decimal.Decimal  `json:"fine_amount"`
}

// NewOverdueReport builds a report, totalling the item fines exactly.
func NewOverdueReport(userID string, items []ReportItem) *OverdueReport {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.FineAmount)
	}
	return &OverdueReport{UserID: userID, Items: items, TotalFine: total}
}

// FinePaidEvent is recorded when a payment is accepted.
type FinePaidEvent struct {
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
}
