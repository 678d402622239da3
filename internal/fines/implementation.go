// internal/fines/implementation.go
package fines

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libralend/internal/catalog"
	"libralend/internal/circulation"
	"libralend/internal/clock"
	"libralend/internal/eventlog"
	"libralend/internal/membership"
)

// service implements the Service interface.
type service struct {
	users  membership.Repository
	loans  circulation.LoanRepository
	media  catalog.Repository
	clock  clock.Clock
	events eventlog.Log
	tracer trace.Tracer
}

// NewService creates a new fines ledger instance.
func NewService(users membership.Repository, loans circulation.LoanRepository, media catalog.Repository, clk clock.Clock, events eventlog.Log) Service {
	return &service{
		users:  users,
		loans:  loans,
		media:  media,
		clock:  clk,
		events: events,
		tracer: otel.Tracer("libralend/fines"),
	}
}

// PayFine subtracts a payment from the user's balance. The amount must be
// positive, the user must owe something, and the payment may not exceed
// the balance. Arithmetic is exact decimal; the entity floors at zero.
func (s *service) PayFine(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "fines.pay",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("payment.amount", amount.String()),
		),
	)
	defer span.End()

	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidPaymentAmount
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if !user.HasOutstandingFines() {
		return decimal.Zero, ErrNoOutstandingFines
	}
	if amount.GreaterThan(user.FineBalance) {
		return decimal.Zero, fmt.Errorf("%w of %s", ErrPaymentExceedsBalance, user.FineBalance)
	}

	previousBalance := user.FineBalance
	user.PayFine(amount)
	if err := s.users.Save(ctx, user); err != nil {
		return decimal.Zero, fmt.Errorf("save user: %w", err)
	}

	err = eventlog.Record(ctx, s.events, user.ID, "user", "FinePaid", FinePaidEvent{
		UserID:     user.ID,
		Amount:     amount,
		NewBalance: user.FineBalance,
	})
	if err != nil {
		user.FineBalance = previousBalance
		_ = s.users.Save(ctx, user)
		return decimal.Zero, fmt.Errorf("record payment: %w", err)
	}

	return user.FineBalance, nil
}

// GenerateOverdueReport lists the user's overdue loans with their accrued
// fines. Loans that are not overdue are skipped; a loan whose media record
// is gone indicates corruption and fails the report.
func (s *service) GenerateOverdueReport(ctx context.Context, userID string) (*OverdueReport, error) {
	ctx, span := s.tracer.Start(ctx, "fines.report",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	loans, err := s.loans.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}

	today := s.clock.Today()
	var items []ReportItem
	for _, loan := range loans {
		if !loan.Overdue(today) {
			continue
		}
		media, err := s.media.FindByID(ctx, loan.MediaID)
		if err != nil {
			return nil, fmt.Errorf("loan %s references missing media: %w", loan.ID, err)
		}
		overdueDays := loan.DaysOverdue(today)
		items = append(items, ReportItem{
			MediaTitle:  media.Title,
			Category:    media.Category,
			OverdueDays: overdueDays,
			FineAmount:  catalog.StrategyFor(media.Category)(overdueDays),
		})
	}

	span.SetAttributes(attribute.Int("report.items", len(items)))
	return NewOverdueReport(userID, items), nil
}
