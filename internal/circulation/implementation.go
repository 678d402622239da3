// internal/circulation/implementation.go
package circulation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"libralend/internal/catalog"
	"libralend/internal/clock"
	"libralend/internal/eventlog"
	"libralend/internal/membership"
)

// service implements the Service interface.
type service struct {
	loans  LoanRepository
	media  catalog.Repository
	users  membership.Repository
	clock  clock.Clock
	events eventlog.Log

	tracer  trace.Tracer
	borrows metric.Int64Counter
	returns metric.Int64Counter
}

// NewService creates a new lending engine instance.
func NewService(loans LoanRepository, media catalog.Repository, users membership.Repository, clk clock.Clock, events eventlog.Log) Service {
	meter := otel.Meter("libralend/circulation")
	borrows, _ := meter.Int64Counter("circulation.borrows")
	returns, _ := meter.Int64Counter("circulation.returns")

	return &service{
		loans:   loans,
		media:   media,
		users:   users,
		clock:   clk,
		events:  events,
		tracer:  otel.Tracer("libralend/circulation"),
		borrows: borrows,
		returns: returns,
	}
}

// Borrow opens a loan for a user on a piece of media. Eligibility checks
// run in a fixed order before any state changes, so the reported error is
// deterministic when several rules are violated at once:
//
//  1. the user exists
//  2. the media exists
//  3. the user owes no fines
//  4. the user holds no overdue loan
//  5. a copy is available
func (s *service) Borrow(ctx context.Context, userID, mediaID string) (*Loan, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.borrow",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("media.id", mediaID),
		),
	)
	defer span.End()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	media, err := s.media.FindByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if user.HasOutstandingFines() {
		return nil, ErrOutstandingFines
	}

	today := s.clock.Today()
	activeLoans, err := s.loans.FindActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}
	for _, active := range activeLoans {
		if active.Overdue(today) {
			return nil, ErrOverdueLoan
		}
	}

	if !media.Available() {
		return nil, ErrMediaUnavailable
	}

	loan := NewLoan(user.ID, media.ID, today, media.Category)
	if err := s.loans.Save(ctx, loan); err != nil {
		return nil, fmt.Errorf("save loan: %w", err)
	}

	media.TakeCopy()
	if err := s.media.Save(ctx, media); err != nil {
		s.compensateBorrow(ctx, loan, nil)
		return nil, fmt.Errorf("save media: %w", err)
	}

	user.AddLoan(loan.ID)
	if err := s.users.Save(ctx, user); err != nil {
		s.compensateBorrow(ctx, loan, media)
		return nil, fmt.Errorf("save user: %w", err)
	}

	err = eventlog.Record(ctx, s.events, loan.ID, "loan", "MediaBorrowed", MediaBorrowedEvent{
		LoanID:  loan.ID,
		UserID:  user.ID,
		MediaID: media.ID,
		DueDate: loan.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("record borrow: %w", err)
	}

	s.borrows.Add(ctx, 1, metric.WithAttributes(attribute.String("media.category", string(media.Category))))
	span.SetAttributes(attribute.String("loan.id", loan.ID))
	return loan, nil
}

// compensateBorrow unwinds a partially persisted borrow: the loan record
// is deleted and, when the media was already decremented, the copy is put
// back. Best effort; a crash between saves can still leave a stale row.
func (s *service) compensateBorrow(ctx context.Context, loan *Loan, media *catalog.Media) {
	if media != nil {
		media.ReturnCopy()
		_ = s.media.Save(ctx, media)
	}
	_ = s.loans.Delete(ctx, loan.ID)
}

// Return closes a loan and credits any overdue fine to the user. Returning
// an already-returned loan is a no-op that yields a zero fine, so repeated
// return requests have at most one effect.
func (s *service) Return(ctx context.Context, loanID string) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.return",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	loan, err := s.loans.FindByID(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	if loan.Returned() {
		span.SetAttributes(attribute.Bool("loan.already_returned", true))
		return decimal.Zero, nil
	}

	today := s.clock.Today()
	overdueDays := loan.DaysOverdue(today)

	openLoan := loan.Clone()
	loan.MarkReturned(today)
	if err := s.loans.Save(ctx, loan); err != nil {
		return decimal.Zero, fmt.Errorf("save loan: %w", err)
	}

	media, err := s.media.FindByID(ctx, loan.MediaID)
	if err != nil {
		s.restoreLoan(ctx, openLoan)
		return decimal.Zero, fmt.Errorf("loan %s references missing media: %w", loan.ID, err)
	}
	media.ReturnCopy()
	if err := s.media.Save(ctx, media); err != nil {
		s.restoreLoan(ctx, openLoan)
		return decimal.Zero, fmt.Errorf("save media: %w", err)
	}

	user, err := s.users.FindByID(ctx, loan.UserID)
	if err != nil {
		s.compensateReturn(ctx, openLoan, media)
		return decimal.Zero, fmt.Errorf("loan %s references missing user: %w", loan.ID, err)
	}

	fine := catalog.StrategyFor(media.Category)(overdueDays)
	user.CloseLoan(loan.ID)
	user.AddFine(fine)
	if err := s.users.Save(ctx, user); err != nil {
		s.compensateReturn(ctx, openLoan, media)
		return decimal.Zero, fmt.Errorf("save user: %w", err)
	}

	err = eventlog.Record(ctx, s.events, loan.ID, "loan", "MediaReturned", MediaReturnedEvent{
		LoanID:       loan.ID,
		UserID:       user.ID,
		MediaID:      media.ID,
		ReturnedDate: today,
		Fine:         fine,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("record return: %w", err)
	}

	s.returns.Add(ctx, 1, metric.WithAttributes(attribute.Int("loan.overdue_days", overdueDays)))
	return fine, nil
}

func (s *service) restoreLoan(ctx context.Context, openLoan *Loan) {
	_ = s.loans.Save(ctx, openLoan)
}

func (s *service) compensateReturn(ctx context.Context, openLoan *Loan, media *catalog.Media) {
	media.TakeCopy()
	_ = s.media.Save(ctx, media)
	s.restoreLoan(ctx, openLoan)
}
