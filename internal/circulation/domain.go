// internal/circulation/domain.go
package circulation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"libralend/internal/catalog"
	"libralend/internal/clock"
)

var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrOutstandingFines = errors.New("outstanding fines must be paid first")
	ErrOverdueLoan      = errors.New("user has overdue loans")
	ErrMediaUnavailable = errors.New("media is not available")
)

// Loan connects a user with a piece of media for a bounded period. A loan
// with a zero ReturnedDate is open; marking it returned happens exactly
// once and the date never changes afterwards.
type Loan struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	MediaID      string    `json:"media_id"`
	CheckoutDate time.Time `json:"checkout_date"`
	DueDate      time.Time `json:"due_date"`
	ReturnedDate time.Time `json:"returned_date,omitempty"`
}

// NewLoan opens a loan starting today. The due date follows the media
// category's loan period.
func NewLoan(userID, mediaID string, checkoutDate time.Time, category catalog.Category) *Loan {
	return &Loan{
		ID:           uuid.NewString(),
		UserID:       userID,
		MediaID:      mediaID,
		CheckoutDate: checkoutDate,
		DueDate:      checkoutDate.AddDate(0, 0, catalog.LoanPeriodDays(category)),
	}
}

// Returned reports whether the loan has been closed.
func (l *Loan) Returned() bool {
	return !l.ReturnedDate.IsZero()
}

// MarkReturned closes the loan. A second call has no effect.
func (l *Loan) MarkReturned(returnDate time.Time) {
	if l.ReturnedDate.IsZero() {
		l.ReturnedDate = returnDate
	}
}

// Overdue reports whether the loan is open and past its due date at the
// reference date.
func (l *Loan) Overdue(referenceDate time.Time) bool {
	return !l.Returned() && referenceDate.After(l.DueDate)
}

// DaysOverdue returns how many whole days the loan is past due, or zero
// if it is returned or not yet due.
func (l *Loan) DaysOverdue(referenceDate time.Time) int {
	if !l.Overdue(referenceDate) {
		return 0
	}
	return clock.DaysBetween(l.DueDate, referenceDate)
}

// Clone returns an independent copy so repository callers can mutate
// freely before saving.
func (l *Loan) Clone() *Loan {
	clone := *l
	return &clone
}

// LoanRepository persists loans.
type LoanRepository interface {
	Save(ctx context.Context, loan *Loan) error
	FindByID(ctx context.Context, id string) (*Loan, error)
	FindActiveByUser(ctx context.Context, userID string) ([]*Loan, error)
	FindActiveByMedia(ctx context.Context, mediaID string) (*Loan, error)
	FindAll(ctx context.Context) ([]*Loan, error)
	Delete(ctx context.Context, id string) error
}

// MediaBorrowedEvent is recorded when a loan opens.
type MediaBorrowedEvent struct {
	LoanID  string    `json:"loan_id"`
	UserID  string    `json:"user_id"`
	MediaID string    `json:"media_id"`
	DueDate time.Time `json:"due_date"`
}

// MediaReturnedEvent is recorded when a loan closes.
type MediaReturnedEvent struct {
	LoanID       string          `json:"loan_id"`
	UserID       string          `json:"user_id"`
	MediaID      string          `json:"media_id"`
	ReturnedDate time.Time       `json:"returned_date"`
	Fine         decimal.Decimal `json:"fine"`
}
