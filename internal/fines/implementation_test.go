// internal/fines/implementation_test.go
package fines_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libralend/internal/catalog"
	"libralend/internal/circulation"
	"libralend/internal/clock"
	"libralend/internal/eventlog"
	"libralend/internal/fines"
	"libralend/internal/membership"
	"libralend/internal/storage/memory"
)

type env struct {
	users  *memory.UserRepository
	media  *memory.MediaRepository
	loans  *memory.LoanRepository
	clock  *clock.Fixed
	events *eventlog.Memory
	ledger fines.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		users:  memory.NewUserRepository(),
		media:  memory.NewMediaRepository(),
		loans:  memory.NewLoanRepository(),
		clock:  clock.NewFixed(clock.Date(2025, time.January, 1)),
		events: eventlog.NewMemory(),
	}
	e.ledger = fines.NewService(e.users, e.loans, e.media, e.clock, e.events)
	return e
}

func (e *env) addMemberOwing(t *testing.T, username string, owed int64) *membership.User {
	t.Helper()
	user := membership.NewUser(username, username, membership.RoleMember, "hash", "salt")
	user.AddFine(decimal.NewFromInt(owed))
	require.NoError(t, e.users.Save(context.Background(), user))
	return user
}

func (e *env) openLoan(t *testing.T, user *membership.User, media *catalog.Media) *circulation.Loan {
	t.Helper()
	loan := circulation.NewLoan(user.ID, media.ID, e.clock.Today(), media.Category)
	require.NoError(t, e.loans.Save(context.Background(), loan))
	return loan
}

func TestPayFine(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.addMemberOwing(t, "alice", 50)

	balance, err := e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(balance), "got %s", balance)

	stored, err := e.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(stored.FineBalance))

	recorded, err := e.events.ByAggregate(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "FinePaid", recorded[0].EventType)
}

func TestPayFineToZero(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.addMemberOwing(t, "alice", 50)

	balance, err := e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	stored, err := e.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasOutstandingFines())
}

func TestPayFineValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("amount must be positive", func(t *testing.T) {
		e := newEnv(t)
		user := e.addMemberOwing(t, "alice", 50)

		_, err := e.ledger.PayFine(ctx, user.ID, decimal.Zero)
		assert.ErrorIs(t, err, fines.ErrInvalidPaymentAmount)

		_, err = e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, fines.ErrInvalidPaymentAmount)
	})

	t.Run("unknown user", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.ledger.PayFine(ctx, "missing", decimal.NewFromInt(10))
		assert.ErrorIs(t, err, membership.ErrUserNotFound)
	})

	t.Run("nothing owed", func(t *testing.T) {
		e := newEnv(t)
		user := e.addMemberOwing(t, "alice", 0)
		_, err := e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, fines.ErrNoOutstandingFines)
	})

	t.Run("payment exceeds balance", func(t *testing.T) {
		e := newEnv(t)
		user := e.addMemberOwing(t, "alice", 30)

		_, err := e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(40))
		require.ErrorIs(t, err, fines.ErrPaymentExceedsBalance)

		stored, err := e.users.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30).Equal(stored.FineBalance), "rejected payment must not change the balance")
	})
}

func TestPayFineSequence(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.addMemberOwing(t, "alice", 50)

	balance, err := e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(30).Equal(balance))

	_, err = e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(40))
	assert.ErrorIs(t, err, fines.ErrPaymentExceedsBalance)

	balance, err = e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = e.ledger.PayFine(ctx, user.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, fines.ErrNoOutstandingFines)
}

func TestGenerateOverdueReport(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.addMemberOwing(t, "alice", 0)

	book := catalog.NewBook("Clean Code", "Robert C. Martin", "isbn", 1)
	cd := catalog.NewCD("Thriller", "Michael Jackson", 1)
	onTime := catalog.NewBook("Effective Java", "Joshua Bloch", "isbn2", 1)
	for _, m := range []*catalog.Media{book, cd, onTime} {
		require.NoError(t, e.media.Save(ctx, m))
	}

	e.openLoan(t, user, book)
	e.openLoan(t, user, cd)

	// Advance past both due dates, then open a fresh loan that is not due.
	e.clock.Advance(30)
	e.openLoan(t, user, onTime)

	report, err := e.ledger.GenerateOverdueReport(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, report.UserID)
	require.Len(t, report.Items, 2, "the loan that is not due yet must be excluded")

	byTitle := map[string]int{}
	for i, item := range report.Items {
		byTitle[item.MediaTitle] = i
	}

	bookItem := report.Items[byTitle["Clean Code"]]
	assert.Equal(t, 2, bookItem.OverdueDays)
	assert.True(t, decimal.NewFromInt(20).Equal(bookItem.FineAmount))

	cdItem := report.Items[byTitle["Thriller"]]
	assert.Equal(t, 23, cdItem.OverdueDays)
	assert.True(t, decimal.NewFromInt(460).Equal(cdItem.FineAmount))

	assert.True(t, decimal.NewFromInt(480).Equal(report.TotalFine), "got %s", report.TotalFine)
}

func TestGenerateOverdueReportEmpty(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.addMemberOwing(t, "alice", 0)

	report, err := e.ledger.GenerateOverdueReport(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Items)
	assert.True(t, report.TotalFine.IsZero())
}

func TestGenerateOverdueReportUnknownUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.ledger.GenerateOverdueReport(ctx, "missing")
	assert.ErrorIs(t, err, membership.ErrUserNotFound)
}

func TestGenerateOverdueReportMissingMedia(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.addMemberOwing(t, "alice", 0)

	book := catalog.NewBook("Clean Code", "Robert C. Martin", "isbn", 1)
	require.NoError(t, e.media.Save(ctx, book))
	e.openLoan(t, user, book)

	e.clock.Advance(30)
	e.media.Remove(book.ID)

	_, err := e.ledger.GenerateOverdueReport(ctx, user.ID)
	assert.ErrorIs(t, err, catalog.ErrMediaNotFound)
}
