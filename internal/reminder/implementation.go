// internal/reminder/implementation.go
package reminder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"libralend/internal/circulation"
	"libralend/internal/clock"
	"libralend/internal/eventlog"
	"libralend/internal/membership"
)

// service implements the Service interface.
type service struct {
	loans  circulation.LoanRepository
	users  membership.Repository
	clock  clock.Clock
	events eventlog.Log

	mu        sync.Mutex
	observers []Observer

	tracer    trace.Tracer
	reminders metric.Int64Counter
}

// NewService creates a new reminder dispatcher instance.
func NewService(loans circulation.LoanRepository, users membership.Repository, clk clock.Clock, events eventlog.Log) Service {
	meter := otel.Meter("libralend/reminder")
	reminders, _ := meter.Int64Counter("reminder.sent")

	return &service{
		loans:     loans,
		users:     users,
		clock:     clk,
		events:    events,
		tracer:    otel.Tracer("libralend/reminder"),
		reminders: reminders,
	}
}

// Register appends an observer to the dispatch list.
func (s *service) Register(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Remove drops an observer previously registered. Identity comparison;
// unknown observers are ignored.
func (s *service) Remove(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = slices.DeleteFunc(s.observers, func(o Observer) bool {
		return o == observer
	})
}

func (s *service) snapshot() []Observer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Observer(nil), s.observers...)
}

// SendReminder notifies every observer when the user holds at least one
// overdue loan. A failing observer does not stop dispatch to the rest;
// its error is collected and returned after the full pass.
func (s *service) SendReminder(ctx context.Context, user *membership.User) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "reminder.send",
		trace.WithAttributes(attribute.String("user.id", user.ID)),
	)
	defer span.End()

	loans, err := s.loans.FindActiveByUser(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("load active loans: %w", err)
	}

	today := s.clock.Today()
	overdueCount := 0
	for _, loan := range loans {
		if loan.Overdue(today) {
			overdueCount++
		}
	}
	if overdueCount == 0 {
		return false, nil
	}

	message := fmt.Sprintf("You have %d overdue item(s).", overdueCount)

	var dispatchErrs []error
	for _, observer := range s.snapshot() {
		if err := observer.Notify(ctx, user, message); err != nil {
			dispatchErrs = append(dispatchErrs, err)
		}
	}

	err = eventlog.Record(ctx, s.events, user.ID, "user", "ReminderSent", ReminderSentEvent{
		UserID:       user.ID,
		OverdueItems: overdueCount,
	})
	if err != nil {
		dispatchErrs = append(dispatchErrs, err)
	}

	s.reminders.Add(ctx, 1)
	span.SetAttributes(attribute.Int("reminder.overdue_items", overdueCount))
	return true, errors.Join(dispatchErrs...)
}

// SendDailyReminders walks all users in enumeration order and returns the
// ones that were notified. Dispatch errors for one user do not prevent
// reminders for the rest.
func (s *service) SendDailyReminders(ctx context.Context) ([]*membership.User, error) {
	ctx, span := s.tracer.Start(ctx, "reminder.daily")
	defer span.End()

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var notified []*membership.User
	var dispatchErrs []error
	for _, user := range users {
		sent, err := s.SendReminder(ctx, user)
		if err != nil {
			dispatchErrs = append(dispatchErrs, fmt.Errorf("remind %s: %w", user.Username, err))
		}
		if sent {
			notified = append(notified, user)
		}
	}

	span.SetAttributes(attribute.Int("reminder.notified", len(notified)))
	return notified, errors.Join(dispatchErrs...)
}

// ReminderSentEvent is recorded when a user is notified.
type ReminderSentEvent struct {
	UserID       string `json:"user_id"`
	OverdueItems int    `json:"overdue_items"`
}
