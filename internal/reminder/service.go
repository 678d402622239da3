// internal/reminder/service.go
package reminder

import (
	"context"

	"libralend/internal/membership"
)

// Service defines the interface for the reminder dispatcher.
type Service interface {
	Register(observer Observer)
	Remove(observer Observer)
	SendReminder(ctx context.Context, user *membership.User) (bool, error)
	SendDailyReminders(ctx context.Context) ([]*membership.User, error)
}
