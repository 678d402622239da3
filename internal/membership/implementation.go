// internal/membership/implementation.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"libralend/internal/eventlog"
)

// service implements the Service interface.
type service struct {
	users       Repository
	events      eventlog.Log
	rateLimiter *rate.Limiter
}

// NewService creates a new membership service instance.
func NewService(users Repository, events eventlog.Log) Service {
	return &service{
		users:       users,
		events:      events,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 requests per minute
	}
}

// RegisterMember creates a new member account.
func (s *service) RegisterMember(ctx context.Context, username, name, password string) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	return s.register(ctx, username, name, password, RoleMember)
}

// RegisterAdmin creates a new administrator account. Only admins may do this.
func (s *service) RegisterAdmin(ctx context.Context, sess Session, username, name, password string) (*User, error) {
	if !sess.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return s.register(ctx, username, name, password, RoleAdmin)
}

func (s *service) register(ctx context.Context, username, name, password string, role Role) (*User, error) {
	if err := s.ensureUsernameAvailable(ctx, username); err != nil {
		return nil, err
	}

	passwordHash, passwordSalt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := NewUser(username, name, role, passwordHash, passwordSalt)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	err = eventlog.Record(ctx, s.events, user.ID, "user", "UserRegistered", UserRegisteredEvent{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("record registration: %w", err)
	}

	return user, nil
}

func (s *service) ensureUsernameAvailable(ctx context.Context, username string) error {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return ErrUsernameTaken
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	return err
}

// Authenticate verifies credentials and returns the user. Unknown usernames
// and wrong passwords produce the same error.
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	ok, err := verifyPassword(password, user.PasswordSalt, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword replaces the caller's own password after verifying the
// current one.
func (s *service) ChangePassword(ctx context.Context, sess Session, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		return err
	}

	ok, err := verifyPassword(currentPassword, user.PasswordSalt, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify current password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	passwordHash, passwordSalt, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = passwordHash
	user.PasswordSalt = passwordSalt

	return s.users.Save(ctx, user)
}

// GetUser retrieves a user by id.
func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.users.FindByID(ctx, id)
}

// ListUsers returns all accounts. Only admins may do this.
func (s *service) ListUsers(ctx context.Context, sess Session) ([]*User, error) {
	if !sess.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return s.users.FindAll(ctx)
}

// Unregister removes an account. Refused while the user still holds active
// loans or owes fines.
func (s *service) Unregister(ctx context.Context, sess Session, userID string) error {
	if !sess.IsAdmin() {
		return ErrAdminRequired
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasActiveLoans() {
		return ErrUserHasActiveLoans
	}
	if user.HasOutstandingFines() {
		return ErrUserHasUnpaidFines
	}

	return s.users.Delete(ctx, userID)
}
