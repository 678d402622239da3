// internal/membership/domain.go
package membership

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role distinguishes administrators from regular members.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminRequired      = errors.New("admin privileges required")
	ErrUserHasActiveLoans = errors.New("user has active loans")
	ErrUserHasUnpaidFines = errors.New("user has unpaid fines")
	ErrRateLimited        = errors.New("too many attempts, slow down")
)

// User represents both administrators and members. Active loans are kept
// as a set of loan ids (the loan records live elsewhere); the fine balance
// is exact decimal money and never goes negative.
type User struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	Name          string          `json:"name"`
	Role          Role            `json:"role"`
	PasswordHash  string          `json:"-"`
	PasswordSalt  string          `json:"-"`
	ActiveLoanIDs []string        `json:"active_loan_ids"`
	FineBalance   decimal.Decimal `json:"fine_balance"`
}

// NewUser creates a user with a fresh id, zero balance and no loans.
func NewUser(username, name string, role Role, passwordHash, passwordSalt string) *User {
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		FineBalance:  decimal.Zero,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AddLoan records a loan id in the user's active set.
func (u *User) AddLoan(loanID string) {
	if !slices.Contains(u.ActiveLoanIDs, loanID) {
		u.ActiveLoanIDs = append(u.ActiveLoanIDs, loanID)
	}
}

// CloseLoan removes a loan id from the active set.
func (u *User) CloseLoan(loanID string) {
	u.ActiveLoanIDs = slices.DeleteFunc(u.ActiveLoanIDs, func(id string) bool {
		return id == loanID
	})
}

func (u *User) HasActiveLoans() bool {
	return len(u.ActiveLoanIDs) > 0
}

// AddFine increases the balance. Zero or negative amounts are ignored.
func (u *User) AddFine(amount decimal.Decimal) {
	if amount.IsPositive() {
		u.FineBalance = u.FineBalance.Add(amount)
	}
}

// PayFine decreases the balance, flooring at zero. Zero or negative
// amounts are ignored.
func (u *User) PayFine(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	u.FineBalance = u.FineBalance.Sub(amount)
	if u.FineBalance.IsNegative() {
		u.FineBalance = decimal.Zero
	}
}

func (u *User) HasOutstandingFines() bool {
	return u.FineBalance.IsPositive()
}

// Clone returns an independent copy so repository callers can mutate
// freely before saving.
func (u *User) Clone() *User {
	clone := *u
	clone.ActiveLoanIDs = slices.Clone(u.ActiveLoanIDs)
	return &clone
}

// Repository persists users.
type Repository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id string) error
}

// Session identifies the authenticated caller of an operation. It is an
// explicit value passed into admin-gated services; there is no ambient
// "current user" state.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// NewSession derives a session from an authenticated user.
func NewSession(user *User) Session {
	return Session{UserID: user.ID, Username: user.Username, Role: user.Role}
}

// UserRegisteredEvent is recorded when an account is created.
type UserRegisteredEvent struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
