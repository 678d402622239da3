// internal/membership/service.go
package membership

import "context"

// Service defines the interface for the membership service.
type Service interface {
	RegisterMember(ctx context.Context, username, name, password string) (*User, error)
	RegisterAdmin(ctx context.Context, sess Session, username, name, password string) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	ChangePassword(ctx context.Context, sess Session, currentPassword, newPassword string) error
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, sess Session) ([]*User, error)
	Unregister(ctx context.Context, sess Session, userID string) error
}
