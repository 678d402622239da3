// internal/reminder/observer.go
package reminder

import (
	"context"
	"fmt"
	"sync"

	"libralend/internal/membership"
)

// Observer receives a reminder for one user. Observers are invoked
// synchronously, in registration order.
type Observer interface {
	Notify(ctx context.Context, user *membership.User, message string) error
}

// EmailNotifier records the messages it would send, for verification.
type EmailNotifier struct {
	mu   sync.Mutex
	sent []string
}

// NewEmailNotifier creates an empty notifier.
func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) Notify(_ context.Context, user *membership.User, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, fmt.Sprintf("To %s: %s", user.Username, message))
	return nil
}

// SentMessages returns the recorded messages in send order.
func (n *EmailNotifier) SentMessages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

// Clear drops all recorded messages.
func (n *EmailNotifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}
