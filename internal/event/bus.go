// internal/event/bus.go
package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// AccountCreated is published whenever a new account becomes known to the
// directory, whether provisioned locally or mirrored in from the platform
// account stream.
type AccountCreated struct {
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
}

// AccountCreatedHandler reacts to a single AccountCreated event.
type AccountCreatedHandler func(ctx context.Context, ev AccountCreated) error

// Bus fans AccountCreated events out to the handlers registered at process
// startup. Delivery is synchronous: Publish returns after every handler has
// run, so a caller that created an account observes the side effects of the
// handlers on its next read.
type Bus struct {
	mu       sync.RWMutex
	handlers []AccountCreatedHandler
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeAccountCreated registers a handler. Registration happens once
// during initialization; there is no unsubscribe.
func (b *Bus) SubscribeAccountCreated(h AccountCreatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// PublishAccountCreated delivers the event to every registered handler.
// Handler failures are logged and do not stop delivery to the remaining
// handlers, and never surface to the publisher.
func (b *Bus) PublishAccountCreated(ctx context.Context, ev AccountCreated) {
	b.mu.RLock()
	handlers := make([]AccountCreatedHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "account-created handler failed",
				"error", err, "account_id", ev.AccountID, "email", ev.Email)
		}
	}
}
