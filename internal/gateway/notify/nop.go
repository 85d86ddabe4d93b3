package notify

import "context"

// Dispatcher is the send-side surface the services depend on.
type Dispatcher interface {
	Send(ctx context.Context, n Notification) error
}

// NopDispatcher discards notifications. Used when no broker is
// configured.
type NopDispatcher struct{}

// Send always succeeds.
func (NopDispatcher) Send(context.Context, Notification) error { return nil }
