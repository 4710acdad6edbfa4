package adapter

import "context"

// NotificationBus publishes to one pub/sub topic. Payloads are JSON-encoded
// by the implementation; subscribers (queues, email notifier) are wired
// outside the process.
type NotificationBus interface {
	Publish(ctx context.Context, payload any) error
}
