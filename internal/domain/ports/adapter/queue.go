package adapter

import "context"

// Message is one delivery from a queue. ReceiveCount is approximate (the
// substrate only promises at-least-once); consumers use it to decide when a
// repeatedly failing message should be quarantined instead of retried.
type Message struct {
	ID           string
	Receipt      string
	Body         []byte
	ReceiveCount int
}

// QueueChannel wraps one message queue. Receive blocks up to the channel's
// configured wait window and returns (nil, nil) when no message arrived;
// an empty poll is not an error.
type QueueChannel interface {
	Receive(ctx context.Context) (*Message, error)
	// Delete acknowledges a delivery. Until called, the message reappears
	// after the visibility timeout.
	Delete(ctx context.Context, receipt string) error
	Send(ctx context.Context, body []byte) error
}
