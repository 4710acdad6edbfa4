package sched

import (
	"context"
	"errors"
	"time"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// receiveBackoff is how long a consumer sleeps after a failed poll before
// trying again. Poll failure is transient infrastructure trouble, never a
// reason to exit the loop.
const receiveBackoff = 5 * time.Second

// Handler processes one message body. Returning nil acknowledges the
// message; domain.ErrMalformedMessage sends it to quarantine; any other
// error leaves it for redelivery after the visibility timeout.
type Handler func(ctx context.Context, body []byte) error

// Consumer runs a single-threaded poll loop against one queue. Multiple
// copies may run against the same queue; the substrate hands each message to
// one consumer at a time.
type Consumer struct {
	name       string
	queue      adapter.QueueChannel
	quarantine adapter.QueueChannel // nil disables quarantine routing
	handle     Handler
	maxReceive int
	log        *zerolog.Logger
}

func NewConsumer(name string, queue, quarantine adapter.QueueChannel, maxReceive int, handle Handler, logger *zerolog.Logger) *Consumer {
	compLog := logger.With().Str("component", name).Logger()
	return &Consumer{
		name:       name,
		queue:      queue,
		quarantine: quarantine,
		handle:     handle,
		maxReceive: maxReceive,
		log:        &compLog,
	}
}

// Run polls until ctx is cancelled. Every iteration's failures are contained
// to that iteration; one bad message cannot halt the consumer.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info().Msg("starting consumer")
	for {
		if err := ctx.Err(); err != nil {
			c.log.Info().Msg("stopping consumer")
			return err
		}

		msg, err := c.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			metrics.IncConsumerError(c.name, "receive")
			c.log.Error().Err(err).Msg("receive failed, backing off")
			c.sleep(ctx, receiveBackoff)
			continue
		}
		if msg == nil {
			// Empty poll, not an error.
			continue
		}

		c.process(ctx, msg)
	}
}

func (c *Consumer) process(ctx context.Context, msg *adapter.Message) {
	err := c.handle(ctx, msg.Body)
	switch {
	case err == nil:
		c.ack(ctx, msg)
	case errors.Is(err, domain.ErrMalformedMessage):
		// Parsing will never start succeeding; retrying forever only burns
		// the queue. Park it for inspection instead.
		c.log.Error().Err(err).Str("message_id", msg.ID).Msg("malformed message, quarantining")
		c.sendToQuarantine(ctx, msg)
	case msg.ReceiveCount >= c.maxReceive && c.maxReceive > 0:
		c.log.Error().Err(err).Str("message_id", msg.ID).Int("receive_count", msg.ReceiveCount).
			Msg("receive budget exhausted, quarantining")
		c.sendToQuarantine(ctx, msg)
	default:
		// Leave the message; it reappears after the visibility timeout.
		metrics.IncConsumerError(c.name, "handle")
		c.log.Error().Err(err).Str("message_id", msg.ID).Msg("handling failed, leaving for redelivery")
	}
}

func (c *Consumer) ack(ctx context.Context, msg *adapter.Message) {
	if err := c.queue.Delete(ctx, msg.Receipt); err != nil {
		// The message will be redelivered and reprocessed; handlers are
		// built for that.
		metrics.IncConsumerError(c.name, "delete")
		c.log.Error().Err(err).Str("message_id", msg.ID).Msg("delete failed")
	}
}

func (c *Consumer) sendToQuarantine(ctx context.Context, msg *adapter.Message) {
	if c.quarantine != nil {
		if err := c.quarantine.Send(ctx, msg.Body); err != nil {
			c.log.Error().Err(err).Str("message_id", msg.ID).Msg("quarantine send failed, leaving for redelivery")
			return
		}
		metrics.IncQuarantined(c.name)
	}
	c.ack(ctx, msg)
}

func (c *Consumer) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
