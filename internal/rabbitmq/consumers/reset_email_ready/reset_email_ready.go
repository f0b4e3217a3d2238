package resetemailready

import (
	"context"
	"resetme/internal/core/domain/common"
	e "resetme/internal/core/domain/errors"
	"resetme/internal/core/domain/logging"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
	"resetme/internal/rabbitmq"
	"resetme/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

// Consumer drains queued reset emails and hands them to the actual
// delivery channel. Deliveries are acked even on failure; the token is
// still valid and the user can request a new link, while a requeue loop
// would hammer SES with the same broken message.
type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	sender  token.ResetTokenSender
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	sender token.ResetTokenSender,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, sender: sender}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			c.handle(delivery)
		}
	}()
	return nil
}

func (c *Consumer) handle(delivery amqp091.Delivery) {
	ctx := context.Background()

	// The body contains the raw token, never log it.
	msg := &schema.ResetEmail{}
	if err := msg.Unmarshal(delivery.Body); err != nil {
		c.log.Error(ctx, "Could not unmarshal reset email message.", logging.Entry("err", err))
		c.Ack(delivery)
		return
	}

	u := user.User{
		Email:       common.NewEmail(msg.Email),
		DisplayName: msg.DisplayName,
	}
	if err := c.sender.SendResetToken(ctx, u, token.RawToken(msg.Token), msg.ExpiresAt); err != nil {
		c.log.Error(ctx, "Could not send password reset email.", logging.Entry("err", err))
	} else {
		c.log.Info(ctx, "Password reset email has been sent.")
	}
	c.Ack(delivery)
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(true); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
