package resetemail

import (
	"context"
	e "resetme/internal/core/domain/errors"
	"resetme/internal/core/domain/logging"
	"resetme/internal/core/domain/token"
	"resetme/internal/core/domain/user"
	"resetme/internal/rabbitmq"
	"resetme/internal/rabbitmq/schema"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitMQ queues the reset email for asynchronous delivery so that SES
// latency and outages never sit on the issue request path.
type RabbitMQ struct {
	log        logging.Logger
	channel    *rabbitmq.Channel
	exchange   string
	routingKey string
}

func NewRabbitMQ(log logging.Logger, channel *rabbitmq.Channel, exchange string, routingKey string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, routingKey: routingKey}
}

func (s *RabbitMQ) SendResetToken(ctx context.Context, u user.User, t token.RawToken, expiresAt time.Time) error {
	msg := schema.ResetEmail{
		Email:       string(u.Email),
		DisplayName: u.DisplayName,
		Token:       string(t),
		ExpiresAt:   expiresAt,
	}
	body, err := msg.Marshal()
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}

	err = s.channel.PublishWithContext(ctx, s.exchange, s.routingKey, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return err
	}
	s.log.Info(
		ctx,
		"Password reset email has been queued.",
		logging.Entry("exchange", s.exchange),
		logging.Entry("RK", s.routingKey),
	)
	return nil
}
