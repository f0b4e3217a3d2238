package consumers

import (
	"context"
	"resetme/internal/app/deps"
	dl "resetme/internal/core/domain/logging"
	resetemailready "resetme/internal/rabbitmq/consumers/reset_email_ready"
)

func initResetEmailConsumer(deps *deps.Deps) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.ResetEmailQueue
	resetEmailConsumer := resetemailready.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		deps.EmailSender,
	)
	if err = resetEmailConsumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps) func() {
	shutdownResetEmailConsumer := initResetEmailConsumer(deps)

	return func() {
		shutdownResetEmailConsumer()
	}
}
