package server

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/trialatlas/backend/internal/queue"
	mid "github.com/trialatlas/backend/internal/server/middleware"
	"github.com/trialatlas/backend/pkg/logger"
)

// maxRetries before a refresh message lands in the dead-letter queue.
const maxRetries = 10

// StartRefreshConsumer consumes the refresh queue and reloads the
// dataset into the running service. Runs until the context is canceled.
func StartRefreshConsumer(ctx context.Context, conn *amqp.Connection, app *mid.App) {
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}

	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.RefreshQueue,
		queue.RefreshQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.RefreshQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.RefreshQueue)

	go func() {
		defer consumerCh.Close()
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping refresh consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed", "queue", queue.RefreshQueue)
					return
				}

				processingErr := queue.ProcessRefresh(ctx, app.Source, app.Network, string(msg.Body))
				if processingErr != nil {
					logger.Error("Error processing message", "queue", queue.RefreshQueue, "err", processingErr)
					handleProcessingError(consumerCh, msg, queue.RefreshQueue)
					continue
				}

				if err := msg.Ack(false); err != nil {
					logger.Error("Failed to ack message", "err", err)
				}
			}
		}
	}()
}

// handleProcessingError reroutes a failed message to the retry queue,
// or to the dead-letter queue once it runs out of attempts.
func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	if retries >= maxRetries {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = retries + 1

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
