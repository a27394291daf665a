package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the publishing half of *amqp.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer publishes realtime events to the topic exchange, using the event
// name as routing key.
type Producer struct {
	Ch     Channel
	Logger *zap.Logger
}

func NewProducer(ch Channel, logger *zap.Logger) *Producer {
	return &Producer{Ch: ch, Logger: logger}
}

func (p *Producer) Publish(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		event,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}

	p.Logger.Debug("realtime event published", zap.String("event", event))
	return nil
}
