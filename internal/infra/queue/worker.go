package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

// ClaimMailer sends the "lead claimed" notice to the claimant's manager.
type ClaimMailer interface {
	SendClaimNotice(ctx context.Context, event usecase.LeadClaimedEvent) error
}

var errMalformed = errors.New("malformed message")

type Worker struct {
	Channel *amqp.Channel
	Mailer  ClaimMailer
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, mailer ClaimMailer, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Mailer: mailer, Logger: logger}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	w.Logger.Info("worker consuming", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.processMessage(ctx, d.Body); err != nil {
		w.Logger.Error("claim notice failed",
			zap.String("message_id", d.MessageId),
			zap.Error(err),
		)
		// no requeue: the queue dead-letters to DLQName
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (w *Worker) processMessage(ctx context.Context, body []byte) error {
	var event usecase.LeadClaimedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if event.LeadID == "" {
		return fmt.Errorf("%w: lead_id is empty", errMalformed)
	}

	if event.ManagedBy == "" {
		w.Logger.Info("lead claimed without manager, no notice sent",
			zap.String("lead_id", event.LeadID),
			zap.String("claimed_by", event.ClaimedBy),
		)
		return nil
	}

	if err := w.Mailer.SendClaimNotice(ctx, event); err != nil {
		return err
	}

	w.Logger.Info("claim notice sent",
		zap.String("lead_id", event.LeadID),
		zap.String("managed_by", event.ManagedBy),
	)
	return nil
}
