// Package bridge consumes inbound transcription messages, drives the
// categorizer, persists results and republishes enriched messages.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"categorization-service/internal/broker"
	"categorization-service/internal/categorizer"
	"categorization-service/internal/models"
	"categorization-service/internal/store"
	"categorization-service/internal/util"
)

// Publisher is the broker surface the bridge needs.
type Publisher interface {
	Publish(ctx context.Context, queue, correlationID string, body []byte, headers amqp.Table) error
	Topology() broker.Topology
}

// Categorizer is the classification surface the bridge needs.
type Categorizer interface {
	Categorize(ctx context.Context, req categorizer.Request) ([]models.CategoryScore, error)
}

// Bridge runs the per-message state machine: decode, validate, classify,
// persist, publish, acknowledge. Permanent failures and exhausted retries go
// to the dead-letter queue; transient failures are redelivered a bounded
// number of times.
type Bridge struct {
	pub        Publisher
	cat        Categorizer
	store      store.CategorizationStore
	maxRetries int
}

// New creates a bridge. maxRetries bounds redeliveries of a message failing
// transiently; at least one attempt is always made.
func New(pub Publisher, cat Categorizer, st store.CategorizationStore, maxRetries int) *Bridge {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &Bridge{pub: pub, cat: cat, store: st, maxRetries: maxRetries}
}

// Run processes deliveries sequentially until the context is cancelled or
// the delivery channel closes. The in-flight message always finishes before
// Run returns.
func (b *Bridge) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("bridge stopping: context cancelled")
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				log.Warn("bridge stopping: delivery channel closed")
				return fmt.Errorf("%w: delivery channel closed", models.ErrTransport)
			}
			b.Handle(ctx, &d)
		}
	}
}

// Handle drives one delivery through the state machine and settles it. It
// never returns an error: every outcome ends in an ack, a requeue republish
// or a dead-letter, and the decision is logged.
func (b *Bridge) Handle(ctx context.Context, d *amqp.Delivery) {
	logger := log.WithFields(log.Fields{
		"delivery_tag": d.DeliveryTag,
		"retry_count":  broker.RetryCount(d.Headers),
	})

	err := b.process(ctx, d, logger)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			logger.WithError(ackErr).Error("failed to ack delivery")
		}
		return
	}

	if models.IsPermanent(err) {
		logger.WithError(err).Warn("permanent failure, dead-lettering message")
		b.deadLetter(ctx, d, err, logger)
		return
	}

	attempts := broker.RetryCount(d.Headers) + 1
	if attempts >= b.maxRetries {
		logger.WithError(err).WithField("attempts", attempts).
			Warn("retries exhausted, dead-lettering message")
		b.deadLetter(ctx, d, err, logger)
		return
	}

	logger.WithError(err).WithField("attempts", attempts).Info("transient failure, requeueing message")
	headers := amqp.Table{broker.RetryCountHeader: int32(attempts)}
	if pubErr := b.pub.Publish(ctx, b.pub.Topology().ConsumeQueue, d.CorrelationId, d.Body, headers); pubErr != nil {
		// Could not republish; fall back to a broker-side requeue so the
		// message is not lost. The retry counter stalls in this case.
		logger.WithError(pubErr).Error("failed to republish for retry, nacking with requeue")
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.WithError(nackErr).Error("failed to nack delivery")
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		logger.WithError(ackErr).Error("failed to ack delivery after retry republish")
	}
}

// process runs decode → validate → classify → persist → publish. The caller
// settles the delivery based on the returned error.
func (b *Bridge) process(ctx context.Context, d *amqp.Delivery, logger *log.Entry) error {
	var msg models.TranscriptionMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fmt.Errorf("%w: malformed message body: %v", models.ErrDecode, err)
	}

	if msg.Transcription == "" {
		return fmt.Errorf("%w: message is missing transcription", models.ErrInvalidInput)
	}

	text, err := util.CleanTranscript([]byte(msg.Transcription), "inbound message")
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDecode, err)
	}

	scores, err := b.cat.Categorize(ctx, categorizer.Request{
		Text:     text,
		Tags:     msg.Tags,
		Category: msg.Category,
	})
	if err != nil {
		return err
	}

	rec := &models.Categorization{
		ChannelID: msg.ChannelID,
		VideoID:   msg.VideoID,
		AudioPart: msg.AudioPart,
	}
	if err := b.store.SaveCategorization(ctx, rec, scores); err != nil {
		return err
	}

	out := models.EnrichedMessage{
		CategorizationResult: scores,
		ChannelID:            msg.ChannelID,
		VideoID:              msg.VideoID,
		AudioPart:            msg.AudioPart,
		Transcription:        msg.Transcription,
	}
	body, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%w: failed to encode enriched message: %v", models.ErrTransport, err)
	}

	correlationID := d.CorrelationId
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	if err := b.pub.Publish(ctx, b.pub.Topology().PublishQueue, correlationID, body, nil); err != nil {
		return err
	}

	topCategory := ""
	if len(scores) > 0 {
		topCategory = scores[0].Category
	}
	logger.WithFields(log.Fields{
		"categorization_id": rec.ID,
		"top_category":      topCategory,
		"correlation_id":    correlationID,
	}).Info("message categorized and published")
	return nil
}

// deadLetter parks the raw message body on the DLQ with the failure reason
// and acks the original. If the DLQ publish itself fails the delivery is
// nacked with requeue so nothing is dropped.
func (b *Bridge) deadLetter(ctx context.Context, d *amqp.Delivery, cause error, logger *log.Entry) {
	headers := amqp.Table{
		"x-failure-reason":      cause.Error(),
		broker.RetryCountHeader: int32(broker.RetryCount(d.Headers)),
	}
	if err := b.pub.Publish(ctx, b.pub.Topology().DeadLetterQueue, d.CorrelationId, d.Body, headers); err != nil {
		logger.WithError(err).Error("failed to publish to dead-letter queue, nacking with requeue")
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.WithError(nackErr).Error("failed to nack delivery")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		logger.WithError(err).Error("failed to ack dead-lettered delivery")
	}
}
