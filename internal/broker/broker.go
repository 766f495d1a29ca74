// Package broker wraps the AMQP connection, topology declaration and
// publishing for the categorization pipeline.
package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"categorization-service/internal/models"
)

// RetryCountHeader carries the bounded-retry counter across republishes.
const RetryCountHeader = "x-retry-count"

// Topology names the exchange and queues the service declares. The dead
// letter queue catches messages that can never succeed or exhausted their
// retries.
type Topology struct {
	Exchange        string
	ConsumeQueue    string
	PublishQueue    string
	DeadLetterQueue string
}

// TopologyFor derives the dead-letter queue name from the consume queue.
func TopologyFor(exchange, consumeQueue, publishQueue string) Topology {
	return Topology{
		Exchange:        exchange,
		ConsumeQueue:    consumeQueue,
		PublishQueue:    publishQueue,
		DeadLetterQueue: consumeQueue + ".dlq",
	}
}

// Broker holds one AMQP connection and channel. The worker owns a single
// Broker; messages are processed sequentially so one channel is enough.
type Broker struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	topology Topology
}

// Connect dials the broker and declares the exchange, both durable queues,
// the dead-letter queue and their bindings. Routing keys equal queue names
// on a direct exchange.
func Connect(url string, topology Topology) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial broker: %v", models.ErrTransport, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: failed to open channel: %v", models.ErrTransport, err)
	}

	b := &Broker{conn: conn, ch: ch, topology: topology}
	if err := b.declareTopology(); err != nil {
		b.Close()
		return nil, err
	}

	log.WithFields(log.Fields{
		"exchange":      topology.Exchange,
		"consume_queue": topology.ConsumeQueue,
		"publish_queue": topology.PublishQueue,
	}).Info("broker topology declared")
	return b, nil
}

func (b *Broker) declareTopology() error {
	if err := b.ch.ExchangeDeclare(b.topology.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("%w: failed to declare exchange: %v", models.ErrTransport, err)
	}
	for _, queue := range []string{b.topology.ConsumeQueue, b.topology.PublishQueue, b.topology.DeadLetterQueue} {
		if _, err := b.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("%w: failed to declare queue %s: %v", models.ErrTransport, queue, err)
		}
		if err := b.ch.QueueBind(queue, queue, b.topology.Exchange, false, nil); err != nil {
			return fmt.Errorf("%w: failed to bind queue %s: %v", models.ErrTransport, queue, err)
		}
	}
	return nil
}

// Consume opens the delivery stream for the consume queue with manual acks.
func (b *Broker) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	deliveries, err := b.ch.Consume(b.topology.ConsumeQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start consumer: %v", models.ErrTransport, err)
	}
	return deliveries, nil
}

// Publish sends a persistent JSON message to the named queue through the
// direct exchange. headers may be nil.
func (b *Broker) Publish(ctx context.Context, queue, correlationID string, body []byte, headers amqp.Table) error {
	err := b.ch.PublishWithContext(ctx,
		b.topology.Exchange,
		queue, // routing key equals queue name
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			CorrelationId: correlationID,
			Body:          body,
			Headers:       headers,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to publish to %s: %v", models.ErrTransport, queue, err)
	}
	return nil
}

// Topology returns the declared names.
func (b *Broker) Topology() Topology {
	return b.topology
}

// Close releases the channel and connection.
func (b *Broker) Close() {
	if b.ch != nil {
		b.ch.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}

// RetryCount reads the bounded-retry counter from delivery headers.
func RetryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	switch v := headers[RetryCountHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}
