package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"exportflow/internal/core/domain/model/milestone"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher implements ports.EventPublisher on one AMQP channel.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewPublisher dials url, opens a channel and declares the exchange.
func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err = DeclareExchange(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

// DeclareExchange declares the durable topic exchange.
func DeclareExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Publish sends one persistent JSON message per entry. Every entry is
// attempted; the failures are joined.
func (p *Publisher) Publish(ctx context.Context, entries []milestone.LogEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var failures []error
	for _, e := range entries {
		body, err := json.Marshal(NewEvent(e))
		if err != nil {
			failures = append(failures, err)
			continue
		}

		err = p.channel.PublishWithContext(ctx,
			ExchangeName,
			RoutingKey(e),
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    e.ID().String(),
				Timestamp:    e.At().UTC(),
				Body:         body,
			},
		)
		if err != nil {
			failures = append(failures, fmt.Errorf("publish %s: %w", e.ID(), err))
			continue
		}
		p.logger.Debug("audit event published",
			zap.String("routing_key", RoutingKey(e)),
			zap.String("entry_id", e.ID().String()))
	}
	return errors.Join(failures...)
}

// IsConnected reports whether the connection is still open.
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	var chErr, connErr error
	if p.channel != nil {
		chErr = p.channel.Close()
	}
	if p.conn != nil {
		connErr = p.conn.Close()
	}
	return errors.Join(chErr, connErr)
}
