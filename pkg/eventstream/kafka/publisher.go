// Package kafka provides a Kafka-backed event publisher.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spoolhq/spool/pkg/eventstream"
)

// Config configures a Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic receives invocation events.
	Topic string

	Logger *zap.Logger
}

// Publisher implements eventstream.Publisher on a Kafka topic. Events are
// keyed by session ID so all events of one session land in one partition,
// in order.
type Publisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewPublisher creates a Kafka publisher. The topic is auto-created when
// the cluster allows it.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}, nil
}

func (p *Publisher) PublishInvocation(ctx context.Context, ev *eventstream.InvocationCompletedEvent) error {
	if ev == nil {
		return eventstream.ErrNilEvent
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(ev.Source.SessionID),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	p.logger.Debug("published invocation event",
		zap.String("event_id", ev.EventID),
		zap.String("session_id", ev.Source.SessionID),
	)

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
