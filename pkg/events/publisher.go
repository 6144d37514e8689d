package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecommerce-backend/pkg/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	OrderPlaced       = "order.placed"
	OrderStatusChange = "order.status_changed"
	PaymentInitiated  = "payment.initiated"
	CheckoutSucceeded = "checkout.succeeded"
	CheckoutFailed    = "checkout.failed"
)

// Event is a domain event emitted after a committed write.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType, key string, payload any) Event {
	return Event{Type: eventType, Key: key, Payload: payload, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// New returns a kafka publisher, or a log publisher when no brokers are set.
func New(config utils.KafkaConfig, log *zap.Logger) Publisher {
	if len(config.Brokers) == 0 {
		return NewLogPublisher(log)
	}
	log.Info("Kafka publisher enabled",
		zap.Strings("brokers", config.Brokers),
		zap.String("topic", config.Topic))
	return NewKafkaPublisher(config)
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(config utils.KafkaConfig) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(config.Brokers...),
			Topic:        config.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write kafka messages: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	return kafka.Message{
		Key:   []byte(e.Key),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}, nil
}

type logPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) Publisher {
	return &logPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *logPublisher) Publish(ctx context.Context, events ...Event) error {
	for _, e := range events {
		p.log.Info("Domain event", zap.String("type", e.Type), zap.String("key", e.Key))
	}
	return nil
}

func (p *logPublisher) Close() error { return nil }
