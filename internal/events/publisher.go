package events

import (
	"context"
	"encoding/json"
	"time"

	"slotline/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Publisher emits booking lifecycle events. Publishing is best-effort: a
// broker failure is logged and never fails the request that produced it.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
}

// NewKafkaPublisher builds a publisher on the booking topic. Messages are
// hashed by key so events for one booking stay ordered.
func NewKafkaPublisher(brokers []string, topic, source string, log *logger.Logger) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka writer error", "detail", msg)
		}),
	}

	return &kafkaPublisher{
		writer: writer,
		source: source,
		log:    log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, evt Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(evt)
	if err != nil {
		p.log.Error("Failed to encode booking event", "type", evt.Type, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.BookingID),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.New().String())},
			{Key: HeaderEventType, Value: []byte(evt.Type)},
			{Key: HeaderSource, Value: []byte(p.source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"type", evt.Type,
			"booking_id", evt.BookingID,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published", "type", evt.Type, "booking_id", evt.BookingID)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewNoopPublisher is used when no brokers are configured; the lifecycle
// still calls Publish, it just goes nowhere.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, evt Event) {}

func (noopPublisher) Close() error { return nil }
