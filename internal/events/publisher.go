package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// MessageWriter is the subset of kafka.Writer used by Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher emits catalog events keyed by exercise name.
type Publisher struct {
	writer MessageWriter
	now    func() time.Time
}

// NewPublisher constructs a Publisher over writer.
func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer, now: func() time.Time { return time.Now().UTC() }}
}

// NewKafkaWriter returns a writer for topic on brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// PublishUpserted writes one exercise.upserted event per record in a single batch.
func (p *Publisher) PublishUpserted(ctx context.Context, records []domain.ExerciseRecord) error {
	if len(records) == 0 {
		return nil
	}
	at := p.now()
	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		msg, err := message(TypeExerciseUpserted, rec.Name, UpsertedFrom(rec, at))
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d upserts: %w", len(msgs), err)
	}
	return nil
}

// PublishDeleted writes an exercise.deleted event.
func (p *Publisher) PublishDeleted(ctx context.Context, name string, equipment domain.EquipmentType) error {
	msg, err := message(TypeExerciseDeleted, name, ExerciseDeleted{Name: name, Equipment: string(equipment), DeletedAt: p.now()})
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish delete %q: %w", name, err)
	}
	return nil
}

func message(eventType, key string, payload any) (kafka.Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", eventType, err)
	}
	return kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(eventType)}},
	}, nil
}
