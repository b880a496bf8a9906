package repository

import (
	"context"
	"time"

	"FinVerdict/internal/domain/models"
	domrepo "FinVerdict/internal/domain/repository"

	"github.com/google/uuid"
)

// EventProducer is the subset of pkg/kafka.Producer the publisher needs.
type EventProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaVerdictPublisher publishes verdict events keyed by symbol.
type KafkaVerdictPublisher struct {
	producer EventProducer
	topic    string
}

func NewKafkaVerdictPublisher(producer EventProducer, topic string) *KafkaVerdictPublisher {
	return &KafkaVerdictPublisher{producer: producer, topic: topic}
}

func (p *KafkaVerdictPublisher) Publish(ctx context.Context, ev *models.VerdictEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

func (p *KafkaVerdictPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopVerdictPublisher drops events; used when Kafka is disabled.
type NopVerdictPublisher struct{}

func (NopVerdictPublisher) Publish(context.Context, *models.VerdictEvent) error { return nil }
func (NopVerdictPublisher) Close() error                                        { return nil }

var (
	_ domrepo.VerdictPublisher = (*KafkaVerdictPublisher)(nil)
	_ domrepo.VerdictPublisher = NopVerdictPublisher{}
)
