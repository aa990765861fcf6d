package repository

import (
	"context"
	"time"

	"PegGuard/internal/domain/models"
	"PegGuard/internal/domain/repository"
	pkgkafka "PegGuard/pkg/kafka"
)

// KafkaEventPublisher implements EventPublisher on a Kafka producer.
type KafkaEventPublisher struct {
	producer    *pkgkafka.Producer
	quoteTopic  string
	regimeTopic string
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, quoteTopic, regimeTopic string) repository.EventPublisher {
	return &KafkaEventPublisher{
		producer:    producer,
		quoteTopic:  quoteTopic,
		regimeTopic: regimeTopic,
	}
}

type quoteEvent struct {
	Type  string                 `json:"type"`
	At    time.Time              `json:"at"`
	Quote *models.PriceBreakdown `json:"quote"`
}

type regimeChangeEvent struct {
	Type string                   `json:"type"`
	At   time.Time                `json:"at"`
	Prev models.RegimeObservation `json:"prev"`
	Next models.RegimeObservation `json:"next"`
}

// PublishQuote emits a priced quote keyed by peril so per-peril ordering is
// preserved.
func (p *KafkaEventPublisher) PublishQuote(ctx context.Context, b *models.PriceBreakdown) error {
	return p.producer.Publish(ctx, p.quoteTopic, []byte(b.PerilID), quoteEvent{
		Type:  "quote.priced",
		At:    time.Now().UTC(),
		Quote: b,
	})
}

// PublishRegimeChange emits a regime transition.
func (p *KafkaEventPublisher) PublishRegimeChange(ctx context.Context, prev, next models.RegimeObservation) error {
	return p.producer.Publish(ctx, p.regimeTopic, []byte(next.Regime.String()), regimeChangeEvent{
		Type: "regime.changed",
		At:   time.Now().UTC(),
		Prev: prev,
		Next: next,
	})
}

// Close flushes the producer.
func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NopEventPublisher drops events; used when Kafka is disabled.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishQuote(context.Context, *models.PriceBreakdown) error { return nil }
func (NopEventPublisher) PublishRegimeChange(context.Context, models.RegimeObservation, models.RegimeObservation) error {
	return nil
}
func (NopEventPublisher) Close() error { return nil }
