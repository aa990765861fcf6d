package repository

import (
	"context"
	"time"

	"PegGuard/internal/domain/models"
)

// OracleStream is a live price feed for the tracked asset.
type OracleStream interface {
	Connect(ctx context.Context) error
	Run(ctx context.Context)
	Latest() Reading
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Reading is the two-variant result of asking the oracle for its latest
// price: either an observed (price, timestamp) pair or an unavailability
// reason. The classifier consumes both variants uniformly; a failed feed
// never surfaces as an error.
type Reading struct {
	Observed  bool
	Price     float64
	UpdatedAt time.Time
	Reason    string
}

// Observe builds the observed variant.
func Observe(price float64, updatedAt time.Time) Reading {
	return Reading{Observed: true, Price: price, UpdatedAt: updatedAt}
}

// Unavailable builds the failure variant.
func Unavailable(reason string) Reading {
	return Reading{Observed: false, Reason: reason}
}

// QuoteHistory persists priced quotes for later inspection.
type QuoteHistory interface {
	Store(ctx context.Context, b *models.PriceBreakdown) error
	Recent(ctx context.Context, perilID string, since time.Time, limit int) ([]*models.PriceBreakdown, error)
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher emits quote and regime-transition events.
type EventPublisher interface {
	PublishQuote(ctx context.Context, b *models.PriceBreakdown) error
	PublishRegimeChange(ctx context.Context, prev, next models.RegimeObservation) error
	Close() error
}

// ObservationCache holds the latest classified observation.
type ObservationCache interface {
	Put(ctx context.Context, obs models.RegimeObservation) error
	Get(ctx context.Context) (models.RegimeObservation, bool, error)
}

// Metrics records service-level measurements.
type Metrics interface {
	RecordQuote(perilID, regime string, premium float64)
	RecordQuoteRejected(reason string)
	RecordRegime(regime string, intensity float64)
	RecordFeedError(kind string)
	RecordLatency(op string, seconds float64)
}
