package usecase

import (
	"context"
	"sync"
	"time"

	"PegGuard/internal/domain/models"
	drepo "PegGuard/internal/domain/repository"
	"PegGuard/internal/regime"
	xlogger "PegGuard/pkg/logger"
)

// RegimeMonitor periodically classifies the oracle's latest reading. The
// resulting observation is cached for quote-time regime resolution and
// regime transitions are published as events.
type RegimeMonitor struct {
	stream     drepo.OracleStream
	classifier *regime.Classifier
	obsCache   drepo.ObservationCache
	publisher  drepo.EventPublisher
	metrics    drepo.Metrics
	logger     *xlogger.Logger
	interval   time.Duration

	mu   sync.RWMutex
	last *models.RegimeObservation
}

// NewRegimeMonitor creates a regime monitor.
func NewRegimeMonitor(
	stream drepo.OracleStream,
	classifier *regime.Classifier,
	obsCache drepo.ObservationCache,
	publisher drepo.EventPublisher,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	interval time.Duration,
) *RegimeMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &RegimeMonitor{
		stream:     stream,
		classifier: classifier,
		obsCache:   obsCache,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		interval:   interval,
	}
}

// Run classifies on a fixed cadence until ctx is done. One classification
// happens immediately so callers have an observation before the first tick.
func (m *RegimeMonitor) Run(ctx context.Context) {
	m.tick(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// Observe classifies the current reading once and records it. Exposed for
// the API path so GET /api/regime reflects the feed as of the request.
func (m *RegimeMonitor) Observe(ctx context.Context) models.RegimeObservation {
	return m.tick(ctx)
}

// Latest returns the most recent observation. The second return is false
// only before the first classification.
func (m *RegimeMonitor) Latest() (models.RegimeObservation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return models.RegimeObservation{}, false
	}
	return *m.last, true
}

func (m *RegimeMonitor) tick(ctx context.Context) models.RegimeObservation {
	reading := m.stream.Latest()
	obs := m.classifier.Classify(reading)

	if obs.Degraded {
		m.metrics.RecordFeedError("unavailable")
		m.logger.Warn("regime classification degraded", xlogger.String("reason", obs.Reason))
	}
	m.metrics.RecordRegime(obs.Regime.String(), obs.Intensity)

	m.mu.Lock()
	prev := m.last
	m.last = &obs
	m.mu.Unlock()

	if err := m.obsCache.Put(ctx, obs); err != nil {
		m.logger.Warn("observation cache write failed", xlogger.Error(err))
	}

	if prev != nil && prev.Regime != obs.Regime {
		m.logger.Info("regime transition",
			xlogger.String("from", prev.Regime.String()),
			xlogger.String("to", obs.Regime.String()),
			xlogger.Float64("intensity", obs.Intensity),
		)
		if err := m.publisher.PublishRegimeChange(ctx, *prev, obs); err != nil {
			m.logger.Warn("regime event publish failed", xlogger.Error(err))
		}
	}

	return obs
}
