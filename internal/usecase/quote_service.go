package usecase

import (
	"context"
	"fmt"
	"time"

	"PegGuard/internal/actuarial"
	"PegGuard/internal/curves"
	"PegGuard/internal/domain/models"
	drepo "PegGuard/internal/domain/repository"
	xlogger "PegGuard/pkg/logger"
)

// UnknownPerilError is returned when no curve exists for the requested id.
type UnknownPerilError struct {
	ID string
}

func (e *UnknownPerilError) Error() string {
	return fmt.Sprintf("unknown peril %q", e.ID)
}

// QuoteService prices quote requests against loaded curves. Regime comes
// from the request when given, otherwise from the monitor's latest
// classification.
type QuoteService struct {
	store   *curves.Store
	engine  *actuarial.Engine
	monitor *RegimeMonitor
	history drepo.QuoteHistory
	events  drepo.EventPublisher
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

// NewQuoteService creates a quote service.
func NewQuoteService(
	store *curves.Store,
	engine *actuarial.Engine,
	monitor *RegimeMonitor,
	history drepo.QuoteHistory,
	events drepo.EventPublisher,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
) *QuoteService {
	return &QuoteService{
		store:   store,
		engine:  engine,
		monitor: monitor,
		history: history,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// Quote resolves curve and regime and prices the request. History writes and
// event publishing are best effort: a priced quote is returned even when the
// store or bus is down.
func (s *QuoteService) Quote(ctx context.Context, req *models.QuoteHTTPRequest) (*models.PriceBreakdown, error) {
	start := time.Now()

	curve, ok := s.store.Get(req.PerilID)
	if !ok {
		s.metrics.RecordQuoteRejected("unknown_peril")
		return nil, &UnknownPerilError{ID: req.PerilID}
	}

	reg, degraded, err := s.resolveRegime(req.Regime)
	if err != nil {
		s.metrics.RecordQuoteRejected("bad_regime")
		return nil, err
	}

	quoteReq := models.QuoteRequest{
		PerilID:       req.PerilID,
		Regime:        reg,
		LimitUSD:      req.LimitUSD,
		AttachmentPct: req.AttachmentPct,
		TenorDays:     req.TenorDays,
		Portfolio: models.PortfolioState{
			Utilization: req.Utilization,
			HeadroomUSD: req.HeadroomUSD,
		},
	}

	breakdown, err := s.engine.Quote(quoteReq, curve)
	if err != nil {
		switch {
		case actuarial.IsInstability(err):
			s.metrics.RecordQuoteRejected("unstable_model")
		case actuarial.IsValidation(err):
			s.metrics.RecordQuoteRejected("validation")
		default:
			s.metrics.RecordQuoteRejected("other")
		}
		return nil, err
	}
	breakdown.Diagnostics.RegimeDegraded = degraded

	s.metrics.RecordQuote(breakdown.PerilID, breakdown.Regime.String(), breakdown.Premium)
	s.metrics.RecordLatency("quote", time.Since(start).Seconds())

	if s.history != nil {
		if err := s.history.Store(ctx, breakdown); err != nil {
			s.logger.Warn("quote history write failed", xlogger.Error(err))
		}
	}
	if err := s.events.PublishQuote(ctx, breakdown); err != nil {
		s.logger.Warn("quote event publish failed", xlogger.Error(err))
	}

	return breakdown, nil
}

// Recent returns recent quotes for a peril from the history store.
func (s *QuoteService) Recent(ctx context.Context, perilID string, since time.Time, limit int) ([]*models.PriceBreakdown, error) {
	if _, ok := s.store.Get(perilID); !ok {
		return nil, &UnknownPerilError{ID: perilID}
	}
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(ctx, perilID, since, limit)
}

// Curves exposes the loaded curve set.
func (s *QuoteService) Curves() *curves.Store {
	return s.store
}

// resolveRegime picks the regime to price under. An explicit regime always
// wins; otherwise the monitor's latest observation applies, including its
// degraded fallback when the feed is down.
func (s *QuoteService) resolveRegime(explicit string) (models.Regime, bool, error) {
	if explicit != "" {
		r, err := models.ParseRegime(explicit)
		if err != nil {
			return 0, false, &actuarial.ValidationError{Field: "regime", Reason: err.Error()}
		}
		return r, false, nil
	}

	if obs, ok := s.monitor.Latest(); ok {
		return obs.Regime, obs.Degraded, nil
	}

	// before the first classification: same conservative default the
	// classifier falls back to
	return models.RegimeVolatile, true, nil
}
