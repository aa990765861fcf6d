package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PegGuard/internal/actuarial"
	"PegGuard/internal/curves"
	"PegGuard/internal/domain/models"
	drepo "PegGuard/internal/domain/repository"
	"PegGuard/internal/regime"
	xlogger "PegGuard/pkg/logger"
)

const testCurves = `
curves:
  - id: usdc-usd-depeg
    regimes: [calm, volatile, crisis]
    calm:
      threshold: 0.02
      severity: {shape: 0.05, scale: 0.005}
      frequency: {baseline: 0.01, excitation: 0.005, decay: 0.05}
    volatile:
      threshold: 0.02
      severity: {shape: 0.1, scale: 0.01}
      frequency: {baseline: 0.05, excitation: 0.01, decay: 0.05}
    crisis:
      threshold: 0.02
      severity: {shape: 0.2, scale: 0.02}
      frequency: {baseline: 0.2, excitation: 0.05, decay: 0.1}
    payout:
      bands:
        - {from: 0.02, to: 0.1, payout_at_from: 0, payout_at_to: 1}
`

func testStore(t *testing.T) *curves.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curves.yaml")
	if err := os.WriteFile(path, []byte(testCurves), 0o644); err != nil {
		t.Fatalf("write curves: %v", err)
	}
	store, err := curves.Load(path)
	if err != nil {
		t.Fatalf("load curves: %v", err)
	}
	return store
}

type fakeStream struct {
	reading drepo.Reading
}

func (f *fakeStream) Connect(context.Context) error   { return nil }
func (f *fakeStream) Run(context.Context)             {}
func (f *fakeStream) Latest() drepo.Reading           { return f.reading }
func (f *fakeStream) Reconnect(context.Context) error { return nil }
func (f *fakeStream) Close() error                    { return nil }
func (f *fakeStream) IsConnected() bool               { return true }

type fakeObsCache struct {
	puts int
	last models.RegimeObservation
}

func (f *fakeObsCache) Put(_ context.Context, obs models.RegimeObservation) error {
	f.puts++
	f.last = obs
	return nil
}

func (f *fakeObsCache) Get(context.Context) (models.RegimeObservation, bool, error) {
	if f.puts == 0 {
		return models.RegimeObservation{}, false, nil
	}
	return f.last, true, nil
}

type fakePublisher struct {
	quotes      []*models.PriceBreakdown
	transitions int
}

func (f *fakePublisher) PublishQuote(_ context.Context, b *models.PriceBreakdown) error {
	f.quotes = append(f.quotes, b)
	return nil
}

func (f *fakePublisher) PublishRegimeChange(context.Context, models.RegimeObservation, models.RegimeObservation) error {
	f.transitions++
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeHistory struct {
	stored   []*models.PriceBreakdown
	storeErr error
	recent   []*models.PriceBreakdown
}

func (f *fakeHistory) Store(_ context.Context, b *models.PriceBreakdown) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.stored = append(f.stored, b)
	return nil
}

func (f *fakeHistory) Recent(context.Context, string, time.Time, int) ([]*models.PriceBreakdown, error) {
	return f.recent, nil
}

func (f *fakeHistory) Health(context.Context) error { return nil }
func (f *fakeHistory) Close() error                 { return nil }

type fakeMetrics struct {
	quotes   int
	rejected map[string]int
	feedErrs int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{rejected: map[string]int{}}
}

func (f *fakeMetrics) RecordQuote(string, string, float64) { f.quotes++ }
func (f *fakeMetrics) RecordQuoteRejected(reason string)   { f.rejected[reason]++ }
func (f *fakeMetrics) RecordRegime(string, float64)        {}
func (f *fakeMetrics) RecordFeedError(string)              { f.feedErrs++ }
func (f *fakeMetrics) RecordLatency(string, float64)       {}

type fixture struct {
	svc     *QuoteService
	monitor *RegimeMonitor
	stream  *fakeStream
	history *fakeHistory
	events  *fakePublisher
	metrics *fakeMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stream := &fakeStream{reading: drepo.Observe(1.0, time.Now())}
	history := &fakeHistory{}
	events := &fakePublisher{}
	metrics := newFakeMetrics()
	monitor := NewRegimeMonitor(stream, regime.NewClassifier(regime.DefaultBounds()), &fakeObsCache{}, events, metrics, xlogger.Nop(), time.Minute)
	svc := NewQuoteService(testStore(t), actuarial.NewEngine(), monitor, history, events, metrics, xlogger.Nop())
	return &fixture{svc: svc, monitor: monitor, stream: stream, history: history, events: events, metrics: metrics}
}

func TestQuoteExplicitRegime(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.Quote(context.Background(), &models.QuoteHTTPRequest{
		PerilID:   "usdc-usd-depeg",
		Regime:    "volatile",
		LimitUSD:  1_000_000,
		TenorDays: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Regime != models.RegimeVolatile {
		t.Fatalf("got %v want volatile", b.Regime)
	}
	if b.Diagnostics.RegimeDegraded {
		t.Fatalf("explicit regime must not be degraded")
	}
	if len(f.history.stored) != 1 {
		t.Fatalf("quote not persisted")
	}
	if len(f.events.quotes) != 1 {
		t.Fatalf("quote event not published")
	}
	if f.metrics.quotes != 1 {
		t.Fatalf("quote metric not recorded")
	}
}

func TestQuoteUnknownPeril(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Quote(context.Background(), &models.QuoteHTTPRequest{
		PerilID:   "no-such-peril",
		LimitUSD:  1000,
		TenorDays: 30,
	})
	var upe *UnknownPerilError
	if !errors.As(err, &upe) {
		t.Fatalf("expected UnknownPerilError, got %v", err)
	}
	if f.metrics.rejected["unknown_peril"] != 1 {
		t.Fatalf("rejection metric not recorded")
	}
}

func TestQuoteRejectsBadRegimeString(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Quote(context.Background(), &models.QuoteHTTPRequest{
		PerilID:   "usdc-usd-depeg",
		Regime:    "panic",
		LimitUSD:  1000,
		TenorDays: 30,
	})
	if !actuarial.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuoteFallsBackBeforeFirstObservation(t *testing.T) {
	f := newFixture(t)
	// No monitor tick has happened: regime resolution uses the conservative
	// default and flags the quote.
	b, err := f.svc.Quote(context.Background(), &models.QuoteHTTPRequest{
		PerilID:   "usdc-usd-depeg",
		LimitUSD:  1_000_000,
		TenorDays: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Regime != models.RegimeVolatile {
		t.Fatalf("got %v want volatile fallback", b.Regime)
	}
	if !b.Diagnostics.RegimeDegraded {
		t.Fatalf("fallback quote must be flagged degraded")
	}
}

func TestQuoteUsesMonitorObservation(t *testing.T) {
	f := newFixture(t)
	f.stream.reading = drepo.Observe(0.95, time.Now())
	f.monitor.Observe(context.Background())

	b, err := f.svc.Quote(context.Background(), &models.QuoteHTTPRequest{
		PerilID:   "usdc-usd-depeg",
		LimitUSD:  1_000_000,
		TenorDays: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Regime != models.RegimeCrisis {
		t.Fatalf("got %v want crisis from observation", b.Regime)
	}
	if b.Diagnostics.RegimeDegraded {
		t.Fatalf("fresh observation must not be degraded")
	}
}

func TestQuoteSurvivesHistoryFailure(t *testing.T) {
	f := newFixture(t)
	f.history.storeErr = errors.New("clickhouse down")

	b, err := f.svc.Quote(context.Background(), &models.QuoteHTTPRequest{
		PerilID:   "usdc-usd-depeg",
		Regime:    "calm",
		LimitUSD:  1_000_000,
		TenorDays: 30,
	})
	if err != nil {
		t.Fatalf("history failure must not fail the quote: %v", err)
	}
	if b.Premium <= 0 {
		t.Fatalf("expected priced quote, got %v", b.Premium)
	}
}

func TestRecentUnknownPeril(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Recent(context.Background(), "no-such-peril", time.Now().Add(-time.Hour), 10)
	var upe *UnknownPerilError
	if !errors.As(err, &upe) {
		t.Fatalf("expected UnknownPerilError, got %v", err)
	}
}
