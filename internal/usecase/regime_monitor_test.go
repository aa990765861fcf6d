package usecase

import (
	"context"
	"testing"
	"time"

	"PegGuard/internal/domain/models"
	drepo "PegGuard/internal/domain/repository"
	"PegGuard/internal/regime"
	xlogger "PegGuard/pkg/logger"
)

func newMonitorFixture() (*RegimeMonitor, *fakeStream, *fakeObsCache, *fakePublisher, *fakeMetrics) {
	stream := &fakeStream{reading: drepo.Observe(1.0, time.Now())}
	cache := &fakeObsCache{}
	pub := &fakePublisher{}
	metrics := newFakeMetrics()
	m := NewRegimeMonitor(stream, regime.NewClassifier(regime.DefaultBounds()), cache, pub, metrics, xlogger.Nop(), time.Minute)
	return m, stream, cache, pub, metrics
}

func TestMonitorLatestBeforeFirstTick(t *testing.T) {
	m, _, _, _, _ := newMonitorFixture()
	if _, ok := m.Latest(); ok {
		t.Fatalf("expected no observation before first tick")
	}
}

func TestMonitorObserve(t *testing.T) {
	m, _, cache, _, _ := newMonitorFixture()

	obs := m.Observe(context.Background())
	if obs.Regime != models.RegimeCalm {
		t.Fatalf("got %v want calm", obs.Regime)
	}
	got, ok := m.Latest()
	if !ok || got.Regime != obs.Regime {
		t.Fatalf("latest not updated: %v %v", got, ok)
	}
	if cache.puts != 1 {
		t.Fatalf("observation not cached")
	}
}

func TestMonitorPublishesTransition(t *testing.T) {
	m, stream, _, pub, _ := newMonitorFixture()

	m.Observe(context.Background())
	if pub.transitions != 0 {
		t.Fatalf("first observation is not a transition")
	}

	stream.reading = drepo.Observe(0.95, time.Now())
	obs := m.Observe(context.Background())
	if obs.Regime != models.RegimeCrisis {
		t.Fatalf("got %v want crisis", obs.Regime)
	}
	if pub.transitions != 1 {
		t.Fatalf("transition not published")
	}

	// Same regime again: no new event.
	m.Observe(context.Background())
	if pub.transitions != 1 {
		t.Fatalf("unchanged regime must not publish")
	}
}

func TestMonitorDegradedFeed(t *testing.T) {
	m, stream, _, _, metrics := newMonitorFixture()
	stream.reading = drepo.Unavailable("connection reset")

	obs := m.Observe(context.Background())
	if obs.Regime != models.RegimeVolatile || !obs.Degraded {
		t.Fatalf("expected degraded volatile fallback, got %+v", obs)
	}
	if metrics.feedErrs != 1 {
		t.Fatalf("feed error not recorded")
	}
}
