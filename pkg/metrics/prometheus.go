package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	quotesPriced   *prometheus.CounterVec
	quotesRejected *prometheus.CounterVec
	lastPremium    *prometheus.GaugeVec
	regimeGauge    *prometheus.GaugeVec
	intensityGauge prometheus.Gauge
	feedErrors     *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		quotesPriced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pegguard_quotes_priced_total",
				Help: "Total number of quotes priced",
			},
			[]string{"peril", "regime"},
		),
		quotesRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pegguard_quotes_rejected_total",
				Help: "Total number of quote requests rejected",
			},
			[]string{"reason"},
		),
		lastPremium: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pegguard_last_premium_usd",
				Help: "Premium of the most recent quote per peril",
			},
			[]string{"peril", "regime"},
		),
		regimeGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pegguard_regime_active",
				Help: "1 for the currently classified regime, 0 otherwise",
			},
			[]string{"regime"},
		),
		intensityGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pegguard_intensity",
				Help: "Latest classified peg-deviation intensity",
			},
		),
		feedErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pegguard_feed_errors_total",
				Help: "Total number of oracle feed errors",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pegguard_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordQuote records one priced quote.
func (r *Recorder) RecordQuote(perilID, regime string, premium float64) {
	r.quotesPriced.WithLabelValues(perilID, regime).Inc()
	r.lastPremium.WithLabelValues(perilID, regime).Set(premium)
}

// RecordQuoteRejected records a rejected quote request.
func (r *Recorder) RecordQuoteRejected(reason string) {
	r.quotesRejected.WithLabelValues(reason).Inc()
}

// RecordRegime records the active regime and intensity.
func (r *Recorder) RecordRegime(regime string, intensity float64) {
	for _, name := range []string{"calm", "volatile", "crisis"} {
		v := 0.0
		if name == regime {
			v = 1
		}
		r.regimeGauge.WithLabelValues(name).Set(v)
	}
	r.intensityGauge.Set(intensity)
}

// RecordFeedError records an oracle feed error.
func (r *Recorder) RecordFeedError(kind string) {
	r.feedErrors.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
