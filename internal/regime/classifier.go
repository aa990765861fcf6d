package regime

import (
	"fmt"
	"math"
	"time"

	"PegGuard/internal/domain/models"
	"PegGuard/internal/domain/repository"
)

// Bounds are the classification constants: intensity thresholds separating
// the regimes, the epsilon band around them inside which confidence is
// downgraded, and the observation age beyond which any classification is
// low-confidence. They are injected rather than package-level so tests and
// deployments can differ.
type Bounds struct {
	CalmMax         float64       // intensity below this is calm
	VolatileMax     float64       // intensity below this is volatile, else crisis
	BoundaryEpsilon float64       // medium-confidence band around either threshold
	Staleness       time.Duration // observation older than this is low-confidence
}

// DefaultBounds are the production classification constants for a USD peg.
func DefaultBounds() Bounds {
	return Bounds{
		CalmMax:         0.005,
		VolatileMax:     0.02,
		BoundaryEpsilon: 0.001,
		Staleness:       5 * time.Minute,
	}
}

// Classifier turns oracle readings into regime observations. It is pure and
// never fails: an unavailable reading yields the documented conservative
// fallback instead of an error.
type Classifier struct {
	bounds Bounds
	now    func() time.Time
}

// NewClassifier creates a classifier with the given bounds.
func NewClassifier(bounds Bounds) *Classifier {
	return &Classifier{bounds: bounds, now: time.Now}
}

// Classify maps a feed reading to a regime observation.
//
// Intensity is the downward deviation from the peg, max(0, 1-price). The
// fallback for an unavailable feed is volatile with low confidence: volatile
// rather than crisis trades pricing conservatism for availability, and the
// degraded flag plus reason make the downgrade visible downstream.
func (c *Classifier) Classify(r repository.Reading) models.RegimeObservation {
	now := c.now().UTC()
	if !r.Observed {
		reason := r.Reason
		if reason == "" {
			reason = "feed unavailable"
		}
		return models.RegimeObservation{
			Timestamp:  now,
			Regime:     models.RegimeVolatile,
			Confidence: models.ConfidenceLow,
			Reason:     "fallback: " + reason,
			Degraded:   true,
		}
	}

	intensity := 1 - r.Price
	if intensity < 0 {
		intensity = 0
	}

	var regime models.Regime
	switch {
	case intensity < c.bounds.CalmMax:
		regime = models.RegimeCalm
	case intensity < c.bounds.VolatileMax:
		regime = models.RegimeVolatile
	default:
		regime = models.RegimeCrisis
	}

	age := now.Sub(r.UpdatedAt)
	confidence := models.ConfidenceHigh
	reason := fmt.Sprintf("intensity %.4f, observation age %s", intensity, age.Truncate(time.Second))
	switch {
	case age > c.bounds.Staleness:
		confidence = models.ConfidenceLow
		reason = fmt.Sprintf("stale observation: age %s exceeds %s", age.Truncate(time.Second), c.bounds.Staleness)
	case c.nearBoundary(intensity):
		// within epsilon of a threshold: the label could flicker, say so
		confidence = models.ConfidenceMedium
		reason = fmt.Sprintf("intensity %.4f near regime boundary", intensity)
	}

	return models.RegimeObservation{
		Timestamp:  now,
		Price:      r.Price,
		Intensity:  intensity,
		Regime:     regime,
		Confidence: confidence,
		Reason:     reason,
	}
}

func (c *Classifier) nearBoundary(intensity float64) bool {
	eps := c.bounds.BoundaryEpsilon
	return math.Abs(intensity-c.bounds.CalmMax) < eps ||
		math.Abs(intensity-c.bounds.VolatileMax) < eps
}
