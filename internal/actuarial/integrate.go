package actuarial

import "PegGuard/internal/domain/models"

const (
	// quadratureSteps is the fixed trapezoidal grid resolution. Fixed-step
	// quadrature keeps cost bounded and results deterministic; the payout
	// curve is piecewise linear and the density smooth, so the grid error is
	// far below pricing tolerance.
	quadratureSteps = 2000

	// tailTruncationMultiple bounds the integration domain at this multiple
	// of the scale parameter when the severity tail is infinite.
	tailTruncationMultiple = 20.0
)

// ExpectedPayout integrates payout(u+y)·pdf(y) over the severity support:
// the expected payout fraction conditional on a triggering event, where u is
// the regime threshold and y the excess above it.
func ExpectedPayout(u, xi, beta float64, spec models.PayoutSpec) float64 {
	upper := severityUpperBound(xi, beta)
	if upper <= 0 {
		return 0
	}
	h := upper / quadratureSteps

	integrand := func(y float64) float64 {
		return PayoutAt(u+y, spec) * SeverityPDF(y, xi, beta)
	}

	sum := (integrand(0) + integrand(upper)) / 2
	for i := 1; i < quadratureSteps; i++ {
		sum += integrand(float64(i) * h)
	}
	return sum * h
}

// TailPayout is the expected payout fraction conditional on the excess
// exceeding its `level`-quantile (a TVaR-style tail mean). Two passes over
// the same grid as ExpectedPayout: the first walks the cumulative mass up to
// `level` to locate the quantile, the second averages payout over the mass at
// or beyond it. When no mass lies beyond the quantile the result is 0.
func TailPayout(u, xi, beta float64, spec models.PayoutSpec, level float64) float64 {
	upper := severityUpperBound(xi, beta)
	if upper <= 0 {
		return 0
	}
	h := upper / quadratureSteps

	// Pass 1: locate the level-quantile of excess on the grid.
	quantile := upper
	cum := 0.0
	for i := 0; i <= quadratureSteps; i++ {
		y := float64(i) * h
		w := h
		if i == 0 || i == quadratureSteps {
			w = h / 2
		}
		cum += SeverityPDF(y, xi, beta) * w
		if cum >= level {
			quantile = y
			break
		}
	}

	// Pass 2: probability-weighted payout restricted to the tail.
	var tailMass, tailPayout float64
	for i := 0; i <= quadratureSteps; i++ {
		y := float64(i) * h
		if y < quantile {
			continue
		}
		w := h
		if i == 0 || i == quadratureSteps {
			w = h / 2
		}
		p := SeverityPDF(y, xi, beta) * w
		tailMass += p
		tailPayout += PayoutAt(u+y, spec) * p
	}
	if tailMass <= 0 {
		return 0
	}
	return tailPayout / tailMass
}
