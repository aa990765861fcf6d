package actuarial

import "math"

// shapeEpsilon is the |xi| below which the generalized Pareto collapses to
// its exponential limit. The closed form divides by xi, so evaluating it near
// zero is numerically unstable.
const shapeEpsilon = 1e-9

// SeverityCDF is the generalized Pareto distribution function of excess
// intensity y above the regime threshold, with shape xi and scale beta.
//
// For xi < 0 the support is finite: beyond y = -beta/xi the distribution is
// saturated, so the CDF is pinned to 1 rather than evaluated (the closed form
// would go complex there). Negative y is below the threshold by definition
// and has no mass.
func SeverityCDF(y, xi, beta float64) float64 {
	if y <= 0 {
		return 0
	}
	if math.Abs(xi) < shapeEpsilon {
		return 1 - math.Exp(-y/beta)
	}
	z := 1 + xi*y/beta
	if z <= 0 {
		// xi < 0 past the support bound
		return 1
	}
	return 1 - math.Pow(z, -1/xi)
}

// SeverityPDF is the generalized Pareto density of excess intensity y.
// Outside the support it is 0, mirroring SeverityCDF's truncation.
func SeverityPDF(y, xi, beta float64) float64 {
	if y < 0 {
		return 0
	}
	if math.Abs(xi) < shapeEpsilon {
		return math.Exp(-y/beta) / beta
	}
	z := 1 + xi*y/beta
	if z <= 0 {
		return 0
	}
	return math.Pow(z, -1/xi-1) / beta
}

// severityUpperBound is the excess value above which the density is ignored
// by quadrature: the exact support bound for finite-tail shapes, and a fixed
// multiple of the scale as a truncation heuristic otherwise.
func severityUpperBound(xi, beta float64) float64 {
	if xi < -shapeEpsilon {
		return -beta / xi
	}
	return tailTruncationMultiple * beta
}
