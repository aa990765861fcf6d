package actuarial

import "math"

// EffectiveRate derives the stationary arrival rate of threshold exceedances
// from a self-exciting model: baseline rate mu, excitation alpha and decay
// betaDecay, all per day. The branching ratio alpha/betaDecay must be below 1
// for a stationary rate to exist; at or above 1 the process is explosive and
// the parameter set is rejected as a ModelInstabilityError.
func EffectiveRate(mu, alpha, betaDecay float64) (float64, error) {
	if betaDecay <= 0 {
		return 0, &ModelInstabilityError{BranchingRatio: math.Inf(1)}
	}
	n := alpha / betaDecay
	if n >= 1 {
		return 0, &ModelInstabilityError{BranchingRatio: n}
	}
	return mu / (1 - n), nil
}

// TriggerProbability is the probability of at least one qualifying event
// within the tenor, for a Poisson count at the effective rate. Negative
// inputs clamp to 0, so the result is always in [0, 1).
func TriggerProbability(ratePerDay, tenorDays float64) float64 {
	if ratePerDay < 0 {
		ratePerDay = 0
	}
	if tenorDays < 0 {
		tenorDays = 0
	}
	return 1 - math.Exp(-ratePerDay*tenorDays)
}
