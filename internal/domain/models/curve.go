package models

import "fmt"

// PayoutBand maps an intensity interval [From, To] to a linearly interpolated
// payout fraction between PayoutAtFrom and PayoutAtTo.
type PayoutBand struct {
	From         float64 `yaml:"from" json:"from"`
	To           float64 `yaml:"to" json:"to"`
	PayoutAtFrom float64 `yaml:"payout_at_from" json:"payout_at_from"`
	PayoutAtTo   float64 `yaml:"payout_at_to" json:"payout_at_to"`
}

// PayoutSpec is a piecewise-linear payout curve over intensity. Deductible is
// subtracted from the input intensity (floored at zero) before band lookup;
// the result is clamped to [0, Cap].
type PayoutSpec struct {
	Bands      []PayoutBand `yaml:"bands" json:"bands"`
	Cap        float64      `yaml:"cap" json:"cap" default:"1.0"`
	Deductible float64      `yaml:"deductible" json:"deductible"`
}

// SeverityParams are generalized Pareto parameters for excess intensity above
// the regime threshold.
type SeverityParams struct {
	Shape float64 `yaml:"shape" json:"shape"` // xi
	Scale float64 `yaml:"scale" json:"scale"` // beta, > 0
}

// FrequencyParams parameterize the self-exciting arrival model. Stability
// requires Excitation/Decay < 1.
type FrequencyParams struct {
	Baseline   float64 `yaml:"baseline" json:"baseline"`     // mu, events/day
	Excitation float64 `yaml:"excitation" json:"excitation"` // alpha
	Decay      float64 `yaml:"decay" json:"decay"`           // betaDecay
}

// RegimeParams bundle the regime-conditioned model inputs.
type RegimeParams struct {
	Threshold float64         `yaml:"threshold" json:"threshold"` // u
	Severity  SeverityParams  `yaml:"severity" json:"severity"`
	Frequency FrequencyParams `yaml:"frequency" json:"frequency"`
}

// PricingKnobs hold the premium-composition settings for a curve.
type PricingKnobs struct {
	TailLevel           float64 `yaml:"tail_level" json:"tail_level" default:"0.99"`
	RiskLoadFactor      float64 `yaml:"risk_load_factor" json:"risk_load_factor"`
	OverheadPct         float64 `yaml:"overhead_pct" json:"overhead_pct"`
	LiquidityBaseBps    float64 `yaml:"liquidity_base_bps" json:"liquidity_base_bps"`
	LiquiditySlopeBps   float64 `yaml:"liquidity_slope_bps" json:"liquidity_slope_bps"`
	CapitalLoadEnabled  bool    `yaml:"capital_load_enabled" json:"capital_load_enabled"`
	CapitalChargeFactor float64 `yaml:"capital_charge_factor" json:"capital_charge_factor"`
	MaxUtilization      float64 `yaml:"max_utilization" json:"max_utilization" default:"1.0"`
}

// PerilCurve is the immutable per-peril pricing specification. It is loaded
// once by the curve store and treated as read-only afterwards, so concurrent
// pricing calls share it without locking.
//
// Per-regime parameters are struct fields rather than a map so that every
// regime the type system admits has parameters by construction.
type PerilCurve struct {
	ID       string       `yaml:"id" json:"id" validate:"required"`
	Name     string       `yaml:"name" json:"name"`
	Regimes  []Regime     `yaml:"regimes" json:"regimes" validate:"required,min=1"`
	Calm     RegimeParams `yaml:"calm" json:"calm"`
	Volatile RegimeParams `yaml:"volatile" json:"volatile"`
	Crisis   RegimeParams `yaml:"crisis" json:"crisis"`
	Payout   PayoutSpec   `yaml:"payout" json:"payout"`
	Knobs    PricingKnobs `yaml:"pricing" json:"pricing"`
}

// Params returns the parameter set for the given regime. The switch is
// exhaustive over Regime's constants.
func (c *PerilCurve) Params(r Regime) (RegimeParams, error) {
	switch r {
	case RegimeCalm:
		return c.Calm, nil
	case RegimeVolatile:
		return c.Volatile, nil
	case RegimeCrisis:
		return c.Crisis, nil
	}
	return RegimeParams{}, fmt.Errorf("no parameters for regime %q", r)
}

// Allows reports whether the curve may be priced under the given regime.
func (c *PerilCurve) Allows(r Regime) bool {
	for _, allowed := range c.Regimes {
		if allowed == r {
			return true
		}
	}
	return false
}
