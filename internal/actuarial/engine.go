package actuarial

import (
	"time"

	"PegGuard/internal/domain/models"
)

// defaultHeadroomMultiple sizes the utilization denominator when the caller
// does not report tail-capital headroom.
const defaultHeadroomMultiple = 10.0

// Engine composes the frequency model and loss integrator into a premium
// breakdown. It is stateless; a single Engine serves concurrent quotes.
type Engine struct{}

// NewEngine creates a pricing engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Quote validates the request against the curve and prices it. Validation
// fails fast: the first violated precondition is returned as a
// *ValidationError (or *ModelInstabilityError for an explosive frequency
// parameter set) and no pricing work happens.
func (e *Engine) Quote(req models.QuoteRequest, curve *models.PerilCurve) (*models.PriceBreakdown, error) {
	if err := validateQuoteInput(req, curve); err != nil {
		return nil, err
	}

	params, err := curve.Params(req.Regime)
	if err != nil {
		return nil, invalidf("regime", "%v", err)
	}

	rate, err := EffectiveRate(params.Frequency.Baseline, params.Frequency.Excitation, params.Frequency.Decay)
	if err != nil {
		return nil, err
	}
	pTrigger := TriggerProbability(rate, req.TenorDays)

	spec := withDeductible(curve.Payout, req.AttachmentPct)
	eg := ExpectedPayout(params.Threshold, params.Severity.Shape, params.Severity.Scale, spec)

	knobs := curve.Knobs
	utilBefore := req.Portfolio.Utilization

	el := req.LimitUSD * pTrigger * eg
	rl := knobs.RiskLoadFactor * el

	cl := 0.0
	if knobs.CapitalLoadEnabled {
		tail := TailPayout(params.Threshold, params.Severity.Shape, params.Severity.Scale, spec, knobs.TailLevel)
		excess := tail - eg
		if excess > 0 {
			cl = req.LimitUSD * pTrigger * excess * knobs.CapitalChargeFactor
		}
	}

	ll := (knobs.LiquidityBaseBps + knobs.LiquiditySlopeBps*utilBefore) / 10000 * req.LimitUSD
	oh := knobs.OverheadPct * el

	premium := el + rl + cl + ll + oh

	headroom := req.Portfolio.HeadroomUSD
	if headroom <= 0 {
		headroom = defaultHeadroomMultiple * req.LimitUSD
	}
	utilAfter := utilBefore + premium/headroom
	if utilAfter > 1 {
		utilAfter = 1
	}

	return &models.PriceBreakdown{
		PerilID:          curve.ID,
		Regime:           req.Regime,
		QuotedAt:         time.Now().UTC(),
		ExpectedLoss:     el,
		RiskLoad:         rl,
		CapitalLoad:      cl,
		LiquidityLoad:    ll,
		Overhead:         oh,
		Premium:          premium,
		UtilizationAfter: utilAfter,
		Diagnostics: models.QuoteDiagnostics{
			TriggerProbability: pTrigger,
			ConditionalPayout:  eg,
			EffectiveRate:      rate,
			UtilizationBefore:  utilBefore,
		},
	}, nil
}

// validateQuoteInput checks every quoting precondition, including regime
// membership and frequency stability, before any numeric work.
func validateQuoteInput(req models.QuoteRequest, curve *models.PerilCurve) error {
	if curve == nil {
		return invalidf("peril_id", "unknown curve")
	}
	if req.LimitUSD <= 0 {
		return invalidf("limit_usd", "must be positive, got %v", req.LimitUSD)
	}
	if req.TenorDays <= 0 {
		return invalidf("tenor_days", "must be positive, got %v", req.TenorDays)
	}
	if req.AttachmentPct < 0 || req.AttachmentPct > 1 {
		return invalidf("attachment_pct", "must be in [0,1], got %v", req.AttachmentPct)
	}
	if u := req.Portfolio.Utilization; u < 0 || u > 1 {
		return invalidf("utilization", "must be in [0,1], got %v", u)
	}
	if maxU := curve.Knobs.MaxUtilization; maxU > 0 && req.Portfolio.Utilization > maxU {
		return invalidf("utilization", "pool at capacity: %v > %v", req.Portfolio.Utilization, maxU)
	}
	if !req.Regime.Valid() || !curve.Allows(req.Regime) {
		return invalidf("regime", "%q not allowed for curve %s", req.Regime, curve.ID)
	}
	params, err := curve.Params(req.Regime)
	if err != nil {
		return invalidf("regime", "%v", err)
	}
	if params.Severity.Scale <= 0 {
		return invalidf("severity.scale", "must be positive, got %v", params.Severity.Scale)
	}
	if _, err := EffectiveRate(params.Frequency.Baseline, params.Frequency.Excitation, params.Frequency.Decay); err != nil {
		return err
	}
	return nil
}
