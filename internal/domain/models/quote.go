package models

import "time"

// PortfolioState describes the risk pool at quoting time.
type PortfolioState struct {
	Utilization float64 `json:"utilization"`  // fraction of capital committed, [0,1]
	HeadroomUSD float64 `json:"headroom_usd"` // tail-capital headroom; 0 means "use default"
}

// QuoteRequest is a single pricing request against one peril curve.
type QuoteRequest struct {
	PerilID       string         `json:"peril_id"`
	Regime        Regime         `json:"regime"`
	LimitUSD      float64        `json:"limit_usd"`
	AttachmentPct float64        `json:"attachment_pct"` // intensity deductible, [0,1]
	TenorDays     float64        `json:"tenor_days"`
	Portfolio     PortfolioState `json:"portfolio"`
}

// PriceBreakdown is the priced result: the five premium terms, their sum and
// the diagnostics behind them. All terms are non-negative and the total
// equals their sum.
type PriceBreakdown struct {
	PerilID  string    `json:"peril_id"`
	Regime   Regime    `json:"regime"`
	QuotedAt time.Time `json:"quoted_at"`

	ExpectedLoss  float64 `json:"expected_loss"`
	RiskLoad      float64 `json:"risk_load"`
	CapitalLoad   float64 `json:"capital_load"`
	LiquidityLoad float64 `json:"liquidity_load"`
	Overhead      float64 `json:"overhead"`
	Premium       float64 `json:"premium"`

	UtilizationAfter float64 `json:"utilization_after"`

	Diagnostics QuoteDiagnostics `json:"diagnostics"`
}

// QuoteDiagnostics exposes the model intermediates a quote was built from.
type QuoteDiagnostics struct {
	TriggerProbability float64 `json:"trigger_probability"`
	ConditionalPayout  float64 `json:"conditional_payout"` // E[payout | trigger]
	EffectiveRate      float64 `json:"effective_rate"`     // events/day
	UtilizationBefore  float64 `json:"utilization_before"`
	RegimeDegraded     bool    `json:"regime_degraded,omitempty"` // regime came from a fallback classification
}
