package models

// Requests for quoting HTTP endpoints. Defined in domain for consistency and reuse.

// QuoteHTTPRequest is the POST /api/quote body. Regime is optional: when
// empty, the latest classified observation decides.
type QuoteHTTPRequest struct {
	PerilID       string  `json:"peril_id" validate:"required"`
	Regime        string  `json:"regime" validate:"omitempty,oneof=calm volatile crisis"`
	LimitUSD      float64 `json:"limit_usd" validate:"required,gt=0"`
	AttachmentPct float64 `json:"attachment_pct" validate:"gte=0,lte=1"`
	TenorDays     float64 `json:"tenor_days" default:"30" validate:"gt=0,lte=365"`
	Utilization   float64 `json:"utilization" validate:"gte=0,lte=1"`
	HeadroomUSD   float64 `json:"headroom_usd" validate:"gte=0"`
}

// RecentQuotesRequest is the GET /api/quotes/recent query.
type RecentQuotesRequest struct {
	PerilID string `query:"peril_id" json:"peril_id" validate:"required"`
	Limit   int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
	Since   string `query:"since" json:"since"` // RFC3339 or unix seconds; default 24h back
}
