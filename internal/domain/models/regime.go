package models

import "fmt"

// Regime is a discrete market-condition label. Curve parameters are keyed by
// regime, so the set is closed: exactly calm, volatile and crisis.
type Regime uint8

const (
	RegimeCalm Regime = iota
	RegimeVolatile
	RegimeCrisis
)

// String returns the wire name of the regime.
func (r Regime) String() string {
	switch r {
	case RegimeCalm:
		return "calm"
	case RegimeVolatile:
		return "volatile"
	case RegimeCrisis:
		return "crisis"
	}
	return fmt.Sprintf("regime(%d)", uint8(r))
}

// Valid reports whether r is one of the three known regimes.
func (r Regime) Valid() bool {
	return r == RegimeCalm || r == RegimeVolatile || r == RegimeCrisis
}

// ParseRegime maps a wire name to a Regime.
func ParseRegime(s string) (Regime, error) {
	switch s {
	case "calm":
		return RegimeCalm, nil
	case "volatile":
		return RegimeVolatile, nil
	case "crisis":
		return RegimeCrisis, nil
	}
	return RegimeCalm, fmt.Errorf("unknown regime %q", s)
}

// MarshalText implements encoding.TextMarshaler so regimes serialize as their
// names in JSON and YAML.
func (r Regime) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid regime %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Regime) UnmarshalText(b []byte) error {
	parsed, err := ParseRegime(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Confidence qualifies how much a regime observation should be trusted.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)
