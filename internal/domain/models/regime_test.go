package models

import "testing"

func TestParseRegime(t *testing.T) {
	for _, name := range []string{"calm", "volatile", "crisis"} {
		r, err := ParseRegime(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if r.String() != name {
			t.Fatalf("round trip %q -> %q", name, r.String())
		}
		if !r.Valid() {
			t.Fatalf("%q should be valid", name)
		}
	}
	if _, err := ParseRegime("panic"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestRegimeValid(t *testing.T) {
	if Regime(7).Valid() {
		t.Fatalf("out-of-range value must be invalid")
	}
	if _, err := Regime(7).MarshalText(); err == nil {
		t.Fatalf("invalid regime must not marshal")
	}
}

func TestPerilCurveParams(t *testing.T) {
	c := &PerilCurve{
		Calm:     RegimeParams{Threshold: 0.01},
		Volatile: RegimeParams{Threshold: 0.02},
		Crisis:   RegimeParams{Threshold: 0.03},
		Regimes:  []Regime{RegimeVolatile},
	}
	p, err := c.Params(RegimeCrisis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Threshold != 0.03 {
		t.Fatalf("got %v want crisis params", p.Threshold)
	}
	if _, err := c.Params(Regime(9)); err == nil {
		t.Fatalf("expected error for out-of-range regime")
	}
	if c.Allows(RegimeCalm) || !c.Allows(RegimeVolatile) {
		t.Fatalf("allowed set wrong")
	}
}
