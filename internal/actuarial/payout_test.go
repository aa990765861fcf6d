package actuarial

import (
	"math"
	"testing"

	"PegGuard/internal/domain/models"
)

func rampSpec() models.PayoutSpec {
	return models.PayoutSpec{
		Bands: []models.PayoutBand{
			{From: 0.02, To: 0.1, PayoutAtFrom: 0, PayoutAtTo: 1},
		},
		Cap: 1.0,
	}
}

func TestPayoutInterpolation(t *testing.T) {
	spec := rampSpec()
	if got := PayoutAt(0.06, spec); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("midpoint: got %v want 0.5", got)
	}
	if got := PayoutAt(0.02, spec); got != 0 {
		t.Fatalf("band start: got %v want 0", got)
	}
	if got := PayoutAt(0.1, spec); got != 1 {
		t.Fatalf("band end: got %v want 1", got)
	}
}

func TestPayoutOutsideBands(t *testing.T) {
	spec := rampSpec()
	if got := PayoutAt(0.01, spec); got != 0 {
		t.Fatalf("below band: got %v want 0", got)
	}
	if got := PayoutAt(0.5, spec); got != 0 {
		t.Fatalf("above band: got %v want 0", got)
	}
	if got := PayoutAt(0, spec); got != 0 {
		t.Fatalf("zero intensity: got %v want 0", got)
	}
}

func TestPayoutDeductible(t *testing.T) {
	spec := rampSpec()
	spec.Deductible = 0.02
	// Intensity 0.08 minus deductible lands at 0.06: the ramp midpoint.
	if got := PayoutAt(0.08, spec); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("got %v want 0.5", got)
	}
	if got := PayoutAt(0.01, spec); got != 0 {
		t.Fatalf("intensity below deductible: got %v want 0", got)
	}
}

func TestPayoutCapClamp(t *testing.T) {
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{
			{From: 0, To: 0.1, PayoutAtFrom: 0, PayoutAtTo: 1.5},
		},
		Cap: 1.0,
	}
	if got := PayoutAt(0.1, spec); got != 1.0 {
		t.Fatalf("cap clamp: got %v want 1", got)
	}
	if got := PayoutAt(0.09, spec); got > 1.0 {
		t.Fatalf("payout above cap: %v", got)
	}
}

func TestPayoutNegativeClampsToZero(t *testing.T) {
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{
			{From: 0, To: 0.1, PayoutAtFrom: -0.5, PayoutAtTo: -0.1},
		},
		Cap: 1.0,
	}
	if got := PayoutAt(0.05, spec); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}

func TestPayoutDegenerateBand(t *testing.T) {
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{
			{From: 0.05, To: 0.05, PayoutAtFrom: 0.7, PayoutAtTo: 0.9},
		},
		Cap: 1.0,
	}
	if got := PayoutAt(0.05, spec); got != 0.7 {
		t.Fatalf("point band pays its from value: got %v want 0.7", got)
	}
}

func TestWithDeductibleRaisesOnly(t *testing.T) {
	spec := rampSpec()
	spec.Deductible = 0.03
	if got := withDeductible(spec, 0.01).Deductible; got != 0.03 {
		t.Fatalf("lower attachment must not reduce deductible: got %v", got)
	}
	if got := withDeductible(spec, 0.05).Deductible; got != 0.05 {
		t.Fatalf("higher attachment must win: got %v", got)
	}
}
