package actuarial

import (
	"math"
	"testing"

	"PegGuard/internal/domain/models"
)

func TestExpectedPayoutFullCoverage(t *testing.T) {
	// Payout 1 across the whole integration domain: the integral reduces to
	// the severity mass inside it, which for an exponential tail truncated at
	// 20 scales is 1 up to e^-20.
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{{From: 0, To: 0.2, PayoutAtFrom: 1, PayoutAtTo: 1}},
		Cap:   1.0,
	}
	got := ExpectedPayout(0, 0, 0.01, spec)
	if math.Abs(got-1) > 1e-3 {
		t.Fatalf("got %v want ~1", got)
	}
}

func TestExpectedPayoutReference(t *testing.T) {
	// u=0.02, xi=0.1, beta=0.01, linear ramp [0.02,0.1] -> [0,1].
	// Closed form via integration by parts gives 0.1353879.
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{{From: 0.02, To: 0.1, PayoutAtFrom: 0, PayoutAtTo: 1}},
		Cap:   1.0,
	}
	got := ExpectedPayout(0.02, 0.1, 0.01, spec)
	want := 0.1353879
	if math.Abs(got-want)/want > 2e-3 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExpectedPayoutZeroWhenNoOverlap(t *testing.T) {
	// Band entirely below the threshold: no excess ever reaches it.
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{{From: 0, To: 0.01, PayoutAtFrom: 1, PayoutAtTo: 1}},
		Cap:   1.0,
	}
	if got := ExpectedPayout(0.02, 0.1, 0.01, spec); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}

func TestExpectedPayoutFiniteTail(t *testing.T) {
	// xi<0 integrates over the exact support [0, -beta/xi] without blowing up.
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{{From: 0, To: 1, PayoutAtFrom: 1, PayoutAtTo: 1}},
		Cap:   1.0,
	}
	got := ExpectedPayout(0, -0.5, 0.01, spec)
	if math.Abs(got-1) > 1e-3 {
		t.Fatalf("full mass over finite support: got %v want ~1", got)
	}
}

func TestTailPayoutDominatesMean(t *testing.T) {
	// For a payout non-decreasing in intensity the tail mean can never be
	// below the unconditional mean.
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{{From: 0.02, To: 0.1, PayoutAtFrom: 0, PayoutAtTo: 1}},
		Cap:   1.0,
	}
	eg := ExpectedPayout(0.02, 0.1, 0.01, spec)
	tail := TailPayout(0.02, 0.1, 0.01, spec, 0.99)
	if tail < eg {
		t.Fatalf("tail %v below mean %v", tail, eg)
	}
	if tail > 1 {
		t.Fatalf("tail above cap: %v", tail)
	}
}

func TestTailPayoutLevelOrdering(t *testing.T) {
	spec := models.PayoutSpec{
		Bands: []models.PayoutBand{{From: 0.02, To: 0.1, PayoutAtFrom: 0, PayoutAtTo: 1}},
		Cap:   1.0,
	}
	t90 := TailPayout(0.02, 0.1, 0.01, spec, 0.90)
	t99 := TailPayout(0.02, 0.1, 0.01, spec, 0.99)
	if t99 < t90 {
		t.Fatalf("deeper tail must not pay less: t99=%v t90=%v", t99, t90)
	}
}
