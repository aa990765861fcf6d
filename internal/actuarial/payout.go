package actuarial

import "PegGuard/internal/domain/models"

// PayoutAt maps an intensity value to a payout fraction under the given spec.
//
// The deductible is subtracted first (floored at zero), then bands are
// scanned in order; the first band containing the adjusted intensity wins.
// Bands are validated non-overlapping at curve load, so ordering only matters
// for misconfigured curves. The interpolated value is clamped to [0, Cap];
// intensity outside every band pays nothing.
func PayoutAt(intensity float64, spec models.PayoutSpec) float64 {
	x := intensity - spec.Deductible
	if x < 0 {
		x = 0
	}
	for _, b := range spec.Bands {
		if x < b.From || x > b.To {
			continue
		}
		p := b.PayoutAtFrom
		if b.To > b.From {
			t := (x - b.From) / (b.To - b.From)
			p = b.PayoutAtFrom + t*(b.PayoutAtTo-b.PayoutAtFrom)
		}
		if p < 0 {
			return 0
		}
		if p > spec.Cap {
			return spec.Cap
		}
		return p
	}
	return 0
}

// withDeductible returns spec with the deductible raised to at least d.
// Attachment is modeled as an additional intensity deductible on top of
// whatever the curve already carries.
func withDeductible(spec models.PayoutSpec, d float64) models.PayoutSpec {
	if d > spec.Deductible {
		spec.Deductible = d
	}
	return spec
}
