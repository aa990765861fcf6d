package actuarial

import (
	"math"
	"testing"
)

func TestSeverityCDFRange(t *testing.T) {
	prev := 0.0
	for i := 0; i <= 100; i++ {
		y := float64(i) * 0.002
		c := SeverityCDF(y, 0.1, 0.01)
		if c < 0 || c > 1 {
			t.Fatalf("cdf out of range at y=%v: %v", y, c)
		}
		if c < prev {
			t.Fatalf("cdf not monotonic at y=%v: %v < %v", y, c, prev)
		}
		prev = c
	}
}

func TestSeverityCDFAtZero(t *testing.T) {
	if got := SeverityCDF(0, 0.1, 0.01); got != 0 {
		t.Fatalf("expected 0 at y=0, got %v", got)
	}
	if got := SeverityCDF(-0.5, 0.1, 0.01); got != 0 {
		t.Fatalf("expected 0 below threshold, got %v", got)
	}
}

func TestSeverityExponentialLimit(t *testing.T) {
	beta := 0.01
	for _, y := range []float64{0.001, 0.01, 0.05} {
		want := 1 - math.Exp(-y/beta)
		got := SeverityCDF(y, 0, beta)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("cdf at y=%v: got %v want %v", y, got, want)
		}
		wantPDF := math.Exp(-y/beta) / beta
		if got := SeverityPDF(y, 0, beta); math.Abs(got-wantPDF) > 1e-9 {
			t.Fatalf("pdf at y=%v: got %v want %v", y, got, wantPDF)
		}
	}
}

func TestSeverityFiniteSupport(t *testing.T) {
	// xi=-0.5, beta=0.01: support ends at y = -beta/xi = 0.02.
	xi, beta := -0.5, 0.01
	if got := SeverityCDF(0.03, xi, beta); got != 1 {
		t.Fatalf("cdf past support: got %v want 1", got)
	}
	if got := SeverityPDF(0.03, xi, beta); got != 0 {
		t.Fatalf("pdf past support: got %v want 0", got)
	}
	if got := SeverityCDF(0.019, xi, beta); got >= 1 || got <= 0 {
		t.Fatalf("cdf inside support: got %v", got)
	}
}

func TestSeverityUpperBound(t *testing.T) {
	if got := severityUpperBound(-0.5, 0.01); math.Abs(got-0.02) > 1e-15 {
		t.Fatalf("finite tail bound: got %v want 0.02", got)
	}
	if got := severityUpperBound(0.1, 0.01); math.Abs(got-0.2) > 1e-15 {
		t.Fatalf("truncated tail bound: got %v want 0.2", got)
	}
}
