package actuarial

import (
	"errors"
	"math"
	"testing"
)

func TestEffectiveRate(t *testing.T) {
	rate, err := EffectiveRate(0.05, 0.01, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(rate-0.0625) > 1e-12 {
		t.Fatalf("got %v want 0.0625", rate)
	}
}

func TestEffectiveRateNoExcitation(t *testing.T) {
	rate, err := EffectiveRate(0.1, 0, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 0.1 {
		t.Fatalf("got %v want baseline 0.1", rate)
	}
}

func TestEffectiveRateUnstable(t *testing.T) {
	_, err := EffectiveRate(1, 2, 1)
	if err == nil {
		t.Fatalf("expected instability error")
	}
	if !IsInstability(err) {
		t.Fatalf("expected ModelInstabilityError, got %T", err)
	}
	var mie *ModelInstabilityError
	if !errors.As(err, &mie) || mie.BranchingRatio != 2 {
		t.Fatalf("unexpected branching ratio in %v", err)
	}
}

func TestEffectiveRateCriticalBranching(t *testing.T) {
	if _, err := EffectiveRate(0.1, 0.05, 0.05); !IsInstability(err) {
		t.Fatalf("branching ratio 1 must be rejected, got %v", err)
	}
}

func TestEffectiveRateZeroDecay(t *testing.T) {
	if _, err := EffectiveRate(0.1, 0.01, 0); !IsInstability(err) {
		t.Fatalf("zero decay must be rejected, got %v", err)
	}
}

func TestTriggerProbability(t *testing.T) {
	got := TriggerProbability(0.0625, 30)
	want := 1 - math.Exp(-1.875)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
	if got < 0.8466 || got > 0.8467 {
		t.Fatalf("got %v outside expected window", got)
	}
}

func TestTriggerProbabilityClamps(t *testing.T) {
	if got := TriggerProbability(-1, 30); got != 0 {
		t.Fatalf("negative rate: got %v want 0", got)
	}
	if got := TriggerProbability(0.1, -5); got != 0 {
		t.Fatalf("negative tenor: got %v want 0", got)
	}
	if got := TriggerProbability(0, 30); got != 0 {
		t.Fatalf("zero rate: got %v want 0", got)
	}
	if got := TriggerProbability(100, 365); got >= 1 {
		t.Fatalf("probability must stay below 1, got %v", got)
	}
}
