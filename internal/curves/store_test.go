package curves

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"PegGuard/internal/domain/models"
)

const validCurves = `
curves:
  - id: usdc-usd-depeg
    name: USDC/USD depeg protection
    regimes: [calm, volatile]
    calm:
      threshold: 0.02
      severity: {shape: 0.05, scale: 0.005}
      frequency: {baseline: 0.01, excitation: 0.005, decay: 0.05}
    volatile:
      threshold: 0.02
      severity: {shape: 0.1, scale: 0.01}
      frequency: {baseline: 0.05, excitation: 0.01, decay: 0.05}
    payout:
      bands:
        - {from: 0.02, to: 0.1, payout_at_from: 0, payout_at_to: 1}
    pricing:
      risk_load_factor: 0.25
`

func writeCurves(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curves.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write curves: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	store, err := Load(writeCurves(t, validCurves))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, ok := store.Get("usdc-usd-depeg")
	if !ok {
		t.Fatalf("curve not found")
	}
	if c.Payout.Cap != 1.0 {
		t.Fatalf("cap default not applied: %v", c.Payout.Cap)
	}
	if c.Knobs.TailLevel != 0.99 {
		t.Fatalf("tail level default not applied: %v", c.Knobs.TailLevel)
	}
	if c.Knobs.MaxUtilization != 1.0 {
		t.Fatalf("max utilization default not applied: %v", c.Knobs.MaxUtilization)
	}
	if !c.Allows(models.RegimeVolatile) || c.Allows(models.RegimeCrisis) {
		t.Fatalf("allowed regimes wrong: %v", c.Regimes)
	}
	if got := store.IDs(); len(got) != 1 || got[0] != "usdc-usd-depeg" {
		t.Fatalf("ids: %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadEmpty(t *testing.T) {
	if _, err := Load(writeCurves(t, "curves: []\n")); err == nil {
		t.Fatalf("expected error for empty curve set")
	}
}

func TestLoadRejectsOverlappingBands(t *testing.T) {
	body := strings.Replace(validCurves,
		`bands:
        - {from: 0.02, to: 0.1, payout_at_from: 0, payout_at_to: 1}`,
		`bands:
        - {from: 0.02, to: 0.1, payout_at_from: 0, payout_at_to: 1}
        - {from: 0.05, to: 0.2, payout_at_from: 0.5, payout_at_to: 1}`, 1)
	if _, err := Load(writeCurves(t, body)); err == nil || !strings.Contains(err.Error(), "overlap") {
		t.Fatalf("expected overlap error, got %v", err)
	}
}

func TestLoadRejectsUnstableFrequency(t *testing.T) {
	body := strings.Replace(validCurves,
		"frequency: {baseline: 0.05, excitation: 0.01, decay: 0.05}",
		"frequency: {baseline: 0.05, excitation: 0.1, decay: 0.05}", 1)
	if _, err := Load(writeCurves(t, body)); err == nil {
		t.Fatalf("expected instability error")
	}
}

func TestLoadRejectsBadCap(t *testing.T) {
	body := strings.Replace(validCurves,
		"payout:\n      bands:",
		"payout:\n      cap: 1.5\n      bands:", 1)
	if _, err := Load(writeCurves(t, body)); err == nil || !strings.Contains(err.Error(), "cap") {
		t.Fatalf("expected cap error, got %v", err)
	}
}

func TestLoadRejectsNonPositiveScale(t *testing.T) {
	body := strings.Replace(validCurves,
		"severity: {shape: 0.1, scale: 0.01}",
		"severity: {shape: 0.1, scale: 0}", 1)
	if _, err := Load(writeCurves(t, body)); err == nil || !strings.Contains(err.Error(), "scale") {
		t.Fatalf("expected scale error, got %v", err)
	}
}

func TestLoadRejectsDuplicateID(t *testing.T) {
	body := validCurves + strings.Replace(validCurves, "curves:\n", "", 1)
	if _, err := Load(writeCurves(t, body)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRejectsUnknownRegime(t *testing.T) {
	body := strings.Replace(validCurves, "regimes: [calm, volatile]", "regimes: [calm, panic]", 1)
	if _, err := Load(writeCurves(t, body)); err == nil {
		t.Fatalf("expected unknown regime error")
	}
}
