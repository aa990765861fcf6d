package curves

import (
	"fmt"
	"os"
	"sort"

	"PegGuard/internal/actuarial"
	"PegGuard/internal/domain/models"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Store holds the peril curves loaded at startup. It is immutable after
// Load, so lookups need no locking.
type Store struct {
	curves map[string]*models.PerilCurve
}

type curveFile struct {
	Curves []*models.PerilCurve `yaml:"curves"`
}

// Load reads, defaults and validates the curve file. Any invalid curve fails
// the whole load: a service quoting from a half-valid curve set is worse
// than one that refuses to start.
func Load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curves: %w", err)
	}

	var f curveFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse curves: %w", err)
	}
	if len(f.Curves) == 0 {
		return nil, fmt.Errorf("no curves defined in %s", path)
	}

	curves := make(map[string]*models.PerilCurve, len(f.Curves))
	for _, c := range f.Curves {
		if err := defaults.Set(c); err != nil {
			return nil, fmt.Errorf("curve defaults: %w", err)
		}
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("curve %q: %w", c.ID, err)
		}
		if err := checkCurve(c); err != nil {
			return nil, fmt.Errorf("curve %q: %w", c.ID, err)
		}
		if _, dup := curves[c.ID]; dup {
			return nil, fmt.Errorf("duplicate curve id %q", c.ID)
		}
		curves[c.ID] = c
	}

	return &Store{curves: curves}, nil
}

// Get returns the curve for a peril id.
func (s *Store) Get(id string) (*models.PerilCurve, bool) {
	c, ok := s.curves[id]
	return c, ok
}

// IDs returns all curve ids, sorted.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.curves))
	for id := range s.curves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every loaded curve, ordered by id.
func (s *Store) All() []*models.PerilCurve {
	out := make([]*models.PerilCurve, 0, len(s.curves))
	for _, id := range s.IDs() {
		out = append(out, s.curves[id])
	}
	return out
}

// checkCurve enforces the semantic invariants the struct tags cannot: payout
// band geometry, cap range, and per-allowed-regime model parameters. Regimes
// the curve does not allow may stay uncalibrated.
func checkCurve(c *models.PerilCurve) error {
	if c.Payout.Cap <= 0 || c.Payout.Cap > 1 {
		return fmt.Errorf("payout cap must be in (0,1], got %v", c.Payout.Cap)
	}
	if c.Payout.Deductible < 0 {
		return fmt.Errorf("payout deductible must not be negative")
	}
	if len(c.Payout.Bands) == 0 {
		return fmt.Errorf("payout needs at least one band")
	}

	bands := append([]models.PayoutBand(nil), c.Payout.Bands...)
	sort.Slice(bands, func(i, j int) bool { return bands[i].From < bands[j].From })
	for i, b := range bands {
		if b.To < b.From {
			return fmt.Errorf("band %d: to %v < from %v", i, b.To, b.From)
		}
		if i > 0 && b.From < bands[i-1].To {
			return fmt.Errorf("band %d overlaps band %d", i, i-1)
		}
	}

	seen := map[models.Regime]bool{}
	for _, r := range c.Regimes {
		if !r.Valid() {
			return fmt.Errorf("unknown regime in allowed set")
		}
		if seen[r] {
			return fmt.Errorf("regime %q listed twice", r)
		}
		seen[r] = true

		params, err := c.Params(r)
		if err != nil {
			return err
		}
		if params.Severity.Scale <= 0 {
			return fmt.Errorf("regime %q: severity scale must be positive", r)
		}
		if params.Threshold < 0 {
			return fmt.Errorf("regime %q: threshold must not be negative", r)
		}
		if params.Frequency.Baseline < 0 {
			return fmt.Errorf("regime %q: baseline rate must not be negative", r)
		}
		if _, err := actuarial.EffectiveRate(params.Frequency.Baseline, params.Frequency.Excitation, params.Frequency.Decay); err != nil {
			return fmt.Errorf("regime %q: %w", r, err)
		}
	}

	if c.Knobs.TailLevel <= 0 || c.Knobs.TailLevel >= 1 {
		return fmt.Errorf("tail level must be in (0,1), got %v", c.Knobs.TailLevel)
	}
	if c.Knobs.RiskLoadFactor < 0 || c.Knobs.OverheadPct < 0 ||
		c.Knobs.LiquidityBaseBps < 0 || c.Knobs.LiquiditySlopeBps < 0 ||
		c.Knobs.CapitalChargeFactor < 0 {
		return fmt.Errorf("pricing factors must not be negative")
	}
	return nil
}
