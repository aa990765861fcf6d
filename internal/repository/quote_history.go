package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"PegGuard/internal/domain/models"
	"PegGuard/internal/domain/repository"
)

// ClickHouseQuoteHistory implements QuoteHistory on ClickHouse.
type ClickHouseQuoteHistory struct {
	db    *sql.DB
	table string
}

// NewClickHouseQuoteHistory creates ClickHouse-backed quote history.
func NewClickHouseQuoteHistory(db *sql.DB, table string) repository.QuoteHistory {
	return &ClickHouseQuoteHistory{db: db, table: table}
}

// Schema returns the idempotent DDL for the history table; the client runs
// it at startup.
func Schema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			quoted_at DateTime,
			peril_id String,
			regime String,
			expected_loss Float64,
			risk_load Float64,
			capital_load Float64,
			liquidity_load Float64,
			overhead Float64,
			premium Float64,
			utilization_after Float64,
			trigger_probability Float64,
			conditional_payout Float64,
			effective_rate Float64,
			utilization_before Float64,
			regime_degraded UInt8
		) ENGINE=MergeTree ORDER BY (peril_id, quoted_at)`, table),
	}
}

func (s *ClickHouseQuoteHistory) Store(ctx context.Context, b *models.PriceBreakdown) error {
	q := fmt.Sprintf(`INSERT INTO %s (
		quoted_at, peril_id, regime,
		expected_loss, risk_load, capital_load, liquidity_load, overhead, premium,
		utilization_after, trigger_probability, conditional_payout, effective_rate,
		utilization_before, regime_degraded
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	degraded := uint8(0)
	if b.Diagnostics.RegimeDegraded {
		degraded = 1
	}
	_, err := s.db.ExecContext(ctx, q,
		b.QuotedAt,
		b.PerilID,
		b.Regime.String(),
		b.ExpectedLoss,
		b.RiskLoad,
		b.CapitalLoad,
		b.LiquidityLoad,
		b.Overhead,
		b.Premium,
		b.UtilizationAfter,
		b.Diagnostics.TriggerProbability,
		b.Diagnostics.ConditionalPayout,
		b.Diagnostics.EffectiveRate,
		b.Diagnostics.UtilizationBefore,
		degraded,
	)
	return err
}

func (s *ClickHouseQuoteHistory) Recent(ctx context.Context, perilID string, since time.Time, limit int) ([]*models.PriceBreakdown, error) {
	q := fmt.Sprintf(`SELECT
		quoted_at, peril_id, regime,
		expected_loss, risk_load, capital_load, liquidity_load, overhead, premium,
		utilization_after, trigger_probability, conditional_payout, effective_rate,
		utilization_before, regime_degraded
	FROM %s WHERE peril_id = ? AND quoted_at >= ? ORDER BY quoted_at DESC LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, q, perilID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var out []*models.PriceBreakdown
	for rows.Next() {
		var b models.PriceBreakdown
		var regime string
		var degraded uint8
		if err := rows.Scan(
			&b.QuotedAt, &b.PerilID, &regime,
			&b.ExpectedLoss, &b.RiskLoad, &b.CapitalLoad, &b.LiquidityLoad, &b.Overhead, &b.Premium,
			&b.UtilizationAfter, &b.Diagnostics.TriggerProbability, &b.Diagnostics.ConditionalPayout,
			&b.Diagnostics.EffectiveRate, &b.Diagnostics.UtilizationBefore, &degraded,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		if r, err := models.ParseRegime(regime); err == nil {
			b.Regime = r
		}
		b.Diagnostics.RegimeDegraded = degraded != 0
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (s *ClickHouseQuoteHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseQuoteHistory) Close() error {
	return nil // pool owned by pkg/clickhouse client
}

// NopQuoteHistory drops writes and returns no history; used when ClickHouse
// is disabled.
type NopQuoteHistory struct{}

func (NopQuoteHistory) Store(context.Context, *models.PriceBreakdown) error { return nil }
func (NopQuoteHistory) Recent(context.Context, string, time.Time, int) ([]*models.PriceBreakdown, error) {
	return nil, nil
}
func (NopQuoteHistory) Health(context.Context) error { return nil }
func (NopQuoteHistory) Close() error                 { return nil }
