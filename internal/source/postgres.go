package source

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantlab/factorlens/internal/contracts"
)

// FactorRepository reads factor observations from Postgres.
type FactorRepository struct {
	pool *pgxpool.Pool
}

// NewFactorRepository creates a factor repository.
func NewFactorRepository(pool *pgxpool.Pool) *FactorRepository {
	return &FactorRepository{pool: pool}
}

// ListByDateRange retrieves observations within [from, to], ordered by
// (date, asset) so downstream stages see the canonical ordering.
func (r *FactorRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]contracts.FactorObservation, error) {
	query := `
		SELECT asset, trade_date, score
		FROM factor_scores
		WHERE trade_date BETWEEN $1 AND $2
		ORDER BY trade_date ASC, asset ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obs []contracts.FactorObservation
	for rows.Next() {
		var o contracts.FactorObservation
		if err := rows.Scan(&o.Asset, &o.Date, &o.Score); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

// PriceRepository reads daily prices from Postgres.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// LoadTable retrieves the full price table for a date range. Missing cells
// simply never enter the table; the alignment stage treats them as gaps.
func (r *PriceRepository) LoadTable(ctx context.Context, from, to time.Time) (contracts.PriceTable, error) {
	query := `
		SELECT asset, trade_date, close_price
		FROM daily_prices
		WHERE trade_date BETWEEN $1 AND $2
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := contracts.NewPriceTable()
	for rows.Next() {
		var asset string
		var date time.Time
		var price float64
		if err := rows.Scan(&asset, &date, &price); err != nil {
			return nil, err
		}
		table.Set(asset, date, price)
	}
	return table, rows.Err()
}

// GroupRepository reads the static asset grouping from Postgres.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a group repository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

// LoadStatic retrieves the asset -> group mapping.
func (r *GroupRepository) LoadStatic(ctx context.Context) (contracts.StaticGroups, error) {
	query := `SELECT asset, group_label FROM asset_groups`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make(contracts.StaticGroups)
	for rows.Next() {
		var asset, label string
		if err := rows.Scan(&asset, &label); err != nil {
			return nil, err
		}
		groups[asset] = label
	}
	return groups, rows.Err()
}
