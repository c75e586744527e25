package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/quantlab/factorlens/internal/engine"
	"github.com/quantlab/factorlens/internal/source"
	"github.com/quantlab/factorlens/pkg/logger"
	"github.com/quantlab/factorlens/pkg/redis"
)

// CacheKeyLatest is where the most recent tear sheet is cached.
const CacheKeyLatest = "tearsheet:latest"

// Runner executes a configured analysis against the Postgres-backed sources
// and persists the outcome. It is the composition point shared by the HTTP
// API and the scheduled refresh; the engine itself stays pure.
type Runner struct {
	analyzer   *engine.Analyzer
	factors    *source.FactorRepository
	prices     *source.PriceRepository
	groups     *source.GroupRepository
	store      *source.RunStore
	cache      *redis.Cache
	cacheTTL   time.Duration
	settings   engine.Settings
	configHash string
	logger     *logger.Logger
}

// New creates a runner. cache may be backed by a disabled client; caching
// then degrades to a no-op.
func New(
	analyzer *engine.Analyzer,
	factors *source.FactorRepository,
	prices *source.PriceRepository,
	groups *source.GroupRepository,
	store *source.RunStore,
	cache *redis.Cache,
	cacheTTL time.Duration,
	settings engine.Settings,
	configHash string,
	log *logger.Logger,
) *Runner {
	return &Runner{
		analyzer:   analyzer,
		factors:    factors,
		prices:     prices,
		groups:     groups,
		store:      store,
		cache:      cache,
		cacheTTL:   cacheTTL,
		settings:   settings,
		configHash: configHash,
		logger:     log,
	}
}

// Refresh loads factors and prices for [from, to], runs the analysis,
// stores the result and warms the tear-sheet cache.
func (r *Runner) Refresh(ctx context.Context, from, to time.Time) (*engine.RunResult, error) {
	factors, err := r.factors.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load factors: %w", err)
	}

	prices, err := r.prices.LoadTable(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	groups, err := r.groups.LoadStatic(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	result, err := r.analyzer.Run(ctx, engine.Input{
		Factors:  factors,
		Prices:   prices,
		Groups:   groups,
		Settings: r.settings,
	})
	if err != nil {
		return nil, err
	}

	if err := r.store.Save(ctx, result, r.configHash); err != nil {
		return nil, fmt.Errorf("persist run: %w", err)
	}

	if err := r.cache.Set(ctx, CacheKeyLatest, result.TearSheet, r.cacheTTL); err != nil {
		// Cache problems never fail a completed run.
		r.logger.WithError(err).Warn("Failed to cache tear sheet")
	}

	r.logger.WithFields(map[string]interface{}{
		"run_id": result.ID.String(),
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}).Info("Analysis refreshed")

	return result, nil
}
