package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantlab/factorlens/internal/engine"
	"github.com/quantlab/factorlens/internal/report"
)

// RunStore persists completed analysis runs so tear sheets can be served
// later without recomputation.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore creates a run store.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Save writes one run: settings, diagnostics and the tear sheet as JSON,
// keyed by run ID, together with the settings-file hash that produced it.
func (s *RunStore) Save(ctx context.Context, result *engine.RunResult, configHash string) error {
	settings, err := json.Marshal(result.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	diagnostics, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}
	tearSheet, err := json.Marshal(result.TearSheet)
	if err != nil {
		return fmt.Errorf("marshal tear sheet: %w", err)
	}

	query := `
		INSERT INTO analysis_runs (id, created_at, config_hash, settings, diagnostics, tear_sheet)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.pool.Exec(ctx, query,
		result.ID, result.CreatedAt, configHash, settings, diagnostics, tearSheet)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetTearSheet loads a stored tear sheet by run ID.
func (s *RunStore) GetTearSheet(ctx context.Context, id uuid.UUID) (*report.TearSheet, error) {
	query := `SELECT tear_sheet FROM analysis_runs WHERE id = $1`

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		return nil, err
	}

	var ts report.TearSheet
	if err := json.Unmarshal(raw, &ts); err != nil {
		return nil, fmt.Errorf("unmarshal tear sheet: %w", err)
	}
	return &ts, nil
}

// LatestRunID returns the most recent run's ID, or uuid.Nil when no run
// has been stored yet.
func (s *RunStore) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	query := `SELECT id FROM analysis_runs ORDER BY created_at DESC LIMIT 1`

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, query).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
