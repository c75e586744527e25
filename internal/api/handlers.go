package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/engine"
	"github.com/quantlab/factorlens/internal/report"
	"github.com/quantlab/factorlens/internal/runner"
	"github.com/quantlab/factorlens/pkg/logger"
	"github.com/quantlab/factorlens/pkg/redis"
)

// AnalysisRunner triggers a full recomputation over a date range.
type AnalysisRunner interface {
	Refresh(ctx context.Context, from, to time.Time) (*engine.RunResult, error)
}

// TearSheetStore serves persisted run output.
type TearSheetStore interface {
	GetTearSheet(ctx context.Context, id uuid.UUID) (*report.TearSheet, error)
	LatestRunID(ctx context.Context) (uuid.UUID, error)
}

// AnalysisHandler handles the analysis API endpoints.
type AnalysisHandler struct {
	runner AnalysisRunner
	store  TearSheetStore
	cache  *redis.Cache
	logger *logger.Logger
}

// NewAnalysisHandler creates the handler.
func NewAnalysisHandler(run AnalysisRunner, store TearSheetStore, cache *redis.Cache, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{runner: run, store: store, cache: cache, logger: log}
}

// AnalyzeRequest is the POST /api/analyze body.
type AnalyzeRequest struct {
	From string `json:"from"` // YYYY-MM-DD
	To   string `json:"to"`   // YYYY-MM-DD
}

// AnalyzeResponse summarizes a completed run; the tear sheet itself is
// fetched separately by run ID.
type AnalyzeResponse struct {
	RunID       string                 `json:"run_id"`
	CreatedAt   time.Time              `json:"created_at"`
	Diagnostics *contracts.Diagnostics `json:"diagnostics"`
}

// Analyze runs the configured analysis over the requested date range.
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date")
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not precede from")
		return
	}

	result, err := h.runner.Refresh(r.Context(), from, to)
	if err != nil {
		var cfgErr contracts.ConfigurationError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusUnprocessableEntity, cfgErr.Error())
			return
		}
		h.logger.WithError(err).Error("Analysis run failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		RunID:       result.ID.String(),
		CreatedAt:   result.CreatedAt,
		Diagnostics: result.Diagnostics,
	})
}

// GetLatestTearSheet serves the most recent tear sheet, preferring cache.
// GET /api/runs/latest/tearsheet
func (h *AnalysisHandler) GetLatestTearSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached report.TearSheet
	if found, err := h.cache.Get(ctx, runner.CacheKeyLatest, &cached); err == nil && found {
		writeJSON(w, http.StatusOK, &cached)
		return
	}

	id, err := h.store.LatestRunID(ctx)
	if err != nil {
		writeError(w, http.StatusNotFound, "no completed runs")
		return
	}
	h.serveTearSheet(w, r, id)
}

// GetTearSheet serves one run's tear sheet by ID.
// GET /api/runs/{id}/tearsheet
func (h *AnalysisHandler) GetTearSheet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	h.serveTearSheet(w, r, id)
}

func (h *AnalysisHandler) serveTearSheet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ts, err := h.store.GetTearSheet(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
