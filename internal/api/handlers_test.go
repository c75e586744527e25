package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/engine"
	"github.com/quantlab/factorlens/internal/report"
	"github.com/quantlab/factorlens/pkg/config"
	"github.com/quantlab/factorlens/pkg/logger"
	"github.com/quantlab/factorlens/pkg/redis"
)

type stubRunner struct {
	result *engine.RunResult
	err    error

	gotFrom, gotTo time.Time
}

func (s *stubRunner) Refresh(_ context.Context, from, to time.Time) (*engine.RunResult, error) {
	s.gotFrom, s.gotTo = from, to
	return s.result, s.err
}

type stubStore struct {
	sheets   map[uuid.UUID]*report.TearSheet
	latest   uuid.UUID
	latestOK bool
}

func (s *stubStore) GetTearSheet(_ context.Context, id uuid.UUID) (*report.TearSheet, error) {
	ts, ok := s.sheets[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return ts, nil
}

func (s *stubStore) LatestRunID(_ context.Context) (uuid.UUID, error) {
	if !s.latestOK {
		return uuid.Nil, errors.New("no runs")
	}
	return s.latest, nil
}

func testCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

func newHandler(t *testing.T, run *stubRunner, store *stubStore) *AnalysisHandler {
	t.Helper()
	return NewAnalysisHandler(run, store, testCache(t), logger.Nop())
}

func analyzeBody(t *testing.T, from, to string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(AnalyzeRequest{From: from, To: to})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestAnalyze_Success(t *testing.T) {
	run := &stubRunner{result: &engine.RunResult{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		Diagnostics: contracts.NewDiagnostics(),
	}}
	h := newHandler(t, run, &stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/analyze", analyzeBody(t, "2024-01-01", "2024-06-30"))
	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, run.result.ID.String(), resp.RunID)
	require.NotNil(t, resp.Diagnostics)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), run.gotFrom)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), run.gotTo)
}

func TestAnalyze_BadRequests(t *testing.T) {
	h := newHandler(t, &stubRunner{}, &stubStore{})

	cases := []struct {
		name string
		body *bytes.Buffer
	}{
		{"malformed json", bytes.NewBufferString("{not json")},
		{"bad from date", analyzeBody(t, "01/01/2024", "2024-06-30")},
		{"bad to date", analyzeBody(t, "2024-01-01", "soon")},
		{"reversed range", analyzeBody(t, "2024-06-30", "2024-01-01")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Analyze(rec, httptest.NewRequest("POST", "/api/analyze", tc.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyze_ConfigurationErrorIsUnprocessable(t *testing.T) {
	run := &stubRunner{err: contracts.ConfigurationError{
		Field:   "inputs",
		Message: "no overlapping dates between factor and price sources",
	}}
	h := newHandler(t, run, &stubStore{})

	rec := httptest.NewRecorder()
	h.Analyze(rec, httptest.NewRequest("POST", "/api/analyze", analyzeBody(t, "2024-01-01", "2024-06-30")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no overlapping dates")
}

func TestAnalyze_InternalError(t *testing.T) {
	run := &stubRunner{err: errors.New("database gone")}
	h := newHandler(t, run, &stubStore{})

	rec := httptest.NewRecorder()
	h.Analyze(rec, httptest.NewRequest("POST", "/api/analyze", analyzeBody(t, "2024-01-01", "2024-06-30")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The underlying failure is logged, not leaked to the client.
	assert.NotContains(t, rec.Body.String(), "database gone")
}

func TestGetTearSheet_ByID(t *testing.T) {
	id := uuid.New()
	store := &stubStore{sheets: map[uuid.UUID]*report.TearSheet{
		id: {MeanReturns: contracts.Table{Name: "mean_return_by_quantile"}},
	}}
	h := newHandler(t, &stubRunner{}, store)

	router := NewRouter(h, logger.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs/"+id.String()+"/tearsheet", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var ts report.TearSheet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ts))
	assert.Equal(t, "mean_return_by_quantile", ts.MeanReturns.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs/not-a-uuid/tearsheet", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs/"+uuid.NewString()+"/tearsheet", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLatestTearSheet(t *testing.T) {
	id := uuid.New()
	store := &stubStore{
		sheets:   map[uuid.UUID]*report.TearSheet{id: {}},
		latest:   id,
		latestOK: true,
	}
	h := newHandler(t, &stubRunner{}, store)

	rec := httptest.NewRecorder()
	h.GetLatestTearSheet(rec, httptest.NewRequest("GET", "/api/runs/latest/tearsheet", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	empty := newHandler(t, &stubRunner{}, &stubStore{})
	rec = httptest.NewRecorder()
	empty.GetLatestTearSheet(rec, httptest.NewRequest("GET", "/api/runs/latest/tearsheet", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyze_RateLimited(t *testing.T) {
	run := &stubRunner{result: &engine.RunResult{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		Diagnostics: contracts.NewDiagnostics(),
	}}
	router := NewRouter(newHandler(t, run, &stubStore{}), logger.Nop())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", analyzeBody(t, "2024-01-01", "2024-06-30")))
		codes = append(codes, rec.Code)
	}

	// Burst of two, so the third immediate request is rejected.
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(newHandler(t, &stubRunner{}, &stubStore{}), logger.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
