package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

const hairScene = `{
  "name": "hair-only",
  "root": {"name": "Armature", "children": [{"name": "Hair", "children": [{"name": "H1"}]}]},
  "dynamic_bones": [{"name": "hair", "node": "Armature/Hair"}]
}`

func newTestAPI(t *testing.T) (*APIServer, *persistence.FileReportStore) {
	store, err := persistence.NewFileReportStore(t.TempDir())
	require.NoError(t, err)
	return &APIServer{
		Estimator:       &framework.Estimator{},
		Thresholds:      framework.DefaultThresholds(),
		Store:           store,
		DefaultPlatform: "pc",
		Logger:          log.New(io.Discard),
	}, store
}

func TestAPIServerEstimate(t *testing.T) {
	api, store := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/estimate?platform=android", strings.NewReader(hairScene))
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, "hair-only", resp.Report.Scene)
	assert.Equal(t, "android", resp.Report.Platform)
	assert.Equal(t, 1, resp.Report.Stats.ChainCount)
	assert.Equal(t, 2, resp.Report.Stats.TransformCount)
	assert.Equal(t, framework.RatingGood, resp.Report.Overall)
	require.Len(t, resp.Chains, 1)
	assert.Equal(t, "hair", resp.Chains[0].Name)

	saved, err := store.Load(context.Background(), resp.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Report.Stats, saved.Stats)
}

func TestAPIServerEstimateRejectsBadInput(t *testing.T) {
	api, _ := newTestAPI(t)
	cases := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"unknown platform", "/api/estimate?platform=quest", hairScene, http.StatusBadRequest},
		{"malformed json", "/api/estimate", "{", http.StatusBadRequest},
		{"missing root name", "/api/estimate", `{"root": {}}`, http.StatusBadRequest},
		{"unknown node", "/api/estimate", `{"root": {"name": "A"}, "dynamic_bones": [{"name": "b", "node": "A/B"}]}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rec.Code)
			var resp EstimateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAPIServerReports(t *testing.T) {
	api, _ := newTestAPI(t)
	handler := api.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader(hairScene)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pc", resp.Report.Platform)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []persistence.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/"+list[0].ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIServerThresholds(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/thresholds", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var tables []framework.ThresholdTable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "android", tables[0].Platform)
}

func TestAPIServerServeContextShutsDown(t *testing.T) {
	api, _ := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.ServeContext(ctx, "127.0.0.1:0") }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
