package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debnit/MsmeBazaar-sub003/internal/matching"
	"github.com/debnit/MsmeBazaar-sub003/internal/valuation"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

type routerMatcher struct{}

func (routerMatcher) FindMatchesForListing(context.Context, common.ID, int) ([]*matching.Result, error) {
	return []*matching.Result{{BuyerID: "b1", ListingID: "l1", TotalScore: 75}}, nil
}

func (routerMatcher) FindMatchesForBuyer(context.Context, common.ID, int) ([]*matching.Result, error) {
	return nil, nil
}

type routerValuator struct{}

func (routerValuator) Valuate(context.Context, *valuation.BusinessFinancials) (*valuation.ValuationResult, error) {
	return &valuation.ValuationResult{Valuation: 1_000_000, Methodology: valuation.MethodologyHeuristic}, nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	counters []map[string]string
}

func (m *recordingMetrics) IncCounter(_ string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, labels)
}

func (m *recordingMetrics) ObserveHistogram(string, float64, map[string]string) {}

func newTestRouter(metrics *recordingMetrics) *gin.Engine {
	opts := RouterOptions{
		Mode:     gin.TestMode,
		Version:  "test",
		Matcher:  routerMatcher{},
		Valuator: routerValuator{},
	}
	if metrics != nil {
		opts.Metrics = metrics
	}
	return NewRouter(opts)
}

func TestRouterRoutes(t *testing.T) {
	r := newTestRouter(nil)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodPost, "/api/v1/matches/listing/l1", "", http.StatusOK},
		{http.MethodPost, "/api/v1/matches/buyer/b1", "", http.StatusOK},
		{http.MethodPost, "/api/v1/valuations", `{"revenue":1000000}`, http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/api/v1/matches/listing/l1", "", http.StatusNotFound},
		{http.MethodGet, "/metrics", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		req := newRequest(t, tc.method, tc.path, tc.body)
		r.ServeHTTP(rec, req)
		assert.Equalf(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouterRequestIDPropagation(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	req := newRequest(t, http.MethodPost, "/api/v1/matches/listing/l1", "")
	req.Header.Set("X-Request-ID", "req-abc-123")
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-ID"))

	var body struct {
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "req-abc-123", body.RequestID)
}

func TestRouterGeneratesRequestID(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, newRequest(t, http.MethodGet, "/healthz", ""))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterMetricsLabels(t *testing.T) {
	metrics := &recordingMetrics{}
	r := newTestRouter(metrics)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, newRequest(t, http.MethodPost, "/api/v1/matches/listing/l1", ""))

	require.Len(t, metrics.counters, 1)
	labels := metrics.counters[0]
	assert.Equal(t, "/api/v1/matches/listing/:id", labels["route"])
	assert.Equal(t, "POST", labels["method"])
	assert.Equal(t, "2xx", labels["status"])
}

func newRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return req
}
