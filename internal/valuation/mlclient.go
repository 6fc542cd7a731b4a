package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

// defaultMLTimeout bounds every prediction call.  A timed-out call falls back
// to the heuristic path, so the bound is the worst-case latency the ML
// dependency can add to a valuation request.
const defaultMLTimeout = 5 * time.Second

// MLClient is the orchestrator's view of the external prediction service.
type MLClient interface {
	// Predict returns the model's valuation for the given financials, or an
	// ErrCodeMLUnavailable / ErrCodeMLBadResponse error.
	Predict(ctx context.Context, fin *BusinessFinancials) (*MLPrediction, error)

	// Healthy reports the outcome of the most recent call.  The flag is
	// advisory only; it never gates new prediction attempts.
	Healthy() bool
}

// HTTPMLClient talks to the prediction service over HTTP.
type HTTPMLClient struct {
	baseURL      string
	modelVersion string
	client       *http.Client
	tables       *refdata.Tables
	logger       logging.Logger
	metrics      Metrics

	// healthy holds 1 after a successful call, 0 after a failure.
	healthy atomic.Bool
}

// MLClientOptions configures an HTTPMLClient.
type MLClientOptions struct {
	BaseURL      string
	ModelVersion string
	Timeout      time.Duration
	Tables       *refdata.Tables
	Logger       logging.Logger
	Metrics      Metrics
}

// NewHTTPMLClient constructs a prediction client.  The client starts healthy;
// the flag reflects observed behavior only after the first call.
func NewHTTPMLClient(opts MLClientOptions) *HTTPMLClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultMLTimeout
	}
	if opts.Tables == nil {
		opts.Tables = refdata.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics{}
	}
	c := &HTTPMLClient{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		modelVersion: opts.ModelVersion,
		client:       &http.Client{Timeout: opts.Timeout},
		tables:       opts.Tables,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}
	c.healthy.Store(true)
	return c
}

type predictRequest struct {
	Features     map[string]float64 `json:"features"`
	ModelVersion string             `json:"model_version"`
}

// Predict extracts the feature vector and calls POST /predict/valuation.
// Transport failures, timeouts, and non-2xx responses all surface as
// ErrCodeMLUnavailable; a 2xx with an out-of-range payload surfaces as
// ErrCodeMLBadResponse.
func (c *HTTPMLClient) Predict(ctx context.Context, fin *BusinessFinancials) (*MLPrediction, error) {
	body, err := json.Marshal(predictRequest{
		Features:     c.ExtractFeatures(fin),
		ModelVersion: c.modelVersion,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode prediction request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict/valuation", bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(errors.Wrap(err, errors.ErrCodeMLUnavailable, "build prediction request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.fail(errors.Wrap(err, errors.ErrCodeMLUnavailable, "prediction service unreachable"))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(errors.New(errors.ErrCodeMLUnavailable,
			fmt.Sprintf("prediction service returned status %d", resp.StatusCode)))
	}

	var pred MLPrediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, c.fail(errors.Wrap(err, errors.ErrCodeMLBadResponse, "decode prediction response"))
	}
	if pred.Confidence < 0 || pred.Confidence > 1 || pred.Valuation < 0 {
		return nil, c.fail(errors.New(errors.ErrCodeMLBadResponse,
			fmt.Sprintf("prediction out of range: valuation=%.0f confidence=%.2f", pred.Valuation, pred.Confidence)))
	}

	c.healthy.Store(true)
	c.metrics.SetGauge("ml_service_healthy", 1, nil)
	c.metrics.IncCounter("ml_predictions_total", map[string]string{"outcome": "success"})
	return &pred, nil
}

// Healthy reports whether the last prediction call succeeded.
func (c *HTTPMLClient) Healthy() bool {
	return c.healthy.Load()
}

// CheckHealth probes the service's GET /health endpoint.  Used by the
// process-level health report, not by the valuation request path.
func (c *HTTPMLClient) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMLUnavailable, "build health request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMLUnavailable, "prediction service unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeMLUnavailable,
			fmt.Sprintf("prediction service health returned status %d", resp.StatusCode))
	}
	return nil
}

func (c *HTTPMLClient) fail(err error) error {
	c.healthy.Store(false)
	c.metrics.SetGauge("ml_service_healthy", 0, nil)
	c.metrics.IncCounter("ml_predictions_total", map[string]string{"outcome": "failure"})
	c.logger.Warn("ml prediction failed", logging.Err(err))
	return err
}

// ExtractFeatures flattens BusinessFinancials into the numeric vector the
// model was trained on.  Ratios guard against zero denominators; categorical
// fields become one-hot flags.
func (c *HTTPMLClient) ExtractFeatures(fin *BusinessFinancials) map[string]float64 {
	features := map[string]float64{
		"revenue":            fin.Revenue,
		"profit":             fin.Profit,
		"assets":             fin.Assets,
		"liabilities":        fin.Liabilities,
		"employees":          float64(fin.Employees),
		"growth_rate":        fin.GrowthRate,
		"debt_to_equity":     fin.DebtToEquity,
		"current_ratio":      fin.CurrentRatio,
		"market_share":       fin.MarketShare,
		"customer_retention": fin.CustomerRetention,
		"business_age":       float64(businessAge(fin.YearEstablished, time.Now())),
		"risk_factor_count":  float64(len(fin.RiskFactors)),
	}

	if fin.Revenue > 0 {
		features["profit_margin"] = fin.Profit / fin.Revenue
	}
	if fin.Employees > 0 {
		features["revenue_per_employee"] = fin.Revenue / float64(fin.Employees)
	}
	if fin.Assets > 0 {
		features["asset_turnover"] = fin.Revenue / fin.Assets
		features["return_on_assets"] = fin.Profit / fin.Assets
	}

	if industry := strings.ToLower(strings.TrimSpace(fin.Industry)); industry != "" {
		features["industry_"+strings.ReplaceAll(industry, " ", "_")] = 1
	}
	switch c.tables.TierOf(fin.Location) {
	case refdata.Tier1:
		features["location_tier_1"] = 1
	case refdata.Tier2:
		features["location_tier_2"] = 1
	default:
		features["location_tier_other"] = 1
	}

	if len(fin.Certifications) > 0 {
		features["has_certifications"] = 1
	}
	if fin.DigitalPresence {
		features["digital_presence"] = 1
	}
	return features
}
