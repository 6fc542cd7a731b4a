package valuation

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Methodology selection thresholds.  These are policy constants with
// product sign-off; tests pin them because changing either one materially
// changes which estimate a caller receives.
const (
	// mlConfidenceThreshold is the minimum ML confidence to use the ML
	// valuation directly.
	mlConfidenceThreshold = 0.5

	// hybridConfidenceFloor is the minimum ML confidence to blend the ML
	// valuation into the heuristic result.  Below it the ML answer is
	// discarded entirely.
	hybridConfidenceFloor = 0.3
)

// maxRecommendations caps the merged recommendation list.
const maxRecommendations = 5

// Cache stores finished valuations keyed by input hash.  Nil-safe via
// no-op substitution in NewOrchestrator.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher emits valuation-completed events.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// Metrics records valuation metrics, including the observable ML health
// gauge.
type Metrics interface {
	IncCounter(name string, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// NopMetrics discards all metrics.
type NopMetrics struct{}

func (NopMetrics) IncCounter(string, map[string]string)                {}
func (NopMetrics) SetGauge(string, float64, map[string]string)         {}
func (NopMetrics) ObserveHistogram(string, float64, map[string]string) {}

// errCacheMiss is the fixed miss result for a disabled cache, so requests do
// not pay for a fresh stack capture on every lookup.
var errCacheMiss = errors.New(errors.ErrCodeCacheError, "cache miss")

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, error) {
	return nil, errCacheMiss
}
func (nopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Orchestrator runs the per-request valuation decision tree: try ML, then
// fall back to or blend with the heuristic depending on the model's
// confidence.
type Orchestrator struct {
	ml        MLClient
	heuristic *Heuristic
	tables    *refdata.Tables
	cache     Cache
	events    EventPublisher
	metrics   Metrics
	logger    logging.Logger
	cacheTTL  time.Duration
	now       func() time.Time
}

// OrchestratorOptions configures an Orchestrator.  ML may be nil, in which
// case every request takes the heuristic path.
type OrchestratorOptions struct {
	ML       MLClient
	Tables   *refdata.Tables
	Cache    Cache
	Events   EventPublisher
	Metrics  Metrics
	Logger   logging.Logger
	CacheTTL time.Duration
}

// NewOrchestrator constructs a valuation Orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	if opts.Tables == nil {
		opts.Tables = refdata.Default()
	}
	if opts.Cache == nil {
		opts.Cache = nopCache{}
	}
	if opts.Events == nil {
		opts.Events = nopPublisher{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &Orchestrator{
		ml:        opts.ML,
		heuristic: NewHeuristic(opts.Tables),
		tables:    opts.Tables,
		cache:     opts.Cache,
		events:    opts.Events,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		cacheTTL:  opts.CacheTTL,
		now:       time.Now,
	}
}

// Valuate produces the final valuation for one business.  ML failures are
// recovered locally and never surface to the caller; the only error paths
// are a nil input and internal serialization faults.
func (o *Orchestrator) Valuate(ctx context.Context, fin *BusinessFinancials) (*ValuationResult, error) {
	start := time.Now()
	defer func() {
		o.metrics.ObserveHistogram("valuation_duration_seconds", time.Since(start).Seconds(), nil)
	}()

	if fin == nil {
		return nil, errors.New(errors.ErrCodeFinancialsInvalid, "business financials are required")
	}

	cacheKey := valuationCacheKey(fin)
	if cached := o.readCached(ctx, cacheKey); cached != nil {
		o.metrics.IncCounter("valuation_cache_hits_total", nil)
		return cached, nil
	}

	now := o.now()
	pred := o.predict(ctx, fin)
	riskScore, riskRecs := AssessRisk(fin, o.tables, now)

	var result *ValuationResult
	switch {
	case pred != nil && pred.Confidence >= mlConfidenceThreshold:
		result = o.mlResult(pred, riskRecs)
	case pred != nil && pred.Confidence >= hybridConfidenceFloor:
		result = o.hybridResult(fin, pred, riskRecs)
	default:
		result = o.heuristicResult(fin, riskRecs)
	}

	result.RiskScore = riskScore
	result.Valuation = math.Round(result.Valuation)
	result.Sensitivity = o.sensitivity(fin, result.Valuation)
	result.Timestamp = now

	o.writeCached(ctx, cacheKey, result)
	o.publishEvent(ctx, fin, result)
	o.metrics.IncCounter("valuations_total", map[string]string{"methodology": string(result.Methodology)})
	return result, nil
}

// predict calls the ML service and swallows every failure; a valuation
// request must not fail because the model is down.
func (o *Orchestrator) predict(ctx context.Context, fin *BusinessFinancials) *MLPrediction {
	if o.ml == nil {
		return nil
	}
	pred, err := o.ml.Predict(ctx, fin)
	if err != nil {
		o.logger.Info("ml prediction unavailable, using heuristic path", logging.Err(err))
		return nil
	}
	return pred
}

func (o *Orchestrator) mlResult(pred *MLPrediction, riskRecs []string) *ValuationResult {
	return &ValuationResult{
		Valuation:       pred.Valuation,
		Confidence:      pred.Confidence,
		Methodology:     MethodologyML,
		Breakdown:       splitMLBreakdown(pred.Valuation),
		Recommendations: capRecommendations(riskRecs),
		ModelVersion:    pred.ModelVersion,
	}
}

func (o *Orchestrator) hybridResult(fin *BusinessFinancials, pred *MLPrediction, riskRecs []string) *ValuationResult {
	est := o.heuristic.Valuate(fin)

	breakdown := est.Breakdown
	breakdown.MarketAdjustment = pred.Valuation * 0.3

	return &ValuationResult{
		Valuation:       hybridValuation(pred.Valuation, pred.Confidence, est.Valuation),
		Confidence:      hybridConfidence(pred.Confidence, est.Confidence),
		Methodology:     MethodologyHybrid,
		Breakdown:       breakdown,
		Recommendations: mergeRecommendations(mlRecommendations(pred), riskRecs),
		ModelVersion:    pred.ModelVersion,
	}
}

func (o *Orchestrator) heuristicResult(fin *BusinessFinancials, riskRecs []string) *ValuationResult {
	est := o.heuristic.Valuate(fin)
	return &ValuationResult{
		Valuation:       est.Valuation,
		Confidence:      est.Confidence,
		Methodology:     MethodologyHeuristic,
		Breakdown:       est.Breakdown,
		Recommendations: capRecommendations(riskRecs),
	}
}

// hybridValuation weights the ML estimate by its own confidence and fills
// the remainder with the heuristic estimate.
func hybridValuation(mlValuation, mlConfidence, heuristicValuation float64) float64 {
	return mlValuation*mlConfidence + heuristicValuation*(1-mlConfidence)
}

// hybridConfidence is the plain average of the two source confidences.
func hybridConfidence(mlConfidence, heuristicConfidence float64) float64 {
	return (mlConfidence + heuristicConfidence) / 2
}

// splitMLBreakdown fabricates a four-bucket breakdown from an opaque ML
// total.  The 30/40/20/10 split is a display heuristic, not a property of
// the model; keep every caller going through this one function so the split
// can be revised in one place.
func splitMLBreakdown(total float64) Breakdown {
	return Breakdown{
		AssetValue:       total * 0.30,
		EarningsMultiple: total * 0.40,
		MarketAdjustment: total * 0.20,
		RiskAdjustment:   total * 0.10,
	}
}

// mlRecommendations derives advisory text from the model's feature
// importances, most influential feature first.
func mlRecommendations(pred *MLPrediction) []string {
	if len(pred.FeaturesImportance) == 0 {
		return nil
	}
	type feat struct {
		name       string
		importance float64
	}
	feats := make([]feat, 0, len(pred.FeaturesImportance))
	for name, imp := range pred.FeaturesImportance {
		feats = append(feats, feat{name, imp})
	}
	sort.Slice(feats, func(i, j int) bool {
		if feats[i].importance != feats[j].importance {
			return feats[i].importance > feats[j].importance
		}
		return feats[i].name < feats[j].name
	})
	if len(feats) > 2 {
		feats = feats[:2]
	}
	out := make([]string, 0, len(feats))
	for _, f := range feats {
		out = append(out, fmt.Sprintf("Valuation model weights %s heavily; improvements there move the estimate most.", f.name))
	}
	return out
}

// mergeRecommendations concatenates ML-derived recommendations ahead of the
// risk-derived ones and caps the total.
func mergeRecommendations(mlRecs, riskRecs []string) []string {
	merged := make([]string, 0, len(mlRecs)+len(riskRecs))
	merged = append(merged, mlRecs...)
	merged = append(merged, riskRecs...)
	return capRecommendations(merged)
}

func capRecommendations(recs []string) []string {
	if len(recs) > maxRecommendations {
		return recs[:maxRecommendations]
	}
	return recs
}

// sensitivity re-runs the heuristic with perturbed inputs and applies the
// relative movement to the final valuation, whatever methodology produced
// it.
func (o *Orchestrator) sensitivity(fin *BusinessFinancials, finalValuation float64) []SensitivityScenario {
	base := o.heuristic.Valuate(fin).Valuation
	if base <= 0 || finalValuation <= 0 {
		return nil
	}

	scenarios := []struct {
		name   string
		mutate func(f BusinessFinancials) BusinessFinancials
	}{
		{"revenue +10%", func(f BusinessFinancials) BusinessFinancials { f.Revenue *= 1.1; return f }},
		{"revenue -10%", func(f BusinessFinancials) BusinessFinancials { f.Revenue *= 0.9; return f }},
		{"profit +10%", func(f BusinessFinancials) BusinessFinancials { f.Profit *= 1.1; return f }},
		{"profit -10%", func(f BusinessFinancials) BusinessFinancials { f.Profit *= 0.9; return f }},
	}

	out := make([]SensitivityScenario, 0, len(scenarios))
	for _, s := range scenarios {
		perturbed := s.mutate(*fin)
		ratio := o.heuristic.Valuate(&perturbed).Valuation / base
		out = append(out, SensitivityScenario{
			Name:      s.name,
			Valuation: math.Round(finalValuation * ratio),
			DeltaPct:  math.Round((ratio-1)*10000) / 100,
		})
	}
	return out
}

// valuationCacheKey hashes the canonical JSON form of the input.
func valuationCacheKey(fin *BusinessFinancials) string {
	data, err := json.Marshal(fin)
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	h.Write(data)
	return fmt.Sprintf("valuation:%x", h.Sum64())
}

func (o *Orchestrator) readCached(ctx context.Context, key string) *ValuationResult {
	if key == "" {
		return nil
	}
	data, err := o.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return nil
	}
	var out ValuationResult
	if json.Unmarshal(data, &out) != nil {
		return nil
	}
	return &out
}

func (o *Orchestrator) writeCached(ctx context.Context, key string, result *ValuationResult) {
	if key == "" {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := o.cache.Set(ctx, key, data, o.cacheTTL); err != nil {
		o.logger.Warn("valuation cache write failed", logging.String("key", key), logging.Err(err))
	}
}

func (o *Orchestrator) publishEvent(ctx context.Context, fin *BusinessFinancials, result *ValuationResult) {
	evt := ValuationEvent{
		EventID:     common.NewID(),
		Industry:    fin.Industry,
		Location:    fin.Location,
		Valuation:   result.Valuation,
		Confidence:  result.Confidence,
		Methodology: result.Methodology,
		RiskScore:   result.RiskScore,
		OccurredAt:  result.Timestamp,
	}
	if err := o.events.Publish(ctx, string(evt.EventID), evt); err != nil {
		o.logger.Warn("valuation event publish failed", logging.Err(err))
	}
}
