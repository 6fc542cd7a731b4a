package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/debnit/MsmeBazaar-sub003/internal/domain/buyer"
	"github.com/debnit/MsmeBazaar-sub003/internal/domain/listing"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Cache is the minimal cache adapter the engine needs.  A nil Cache is
// replaced with a no-op implementation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// MetricsCollector records operational metrics for the engine.
type MetricsCollector interface {
	IncCounter(name string, labels map[string]string)
	ObserveHistogram(name string, value float64, labels map[string]string)
}

// EventPublisher emits match-completed events to the message bus.  Publish
// failures are logged and never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// errCacheMiss is the fixed miss result for a disabled cache, so requests do
// not pay for a fresh stack capture on every lookup.
var errCacheMiss = errors.New(errors.ErrCodeCacheError, "cache miss")

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, error) {
	return nil, errCacheMiss
}
func (noopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

type noopMetrics struct{}

func (noopMetrics) IncCounter(string, map[string]string)                {}
func (noopMetrics) ObserveHistogram(string, float64, map[string]string) {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// EngineConfig holds matchmaking tunables.
type EngineConfig struct {
	DefaultLimit int
	MaxLimit     int
	Concurrency  int
	CacheTTL     time.Duration
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		DefaultLimit: 10,
		MaxLimit:     100,
		Concurrency:  10,
		CacheTTL:     10 * time.Minute,
	}
}

// MatchEvent is the payload published after a matchmaking run.
type MatchEvent struct {
	EventID    common.ID `json:"event_id"`
	ListingID  common.ID `json:"listing_id,omitempty"`
	BuyerID    common.ID `json:"buyer_id,omitempty"`
	Candidates int       `json:"candidates"`
	Returned   int       `json:"returned"`
	TopScore   int       `json:"top_score"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Engine fans the scorer out over a candidate pool and returns the top-N
// ranked matches.  Each call is independent and side-effect-free aside from
// reads through the repositories and best-effort cache/event writes.
type Engine struct {
	listings listing.Repository
	buyers   buyer.Repository
	scorer   *Scorer
	cache    Cache
	events   EventPublisher
	metrics  MetricsCollector
	logger   logging.Logger
	cfg      *EngineConfig
}

// NewEngine constructs a matchmaking Engine.  cache, events, and metrics may
// be nil; they default to no-op implementations.
func NewEngine(
	listings listing.Repository,
	buyers buyer.Repository,
	scorer *Scorer,
	cache Cache,
	events EventPublisher,
	metrics MetricsCollector,
	logger logging.Logger,
	cfg *EngineConfig,
) *Engine {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cache == nil {
		cache = noopCache{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		listings: listings,
		buyers:   buyers,
		scorer:   scorer,
		cache:    cache,
		events:   events,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// FindMatchesForListing ranks all active buyers against one listing and
// returns the top matches.  limit <= 0 selects the configured default.
func (e *Engine) FindMatchesForListing(ctx context.Context, listingID common.ID, limit int) ([]*Result, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveHistogram("match_find_duration_seconds", time.Since(start).Seconds(),
			map[string]string{"side": "listing"})
	}()

	limit = e.normalizeLimit(limit)

	cacheKey := fmt.Sprintf("match:listing:%s:%d", listingID, limit)
	if cached := e.readCached(ctx, cacheKey); cached != nil {
		e.metrics.IncCounter("match_cache_hits_total", map[string]string{"side": "listing"})
		return cached, nil
	}

	lst, err := e.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeListingNotFound,
			fmt.Sprintf("listing %s not found", listingID))
	}

	pool, err := e.buyers.FindActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "load buyer pool")
	}

	results := make([]*Result, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, b := range pool {
		i, b := i, b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := e.scorer.Score(lst, b.City, b.Preferences)
			r.BuyerID = b.ID
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "score buyer pool")
	}

	ranked := rankAndTruncate(results, limit)
	e.writeCached(ctx, cacheKey, ranked)
	e.publishEvent(ctx, MatchEvent{
		EventID:    common.NewID(),
		ListingID:  listingID,
		Candidates: len(pool),
		Returned:   len(ranked),
		TopScore:   topScore(ranked),
		OccurredAt: time.Now(),
	})
	e.metrics.IncCounter("match_requests_total", map[string]string{"side": "listing"})
	return ranked, nil
}

// FindMatchesForBuyer ranks all active listings against one buyer's saved
// preferences and returns the top matches.
func (e *Engine) FindMatchesForBuyer(ctx context.Context, buyerID common.ID, limit int) ([]*Result, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveHistogram("match_find_duration_seconds", time.Since(start).Seconds(),
			map[string]string{"side": "buyer"})
	}()

	limit = e.normalizeLimit(limit)

	cacheKey := fmt.Sprintf("match:buyer:%s:%d", buyerID, limit)
	if cached := e.readCached(ctx, cacheKey); cached != nil {
		e.metrics.IncCounter("match_cache_hits_total", map[string]string{"side": "buyer"})
		return cached, nil
	}

	b, err := e.buyers.FindByID(ctx, buyerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBuyerNotFound,
			fmt.Sprintf("buyer %s not found", buyerID))
	}

	pool, err := e.listings.FindActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "load listing pool")
	}

	results := make([]*Result, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, lst := range pool {
		i, lst := i, lst
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := e.scorer.Score(lst, b.City, b.Preferences)
			r.BuyerID = b.ID
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "score listing pool")
	}

	ranked := rankAndTruncate(results, limit)
	e.writeCached(ctx, cacheKey, ranked)
	e.publishEvent(ctx, MatchEvent{
		EventID:    common.NewID(),
		BuyerID:    buyerID,
		Candidates: len(pool),
		Returned:   len(ranked),
		TopScore:   topScore(ranked),
		OccurredAt: time.Now(),
	})
	e.metrics.IncCounter("match_requests_total", map[string]string{"side": "buyer"})
	return ranked, nil
}

func (e *Engine) normalizeLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if e.cfg.MaxLimit > 0 && limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// rankAndTruncate sorts descending by score with a stable sort, so candidates
// that tie keep their first-seen pool order, then truncates to limit.
func rankAndTruncate(results []*Result, limit int) []*Result {
	ranked := make([]*Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func topScore(ranked []*Result) int {
	if len(ranked) == 0 {
		return 0
	}
	return ranked[0].TotalScore
}

func (e *Engine) readCached(ctx context.Context, key string) []*Result {
	data, err := e.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return nil
	}
	var out []*Result
	if json.Unmarshal(data, &out) != nil {
		return nil
	}
	return out
}

func (e *Engine) writeCached(ctx context.Context, key string, results []*Result) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data, e.cfg.CacheTTL); err != nil {
		e.logger.Warn("match cache write failed", logging.String("key", key), logging.Err(err))
	}
}

func (e *Engine) publishEvent(ctx context.Context, evt MatchEvent) {
	if err := e.events.Publish(ctx, string(evt.EventID), evt); err != nil {
		e.logger.Warn("match event publish failed", logging.Err(err))
	}
}
