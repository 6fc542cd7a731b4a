package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debnit/MsmeBazaar-sub003/internal/domain/buyer"
	"github.com/debnit/MsmeBazaar-sub003/internal/domain/listing"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

type stubListingRepo struct {
	byID   map[common.ID]*listing.Listing
	active []*listing.Listing
}

func (r *stubListingRepo) FindByID(_ context.Context, id common.ID) (*listing.Listing, error) {
	if l, ok := r.byID[id]; ok {
		return l, nil
	}
	return nil, errors.New(errors.ErrCodeListingNotFound, "listing not found")
}

func (r *stubListingRepo) FindActive(context.Context) ([]*listing.Listing, error) {
	return r.active, nil
}

type stubBuyerRepo struct {
	byID   map[common.ID]*buyer.Profile
	active []*buyer.Profile
}

func (r *stubBuyerRepo) FindByID(_ context.Context, id common.ID) (*buyer.Profile, error) {
	if b, ok := r.byID[id]; ok {
		return b, nil
	}
	return nil, errors.New(errors.ErrCodeBuyerNotFound, "buyer not found")
}

func (r *stubBuyerRepo) FindActive(context.Context) ([]*buyer.Profile, error) {
	return r.active, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeCacheError, "miss")
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []MatchEvent
}

func (p *capturePublisher) Publish(_ context.Context, _ string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload.(MatchEvent))
	return nil
}

func buyerWithPrefs(name, city string, prefs buyer.Preferences) *buyer.Profile {
	return &buyer.Profile{
		ID:          common.NewID(),
		Name:        name,
		City:        city,
		Active:      true,
		Preferences: prefs,
	}
}

func TestFindMatchesForListingRanksBuyers(t *testing.T) {
	lst := healthyTechListing()

	aligned := buyerWithPrefs("aligned", "Mumbai", alignedBuyerPrefs())
	mismatched := buyerWithPrefs("mismatched", "Delhi", buyer.Preferences{
		PreferredIndustries: []string{"agriculture"},
		Budget:              buyer.BudgetRange{Min: 1_000_000, Max: 5_000_000},
		RiskTolerance:       buyer.RiskLow,
		Timeline:            buyer.TimelineImmediate,
	})

	listings := &stubListingRepo{byID: map[common.ID]*listing.Listing{lst.ID: lst}}
	buyers := &stubBuyerRepo{active: []*buyer.Profile{mismatched, aligned}}

	pub := &capturePublisher{}
	eng := NewEngine(listings, buyers, newTestScorer(), nil, pub, nil, nil, nil)

	results, err := eng.FindMatchesForListing(context.Background(), lst.ID, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, aligned.ID, results[0].BuyerID)
	assert.Equal(t, mismatched.ID, results[1].BuyerID)
	assert.Greater(t, results[0].TotalScore, results[1].TotalScore)
	assert.Equal(t, lst.ID, results[0].ListingID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, lst.ID, pub.events[0].ListingID)
	assert.Equal(t, 2, pub.events[0].Candidates)
	assert.Equal(t, results[0].TotalScore, pub.events[0].TopScore)
}

func TestFindMatchesForListingStableTieOrder(t *testing.T) {
	lst := healthyTechListing()

	// Identical buyers necessarily tie; pool order must be preserved.
	prefs := alignedBuyerPrefs()
	first := buyerWithPrefs("first", "Mumbai", prefs)
	second := buyerWithPrefs("second", "Mumbai", prefs)
	third := buyerWithPrefs("third", "Mumbai", prefs)

	listings := &stubListingRepo{byID: map[common.ID]*listing.Listing{lst.ID: lst}}
	buyers := &stubBuyerRepo{active: []*buyer.Profile{first, second, third}}

	eng := NewEngine(listings, buyers, newTestScorer(), nil, nil, nil, nil, nil)

	for i := 0; i < 5; i++ {
		results, err := eng.FindMatchesForListing(context.Background(), lst.ID, 0)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, first.ID, results[0].BuyerID)
		assert.Equal(t, second.ID, results[1].BuyerID)
		assert.Equal(t, third.ID, results[2].BuyerID)
	}
}

func TestFindMatchesForListingTruncatesToLimit(t *testing.T) {
	lst := healthyTechListing()

	var pool []*buyer.Profile
	for i := 0; i < 25; i++ {
		pool = append(pool, buyerWithPrefs("buyer", "Mumbai", alignedBuyerPrefs()))
	}
	listings := &stubListingRepo{byID: map[common.ID]*listing.Listing{lst.ID: lst}}
	buyers := &stubBuyerRepo{active: pool}

	eng := NewEngine(listings, buyers, newTestScorer(), nil, nil, nil, nil, nil)

	results, err := eng.FindMatchesForListing(context.Background(), lst.ID, 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultEngineConfig().DefaultLimit)

	results, err = eng.FindMatchesForListing(context.Background(), lst.ID, 5)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestFindMatchesForListingNotFound(t *testing.T) {
	eng := NewEngine(&stubListingRepo{}, &stubBuyerRepo{}, newTestScorer(), nil, nil, nil, nil, nil)

	_, err := eng.FindMatchesForListing(context.Background(), common.NewID(), 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeListingNotFound))
}

func TestFindMatchesForListingEmptyPool(t *testing.T) {
	lst := healthyTechListing()
	listings := &stubListingRepo{byID: map[common.ID]*listing.Listing{lst.ID: lst}}

	eng := NewEngine(listings, &stubBuyerRepo{}, newTestScorer(), nil, nil, nil, nil, nil)

	results, err := eng.FindMatchesForListing(context.Background(), lst.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindMatchesForBuyerRanksListings(t *testing.T) {
	good := healthyTechListing()
	bad := &listing.Listing{
		ID:              common.NewID(),
		Industry:        "agriculture",
		Status:          listing.StatusActive,
		AnnualTurnover:  3_000_000,
		NetProfit:       -500_000,
		AskingPrice:     200_000_000,
		EmployeeCount:   3,
		City:            "Patna",
		EstablishedYear: 2025,
		ReadinessLevel:  listing.ReadinessLow,
	}

	b := buyerWithPrefs("buyer", "Mumbai", alignedBuyerPrefs())

	listings := &stubListingRepo{active: []*listing.Listing{bad, good}}
	buyers := &stubBuyerRepo{byID: map[common.ID]*buyer.Profile{b.ID: b}}

	eng := NewEngine(listings, buyers, newTestScorer(), nil, nil, nil, nil, nil)

	results, err := eng.FindMatchesForBuyer(context.Background(), b.ID, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, good.ID, results[0].ListingID)
	assert.Equal(t, bad.ID, results[1].ListingID)
	assert.Equal(t, b.ID, results[0].BuyerID)
}

func TestFindMatchesForBuyerNotFound(t *testing.T) {
	eng := NewEngine(&stubListingRepo{}, &stubBuyerRepo{}, newTestScorer(), nil, nil, nil, nil, nil)

	_, err := eng.FindMatchesForBuyer(context.Background(), common.NewID(), 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBuyerNotFound))
}

func TestFindMatchesCacheRoundTrip(t *testing.T) {
	lst := healthyTechListing()
	b := buyerWithPrefs("buyer", "Mumbai", alignedBuyerPrefs())

	listings := &stubListingRepo{byID: map[common.ID]*listing.Listing{lst.ID: lst}}
	buyers := &stubBuyerRepo{active: []*buyer.Profile{b}}

	cache := newMemCache()
	eng := NewEngine(listings, buyers, newTestScorer(), cache, nil, nil, nil, nil)

	first, err := eng.FindMatchesForListing(context.Background(), lst.ID, 0)
	require.NoError(t, err)

	// Second call must be served from the cache even after the pool changes.
	buyers.active = nil
	second, err := eng.FindMatchesForListing(context.Background(), lst.ID, 0)
	require.NoError(t, err)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].BuyerID, second[0].BuyerID)
	assert.Equal(t, first[0].TotalScore, second[0].TotalScore)
}

func TestNormalizeLimitCapsAtMax(t *testing.T) {
	eng := NewEngine(&stubListingRepo{}, &stubBuyerRepo{}, newTestScorer(), nil, nil, nil, nil, &EngineConfig{
		DefaultLimit: 10,
		MaxLimit:     20,
		Concurrency:  4,
	})

	assert.Equal(t, 10, eng.normalizeLimit(0))
	assert.Equal(t, 10, eng.normalizeLimit(-3))
	assert.Equal(t, 7, eng.normalizeLimit(7))
	assert.Equal(t, 20, eng.normalizeLimit(500))
}

func TestNoopCacheReturnsSharedMiss(t *testing.T) {
	_, err1 := noopCache{}.Get(context.Background(), "match:listing:l1:10")
	_, err2 := noopCache{}.Get(context.Background(), "match:listing:l2:10")

	require.Error(t, err1)
	assert.True(t, errors.IsCode(err1, errors.ErrCodeCacheError))
	assert.Same(t, err1, err2, "disabled cache must not allocate a new error per lookup")
}
