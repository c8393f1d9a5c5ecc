package crosssell

import (
	"context"
	"testing"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse/warehousetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	entries     map[string][]domain.CrossSellSuggestion
	invalidated bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]domain.CrossSellSuggestion)}
}

func (f *fakeCache) Get(_ context.Context, sku string, n int) ([]domain.CrossSellSuggestion, bool, error) {
	s, ok := f.entries[sku]
	return s, ok, nil
}

func (f *fakeCache) Set(_ context.Context, sku string, n int, s []domain.CrossSellSuggestion) error {
	f.entries[sku] = s
	return nil
}

func (f *fakeCache) InvalidateAll(_ context.Context) error {
	f.entries = make(map[string][]domain.CrossSellSuggestion)
	f.invalidated = true
	return nil
}

// pairsFor emulates the warehouse-side ranking over a fixed pair snapshot.
func pairsFor(sku string, n int) []domain.CrossSellSuggestion {
	// Snapshot: (A,B,10), (C,A,7), (A,D,7)
	if sku != "A" {
		return nil
	}
	all := []domain.CrossSellSuggestion{
		{SKU: "B", PairCount: 10},
		{SKU: "C", PairCount: 7}, // ties with D, C first on the secondary key
		{SKU: "D", PairCount: 7},
	}
	if n < len(all) {
		all = all[:n]
	}
	return all
}

func TestTopCrossSellsOrderingIsDeterministic(t *testing.T) {
	store := warehousetest.New()
	var gotQuery string
	store.SelectFn = func(dest interface{}, query string, args ...interface{}) error {
		gotQuery = query
		*dest.(*[]domain.CrossSellSuggestion) = pairsFor(args[0].(string), args[1].(int))
		return nil
	}

	ranker := NewRanker(store, nil)

	first, err := ranker.TopCrossSells(context.Background(), "A", 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "B", first[0].SKU)
	assert.Equal(t, []string{first[1].SKU, first[2].SKU}, []string{"C", "D"})

	// The snapshot ordering is pinned by the secondary sort key in the query.
	assert.Contains(t, gotQuery, "ORDER BY pair_count DESC, suggested_sku ASC")

	second, err := ranker.TopCrossSells(context.Background(), "A", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated calls over the same snapshot must agree")
}

func TestTopCrossSellsUsesCache(t *testing.T) {
	store := warehousetest.New()
	calls := 0
	store.SelectFn = func(dest interface{}, query string, args ...interface{}) error {
		calls++
		*dest.(*[]domain.CrossSellSuggestion) = pairsFor(args[0].(string), args[1].(int))
		return nil
	}

	c := newFakeCache()
	ranker := NewRanker(store, c)

	_, err := ranker.TopCrossSells(context.Background(), "A", 3)
	require.NoError(t, err)
	_, err = ranker.TopCrossSells(context.Background(), "A", 3)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second lookup must come from the cache")
}

func TestTopCrossSellsDefaultsAndValidation(t *testing.T) {
	store := warehousetest.New()
	var gotN int
	store.SelectFn = func(dest interface{}, query string, args ...interface{}) error {
		gotN = args[1].(int)
		return nil
	}

	ranker := NewRanker(store, nil)

	suggestions, err := ranker.TopCrossSells(context.Background(), "Z", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopN, gotN)
	assert.Empty(t, suggestions, "no cross-sell data is a valid empty result")

	_, err = ranker.TopCrossSells(context.Background(), "", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestBuildPairsReplacesTableAndInvalidatesCache(t *testing.T) {
	store := warehousetest.New()
	store.SelectFn = func(dest interface{}, query string, args ...interface{}) error {
		*dest.(*[]domain.CrossSellPair) = []domain.CrossSellPair{
			{SKUA: "A", SKUB: "B", PairCount: 10},
			{SKUA: "A", SKUB: "D", PairCount: 7},
		}
		return nil
	}

	c := newFakeCache()
	c.entries["A"] = []domain.CrossSellSuggestion{{SKU: "stale", PairCount: 1}}

	ranker := NewRanker(store, c)
	n, err := ranker.BuildPairs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	load := store.LastLoad()
	require.NotNil(t, load)
	assert.Equal(t, "cross_sell_pairs", load.Table)
	assert.Equal(t, warehouse.LoadReplace, load.Mode)
	require.Len(t, load.Rows, 2)

	assert.True(t, c.invalidated)
	assert.Empty(t, c.entries)
}
