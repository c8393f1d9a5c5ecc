// Package crosssell ranks complementary SKUs by order co-occurrence and
// rebuilds the pair table from order history.
package crosssell

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/cache"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
	"github.com/rs/zerolog/log"
)

const (
	pairsTable      = "cross_sell_pairs"
	orderItemsTable = "order_items"

	// DefaultTopN bounds a suggestion list when the caller does not say.
	DefaultTopN = 3
)

type Ranker struct {
	store warehouse.Store
	cache cache.CrossSellCache
}

func NewRanker(store warehouse.Store, cacheImpl cache.CrossSellCache) *Ranker {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopCrossSellCache()
	}
	return &Ranker{store: store, cache: cacheImpl}
}

// TopCrossSells returns up to n SKUs that co-occur with sku, most frequent
// first. The pair relation is undirected, so sku may sit in either slot. Ties
// break on the suggested SKU so the ordering is stable for a given snapshot.
// An empty result is valid: no cross-sell data, not an error.
func (r *Ranker) TopCrossSells(ctx context.Context, sku string, n int) ([]domain.CrossSellSuggestion, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku must not be empty", domain.ErrInvalidRequest)
	}
	if n <= 0 {
		n = DefaultTopN
	}

	if cached, ok, err := r.cache.Get(ctx, sku, n); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("cross-sell: cache get failed")
	}

	query := fmt.Sprintf(`
		SELECT
			CASE WHEN sku_a = $1 THEN sku_b ELSE sku_a END AS suggested_sku,
			pair_count
		FROM %s
		WHERE sku_a = $1 OR sku_b = $1
		ORDER BY pair_count DESC, suggested_sku ASC
		LIMIT $2
	`, r.store.Qualify(pairsTable))

	var suggestions []domain.CrossSellSuggestion
	if err := r.store.Select(ctx, &suggestions, query, sku, n); err != nil {
		return nil, &domain.QueryError{Table: r.store.Qualify(pairsTable), Err: err}
	}

	if err := r.cache.Set(ctx, sku, n, suggestions); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("cross-sell: cache set failed")
	}

	return suggestions, nil
}

// BuildPairs recomputes co-occurrence counts from order_items and replaces the
// pair table. Pairs are stored once with sku_a < sku_b.
func (r *Ranker) BuildPairs(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`
		SELECT a.sku AS sku_a, b.sku AS sku_b, COUNT(*) AS pair_count
		FROM %[1]s a
		JOIN %[1]s b ON a.order_id = b.order_id AND a.sku < b.sku
		GROUP BY a.sku, b.sku
	`, r.store.Qualify(orderItemsTable))

	var pairs []domain.CrossSellPair
	if err := r.store.Select(ctx, &pairs, query); err != nil {
		return 0, &domain.QueryError{Table: r.store.Qualify(orderItemsTable), Err: err}
	}

	rows := make([][]interface{}, len(pairs))
	for i, p := range pairs {
		rows[i] = []interface{}{p.SKUA, p.SKUB, p.PairCount}
	}

	err := r.store.BulkLoad(ctx, pairsTable, warehouse.LoadReplace,
		[]string{"sku_a", "sku_b", "pair_count"}, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", r.store.Qualify(pairsTable), err)
	}

	if err := r.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("cross-sell: cache invalidation failed")
	}

	log.Info().Int("pairs", len(pairs)).Msg("cross-sell pair table replaced")
	return len(pairs), nil
}
