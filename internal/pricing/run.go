package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
	"github.com/rs/zerolog/log"
)

const (
	salesTable          = "sales_history"
	recommendationTable = "price_recommendation"
)

type Runner struct {
	store warehouse.Store
	now   func() time.Time
}

func NewRunner(store warehouse.Store) *Runner {
	return &Runner{store: store, now: time.Now}
}

// Run scores every product sold in the last 30 days and appends one
// recommendation row per product. The table accumulates history across runs;
// readers wanting the current view should use Latest.
func (r *Runner) Run(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`
		SELECT
			product_id,
			AVG(unit_price) AS avg_price,
			AVG(units_sold) AS avg_sold,
			AVG(stock_level) AS avg_stock,
			MAX(category) AS category
		FROM %s
		WHERE sale_date >= CURRENT_DATE - INTERVAL '30 days'
		GROUP BY product_id
	`, r.store.Qualify(salesTable))

	var aggregates []domain.SalesAggregate
	if err := r.store.Select(ctx, &aggregates, query); err != nil {
		return 0, &domain.QueryError{Table: r.store.Qualify(salesTable), Err: err}
	}

	if len(aggregates) == 0 {
		log.Info().Msg("no pricing recommendations: sales_history has no recent rows")
		return 0, nil
	}

	now := r.now().UTC()
	rows := make([][]interface{}, len(aggregates))
	for i, agg := range aggregates {
		score := DemandScore(agg.AvgSold, agg.AvgStock)
		rows[i] = []interface{}{
			agg.ProductID,
			AdjustPrice(agg.AvgPrice, score),
			Confidence(score),
			now,
			fmt.Sprintf("demand score %.2f, adjusted from %.2f", score, agg.AvgPrice),
		}
	}

	err := r.store.InsertRows(ctx, recommendationTable,
		[]string{"product_id", "recommended_price", "confidence_score", "last_updated", "reason"}, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to append to %s: %w", r.store.Qualify(recommendationTable), err)
	}

	log.Info().Int("products", len(rows)).Msg("price recommendations appended")
	return len(rows), nil
}

// Latest returns the most recent recommendation for one product, or nil when
// no run has covered it yet.
func (r *Runner) Latest(ctx context.Context, productID string) (*domain.PriceRecommendation, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: product id must not be empty", domain.ErrInvalidRequest)
	}

	query := fmt.Sprintf(`
		SELECT product_id, recommended_price, confidence_score, last_updated, reason
		FROM %s
		WHERE product_id = $1
		ORDER BY last_updated DESC
		LIMIT 1
	`, r.store.Qualify(recommendationTable))

	var rec domain.PriceRecommendation
	err := r.store.Get(ctx, &rec, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.QueryError{Table: r.store.Qualify(recommendationTable), Err: err}
	}
	return &rec, nil
}
