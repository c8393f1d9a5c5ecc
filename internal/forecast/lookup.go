package forecast

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
)

// ColumnCandidates is the priority order used to locate the forecast value
// column. Upstream loaders have historically written it under several names.
var ColumnCandidates = []string{"predicted_demand", "forecast", "yhat", "demand", "prediction"}

// ResolveColumn picks the first candidate present in the available column set,
// case-insensitively. It returns the column name as it appears in the table.
func ResolveColumn(available []string, candidates []string) (string, bool) {
	for _, cand := range candidates {
		for _, col := range available {
			if strings.EqualFold(col, cand) {
				return col, true
			}
		}
	}
	return "", false
}

// SKUTotal is one row of the 7-day forecast summary.
type SKUTotal struct {
	SKU   string  `db:"sku" json:"sku"`
	Total float64 `db:"total_forecast" json:"total_forecast"`
}

// Point is one day of a single SKU's forecast series.
type Point struct {
	Date  time.Time `db:"date" json:"date"`
	Value float64   `db:"forecast_value" json:"forecast_value"`
}

// Lookup reads the persisted forecast table, tolerating value-column drift.
type Lookup struct {
	store warehouse.Store
}

func NewLookup(store warehouse.Store) *Lookup {
	return &Lookup{store: store}
}

func (l *Lookup) valueColumn(ctx context.Context) (string, error) {
	available, err := l.store.Columns(ctx, forecastTable)
	if err != nil {
		return "", &domain.QueryError{Table: l.store.Qualify(forecastTable), Err: err}
	}
	col, ok := ResolveColumn(available, ColumnCandidates)
	if !ok {
		return "", &domain.SchemaMismatchError{
			Table:      l.store.Qualify(forecastTable),
			Candidates: ColumnCandidates,
			Available:  available,
		}
	}
	return col, nil
}

// Summary totals the next 7 days of forecast per SKU, highest first, top 10.
// An empty result is valid: no forecast data, not an error.
func (l *Lookup) Summary(ctx context.Context) ([]SKUTotal, error) {
	col, err := l.valueColumn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT sku, SUM(%s) AS total_forecast
		FROM %s
		WHERE date BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '7 days'
		GROUP BY sku
		ORDER BY total_forecast DESC
		LIMIT 10
	`, col, l.store.Qualify(forecastTable))

	var totals []SKUTotal
	if err := l.store.Select(ctx, &totals, query); err != nil {
		return nil, &domain.QueryError{Table: l.store.Qualify(forecastTable), Err: err}
	}
	return totals, nil
}

// Series returns up to 7 forecast days for one SKU, ordered by date.
func (l *Lookup) Series(ctx context.Context, sku string) ([]Point, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, fmt.Errorf("%w: sku must not be empty", domain.ErrInvalidRequest)
	}

	col, err := l.valueColumn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT date, %s AS forecast_value
		FROM %s
		WHERE sku = $1
		ORDER BY date
		LIMIT 7
	`, col, l.store.Qualify(forecastTable))

	var points []Point
	if err := l.store.Select(ctx, &points, query, sku); err != nil {
		return nil, &domain.QueryError{Table: l.store.Qualify(forecastTable), Err: err}
	}
	return points, nil
}
