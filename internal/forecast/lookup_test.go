package forecast

import (
	"context"
	"strings"
	"testing"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse/warehousetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
		found     bool
	}{
		{"first candidate wins", []string{"date", "sku", "predicted_demand", "yhat"}, "predicted_demand", true},
		{"falls back down the list", []string{"date", "sku", "yhat"}, "yhat", true},
		{"case insensitive", []string{"DATE", "SKU", "YHAT"}, "YHAT", true},
		{"none match", []string{"date", "sku", "value"}, "", false},
		{"empty table", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveColumn(tt.available, ColumnCandidates)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummaryUsesResolvedColumn(t *testing.T) {
	store := warehousetest.New()
	store.Cols["demand_forecast"] = []string{"date", "sku", "yhat"}

	var gotQuery string
	store.SelectFn = func(dest interface{}, query string, args ...interface{}) error {
		gotQuery = query
		totals := dest.(*[]SKUTotal)
		*totals = []SKUTotal{{SKU: "A", Total: 120.4}}
		return nil
	}

	lookup := NewLookup(store)
	totals, err := lookup.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Contains(t, gotQuery, "SUM(yhat)")
}

func TestSummarySchemaMismatch(t *testing.T) {
	store := warehousetest.New()
	store.Cols["demand_forecast"] = []string{"date", "sku", "value"}

	lookup := NewLookup(store)
	_, err := lookup.Summary(context.Background())
	require.Error(t, err)

	var mismatch *domain.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "demand_forecast", mismatch.Table)
	assert.Contains(t, mismatch.Error(), "value")
}

func TestSeriesBindsSKU(t *testing.T) {
	store := warehousetest.New()
	store.Cols["demand_forecast"] = []string{"date", "sku", "predicted_demand"}

	var gotArgs []interface{}
	store.SelectFn = func(dest interface{}, query string, args ...interface{}) error {
		gotArgs = args
		assert.False(t, strings.Contains(query, "SKU9"), "sku must be a bound parameter, not interpolated")
		return nil
	}

	lookup := NewLookup(store)
	_, err := lookup.Series(context.Background(), "SKU9")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"SKU9"}, gotArgs)
}

func TestSeriesRejectsEmptySKU(t *testing.T) {
	lookup := NewLookup(warehousetest.New())
	_, err := lookup.Series(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
