package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse/warehousetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestFitLinearRecoversTrend(t *testing.T) {
	// y = 2x + 1, exactly
	slope, intercept := fitLinear([]float64{1, 3, 5, 7, 9})
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 1.0, intercept, 1e-9)
	assert.InDelta(t, 0.0, residualStd([]float64{1, 3, 5, 7, 9}, slope, intercept), 1e-9)
}

func TestFitLinearDegenerateSeries(t *testing.T) {
	slope, intercept := fitLinear([]float64{42})
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 42.0, intercept)

	slope, intercept = fitLinear(nil)
	assert.Equal(t, 0.0, slope)
	assert.Equal(t, 0.0, intercept)
}

func TestProjectClampsNegativeDemand(t *testing.T) {
	// Steeply falling series goes below zero within the horizon.
	values, _ := project([]float64{30, 20, 10}, 5)
	require.Len(t, values, 5)
	assert.InDelta(t, 0.0, values[4], 1e-9)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestProjectAggregatesAndContinuesFromLastDate(t *testing.T) {
	history := []domain.DemandObservation{
		{Date: day(1), SKU: "A", Picks: 10},
		{Date: day(1), SKU: "A", Picks: 5}, // same day, summed
		{Date: day(2), SKU: "A", Picks: 20},
		{Date: day(3), SKU: "A", Picks: 25},
		{Date: day(2), SKU: "B", Picks: 7},
	}

	records := Project(history, 3)
	require.Len(t, records, 6) // 2 SKUs x 3 days

	// Sorted by SKU then date; SKU A continues from July 3.
	assert.Equal(t, "A", records[0].SKU)
	assert.Equal(t, day(4), records[0].Date)
	assert.Equal(t, day(6), records[2].Date)
	assert.Equal(t, "B", records[3].SKU)
	assert.Equal(t, day(3), records[3].Date)

	// Flat single-point history projects that value forward.
	assert.InDelta(t, 7.0, records[3].PredictedDemand, 1e-9)
}

func TestProjectEmptyHistory(t *testing.T) {
	assert.Empty(t, Project(nil, 7))
}

func TestRefreshReplacesForecastTable(t *testing.T) {
	store := warehousetest.New()
	run := 0
	store.SelectFn = func(dest interface{}, query string, args ...interface{}) error {
		run++
		obs := dest.(*[]domain.DemandObservation)
		*obs = []domain.DemandObservation{
			{Date: day(run), SKU: "A", Picks: 10 * run},
		}
		return nil
	}

	f := NewForecaster(store)

	n, err := f.Refresh(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = f.Refresh(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	// Both refreshes were full replacements; after the second run only the
	// second run's rows remain on the table.
	require.Len(t, store.Loads, 2)
	for _, load := range store.Loads {
		assert.Equal(t, "demand_forecast", load.Table)
		assert.Equal(t, warehouse.LoadReplace, load.Mode)
	}
	last := store.LastLoad()
	require.Len(t, last.Rows, 7)
	assert.Equal(t, 20.0, last.Rows[0][2], "second run projects from the second run's history")
}

func TestRefreshEmptyHistoryIsNotAnError(t *testing.T) {
	store := warehousetest.New()
	f := NewForecaster(store)

	n, err := f.Refresh(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.Loads, "nothing to load when history is empty")
}
