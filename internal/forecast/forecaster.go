// Package forecast projects per-SKU demand from the daily_demand table and
// serves read-side lookups over the persisted forecast.
package forecast

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
	"github.com/rs/zerolog/log"
)

const (
	demandTable   = "daily_demand"
	forecastTable = "demand_forecast"

	// DefaultHorizonDays is how far forward a refresh projects.
	DefaultHorizonDays = 7

	fitWorkers = 4
)

type Forecaster struct {
	store warehouse.Store
}

func NewForecaster(store warehouse.Store) *Forecaster {
	return &Forecaster{store: store}
}

// Refresh fits a model per SKU present in daily_demand and replaces the whole
// demand_forecast table with the union of the projections. SKUs without
// history are skipped; an empty history yields zero rows and no error.
// Incremental update is deliberately unsupported so forecast vintages never mix.
func (f *Forecaster) Refresh(ctx context.Context, horizonDays int) (int, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	query := fmt.Sprintf(`SELECT date, sku, picks FROM %s`, f.store.Qualify(demandTable))

	var history []domain.DemandObservation
	if err := f.store.Select(ctx, &history, query); err != nil {
		return 0, &domain.QueryError{Table: f.store.Qualify(demandTable), Err: err}
	}

	records := Project(history, horizonDays)
	if len(records) == 0 {
		log.Info().Msg("no forecasts generated: demand history is empty")
		return 0, nil
	}

	rows := make([][]interface{}, len(records))
	for i, r := range records {
		rows[i] = []interface{}{r.Date, r.SKU, r.PredictedDemand}
	}

	err := f.store.BulkLoad(ctx, forecastTable, warehouse.LoadReplace,
		[]string{"date", "sku", "predicted_demand"}, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", f.store.Qualify(forecastTable), err)
	}

	log.Info().Int("rows", len(records)).Int("horizon_days", horizonDays).Msg("forecast table replaced")
	return len(records), nil
}

// Project aggregates picks per (SKU, date) and projects horizonDays forward
// for every SKU with at least one observation. It is pure apart from clock-free
// date arithmetic, so it can be tested without a store.
func Project(history []domain.DemandObservation, horizonDays int) []domain.ForecastRecord {
	bySKU := make(map[string]map[time.Time]int)
	for _, obs := range history {
		day := obs.Date.Truncate(24 * time.Hour)
		if bySKU[obs.SKU] == nil {
			bySKU[obs.SKU] = make(map[time.Time]int)
		}
		bySKU[obs.SKU][day] += obs.Picks
	}

	skus := make([]string, 0, len(bySKU))
	for sku := range bySKU {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var (
		mu      sync.Mutex
		records []domain.ForecastRecord
		wg      sync.WaitGroup
	)

	jobs := make(chan string, len(skus))
	for i := 0; i < fitWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sku := range jobs {
				recs := projectSKU(sku, bySKU[sku], horizonDays)
				mu.Lock()
				records = append(records, recs...)
				mu.Unlock()
			}
		}()
	}
	for _, sku := range skus {
		jobs <- sku
	}
	close(jobs)
	wg.Wait()

	// Deterministic output order regardless of worker interleaving.
	sort.Slice(records, func(i, j int) bool {
		if records[i].SKU != records[j].SKU {
			return records[i].SKU < records[j].SKU
		}
		return records[i].Date.Before(records[j].Date)
	})

	return records
}

func projectSKU(sku string, byDate map[time.Time]int, horizonDays int) []domain.ForecastRecord {
	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := make([]float64, len(dates))
	for i, d := range dates {
		series[i] = float64(byDate[d])
	}

	values, margin := project(series, horizonDays)
	log.Debug().Str("sku", sku).Float64("band_95", margin).Msg("fitted demand series")

	last := dates[len(dates)-1]
	records := make([]domain.ForecastRecord, horizonDays)
	for h := 0; h < horizonDays; h++ {
		records[h] = domain.ForecastRecord{
			Date:            last.AddDate(0, 0, h+1),
			SKU:             sku,
			PredictedDemand: values[h],
		}
	}
	return records
}
