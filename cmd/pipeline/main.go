// cmd/pipeline/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/cache"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/config"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/crosssell"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/forecast"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/pricing"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse/postgres"
	"github.com/ChayanikaArora26/Warehouse-Agent/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newSchemaFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "schema",
		Usage:   "Warehouse schema holding the analytical tables",
		Value:   "whadb",
		EnvVars: []string{"WAREHOUSE_SCHEMA"},
	}
}

func openStore(c *cli.Context) (*postgres.Store, error) {
	db, err := sqlx.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return postgres.NewStoreFromDB(db, c.String("schema")), nil
}

func runForecast(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	rows, err := forecast.NewForecaster(store).Refresh(c.Context, c.Int("horizon"))
	if err != nil {
		return fmt.Errorf("forecast refresh failed: %w", err)
	}
	logger.Log.Info().
		Int("rows", rows).
		Dur("took", time.Since(start)).
		Msg("Forecast table refreshed")
	return nil
}

func runCrossSell(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	crossSellCache, err := cache.NewCrossSellCache(config.Load().Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, skipping cache invalidation")
		crossSellCache = cache.NewNoopCrossSellCache()
	}

	start := time.Now()
	rows, err := crosssell.NewRanker(store, crossSellCache).BuildPairs(c.Context)
	if err != nil {
		return fmt.Errorf("cross-sell pair build failed: %w", err)
	}
	logger.Log.Info().
		Int("rows", rows).
		Dur("took", time.Since(start)).
		Msg("Cross-sell pairs rebuilt")
	return nil
}

func runPricing(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	start := time.Now()
	rows, err := pricing.NewRunner(store).Run(c.Context)
	if err != nil {
		return fmt.Errorf("pricing run failed: %w", err)
	}
	logger.Log.Info().
		Int("rows", rows).
		Dur("took", time.Since(start)).
		Msg("Price recommendations appended")
	return nil
}

// runAll executes the stages in dependency order.
func runAll(c *cli.Context) error {
	for _, stage := range []struct {
		name string
		run  cli.ActionFunc
	}{
		{"forecast", runForecast},
		{"cross-sell", runCrossSell},
		{"pricing", runPricing},
	} {
		logger.Log.Info().Str("stage", stage.name).Msg("Starting pipeline stage")
		if err := stage.run(c); err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	app := &cli.App{
		Name:  "pipeline",
		Usage: "Run the daily warehouse batch stages",
		Commands: []*cli.Command{
			{
				Name:  "forecast",
				Usage: "Refresh the demand forecast table from daily demand history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSchemaFlag(),
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Number of days to project",
						Value: forecast.DefaultHorizonDays,
					},
				},
				Action: runForecast,
			},
			{
				Name:   "cross-sell",
				Usage:  "Rebuild co-purchase pair counts from order items",
				Flags:  []cli.Flag{newDBURLFlag(), newSchemaFlag()},
				Action: runCrossSell,
			},
			{
				Name:   "pricing",
				Usage:  "Append price recommendations from 30-day sales aggregates",
				Flags:  []cli.Flag{newDBURLFlag(), newSchemaFlag()},
				Action: runPricing,
			},
			{
				Name:  "all",
				Usage: "Run every stage in order",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSchemaFlag(),
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Number of days to project",
						Value: forecast.DefaultHorizonDays,
					},
				},
				Action: runAll,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
