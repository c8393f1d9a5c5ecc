// cmd/seed/main.go
package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse/postgres"
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

func newFileFlag(usage, value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "file",
		Usage: usage,
		Value: value,
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

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load CSV extracts into the warehouse input tables",
		Commands: []*cli.Command{
			{
				Name:  "demand",
				Usage: "Load daily demand history (date,sku,picks)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSchemaFlag(),
					newFileFlag("CSV file with daily demand rows", "./data/seeds/daily_demand.csv"),
				},
				Action: seedDemand,
			},
			{
				Name:  "orders",
				Usage: "Load order line items (order_id,sku)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSchemaFlag(),
					newFileFlag("CSV file with order item rows", "./data/seeds/order_items.csv"),
				},
				Action: seedOrders,
			},
			{
				Name:  "sales",
				Usage: "Load sales history (sale_date,product_id,category,unit_price,stock_level,units_sold)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newSchemaFlag(),
					newFileFlag("CSV file with sales history rows", "./data/seeds/sales_history.csv"),
				},
				Action: seedSales,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
