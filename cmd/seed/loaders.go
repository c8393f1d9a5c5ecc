// cmd/seed/loaders.go
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
)

const dateLayout = "2006-01-02"

// Column sets match what the batch readers select from each table.
var (
	demandColumns = []string{"date", "sku", "picks"}
	orderColumns  = []string{"order_id", "sku"}
	salesColumns  = []string{"sale_date", "product_id", "category", "unit_price", "stock_level", "units_sold"}
)

// readCSV reads every record after the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func loadDemand(ctx context.Context, store warehouse.Store, path string) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(records))
	for i, record := range records {
		if len(record) < 3 {
			return 0, fmt.Errorf("daily demand row %d: expected 3 columns, got %d", i+1, len(record))
		}
		date, err := time.Parse(dateLayout, record[0])
		if err != nil {
			return 0, fmt.Errorf("daily demand row %d: bad date %q: %w", i+1, record[0], err)
		}
		picks, err := strconv.Atoi(record[2])
		if err != nil {
			return 0, fmt.Errorf("daily demand row %d: bad picks %q: %w", i+1, record[2], err)
		}
		rows = append(rows, []interface{}{date, record[1], picks})
	}

	if err := store.BulkLoad(ctx, "daily_demand", warehouse.LoadReplace, demandColumns, rows); err != nil {
		return 0, fmt.Errorf("failed to load daily demand: %w", err)
	}
	return len(rows), nil
}

func loadOrders(ctx context.Context, store warehouse.Store, path string) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return 0, fmt.Errorf("order item row %d: expected 2 columns, got %d", i+1, len(record))
		}
		rows = append(rows, []interface{}{record[0], record[1]})
	}

	if err := store.BulkLoad(ctx, "order_items", warehouse.LoadReplace, orderColumns, rows); err != nil {
		return 0, fmt.Errorf("failed to load order items: %w", err)
	}
	return len(rows), nil
}

func loadSales(ctx context.Context, store warehouse.Store, path string) (int, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(records))
	for i, record := range records {
		if len(record) < 6 {
			return 0, fmt.Errorf("sales row %d: expected 6 columns, got %d", i+1, len(record))
		}
		saleDate, err := time.Parse(dateLayout, record[0])
		if err != nil {
			return 0, fmt.Errorf("sales row %d: bad sale date %q: %w", i+1, record[0], err)
		}
		unitPrice, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return 0, fmt.Errorf("sales row %d: bad unit price %q: %w", i+1, record[3], err)
		}
		stockLevel, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return 0, fmt.Errorf("sales row %d: bad stock level %q: %w", i+1, record[4], err)
		}
		unitsSold, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return 0, fmt.Errorf("sales row %d: bad units sold %q: %w", i+1, record[5], err)
		}
		rows = append(rows, []interface{}{saleDate, record[1], record[2], unitPrice, stockLevel, unitsSold})
	}

	if err := store.BulkLoad(ctx, "sales_history", warehouse.LoadReplace, salesColumns, rows); err != nil {
		return 0, fmt.Errorf("failed to load sales history: %w", err)
	}
	return len(rows), nil
}

func seedDemand(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := loadDemand(c.Context, store, c.String("file"))
	if err != nil {
		return err
	}
	log.Printf("Loaded %d daily demand rows", n)
	return nil
}

func seedOrders(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := loadOrders(c.Context, store, c.String("file"))
	if err != nil {
		return err
	}
	log.Printf("Loaded %d order item rows", n)
	return nil
}

func seedSales(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := loadSales(c.Context, store, c.String("file"))
	if err != nil {
		return err
	}
	log.Printf("Loaded %d sales history rows", n)
	return nil
}
