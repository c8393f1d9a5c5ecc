// Package warehousetest provides an in-memory warehouse.Store for unit tests.
package warehousetest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
)

// Load records one BulkLoad or InsertRows call.
type Load struct {
	Table   string
	Mode    warehouse.LoadMode
	Columns []string
	Rows    [][]interface{}
}

// FakeStore records writes and serves reads through caller-supplied functions.
type FakeStore struct {
	mu      sync.Mutex
	Loads   []Load
	Inserts []Load

	LoadErr   error
	InsertErr error

	SelectFn func(dest interface{}, query string, args ...interface{}) error
	GetFn    func(dest interface{}, query string, args ...interface{}) error

	Cols       map[string][]string
	ColumnsErr error

	seenKeys map[string]bool
}

var _ warehouse.Store = (*FakeStore)(nil)

func New() *FakeStore {
	return &FakeStore{Cols: make(map[string][]string)}
}

func (f *FakeStore) Qualify(table string) string { return table }

func (f *FakeStore) Select(_ context.Context, dest interface{}, query string, args ...interface{}) error {
	if f.SelectFn != nil {
		return f.SelectFn(dest, query, args...)
	}
	return nil
}

func (f *FakeStore) Get(_ context.Context, dest interface{}, query string, args ...interface{}) error {
	if f.GetFn != nil {
		return f.GetFn(dest, query, args...)
	}
	return sql.ErrNoRows
}

func (f *FakeStore) Columns(_ context.Context, table string) ([]string, error) {
	if f.ColumnsErr != nil {
		return nil, f.ColumnsErr
	}
	return f.Cols[table], nil
}

func (f *FakeStore) BulkLoad(_ context.Context, table string, mode warehouse.LoadMode, columns []string, rows [][]interface{}) error {
	if f.LoadErr != nil {
		return f.LoadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Loads = append(f.Loads, Load{Table: table, Mode: mode, Columns: columns, Rows: rows})
	return nil
}

func (f *FakeStore) InsertRows(_ context.Context, table string, columns []string, rows [][]interface{}) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Inserts = append(f.Inserts, Load{Table: table, Columns: columns, Rows: rows})
	return nil
}

// InsertRowsIgnoringConflicts mimics a unique index over conflictColumns:
// rows whose key was seen before are dropped instead of recorded.
func (f *FakeStore) InsertRowsIgnoringConflicts(_ context.Context, table string, conflictColumns []string, columns []string, rows [][]interface{}) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var keyIdx []int
	for _, conflictCol := range conflictColumns {
		for j, col := range columns {
			if col == conflictCol {
				keyIdx = append(keyIdx, j)
			}
		}
	}

	if f.seenKeys == nil {
		f.seenKeys = make(map[string]bool)
	}
	kept := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		key := table
		for _, j := range keyIdx {
			key += fmt.Sprintf("|%v", row[j])
		}
		if f.seenKeys[key] {
			continue
		}
		f.seenKeys[key] = true
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return nil
	}
	f.Inserts = append(f.Inserts, Load{Table: table, Columns: columns, Rows: kept})
	return nil
}

// LastLoad returns the most recent BulkLoad, or nil if none happened.
func (f *FakeStore) LastLoad() *Load {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Loads) == 0 {
		return nil
	}
	return &f.Loads[len(f.Loads)-1]
}
