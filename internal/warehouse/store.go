package warehouse

import "context"

// LoadMode controls how BulkLoad treats existing table contents.
type LoadMode string

const (
	// LoadReplace discards prior contents in the same transaction as the load,
	// so readers see either the old table or the new one, never a mix.
	LoadReplace LoadMode = "REPLACE"
	// LoadAppend adds rows without touching existing ones.
	LoadAppend LoadMode = "APPEND"
)

// Store is the narrow surface this system needs from the analytical warehouse.
// Row values are always bound parameters; table names are trusted configuration
// and are qualified via Qualify before being interpolated into query text.
type Store interface {
	// Qualify returns the schema-qualified name for a warehouse table.
	Qualify(table string) string

	// Select runs a parameterized read and scans all rows into dest.
	Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// Get runs a parameterized read expected to return a single row.
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// Columns lists the column names of a warehouse table.
	Columns(ctx context.Context, table string) ([]string, error)

	// BulkLoad writes rows in a single all-or-nothing transaction.
	BulkLoad(ctx context.Context, table string, mode LoadMode, columns []string, rows [][]interface{}) error

	// InsertRows appends rows atomically: either every row persists or none do.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]interface{}) error

	// InsertRowsIgnoringConflicts appends rows, silently skipping any that
	// collide with an existing row on conflictColumns. The table must carry a
	// unique index over those columns.
	InsertRowsIgnoringConflicts(ctx context.Context, table string, conflictColumns []string, columns []string, rows [][]interface{}) error
}
