package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/config"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// insertChunkSize keeps multi-row inserts well under the driver's
// 65535-parameter ceiling even for wide tables.
const insertChunkSize = 500

type Store struct {
	db     *sqlx.DB
	schema string
	sem    *semaphore.Weighted
}

var _ warehouse.Store = (*Store)(nil)

var (
	storeInstance *Store
	once          sync.Once
)

// NewStore opens the warehouse connection pool.
func NewStore(cfg *config.DatabaseConfig, schema string) (*Store, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			return
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		storeInstance = &Store{
			db:     db,
			schema: schema,
			sem:    semaphore.NewWeighted(10), // limit concurrent warehouse operations
		}
	})

	return storeInstance, err
}

// NewStoreFromDB wraps an existing connection, used by the batch binary which
// opens its own pgx-backed pool.
func NewStoreFromDB(db *sqlx.DB, schema string) *Store {
	return &Store{
		db:     db,
		schema: schema,
		sem:    semaphore.NewWeighted(10),
	}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Qualify(table string) string {
	if s.schema == "" {
		return table
	}
	return s.schema + "." + table
}

func (s *Store) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, s.db, dest, query, args...)
}

func (s *Store) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, s.db, dest, query, args...)
}

// Columns reads the table's column names from information_schema.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`
	schema := s.schema
	if schema == "" {
		schema = "public"
	}

	var cols []string
	if err := sqlx.SelectContext(ctx, s.db, &cols, query, schema, table); err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", s.Qualify(table), err)
	}
	return cols, nil
}

// WithTx executes a function within a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer s.sem.Release(1)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// BulkLoad writes rows inside a single transaction. REPLACE mode deletes the
// prior contents first, in the same transaction, so a refresh is all-or-nothing.
func (s *Store) BulkLoad(ctx context.Context, table string, mode warehouse.LoadMode, columns []string, rows [][]interface{}) error {
	qualified := s.Qualify(table)

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		if mode == warehouse.LoadReplace {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+qualified); err != nil {
				return fmt.Errorf("failed to clear %s: %w", qualified, err)
			}
		}
		return insertChunked(ctx, tx, qualified, columns, rows, "")
	})
}

// InsertRows appends rows atomically.
func (s *Store) InsertRows(ctx context.Context, table string, columns []string, rows [][]interface{}) error {
	qualified := s.Qualify(table)

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		return insertChunked(ctx, tx, qualified, columns, rows, "")
	})
}

// InsertRowsIgnoringConflicts appends rows with ON CONFLICT DO NOTHING over
// conflictColumns, so concurrent writers racing on the same key leave one row.
func (s *Store) InsertRowsIgnoringConflicts(ctx context.Context, table string, conflictColumns []string, columns []string, rows [][]interface{}) error {
	qualified := s.Qualify(table)
	suffix := " ON CONFLICT (" + strings.Join(conflictColumns, ", ") + ") DO NOTHING"

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		return insertChunked(ctx, tx, qualified, columns, rows, suffix)
	})
}

func insertChunked(ctx context.Context, tx *sql.Tx, qualified string, columns []string, rows [][]interface{}, suffix string) error {
	if len(rows) == 0 {
		return nil
	}

	for start := 0; start < len(rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		query, args, err := buildInsert(qualified, columns, chunk)
		if err != nil {
			return err
		}
		query += suffix
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", qualified, err)
		}
	}

	return nil
}

// buildInsert renders a multi-row INSERT with positional placeholders.
func buildInsert(qualified string, columns []string, rows [][]interface{}) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(qualified)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", len(args)+1)
			args = append(args, row[j])
		}
		sb.WriteString(")")
	}

	return sb.String(), args, nil
}
