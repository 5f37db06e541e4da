// Package store loads a dataset into an in-memory SQLite database and
// answers the descriptive queries the CLI runs against it. Each read is
// one independent query; nothing is persisted across invocations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tabstat/internal/dataset"
	"tabstat/pkg/errors"
	"tabstat/pkg/stats"
)

// Service provides read-only descriptive queries over a loaded dataset
type Service struct {
	db        *sql.DB
	timeout   time.Duration
	connected bool
}

// GroupCount is one row of a group-by count breakdown
type GroupCount struct {
	Value interface{}
	Count int64
}

// NewService creates an unopened store service
func NewService(timeout time.Duration) *Service {
	return &Service{timeout: timeout}
}

// Open creates the in-memory database
func (s *Service) Open() error {
	if s.connected {
		return nil
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreOpen, "failed to open in-memory database")
	}

	// The database lives in a single connection's memory; more than one
	// connection would see separate empty databases.
	db.SetMaxOpenConns(1)

	ctx, cancel := s.getContext()
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.Wrap(err, errors.ErrCodeStoreOpen, "failed to ping in-memory database")
	}

	s.db = db
	s.connected = true
	return nil
}

// Close closes the database
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.connected = false
	return nil
}

// Load creates a table from the dataset schema and inserts every row
// inside one transaction
func (s *Service) Load(ds *dataset.Dataset, table string) error {
	if !s.connected {
		return errors.New(errors.ErrCodeStoreOpen, "store is not open").
			WithSuggestions("Call Open() before loading data")
	}

	ctx, cancel := s.getContext()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreLoad, "failed to begin load transaction")
	}
	defer tx.Rollback() // no-op after commit

	createSQL := createTableSQL(ds, table)
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return errors.StoreError(fmt.Sprintf("failed to create table %s", table), createSQL, err).
			WithContext("table", table)
	}

	columns := ds.Columns()
	insertSQL := insertSQL(table, columns)
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return errors.StoreError("failed to prepare insert", insertSQL, err)
	}
	defer stmt.Close()

	for i := 0; i < ds.Len(); i++ {
		values := make([]interface{}, len(columns))
		for j, col := range columns {
			values[j] = ds.Value(i, col)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return errors.StoreError(fmt.Sprintf("failed to insert row %d", i+1), insertSQL, err).
				WithContext("row_index", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreLoad, "failed to commit load transaction")
	}
	return nil
}

// Count returns the total number of rows in a table
func (s *Service) Count(table string) (int64, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
	var count int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, errors.StoreError(fmt.Sprintf("failed to count rows in %s", table), query, err)
	}
	return count, nil
}

// CountWhere returns the number of rows where column equals value. The
// column name is validated against the table schema before it is quoted
// into the statement; the value always travels as a bind parameter.
func (s *Service) CountWhere(table, column string, value interface{}) (int64, error) {
	if err := s.checkColumn(table, column); err != nil {
		return 0, err
	}

	ctx, cancel := s.getContext()
	defer cancel()

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", quoteIdent(table), quoteIdent(column))
	var count int64
	if err := s.db.QueryRowContext(ctx, query, value).Scan(&count); err != nil {
		return 0, errors.StoreError(fmt.Sprintf("failed to count matching rows in %s", table), query, err)
	}
	return count, nil
}

// GroupCounts returns the count of rows per distinct value of a column,
// largest groups first
func (s *Service) GroupCounts(table, column string) ([]GroupCount, error) {
	if err := s.checkColumn(table, column); err != nil {
		return nil, err
	}

	ctx, cancel := s.getContext()
	defer cancel()

	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s ORDER BY COUNT(*) DESC, %s",
		quoteIdent(column), quoteIdent(table), quoteIdent(column), quoteIdent(column))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.StoreError(fmt.Sprintf("failed to group by %s", column), query, err)
	}
	defer rows.Close()

	var groups []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Value, &g.Count); err != nil {
			return nil, errors.StoreError("failed to scan group row", query, err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Average returns the AVG of a numeric column. An empty table yields an
// empty-dataset error, matching the percentage contract.
func (s *Service) Average(table, column string) (float64, error) {
	if err := s.checkColumn(table, column); err != nil {
		return 0, err
	}

	ctx, cancel := s.getContext()
	defer cancel()

	query := fmt.Sprintf("SELECT AVG(%s) FROM %s", quoteIdent(column), quoteIdent(table))
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, query).Scan(&avg); err != nil {
		return 0, errors.StoreError(fmt.Sprintf("failed to average %s", column), query, err)
	}
	if !avg.Valid {
		return 0, errors.EmptyDatasetError()
	}
	return avg.Float64, nil
}

// GroupPercentage computes the share of rows where column equals value as
// a percentage rounded to two decimals, via two independent counts
func (s *Service) GroupPercentage(table, column string, value interface{}) (float64, error) {
	if err := s.checkColumn(table, column); err != nil {
		return 0, err
	}

	total, err := s.Count(table)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, errors.EmptyDatasetError()
	}

	matched, err := s.CountWhere(table, column, value)
	if err != nil {
		return 0, err
	}
	return stats.FromCounts(matched, total)
}

// Columns returns the column names of a table in schema order
func (s *Service) Columns(table string) ([]string, error) {
	ctx, cancel := s.getContext()
	defer cancel()

	query := "SELECT name FROM pragma_table_info(?) ORDER BY cid"
	rows, err := s.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, errors.StoreError(fmt.Sprintf("failed to read schema of %s", table), query, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.StoreError("failed to scan schema row", query, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrCodeTableNotFound, fmt.Sprintf("table %q not found", table)).
			WithContext("table", table)
	}
	return columns, nil
}

// DB returns the underlying database connection
func (s *Service) DB() *sql.DB {
	return s.db
}

// Helper methods

func (s *Service) getContext() (context.Context, context.CancelFunc) {
	timeout := s.timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (s *Service) checkColumn(table, column string) error {
	columns, err := s.Columns(table)
	if err != nil {
		return err
	}
	for _, name := range columns {
		if name == column {
			return nil
		}
	}
	return errors.ColumnNotFoundError(column, columns)
}

func createTableSQL(ds *dataset.Dataset, table string) string {
	schema := ds.Schema()
	defs := make([]string, len(schema))
	for i, col := range schema {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col.Name), col.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

func insertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// quoteIdent double-quotes an identifier, escaping embedded quotes
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
