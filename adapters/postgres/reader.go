// Package postgres loads relational query results into the tabular form
// consumed by the analysis core.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"insighto/domain/table"
	"insighto/ports"
)

// Reader runs one SQL query and exposes its result set as a Table.
type Reader struct {
	db    *sqlx.DB
	query string
}

// NewReader creates a reader over an open database handle.
func NewReader(db *sqlx.DB, query string) *Reader {
	return &Reader{db: db, query: query}
}

// Connect opens a database connection for a reader.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

var _ ports.TableReader = (*Reader)(nil)

// Read executes the query and converts each row into the scalar cell
// representation. Byte slices become strings; SQL NULLs stay nil.
func (r *Reader) Read(ctx context.Context) (*table.Table, error) {
	rows, err := r.db.QueryxContext(ctx, r.query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	t := table.New(columns)
	for rows.Next() {
		record := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(record); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(table.Row, len(columns))
		for _, name := range columns {
			row[name] = normalize(record[name])
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return t, nil
}

func normalize(v interface{}) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int64:
		return float64(val)
	}
	return v
}
