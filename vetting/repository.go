package vetting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store backed by PostgreSQL. All data columns are text so
// the table behaves like the spreadsheet it replaces: malformed legacy cells
// are stored and returned verbatim.
type PGStore struct {
	pool        *pgxpool.Pool
	schema      Schema
	idGenerator func() string
}

// NewPGStore creates a PostgreSQL-backed record store for one table variant.
func NewPGStore(pool *pgxpool.Pool, schema Schema) *PGStore {
	return &PGStore{
		pool:        pool,
		schema:      schema,
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides surrogate row id generation, mainly for tests.
func (s *PGStore) WithIDGenerator(gen func() string) *PGStore {
	s.idGenerator = gen
	return s
}

// List scans the whole table in append order.
func (s *PGStore) List(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY created_at, id`,
		strings.Join(s.schema.Columns, ", "), s.schema.Table,
	)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vetting: list %s: %w", s.schema.Table, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(s.schema.Fields(&rec)...); err != nil {
			return nil, fmt.Errorf("vetting: scan %s: %w", s.schema.Table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vetting: list %s: %w", s.schema.Table, err)
	}
	return records, nil
}

// Append inserts one row, values bound positionally in schema column order.
func (s *PGStore) Append(ctx context.Context, rec Record) error {
	placeholders := make([]string, len(s.schema.Columns))
	for i := range s.schema.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (id, %s) VALUES ($1, %s)`,
		s.schema.Table,
		strings.Join(s.schema.Columns, ", "),
		strings.Join(placeholders, ", "),
	)

	args := append([]any{s.idGenerator()}, s.schema.Values(rec)...)
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("vetting: append %s: %w", s.schema.Table, err)
	}
	return nil
}
