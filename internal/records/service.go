// Package records is the table-adjacent record query service: filtered,
// paginated reads and single-record creates against the physical table. It
// shares only table and column identifiers with the column-configuration
// core; the core never calls into it.
package records

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/uptrace/bun"
)

var ErrEmptyRecord = errors.New("record has no values")

const defaultLimit = 50

type ListOptions struct {
	// Filters are column = value equality predicates.
	Filters map[string]string
	Offset  int
	Limit   int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// List reads records from the physical table with the given filters and
// pagination, returning the page and the total matching count.
func (s *Service) List(ctx context.Context, tableName string, opts ListOptions) ([]map[string]any, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := s.db.NewSelect().Table(tableName)

	// deterministic predicate order
	filterColumns := make([]string, 0, len(opts.Filters))
	for col := range opts.Filters {
		filterColumns = append(filterColumns, col)
	}
	sort.Strings(filterColumns)
	for _, col := range filterColumns {
		q = q.Where("? = ?", bun.Ident(col), opts.Filters[col])
	}

	var rows []map[string]any
	total, err := q.Offset(opts.Offset).Limit(limit).ScanAndCount(ctx, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list records from %q: %w", tableName, err)
	}
	return rows, total, nil
}

// Create inserts a single record into the physical table.
func (s *Service) Create(ctx context.Context, tableName string, values map[string]any) error {
	if len(values) == 0 {
		return ErrEmptyRecord
	}

	_, err := s.db.NewInsert().
		Model(&values).
		TableExpr("?", bun.Ident(tableName)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create record in %q: %w", tableName, err)
	}
	return nil
}
