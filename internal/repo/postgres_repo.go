package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gridbase/fieldconf/internal/constraint"
	"github.com/gridbase/fieldconf/internal/models"
	"github.com/gridbase/fieldconf/internal/patch"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresRepository struct {
	db *bun.DB
}

func NewPostgresRepository(connectionString string) (*PostgresRepository, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connectionString)))

	db := bun.NewDB(sqldb, pgdialect.New())

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	repo := &PostgresRepository{db: db}

	ctx := context.Background()
	if err := repo.InitializeDatabase(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// DB exposes the underlying connection so the records service can share the
// pool.
func (r *PostgresRepository) DB() *bun.DB {
	return r.db
}

func (r *PostgresRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.ColumnDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create table_columns table: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.ColumnDB)(nil)).
		Index("idx_table_columns_table_name").
		Column("table_name").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create table_name index: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.ColumnDB)(nil)).
		Index("idx_table_columns_position").
		Column("table_name", "position").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create position index: %w", err)
	}

	return nil
}

// LoadColumns returns the configured columns of a table in position order,
// dataSourceInfo included.
func (r *PostgresRepository) LoadColumns(ctx context.Context, tableName string) ([]models.Column, error) {
	var rows []models.ColumnDB
	err := r.db.NewSelect().
		Model(&rows).
		Where("table_name = ?", tableName).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%q: %w", tableName, ErrUnknownTable)
	}

	columns := make([]models.Column, 0, len(rows))
	for i := range rows {
		columns = append(columns, rows[i].ToColumn())
	}
	return columns, nil
}

// ApplyChangeSet persists all column patches of one table inside a single
// transaction. Any rejected patch rolls the whole save back and surfaces as a
// ColumnError naming the offending column. The physical-nullability gate is
// re-checked here against the stored capability row, so a client that slipped
// past the editor boundary still cannot persist nullable on a NOT NULL
// column.
func (r *PostgresRepository) ApplyChangeSet(ctx context.Context, tableName string, changes patch.ChangeSet) error {
	if len(changes) == 0 {
		return nil
	}

	// deterministic order for stable failure reporting
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, name := range names {
			if err := r.applyColumnPatch(ctx, tx, tableName, name, changes[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) applyColumnPatch(ctx context.Context, tx bun.Tx, tableName, name string, p patch.Patch) error {
	var row models.ColumnDB
	err := tx.NewSelect().
		Model(&row).
		Where("table_name = ?", tableName).
		Where("name = ?", name).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return &ColumnError{TableName: tableName, Column: name, Err: ErrUnknownColumn}
	}
	if err != nil {
		return fmt.Errorf("failed to load column %q: %w", name, err)
	}

	merged, err := mergePatch(row.ToColumn(), p)
	if err != nil {
		return &ColumnError{TableName: tableName, Column: name, Err: err}
	}

	if merged.BaseOptions.Nullable && !row.DataSourceInfo.Nullable {
		return &ColumnError{TableName: tableName, Column: name, Err: constraint.ErrNotNullable}
	}

	row.Label = merged.Label
	row.BaseOptions = merged.BaseOptions
	row.FieldOptions = merged.FieldOptions
	row.UpdatedAt = time.Now()

	_, err = tx.NewUpdate().
		Model(&row).
		Column("label", "base_options", "field_options", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update column %q: %w", name, err)
	}
	return nil
}

// mergePatch folds the patch into the stored column leaf by leaf, reusing the
// same path transform the editor applies so both sides agree on what a path
// means.
func mergePatch(col models.Column, p patch.Patch) (models.Column, error) {
	var err error
	for key, value := range p {
		switch key {
		case "baseOptions":
			leaves, ok := value.(map[string]any)
			if !ok {
				return models.Column{}, &models.InvalidValueError{Path: key, Value: value}
			}
			for leaf, leafValue := range leaves {
				col, err = models.WithOption(col, "baseOptions."+leaf, leafValue)
				if err != nil {
					return models.Column{}, err
				}
			}
		case "label":
			col, err = models.WithOption(col, "label", normalizeOptionalString(value))
			if err != nil {
				return models.Column{}, err
			}
		default:
			col, err = models.WithOption(col, key, value)
			if err != nil {
				return models.Column{}, err
			}
		}
	}
	return col, nil
}

// patches built in-process carry *string for the optional label
func normalizeOptionalString(value any) any {
	if s, ok := value.(*string); ok {
		if s == nil {
			return nil
		}
		return *s
	}
	return value
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
