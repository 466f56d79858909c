package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS table_columns (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	table_name text NOT NULL,
	name text NOT NULL,
	position integer NOT NULL,
	field_type text NOT NULL,
	label text,
	base_options jsonb NOT NULL DEFAULT '{}',
	field_options jsonb,
	data_source_info jsonb NOT NULL DEFAULT '{}',
	created_at timestamptz NOT NULL DEFAULT current_timestamp,
	updated_at timestamptz NOT NULL DEFAULT current_timestamp,
	UNIQUE (table_name, name)
);
CREATE INDEX IF NOT EXISTS idx_table_columns_table_name ON table_columns (table_name);
CREATE INDEX IF NOT EXISTS idx_table_columns_position ON table_columns (table_name, position);
`)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS table_columns`)
		return err
	})
}
