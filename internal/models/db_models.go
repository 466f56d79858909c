package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ColumnDB struct {
	bun.BaseModel `bun:"table:table_columns,alias:tc"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	TableName      string         `bun:"table_name,notnull,unique:table_column" json:"table_name"`
	Name           string         `bun:"name,notnull,unique:table_column" json:"name"`
	Position       int            `bun:"position,notnull" json:"position"`
	FieldType      FieldType      `bun:"field_type,notnull" json:"field_type"`
	Label          *string        `bun:"label" json:"label,omitempty"`
	BaseOptions    BaseOptions    `bun:"base_options,type:jsonb" json:"base_options"`
	FieldOptions   FieldOptions   `bun:"field_options,type:jsonb" json:"field_options,omitempty"`
	DataSourceInfo DataSourceInfo `bun:"data_source_info,type:jsonb" json:"data_source_info"`
	CreatedAt      time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (c *ColumnDB) ToColumn() Column {
	col := Column{
		Name:           c.Name,
		FieldType:      c.FieldType,
		Label:          c.Label,
		BaseOptions:    c.BaseOptions,
		FieldOptions:   c.FieldOptions,
		DataSourceInfo: c.DataSourceInfo,
	}
	return col.Clone()
}

func ColumnFromApp(tableName string, position int, col Column) *ColumnDB {
	col = col.Clone()
	return &ColumnDB{
		TableName:      tableName,
		Name:           col.Name,
		Position:       position,
		FieldType:      col.FieldType,
		Label:          col.Label,
		BaseOptions:    col.BaseOptions,
		FieldOptions:   col.FieldOptions,
		DataSourceInfo: col.DataSourceInfo,
	}
}
