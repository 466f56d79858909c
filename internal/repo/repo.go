package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridbase/fieldconf/internal/models"
	"github.com/gridbase/fieldconf/internal/patch"
)

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
)

// ColumnError identifies which column patch a failed save was rejected for.
type ColumnError struct {
	TableName string
	Column    string
	Err       error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("table %q column %q: %v", e.TableName, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// ColumnRepository is the persistence collaborator. LoadColumns seeds an edit
// session's baseline; ApplyChangeSet persists a change-set atomically per
// table (all column patches or none).
type ColumnRepository interface {
	InitializeDatabase(ctx context.Context) error
	LoadColumns(ctx context.Context, tableName string) ([]models.Column, error)
	ApplyChangeSet(ctx context.Context, tableName string, changes patch.ChangeSet) error
	Close() error
}
