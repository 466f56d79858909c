package constraint

import (
	"errors"
	"fmt"

	"github.com/gridbase/fieldconf/internal/models"
)

// ErrNotNullable is returned when a client turns on nullable for a column
// whose physical storage rejects NULL. The option would be unusable no matter
// what the user intends, so the mutation is refused outright.
var ErrNotNullable = errors.New("column storage does not accept null values")

// Engine keeps mutually-dependent column options consistent. Rules fire only
// on the option that references them, so setting required to false never
// touches nullable and vice versa; that one-directional trigger is what keeps
// the rule graph from oscillating.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Check rejects mutations that no rule can repair. Currently that is only the
// physical-nullability gate: baseOptions.nullable may not be turned on when
// dataSourceInfo reports the storage as NOT NULL.
func (e *Engine) Check(col models.Column, changedPath string, newValue any) error {
	if changedPath != "baseOptions.nullable" {
		return nil
	}
	enabled, ok := newValue.(bool)
	if ok && enabled && !col.DataSourceInfo.Nullable {
		return fmt.Errorf("column %q: %w", col.Name, ErrNotNullable)
	}
	return nil
}

// Apply takes the column as produced by WithOption and returns the next
// consistent column. It is pure: no history, no side effects.
//
// Rules, evaluated in order:
//   - required turned on forces nullable off.
//   - nullable turned on forces required off and seeds nullValues with the
//     empty string when the set is empty.
//
// At most one rule fires per call since both trigger on different paths.
func (e *Engine) Apply(col models.Column, changedPath string, newValue any) models.Column {
	out := col.Clone()

	switch changedPath {
	case "baseOptions.required":
		if enabled, ok := newValue.(bool); ok && enabled {
			out.BaseOptions.Nullable = false
		}
	case "baseOptions.nullable":
		if enabled, ok := newValue.(bool); ok && enabled {
			out.BaseOptions.Required = false
			if len(out.BaseOptions.NullValues) == 0 {
				out.BaseOptions.NullValues = []string{""}
			}
		}
	}

	return out
}
