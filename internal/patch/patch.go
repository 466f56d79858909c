// Package patch turns the index-keyed diff of an edit session into the
// name-keyed change-set the persistence layer consumes. The change-set is the
// contract boundary: downstream addresses columns by name, never by position.
package patch

import (
	"github.com/gridbase/fieldconf/internal/diff"
	"github.com/gridbase/fieldconf/internal/models"
)

// Patch is the partial update for a single column.
type Patch map[string]any

// ChangeSet maps column name to its patch.
type ChangeSet map[string]Patch

// Dirty reports whether anything would be persisted. It is always derived
// from the change-set, never tracked as separate state.
func (cs ChangeSet) Dirty() bool {
	return len(cs) > 0
}

// BuildChangeSet resolves each delta's index against the working sequence and
// assembles the minimal patch per column name. Two adjustments are made on
// top of the raw delta:
//
//   - baseOptions.visibility is always included in full, even when unchanged,
//     so the persistence layer receives a complete set instead of a diff
//     artifact.
//   - any fieldOptions change promotes the entire current fieldOptions bag
//     into the patch; partial updates of an opaque bag are not meaningful.
//
// Deltas whose index falls outside the working sequence are dropped; the
// store invariant makes that unreachable in practice.
//
// The input deltas are never mutated, so building twice from the same
// (baseline, working) pair yields structurally identical output.
func BuildChangeSet(deltas map[int]diff.Delta, working []models.Column) ChangeSet {
	changes := make(ChangeSet, len(deltas))

	for idx, delta := range deltas {
		if idx < 0 || idx >= len(working) {
			continue
		}
		column := working[idx]

		p := Patch{}
		for key, value := range delta {
			switch key {
			case "baseOptions":
				p["baseOptions"] = copyDelta(value)
			case "fieldOptions":
				p["fieldOptions"] = column.Clone().FieldOptions
			default:
				p[key] = value
			}
		}

		base, ok := p["baseOptions"].(map[string]any)
		if !ok {
			base = map[string]any{}
		}
		base["visibility"] = append(models.Visibility(nil), column.BaseOptions.Visibility...)
		p["baseOptions"] = base

		changes[column.Name] = p
	}

	return changes
}

func copyDelta(value any) map[string]any {
	out := map[string]any{}
	switch v := value.(type) {
	case diff.Delta:
		for k, val := range v {
			out[k] = val
		}
	case map[string]any:
		for k, val := range v {
			out[k] = val
		}
	}
	return out
}
