// Package diff computes the structural difference between the baseline and
// working column sequences of an edit session. It is a purpose-built tree
// differ: set-valued fields (visibility, nullValues) are replace-units that
// always diff to their entire new value, never to positional array patches.
package diff

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/gridbase/fieldconf/internal/models"
)

// Delta holds the changed leaf fields of one column, nested the way the
// column nests ("baseOptions" and "fieldOptions" map to sub-deltas). Leaf
// values are the new working values.
type Delta map[string]any

// AlignmentError reports baseline and working sequences of different length.
// That can only happen when the store invariant is broken, so callers must
// treat it as fatal rather than resynchronize heuristically.
type AlignmentError struct {
	Baseline int
	Working  int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("baseline has %d columns, working has %d", e.Baseline, e.Working)
}

// Diff compares the two sequences index by index and returns the per-index
// deltas for columns that changed. Identical inputs yield an empty map.
func Diff(baseline, working []models.Column) (map[int]Delta, error) {
	if len(baseline) != len(working) {
		return nil, &AlignmentError{Baseline: len(baseline), Working: len(working)}
	}

	deltas := make(map[int]Delta)
	for i := range baseline {
		if d := diffColumn(baseline[i], working[i]); len(d) > 0 {
			deltas[i] = d
		}
	}
	return deltas, nil
}

func diffColumn(baseline, working models.Column) Delta {
	d := Delta{}

	if !equalOptionalString(baseline.Label, working.Label) {
		d["label"] = working.Label
	}
	if base := diffBaseOptions(baseline.BaseOptions, working.BaseOptions); len(base) > 0 {
		d["baseOptions"] = base
	}
	if field := diffFieldOptions(baseline.FieldOptions, working.FieldOptions); len(field) > 0 {
		d["fieldOptions"] = field
	}

	return d
}

func diffBaseOptions(baseline, working models.BaseOptions) Delta {
	d := Delta{}

	if baseline.Label != working.Label {
		d["label"] = working.Label
	}
	if baseline.Placeholder != working.Placeholder {
		d["placeholder"] = working.Placeholder
	}
	if baseline.Help != working.Help {
		d["help"] = working.Help
	}
	if baseline.DefaultValue != working.DefaultValue {
		d["defaultValue"] = working.DefaultValue
	}
	if baseline.Required != working.Required {
		d["required"] = working.Required
	}
	if baseline.Nullable != working.Nullable {
		d["nullable"] = working.Nullable
	}
	if baseline.Disconnected != working.Disconnected {
		d["disconnected"] = working.Disconnected
	}

	// Set-valued fields are atomic: any difference yields the whole new set.
	if !equalStringSets(baseline.NullValues, working.NullValues) {
		d["nullValues"] = append([]string(nil), working.NullValues...)
	}
	if !equalVisibility(baseline.Visibility, working.Visibility) {
		d["visibility"] = append(models.Visibility(nil), working.Visibility...)
	}

	return d
}

// diffFieldOptions compares the opaque option bags one key deep. The core
// does not understand the values, so each key is a leaf compared as a whole.
func diffFieldOptions(baseline, working models.FieldOptions) Delta {
	d := Delta{}

	for key, workingValue := range working {
		baselineValue, ok := baseline[key]
		if !ok || !reflect.DeepEqual(baselineValue, workingValue) {
			d[key] = workingValue
		}
	}
	for key := range baseline {
		if _, ok := working[key]; !ok {
			d[key] = nil
		}
	}

	return d
}

func equalOptionalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// nil and empty both denote the empty set
func equalStringSets(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return slices.Equal(a, b)
}

func equalVisibility(a, b models.Visibility) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return slices.Equal(a, b)
}
