package models

import (
	"errors"
	"reflect"
	"testing"
)

func testColumn() Column {
	return Column{
		Name:      "email",
		FieldType: FieldTypeText,
		BaseOptions: BaseOptions{
			Label:      "Email",
			Visibility: Visibility{ViewIndex, ViewShow},
		},
		FieldOptions:   FieldOptions{"maxLength": 255},
		DataSourceInfo: DataSourceInfo{Type: "varchar", Nullable: true},
	}
}

func TestWithOption(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value any
		check func(t *testing.T, col Column)
	}{
		{
			name:  "top-level label",
			path:  "label",
			value: "E-mail address",
			check: func(t *testing.T, col Column) {
				if col.Label == nil || *col.Label != "E-mail address" {
					t.Errorf("Label = %v, want E-mail address", col.Label)
				}
			},
		},
		{
			name:  "clear top-level label",
			path:  "label",
			value: nil,
			check: func(t *testing.T, col Column) {
				if col.Label != nil {
					t.Errorf("Label = %v, want nil", *col.Label)
				}
			},
		},
		{
			name:  "baseOptions string leaf",
			path:  "baseOptions.placeholder",
			value: "you@example.com",
			check: func(t *testing.T, col Column) {
				if col.BaseOptions.Placeholder != "you@example.com" {
					t.Errorf("Placeholder = %q", col.BaseOptions.Placeholder)
				}
			},
		},
		{
			name:  "baseOptions bool leaf",
			path:  "baseOptions.required",
			value: true,
			check: func(t *testing.T, col Column) {
				if !col.BaseOptions.Required {
					t.Error("Required = false, want true")
				}
			},
		},
		{
			name:  "nullValues from JSON-decoded slice",
			path:  "baseOptions.nullValues",
			value: []any{"", "null"},
			check: func(t *testing.T, col Column) {
				want := []string{"", "null"}
				if !reflect.DeepEqual(col.BaseOptions.NullValues, want) {
					t.Errorf("NullValues = %v, want %v", col.BaseOptions.NullValues, want)
				}
			},
		},
		{
			name:  "visibility is normalized",
			path:  "baseOptions.visibility",
			value: []any{"new", "index", "index"},
			check: func(t *testing.T, col Column) {
				want := Visibility{ViewIndex, ViewNew}
				if !reflect.DeepEqual(col.BaseOptions.Visibility, want) {
					t.Errorf("Visibility = %v, want %v", col.BaseOptions.Visibility, want)
				}
			},
		},
		{
			name:  "fieldOptions key",
			path:  "fieldOptions.pattern",
			value: ".+@.+",
			check: func(t *testing.T, col Column) {
				if col.FieldOptions["pattern"] != ".+@.+" {
					t.Errorf("pattern = %v", col.FieldOptions["pattern"])
				}
				if col.FieldOptions["maxLength"] != 255 {
					t.Error("existing fieldOptions key lost")
				}
			},
		},
		{
			name:  "whole fieldOptions bag",
			path:  "fieldOptions",
			value: map[string]any{"rows": 4},
			check: func(t *testing.T, col Column) {
				want := FieldOptions{"rows": 4}
				if !reflect.DeepEqual(col.FieldOptions, want) {
					t.Errorf("FieldOptions = %v, want %v", col.FieldOptions, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithOption(testColumn(), tt.path, tt.value)
			if err != nil {
				t.Fatalf("WithOption(%q) error: %v", tt.path, err)
			}
			tt.check(t, got)
		})
	}
}

func TestWithOptionErrors(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		value     any
		wantPath  bool
		wantValue bool
	}{
		{name: "unknown top-level field", path: "bogus", value: 1, wantPath: true},
		{name: "unknown baseOptions leaf", path: "baseOptions.bogus", value: 1, wantPath: true},
		{name: "name is not addressable", path: "name", value: "other", wantPath: true},
		{name: "fieldType is not addressable", path: "fieldType", value: "number", wantPath: true},
		{name: "empty fieldOptions key", path: "fieldOptions.", value: 1, wantPath: true},
		{name: "bool leaf given string", path: "baseOptions.required", value: "yes", wantValue: true},
		{name: "string leaf given int", path: "baseOptions.help", value: 7, wantValue: true},
		{name: "nullValues given non-strings", path: "baseOptions.nullValues", value: []any{1}, wantValue: true},
		{name: "visibility given unknown view", path: "baseOptions.visibility", value: []any{"sidebar"}, wantValue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WithOption(testColumn(), tt.path, tt.value)
			if err == nil {
				t.Fatalf("WithOption(%q) succeeded, want error", tt.path)
			}
			var pathErr *InvalidPathError
			var valueErr *InvalidValueError
			if tt.wantPath && !errors.As(err, &pathErr) {
				t.Errorf("error = %v, want InvalidPathError", err)
			}
			if tt.wantValue && !errors.As(err, &valueErr) {
				t.Errorf("error = %v, want InvalidValueError", err)
			}
		})
	}
}

func TestWithOptionDoesNotMutateOriginal(t *testing.T) {
	original := testColumn()

	mutated, err := WithOption(original, "baseOptions.visibility", []any{"edit"})
	if err != nil {
		t.Fatalf("WithOption error: %v", err)
	}
	mutated.FieldOptions["maxLength"] = 1

	if !reflect.DeepEqual(original, testColumn()) {
		t.Errorf("original column changed: %+v", original)
	}
}

func TestNormalizeVisibility(t *testing.T) {
	got := NormalizeVisibility([]View{ViewEdit, ViewIndex, ViewEdit, ViewShow})
	want := Visibility{ViewIndex, ViewShow, ViewEdit}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeVisibility = %v, want %v", got, want)
	}
	if !got.Has(ViewEdit) || got.Has(ViewNew) {
		t.Error("Has reported wrong membership")
	}
}
