package models

import "strings"

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDatetime FieldType = "datetime"
	FieldTypeJSON     FieldType = "json"
)

type View string

const (
	ViewIndex View = "index"
	ViewShow  View = "show"
	ViewEdit  View = "edit"
	ViewNew   View = "new"
)

// canonical ordering for normalized visibility sets
var viewOrder = []View{ViewIndex, ViewShow, ViewEdit, ViewNew}

// Visibility is the set of views a field appears in, kept deduplicated and in
// canonical order so that set equality is plain slice equality.
type Visibility []View

func NormalizeVisibility(views []View) Visibility {
	present := make(map[View]bool, len(views))
	for _, v := range views {
		present[v] = true
	}
	out := make(Visibility, 0, len(present))
	for _, v := range viewOrder {
		if present[v] {
			out = append(out, v)
		}
	}
	return out
}

func (v Visibility) Has(view View) bool {
	for _, existing := range v {
		if existing == view {
			return true
		}
	}
	return false
}

// BaseOptions are the field-type-agnostic column settings.
type BaseOptions struct {
	Label        string     `json:"label,omitempty"`
	Placeholder  string     `json:"placeholder,omitempty"`
	Help         string     `json:"help,omitempty"`
	DefaultValue string     `json:"default_value,omitempty"`
	Required     bool       `json:"required"`
	Nullable     bool       `json:"nullable"`
	NullValues   []string   `json:"null_values,omitempty"`
	Disconnected bool       `json:"disconnected"`
	Visibility   Visibility `json:"visibility"`
}

// FieldOptions is the field-type-specific option bag. The core never
// interprets it; inspectors and the editor front-end do.
type FieldOptions map[string]any

// DataSourceInfo carries read-only capability flags reported by the physical
// column storage. It is seeded at load time and never mutated here.
type DataSourceInfo struct {
	Type     string `json:"type,omitempty"`
	Nullable bool   `json:"nullable"`
}

// Column is the metadata for one physical field of a table. Name is the sole
// identity: it joins baseline to working state and keys the change-set sent to
// the persistence layer. Neither Name nor FieldType is ever rewritten by an
// option mutation.
type Column struct {
	Name           string         `json:"name"`
	FieldType      FieldType      `json:"field_type"`
	Label          *string        `json:"label,omitempty"`
	BaseOptions    BaseOptions    `json:"base_options"`
	FieldOptions   FieldOptions   `json:"field_options,omitempty"`
	DataSourceInfo DataSourceInfo `json:"data_source_info"`
}

// Clone returns a deep copy; mutating the copy never aliases the original's
// slices or option bag.
func (c Column) Clone() Column {
	out := c
	if c.Label != nil {
		label := *c.Label
		out.Label = &label
	}
	if c.BaseOptions.NullValues != nil {
		out.BaseOptions.NullValues = append([]string(nil), c.BaseOptions.NullValues...)
	}
	if c.BaseOptions.Visibility != nil {
		out.BaseOptions.Visibility = append(Visibility(nil), c.BaseOptions.Visibility...)
	}
	if c.FieldOptions != nil {
		opts := make(FieldOptions, len(c.FieldOptions))
		for k, v := range c.FieldOptions {
			opts[k] = v
		}
		out.FieldOptions = opts
	}
	return out
}

// WithOption returns a copy of col with the single dotted option path set to
// value. Paths are either a bare top-level field ("label"), a baseOptions leaf
// ("baseOptions.nullable"), the whole fieldOptions bag ("fieldOptions"), or one
// key inside it ("fieldOptions.rows"). Name, fieldType and dataSourceInfo are
// not addressable.
func WithOption(col Column, path string, value any) (Column, error) {
	out := col.Clone()

	if path == "label" {
		s, ok := asOptionalString(value)
		if !ok {
			return Column{}, &InvalidValueError{Path: path, Value: value}
		}
		out.Label = s
		return out, nil
	}

	if path == "fieldOptions" {
		opts, ok := asFieldOptions(value)
		if !ok {
			return Column{}, &InvalidValueError{Path: path, Value: value}
		}
		out.FieldOptions = opts
		return out, nil
	}

	if key, found := strings.CutPrefix(path, "fieldOptions."); found {
		if key == "" {
			return Column{}, &InvalidPathError{Path: path}
		}
		if out.FieldOptions == nil {
			out.FieldOptions = make(FieldOptions, 1)
		}
		out.FieldOptions[key] = value
		return out, nil
	}

	if leaf, found := strings.CutPrefix(path, "baseOptions."); found {
		if err := setBaseOption(&out.BaseOptions, path, leaf, value); err != nil {
			return Column{}, err
		}
		return out, nil
	}

	return Column{}, &InvalidPathError{Path: path}
}

func setBaseOption(opts *BaseOptions, path, leaf string, value any) error {
	switch leaf {
	case "label", "placeholder", "help", "defaultValue":
		s, ok := value.(string)
		if !ok {
			return &InvalidValueError{Path: path, Value: value}
		}
		switch leaf {
		case "label":
			opts.Label = s
		case "placeholder":
			opts.Placeholder = s
		case "help":
			opts.Help = s
		case "defaultValue":
			opts.DefaultValue = s
		}
	case "required", "nullable", "disconnected":
		b, ok := value.(bool)
		if !ok {
			return &InvalidValueError{Path: path, Value: value}
		}
		switch leaf {
		case "required":
			opts.Required = b
		case "nullable":
			opts.Nullable = b
		case "disconnected":
			opts.Disconnected = b
		}
	case "nullValues":
		values, ok := asStringSlice(value)
		if !ok {
			return &InvalidValueError{Path: path, Value: value}
		}
		opts.NullValues = values
	case "visibility":
		views, ok := asViews(value)
		if !ok {
			return &InvalidValueError{Path: path, Value: value}
		}
		opts.Visibility = NormalizeVisibility(views)
	default:
		return &InvalidPathError{Path: path}
	}
	return nil
}

func asOptionalString(value any) (*string, bool) {
	if value == nil {
		return nil, true
	}
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	return &s, true
}

func asFieldOptions(value any) (FieldOptions, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case FieldOptions:
		out := make(FieldOptions, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, true
	case map[string]any:
		out := make(FieldOptions, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, true
	}
	return nil, false
}

// asStringSlice accepts []string directly or the []any a JSON decoder yields.
func asStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func asViews(value any) ([]View, bool) {
	switch v := value.(type) {
	case Visibility:
		return append([]View(nil), v...), true
	case []View:
		return append([]View(nil), v...), true
	default:
		strs, ok := asStringSlice(value)
		if !ok {
			return nil, false
		}
		out := make([]View, 0, len(strs))
		for _, s := range strs {
			switch View(s) {
			case ViewIndex, ViewShow, ViewEdit, ViewNew:
				out = append(out, View(s))
			default:
				return nil, false
			}
		}
		return out, true
	}
}
