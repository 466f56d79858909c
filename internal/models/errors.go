package models

import "fmt"

// InvalidPathError reports an option path that does not resolve to a known
// mutable field. It indicates a caller bug and is never applied silently.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid option path %q", e.Path)
}

// InvalidValueError reports a value whose type does not match the field the
// path resolves to (e.g. a string for baseOptions.required).
type InvalidValueError struct {
	Path  string
	Value any
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v (%T) for option path %q", e.Value, e.Value, e.Path)
}
