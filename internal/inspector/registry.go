// Package inspector maps field types to the editor fragment descriptors the
// front-end renders. The registry is built once at startup; lookups never
// fail and fall back to a no-op descriptor for unregistered field types.
package inspector

import "github.com/gridbase/fieldconf/internal/models"

// Descriptor tells the editor front-end which component to mount for a
// field's type-specific options and with which props.
type Descriptor struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props,omitempty"`
}

type Inspector interface {
	Describe(col models.Column) Descriptor
}

type Registry struct {
	inspectors map[models.FieldType]Inspector
	fallback   Inspector
}

// NewRegistry builds the static registry with the built-in inspectors.
func NewRegistry() *Registry {
	r := &Registry{
		inspectors: make(map[models.FieldType]Inspector),
		fallback:   noopInspector{},
	}
	r.register(models.FieldTypeText, textInspector{})
	r.register(models.FieldTypeTextarea, textareaInspector{})
	r.register(models.FieldTypeNumber, numberInspector{})
	r.register(models.FieldTypeBoolean, booleanInspector{})
	r.register(models.FieldTypeSelect, selectInspector{})
	r.register(models.FieldTypeDatetime, datetimeInspector{})
	return r
}

func (r *Registry) register(ft models.FieldType, ins Inspector) {
	r.inspectors[ft] = ins
}

// Lookup never returns nil and never errors: unknown field types get the
// no-op inspector so a missing registration can't break the editor.
func (r *Registry) Lookup(ft models.FieldType) Inspector {
	if ins, ok := r.inspectors[ft]; ok {
		return ins
	}
	return r.fallback
}

type noopInspector struct{}

func (noopInspector) Describe(models.Column) Descriptor {
	return Descriptor{Component: "none"}
}
