package inspector

import "github.com/gridbase/fieldconf/internal/models"

// Built-in inspectors. Each surfaces the fieldOptions keys its component
// understands; missing keys simply stay absent from the props.

type textInspector struct{}

func (textInspector) Describe(col models.Column) Descriptor {
	return Descriptor{
		Component: "text-inspector",
		Props:     pick(col.FieldOptions, "maxLength", "pattern"),
	}
}

type textareaInspector struct{}

func (textareaInspector) Describe(col models.Column) Descriptor {
	return Descriptor{
		Component: "textarea-inspector",
		Props:     pick(col.FieldOptions, "rows", "maxLength"),
	}
}

type numberInspector struct{}

func (numberInspector) Describe(col models.Column) Descriptor {
	return Descriptor{
		Component: "number-inspector",
		Props:     pick(col.FieldOptions, "min", "max", "step"),
	}
}

type booleanInspector struct{}

func (booleanInspector) Describe(col models.Column) Descriptor {
	return Descriptor{
		Component: "boolean-inspector",
		Props:     pick(col.FieldOptions, "trueLabel", "falseLabel"),
	}
}

type selectInspector struct{}

func (selectInspector) Describe(col models.Column) Descriptor {
	return Descriptor{
		Component: "select-inspector",
		Props:     pick(col.FieldOptions, "options", "multiple"),
	}
}

type datetimeInspector struct{}

func (datetimeInspector) Describe(col models.Column) Descriptor {
	return Descriptor{
		Component: "datetime-inspector",
		Props:     pick(col.FieldOptions, "format", "timezone"),
	}
}

func pick(opts models.FieldOptions, keys ...string) map[string]any {
	if len(opts) == 0 {
		return nil
	}
	props := make(map[string]any)
	for _, key := range keys {
		if value, ok := opts[key]; ok {
			props[key] = value
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}
