package schema

import (
	"encoding/json"
	"fmt"

	"github.com/formhive/formhive/model"
)

// Schema is the tagged union decoded from a form's persisted blob:
// either a flat field list or an ordered list of steps.
type Schema struct {
	Multistep bool
	Fields    []model.FormField
	Steps     []model.FormStep
}

// Decode turns the stored fields/steps JSON into a Schema. The storage
// layer keeps both columns; isMultistep selects which one is trusted.
func Decode(isMultistep bool, fieldsJSON, stepsJSON []byte) (Schema, error) {
	s := Schema{Multistep: isMultistep}
	if isMultistep {
		if len(stepsJSON) == 0 {
			return s, fmt.Errorf("schema: multistep form has no steps blob")
		}
		if err := json.Unmarshal(stepsJSON, &s.Steps); err != nil {
			return s, fmt.Errorf("schema: parse steps: %w", err)
		}
		return s, nil
	}
	if len(fieldsJSON) == 0 {
		return s, fmt.Errorf("schema: form has no fields blob")
	}
	if err := json.Unmarshal(fieldsJSON, &s.Fields); err != nil {
		return s, fmt.Errorf("schema: parse fields: %w", err)
	}
	return s, nil
}

// FromForm builds a Schema from an already-decoded Form.
func FromForm(form *model.Form) Schema {
	return Schema{
		Multistep: form.IsMultistep,
		Fields:    form.Fields,
		Steps:     form.Steps,
	}
}

// Empty reports whether the schema carries no field list at all
// (a broken form document, distinct from a form with zero fields).
func (s Schema) Empty() bool {
	if s.Multistep {
		return s.Steps == nil
	}
	return s.Fields == nil
}

// Flatten returns every field across every step, in order. Steps are
// transparent to validation: the payload is a single flat object.
func (s Schema) Flatten() []model.FormField {
	if !s.Multistep {
		return s.Fields
	}
	var fields []model.FormField
	for _, step := range s.Steps {
		fields = append(fields, step.Fields...)
	}
	return fields
}

// ExampleRequest generates a representative request body for the API
// documentation endpoint: one plausible value per answerable field.
func ExampleRequest(fields []model.FormField) map[string]any {
	data := map[string]any{}
	for _, f := range fields {
		if f.IsDecorative() {
			continue
		}
		data[f.ID] = exampleValue(f)
	}
	return map[string]any{"data": data}
}

func exampleValue(f model.FormField) any {
	switch f.Type {
	case model.FieldEmail:
		return "user@example.com"
	case model.FieldNumber:
		return 42
	case model.FieldDate:
		return "2024-01-15"
	case model.FieldTextarea:
		return "A longer sample answer."
	case model.FieldCheckbox:
		return true
	case model.FieldSelect, model.FieldRadio:
		if len(f.Options) > 0 {
			return f.Options[0]
		}
		return "Option"
	case model.FieldMultiselect, model.FieldMultiDropdown:
		if len(f.Options) > 0 {
			return []string{f.Options[0]}
		}
		return []string{"Option"}
	default:
		return "Sample text"
	}
}

// CheckDefinition validates a form definition coming from the builder:
// shape matches the isMultistep flag, field ids are unique, choice
// fields carry options. Returns human-readable problems, empty if ok.
func CheckDefinition(form *model.Form) []string {
	var problems []string
	if form.IsMultistep {
		if len(form.Fields) > 0 {
			problems = append(problems, "a multistep form must not have a flat field list")
		}
		if len(form.Steps) == 0 {
			problems = append(problems, "a multistep form needs at least one step")
		}
	} else {
		if len(form.Steps) > 0 {
			problems = append(problems, "a single-step form must not have steps")
		}
	}

	seen := map[string]bool{}
	for _, f := range FromForm(form).Flatten() {
		if f.ID == "" {
			problems = append(problems, "every field needs an id")
			continue
		}
		if seen[f.ID] {
			problems = append(problems, fmt.Sprintf("duplicate field id '%s'", f.ID))
		}
		seen[f.ID] = true

		if f.IsChoice() && f.Type != model.FieldCheckbox && len(f.Options) == 0 {
			problems = append(problems, fmt.Sprintf("field '%s' (%s) needs a non-empty option list", f.Label, f.ID))
		}
	}
	return problems
}
