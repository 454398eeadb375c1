// Package validation checks submitted answers against a form's field
// schema. It accumulates every problem instead of failing fast, so the
// user sees all of them at once.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/formhive/formhive/model"
)

// Date layouts accepted by date fields, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Validate checks payload against the flattened field list and returns
// human-readable error messages, empty when the payload is valid.
// It is a pure function of its arguments and never panics on a
// malformed schema: a choice field without options just skips the
// membership check.
func Validate(payload map[string]any, fields []model.FormField) []string {
	errs := []string{}
	for _, field := range fields {
		if field.IsDecorative() {
			continue
		}

		value, present := payload[field.ID]

		if field.Required && isEmpty(value, present) {
			errs = append(errs, fmt.Sprintf("Field '%s' (%s) is required", field.Label, field.ID))
			continue
		}
		if !field.Required && isBlank(value, present) {
			// Optional and empty: nothing to check. A required field
			// with a present falsy value (false, 0) still gets its
			// type check.
			continue
		}

		if msg := checkType(field, value); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// isEmpty reports absence for the required check: missing key, null,
// or the empty string.
func isEmpty(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// isBlank reports whether an optional value should skip type checks.
// Mirrors JS falsiness for the types JSON can carry.
func isBlank(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	}
	return false
}

func checkType(field model.FormField, value any) string {
	switch field.Type {
	case model.FieldEmail:
		s, ok := value.(string)
		if !ok || !strings.Contains(s, "@") {
			return fmt.Sprintf("Field '%s' (%s) must be a valid email address", field.Label, field.ID)
		}
	case model.FieldNumber:
		if !isNumeric(value) {
			return fmt.Sprintf("Field '%s' (%s) must be a number", field.Label, field.ID)
		}
	case model.FieldDate:
		if !isDate(value) {
			return fmt.Sprintf("Field '%s' (%s) must be a valid date", field.Label, field.ID)
		}
	case model.FieldSelect, model.FieldRadio:
		if len(field.Options) == 0 {
			break
		}
		s, _ := value.(string)
		if !contains(field.Options, s) {
			return fmt.Sprintf("Field '%s' (%s) has an invalid option '%v'", field.Label, field.ID, value)
		}
	case model.FieldMultiselect, model.FieldMultiDropdown:
		items, ok := value.([]any)
		if !ok {
			return fmt.Sprintf("Field '%s' (%s) must be a list of options", field.Label, field.ID)
		}
		if len(field.Options) == 0 {
			break
		}
		var invalid []string
		for _, item := range items {
			s, _ := item.(string)
			if !contains(field.Options, s) {
				invalid = append(invalid, fmt.Sprint(item))
			}
		}
		if len(invalid) > 0 {
			return fmt.Sprintf("Field '%s' (%s) has invalid options: %s", field.Label, field.ID, strings.Join(invalid, ", "))
		}
	case model.FieldCheckbox:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("Field '%s' (%s) must be true or false", field.Label, field.ID)
		}
	}
	// text, textarea and the decorative types have no further checks.
	return ""
}

// isNumeric mirrors Number(value): JSON numbers and booleans coerce
// cleanly, strings must parse as a float.
func isNumeric(value any) bool {
	switch v := value.(type) {
	case float64, bool:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil
	}
	return false
}

// isDate mirrors Date.parse(value): only strings in a recognized
// layout are considered valid dates.
func isDate(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
