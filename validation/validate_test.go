package validation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/formhive/formhive/model"
)

func field(id, typ, label string, required bool, options ...string) model.FormField {
	return model.FormField{ID: id, Type: typ, Label: label, Required: required, Options: options}
}

func TestRequiredFields(t *testing.T) {
	fields := []model.FormField{field("email", model.FieldEmail, "Email", true)}

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing key", map[string]any{}},
		{"null value", map[string]any{"email": nil}},
		{"empty string", map[string]any{"email": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.payload, fields)
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			want := "Field 'Email' (email) is required"
			if errs[0] != want {
				t.Errorf("got %q, want %q", errs[0], want)
			}
		})
	}
}

func TestRequiredSkipsTypeCheck(t *testing.T) {
	// A missing required value reports only the required error, never
	// a type error on top.
	fields := []model.FormField{field("n", model.FieldNumber, "Age", true)}
	errs := Validate(map[string]any{}, fields)
	if len(errs) != 1 || !strings.Contains(errs[0], "required") {
		t.Errorf("expected single required error, got %v", errs)
	}
}

func TestOptionalEmptyIsValid(t *testing.T) {
	for _, typ := range model.FieldTypes {
		fields := []model.FormField{field("f", typ, "F", false, "a", "b")}
		for name, payload := range map[string]map[string]any{
			"absent": {},
			"null":   {"f": nil},
			"empty":  {"f": ""},
		} {
			if errs := Validate(payload, fields); len(errs) != 0 {
				t.Errorf("type %s, %s value: expected no errors, got %v", typ, name, errs)
			}
		}
	}
}

func TestRequiredFalsyValuesStillTypeChecked(t *testing.T) {
	// Only optional fields skip type checks when the value is falsy.
	// A required field with a present false/0 answer must still pass
	// its type check.
	checkbox := []model.FormField{field("ok", model.FieldCheckbox, "OK", true)}
	if errs := Validate(map[string]any{"ok": float64(0)}, checkbox); len(errs) != 1 {
		t.Errorf("required checkbox with 0 should fail the type check, got %v", errs)
	}
	if errs := Validate(map[string]any{"ok": false}, checkbox); len(errs) != 0 {
		t.Errorf("false is a valid answer for a required checkbox, got %v", errs)
	}

	email := []model.FormField{field("email", model.FieldEmail, "Email", true)}
	if errs := Validate(map[string]any{"email": false}, email); len(errs) != 1 {
		t.Errorf("required email with a boolean should fail the type check, got %v", errs)
	}

	number := []model.FormField{field("n", model.FieldNumber, "N", true)}
	if errs := Validate(map[string]any{"n": float64(0)}, number); len(errs) != 0 {
		t.Errorf("0 is a valid answer for a required number, got %v", errs)
	}
}

func TestEmailCheck(t *testing.T) {
	fields := []model.FormField{field("email", model.FieldEmail, "Email", true)}
	if errs := Validate(map[string]any{"email": "a@b.com"}, fields); len(errs) != 0 {
		t.Errorf("valid email rejected: %v", errs)
	}
	if errs := Validate(map[string]any{"email": "not-an-email"}, fields); len(errs) != 1 {
		t.Errorf("invalid email accepted: %v", errs)
	}
	// Intentionally weak: any @ passes.
	if errs := Validate(map[string]any{"email": "weird@"}, fields); len(errs) != 0 {
		t.Errorf("weak email check should pass 'weird@': %v", errs)
	}
}

func TestNumberCheck(t *testing.T) {
	fields := []model.FormField{field("n", model.FieldNumber, "N", true)}
	for _, ok := range []any{float64(3), "42", " 4.5 ", true} {
		if errs := Validate(map[string]any{"n": ok}, fields); len(errs) != 0 {
			t.Errorf("numeric value %#v rejected: %v", ok, errs)
		}
	}
	for _, bad := range []any{"abc", []any{float64(1)}, map[string]any{}} {
		if errs := Validate(map[string]any{"n": bad}, fields); len(errs) != 1 {
			t.Errorf("non-numeric value %#v accepted: %v", bad, errs)
		}
	}
}

func TestDateCheck(t *testing.T) {
	fields := []model.FormField{field("d", model.FieldDate, "D", true)}
	for _, ok := range []any{"2024-01-15", "2024-01-15T10:30:00Z", "01/15/2024"} {
		if errs := Validate(map[string]any{"d": ok}, fields); len(errs) != 0 {
			t.Errorf("date %#v rejected: %v", ok, errs)
		}
	}
	for _, bad := range []any{"not a date", float64(1700000000)} {
		if errs := Validate(map[string]any{"d": bad}, fields); len(errs) != 1 {
			t.Errorf("non-date %#v accepted: %v", bad, errs)
		}
	}
}

func TestChoiceMembership(t *testing.T) {
	fields := []model.FormField{field("c", model.FieldSelect, "Color", true, "red", "green")}
	if errs := Validate(map[string]any{"c": "red"}, fields); len(errs) != 0 {
		t.Errorf("listed option rejected: %v", errs)
	}
	errs := Validate(map[string]any{"c": "blue"}, fields)
	if len(errs) != 1 || !strings.Contains(errs[0], "blue") {
		t.Errorf("unlisted option accepted or message lacks value: %v", errs)
	}
}

func TestChoiceWithoutOptionsAllowsAnything(t *testing.T) {
	// Malformed schema: choice field with no option list skips the
	// membership check instead of erroring out.
	fields := []model.FormField{field("c", model.FieldRadio, "C", true)}
	if errs := Validate(map[string]any{"c": "whatever"}, fields); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestMultiselect(t *testing.T) {
	fields := []model.FormField{field("m", model.FieldMultiselect, "Tags", true, "a", "b", "c")}

	if errs := Validate(map[string]any{"m": []any{"a", "c"}}, fields); len(errs) != 0 {
		t.Errorf("valid selection rejected: %v", errs)
	}

	errs := Validate(map[string]any{"m": "a"}, fields)
	if len(errs) != 1 || !strings.Contains(errs[0], "list") {
		t.Errorf("non-array accepted: %v", errs)
	}

	errs = Validate(map[string]any{"m": []any{"a", "x", "y"}}, fields)
	if len(errs) != 1 {
		t.Fatalf("invalid members accepted: %v", errs)
	}
	if !strings.Contains(errs[0], "x") || !strings.Contains(errs[0], "y") {
		t.Errorf("error does not name invalid members: %q", errs[0])
	}
}

func TestCheckboxStrictBool(t *testing.T) {
	fields := []model.FormField{field("ok", model.FieldCheckbox, "OK", true)}
	if errs := Validate(map[string]any{"ok": true}, fields); len(errs) != 0 {
		t.Errorf("true rejected: %v", errs)
	}
	for _, bad := range []any{"true", float64(1), []any{}} {
		if errs := Validate(map[string]any{"ok": bad}, fields); len(errs) != 1 {
			t.Errorf("non-bool %#v accepted: %v", bad, errs)
		}
	}
}

func TestAccumulatesAllErrors(t *testing.T) {
	fields := []model.FormField{
		field("a", model.FieldText, "A", true),
		field("b", model.FieldEmail, "B", true),
		field("c", model.FieldNumber, "C", true),
	}
	payload := map[string]any{"b": "nope", "c": "abc"}
	errs := Validate(payload, fields)
	if len(errs) != 3 {
		t.Errorf("expected 3 accumulated errors, got %v", errs)
	}
}

func TestDecorativeFieldsIgnored(t *testing.T) {
	fields := []model.FormField{
		field("t", model.FieldTitle, "Heading", true),
		field("s", model.FieldSeparator, "", true),
	}
	if errs := Validate(map[string]any{}, fields); len(errs) != 0 {
		t.Errorf("decorative fields produced errors: %v", errs)
	}
}

func TestDeterminism(t *testing.T) {
	fields := []model.FormField{
		field("a", model.FieldText, "A", true),
		field("m", model.FieldMultiselect, "M", true, "x"),
	}
	payload := map[string]any{"m": []any{"y", "z"}}
	first := Validate(payload, fields)
	second := Validate(payload, fields)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("validate is not deterministic: %v vs %v", first, second)
	}
}
