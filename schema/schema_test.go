package schema

import (
	"reflect"
	"testing"

	"github.com/formhive/formhive/model"
)

func TestDecodeSingleStep(t *testing.T) {
	fields := []byte(`[{"id":"a","type":"text","label":"A"},{"id":"b","type":"email","label":"B"}]`)

	s, err := Decode(false, fields, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Multistep || len(s.Fields) != 2 || s.Steps != nil {
		t.Errorf("unexpected schema: %+v", s)
	}
	if got := s.Flatten(); len(got) != 2 || got[1].ID != "b" {
		t.Errorf("Flatten() = %+v", got)
	}
}

func TestDecodeMultistep(t *testing.T) {
	steps := []byte(`[
		{"title":"One","fields":[{"id":"a","type":"text","label":"A"}]},
		{"title":"Two","fields":[{"id":"b","type":"number","label":"B"},{"id":"c","type":"date","label":"C"}]}
	]`)

	s, err := Decode(true, nil, steps)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	flat := s.Flatten()
	ids := make([]string, len(flat))
	for i, f := range flat {
		ids[i] = f.ID
	}
	if !reflect.DeepEqual(ids, []string{"a", "b", "c"}) {
		t.Errorf("Flatten() order = %v", ids)
	}
}

func TestDecodeMissingBlob(t *testing.T) {
	if _, err := Decode(false, nil, []byte(`[]`)); err == nil {
		t.Error("single-step form without a fields blob should fail to decode")
	}
	if _, err := Decode(true, []byte(`[]`), nil); err == nil {
		t.Error("multistep form without a steps blob should fail to decode")
	}
}

func TestEmpty(t *testing.T) {
	if (Schema{}).Empty() != true {
		t.Error("zero schema should be empty")
	}
	if (Schema{Fields: []model.FormField{}}).Empty() {
		t.Error("a form with zero fields is not a broken form")
	}
	if (Schema{Multistep: true, Steps: []model.FormStep{}}).Empty() {
		t.Error("a multistep form with zero steps is not a broken form")
	}
}

func TestExampleRequest(t *testing.T) {
	fields := []model.FormField{
		{ID: "name", Type: model.FieldText},
		{ID: "email", Type: model.FieldEmail},
		{ID: "age", Type: model.FieldNumber},
		{ID: "when", Type: model.FieldDate},
		{ID: "color", Type: model.FieldSelect, Options: []string{"red", "green"}},
		{ID: "tags", Type: model.FieldMultiselect, Options: []string{"x", "y"}},
		{ID: "ok", Type: model.FieldCheckbox},
		{ID: "heading", Type: model.FieldTitle},
		{ID: "line", Type: model.FieldSeparator},
	}

	example := ExampleRequest(fields)
	data, ok := example["data"].(map[string]any)
	if !ok {
		t.Fatalf("example lacks data object: %v", example)
	}

	if _, present := data["heading"]; present {
		t.Error("decorative fields must not appear in the example")
	}
	if _, present := data["line"]; present {
		t.Error("decorative fields must not appear in the example")
	}
	if data["email"] != "user@example.com" || data["color"] != "red" || data["ok"] != true {
		t.Errorf("unexpected example values: %v", data)
	}
	if tags, _ := data["tags"].([]string); len(tags) != 1 || tags[0] != "x" {
		t.Errorf("multiselect example should pick the first option: %v", data["tags"])
	}
}

func TestCheckDefinition(t *testing.T) {
	tests := []struct {
		name     string
		form     *model.Form
		problems int
	}{
		{
			"valid single-step",
			&model.Form{Fields: []model.FormField{
				{ID: "a", Type: model.FieldText, Label: "A"},
				{ID: "b", Type: model.FieldSelect, Label: "B", Options: []string{"x"}},
			}},
			0,
		},
		{
			"duplicate field ids",
			&model.Form{Fields: []model.FormField{
				{ID: "a", Type: model.FieldText},
				{ID: "a", Type: model.FieldText},
			}},
			1,
		},
		{
			"choice field without options",
			&model.Form{Fields: []model.FormField{
				{ID: "c", Type: model.FieldRadio, Label: "C"},
			}},
			1,
		},
		{
			"multistep with flat fields",
			&model.Form{
				IsMultistep: true,
				Fields:      []model.FormField{{ID: "a", Type: model.FieldText}},
				Steps:       []model.FormStep{{Title: "S"}},
			},
			1,
		},
		{
			"multistep without steps",
			&model.Form{IsMultistep: true},
			1,
		},
		{
			"single-step with steps",
			&model.Form{
				Fields: []model.FormField{{ID: "a", Type: model.FieldText}},
				Steps:  []model.FormStep{{Title: "S"}},
			},
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckDefinition(tt.form); len(got) != tt.problems {
				t.Errorf("CheckDefinition() = %v, want %d problems", got, tt.problems)
			}
		})
	}
}
