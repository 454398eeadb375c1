package model

import "time"

// Field types understood by the validator and the builder UI.
const (
	FieldText          = "text"
	FieldEmail         = "email"
	FieldTextarea      = "textarea"
	FieldNumber        = "number"
	FieldDate          = "date"
	FieldSelect        = "select"
	FieldRadio         = "radio"
	FieldMultiselect   = "multiselect"
	FieldMultiDropdown = "multi-dropdown"
	FieldCheckbox      = "checkbox"
	FieldTitle         = "title"
	FieldSeparator     = "separator"
)

// FieldTypes lists every accepted field type, in builder palette order.
var FieldTypes = []string{
	FieldText, FieldEmail, FieldTextarea, FieldNumber, FieldDate,
	FieldSelect, FieldRadio, FieldMultiselect, FieldMultiDropdown,
	FieldCheckbox, FieldTitle, FieldSeparator,
}

type FormField struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Label    string         `json:"label"`
	Required bool           `json:"required"`
	Options  []string       `json:"options,omitempty"`
	Width    string         `json:"width,omitempty"`
	Styling  map[string]any `json:"styling,omitempty"`
}

// IsChoice reports whether the field restricts answers to a fixed option list.
func (f FormField) IsChoice() bool {
	switch f.Type {
	case FieldSelect, FieldRadio, FieldMultiselect, FieldMultiDropdown, FieldCheckbox:
		return true
	}
	return false
}

// IsDecorative reports whether the field carries no answer (layout only).
func (f FormField) IsDecorative() bool {
	return f.Type == FieldTitle || f.Type == FieldSeparator
}

type FormStep struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FormField `json:"fields"`
}

type FormSettings struct {
	AllowMultipleSubmissions bool `json:"allowMultipleSubmissions"`
}

type FormEmbedding struct {
	RequireOrigin  bool     `json:"requireOrigin"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// Form holds the schema plus metadata. Fields and Steps are mutually
// exclusive: IsMultistep selects which one is populated.
type Form struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId,omitempty"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	IsActive       bool           `json:"isActive"`
	IsMultistep    bool           `json:"isMultistep"`
	Fields         []FormField    `json:"fields,omitempty"`
	Steps          []FormStep     `json:"steps,omitempty"`
	Settings       FormSettings   `json:"settings"`
	Styling        map[string]any `json:"styling,omitempty"`
	Embedding      FormEmbedding  `json:"embedding"`
	ThankYouPage   map[string]any `json:"thankYouPage,omitempty"`
	ErrorPage      map[string]any `json:"errorPage,omitempty"`
	Version        int            `json:"version,omitempty"`
	CreatedAt      time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt,omitempty"`
}

// MetadataKey is the reserved answers key holding submission metadata
// (timestamp, user agent, IP, client-supplied extras).
const MetadataKey = "_metadata"

type FormEntry struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	Answers   map[string]any `json:"answers"`
	CreatedAt time.Time      `json:"createdAt"`
}
