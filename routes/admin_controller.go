package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/log"
	"github.com/formhive/formhive/model"
	"github.com/formhive/formhive/schema"
	"github.com/formhive/formhive/store"
)

var validate = validator.New()

type fieldPayload struct {
	ID       string         `json:"id" validate:"required"`
	Type     string         `json:"type" validate:"required,oneof=text email textarea number date select radio multiselect multi-dropdown checkbox title separator"`
	Label    string         `json:"label"`
	Required bool           `json:"required"`
	Options  []string       `json:"options"`
	Width    string         `json:"width"`
	Styling  map[string]any `json:"styling"`
}

type stepPayload struct {
	ID          string         `json:"id"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Fields      []fieldPayload `json:"fields" validate:"dive"`
}

type formPayload struct {
	Title        string              `json:"title" validate:"required"`
	Description  string              `json:"description"`
	IsActive     *bool               `json:"isActive"`
	IsMultistep  bool                `json:"isMultistep"`
	Fields       []fieldPayload      `json:"fields" validate:"omitempty,dive"`
	Steps        []stepPayload       `json:"steps" validate:"omitempty,dive"`
	Settings     model.FormSettings  `json:"settings"`
	Styling      map[string]any      `json:"styling"`
	Embedding    model.FormEmbedding `json:"embedding"`
	ThankYouPage map[string]any      `json:"thankYouPage"`
	ErrorPage    map[string]any      `json:"errorPage"`
	Version      int                 `json:"version"`
}

func (p formPayload) toModel() *model.Form {
	form := &model.Form{
		Title:        p.Title,
		Description:  p.Description,
		IsActive:     true,
		IsMultistep:  p.IsMultistep,
		Settings:     p.Settings,
		Styling:      p.Styling,
		Embedding:    p.Embedding,
		ThankYouPage: p.ThankYouPage,
		ErrorPage:    p.ErrorPage,
		Version:      p.Version,
	}
	if p.IsActive != nil {
		form.IsActive = *p.IsActive
	}
	for _, f := range p.Fields {
		form.Fields = append(form.Fields, f.toModel())
	}
	for _, s := range p.Steps {
		step := model.FormStep{ID: s.ID, Title: s.Title, Description: s.Description}
		for _, f := range s.Fields {
			step.Fields = append(step.Fields, f.toModel())
		}
		form.Steps = append(form.Steps, step)
	}
	return form
}

func (f fieldPayload) toModel() model.FormField {
	return model.FormField{
		ID:       f.ID,
		Type:     f.Type,
		Label:    f.Label,
		Required: f.Required,
		Options:  f.Options,
		Width:    f.Width,
		Styling:  f.Styling,
	}
}

// decodeFormPayload parses and validates a builder request body,
// both the struct shape and the schema-level invariants.
func decodeFormPayload(w http.ResponseWriter, r *http.Request) (*model.Form, bool) {
	payload := formPayload{}
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel,
			"admin.parse_body", "Invalid JSON body")
		return nil, false
	}

	if err := validate.Struct(payload); err != nil {
		var details []string
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				details = append(details, fe.Namespace()+" failed on '"+fe.Tag()+"'")
			}
		}
		httpx.JSONErrorDetails(w, r, http.StatusBadRequest, "Invalid form definition", details)
		return nil, false
	}

	form := payload.toModel()
	if problems := schema.CheckDefinition(form); len(problems) > 0 {
		httpx.JSONErrorDetails(w, r, http.StatusBadRequest, "Invalid form definition", problems)
		return nil, false
	}
	return form, true
}

func orgFromClaims(r *http.Request) string {
	claims, ok := r.Context().Value(oauth.ClaimsContext).(map[string]string)
	if !ok {
		return ""
	}
	return claims["org"]
}

// loadOwnedForm fetches a form and checks it belongs to the caller's
// organization; cross-tenant ids look like missing forms.
func loadOwnedForm(w http.ResponseWriter, r *http.Request, app app.App) (*model.Form, bool) {
	formID := chi.URLParam(r, "id")
	form, err := store.GetForm(r.Context(), app.DB, formID)
	if errors.Is(err, store.ErrNotFound) {
		httpx.LogNotFound(w, r, "admin.get_form", formID)
		return nil, false
	}
	if err != nil {
		httpx.LogInternalError(w, r, "admin.get_form", err)
		return nil, false
	}
	if form.OrganizationID != orgFromClaims(r) {
		httpx.LogNotFound(w, r, "admin.get_form.tenant", formID)
		return nil, false
	}
	return form, true
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := decodeFormPayload(w, r)
		if !ok {
			return
		}
		form.OrganizationID = orgFromClaims(r)

		if err := store.CreateForm(r.Context(), app.DB, form); err != nil {
			httpx.LogInternalError(w, r, "db.insert_form", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"id": form.ID})
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := store.ListForms(r.Context(), app.DB, orgFromClaims(r))
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{"forms": forms})
	}
}

func GetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := loadOwnedForm(w, r, app)
		if !ok {
			return
		}
		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := loadOwnedForm(w, r, app)
		if !ok {
			return
		}

		form, ok := decodeFormPayload(w, r)
		if !ok {
			return
		}
		form.ID = existing.ID
		form.OrganizationID = existing.OrganizationID

		err := store.UpdateForm(r.Context(), app.DB, form)
		if errors.Is(err, store.ErrConflict) {
			httpx.LogStatusMsg(w, r, http.StatusConflict, log.DebugLevel,
				"db.update_form.conflict", "The form was modified by someone else, reload and retry")
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.update_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := loadOwnedForm(w, r, app)
		if !ok {
			return
		}

		if err := store.DeleteForm(r.Context(), app.DB, form.ID); err != nil {
			httpx.LogInternalError(w, r, "db.delete_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func UpdateEmbedding(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := loadOwnedForm(w, r, app)
		if !ok {
			return
		}

		emb := model.FormEmbedding{}
		if err := render.DecodeJSON(r.Body, &emb); err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel,
				"admin.embedding.parse_body", "Invalid JSON body")
			return
		}

		if err := store.UpdateEmbedding(r.Context(), app.DB, form.ID, emb); err != nil {
			httpx.LogInternalError(w, r, "db.update_embedding", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ListEntries(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := loadOwnedForm(w, r, app)
		if !ok {
			return
		}

		entries, err := store.ListEntries(r.Context(), app.DB, form.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_entries", err)
			return
		}

		render.JSON(w, r, map[string]any{"entries": entries})
	}
}
