package routes

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/guard"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/log"
	"github.com/formhive/formhive/metrics"
	"github.com/formhive/formhive/model"
	"github.com/formhive/formhive/sanitize"
	"github.com/formhive/formhive/schema"
	"github.com/formhive/formhive/store"
	"github.com/formhive/formhive/validation"
)

type submitRequest struct {
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata"`
}

// SubmitForm is the public submission pipeline. Every stage converts
// its failure to a terminal response; nothing propagates past the
// handler, and an unexpected panic becomes a generic 500.
func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				metrics.Submissions.WithLabelValues(metrics.OutcomeError).Inc()
				log.Errorf("submit_form.panic: %v", rec)
				httpx.JSONError(w, r, http.StatusInternalServerError, "Internal server error")
			}
		}()

		formID := chi.URLParam(r, "id")

		if r.ContentLength > app.MaxBodyBytes {
			metrics.Submissions.WithLabelValues(metrics.OutcomeTooLarge).Inc()
			httpx.LogStatusMsg(w, r, http.StatusRequestEntityTooLarge, log.DebugLevel,
				"submit_form.size", "Request body too large")
			return
		}

		clientKey := app.ClientKey(r)
		if !app.Limiter.Allow(clientKey) {
			metrics.Submissions.WithLabelValues(metrics.OutcomeRateLimited).Inc()
			httpx.LogStatusMsg(w, r, http.StatusTooManyRequests, log.DebugLevel,
				"submit_form.rate_limit", "Too many submissions, please try again later")
			return
		}

		if !guard.SameSite(r.Header.Get("Origin"), r.Header.Get("Referer")) {
			metrics.Submissions.WithLabelValues(metrics.OutcomeForbidden).Inc()
			httpx.LogStatusMsg(w, r, http.StatusForbidden, log.DebugLevel,
				"submit_form.origin", "Cross-site request rejected")
			return
		}

		if ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || ct != "application/json" {
			metrics.Submissions.WithLabelValues(metrics.OutcomeBadRequest).Inc()
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel,
				"submit_form.content_type", "Content-Type must be application/json")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, app.MaxBodyBytes)
		req := submitRequest{}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			metrics.Submissions.WithLabelValues(metrics.OutcomeBadRequest).Inc()
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel,
				"submit_form.parse_body", "Invalid JSON body")
			return
		}
		if req.Data == nil {
			metrics.Submissions.WithLabelValues(metrics.OutcomeBadRequest).Inc()
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel,
				"submit_form.data", "Request body must contain a 'data' object")
			return
		}

		data := sanitize.Map(req.Data)
		metadata := sanitize.Map(req.Metadata)

		form, err := store.GetActiveForm(r.Context(), app.DB, formID)
		if errors.Is(err, store.ErrNotFound) {
			metrics.Submissions.WithLabelValues(metrics.OutcomeNotFound).Inc()
			httpx.LogNotFound(w, r, "submit_form.get_form", formID)
			return
		}
		if err != nil {
			metrics.Submissions.WithLabelValues(metrics.OutcomeError).Inc()
			httpx.LogInternalError(w, r, "submit_form.get_form", err)
			return
		}

		sch := schema.FromForm(form)
		if sch.Empty() {
			metrics.Submissions.WithLabelValues(metrics.OutcomeError).Inc()
			httpx.LogInternalError(w, r, "submit_form.schema",
				errors.New("active form has no schema: "+formID))
			return
		}

		if problems := validation.Validate(data, sch.Flatten()); len(problems) > 0 {
			metrics.Submissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
			log.Debugf("submit_form.validate: %d problems", len(problems))
			httpx.JSONErrorDetails(w, r, http.StatusBadRequest, "Validation failed", problems)
			return
		}

		if !form.Settings.AllowMultipleSubmissions {
			dup, err := store.HasSubmissionFromIP(r.Context(), app.DB, formID, clientKey)
			if err != nil {
				metrics.Submissions.WithLabelValues(metrics.OutcomeError).Inc()
				httpx.LogInternalError(w, r, "submit_form.duplicate_check", err)
				return
			}
			if dup {
				metrics.Submissions.WithLabelValues(metrics.OutcomeDuplicate).Inc()
				httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel,
					"submit_form.duplicate", "You have already submitted this form")
				return
			}
		}

		meta := map[string]any{
			"submittedAt": time.Now().UTC().Format(time.RFC3339),
			"userAgent":   r.UserAgent(),
			"ipAddress":   clientKey,
		}
		// Client metadata is spread last, matching the stored answer
		// shape {..., _metadata: {submittedAt, userAgent, ipAddress,
		// ...metadata}}.
		for k, v := range metadata {
			meta[k] = v
		}

		answers := make(map[string]any, len(data)+1)
		for k, v := range data {
			answers[k] = v
		}
		answers[model.MetadataKey] = meta

		entry, err := store.InsertEntry(r.Context(), app.DB, formID, answers)
		if err != nil {
			metrics.Submissions.WithLabelValues(metrics.OutcomeError).Inc()
			httpx.LogInternalError(w, r, "submit_form.insert_entry", err)
			return
		}

		metrics.Submissions.WithLabelValues(metrics.OutcomeAccepted).Inc()
		render.JSON(w, r, map[string]any{
			"success": true,
			"entryId": entry.ID,
			"message": "Form submitted successfully",
		})
	}
}

// GetSubmissionDoc documents the submission API for a form: its
// schema plus a generated example request. It shares the submit
// endpoint's rate limiter but none of the write-path checks.
func GetSubmissionDoc(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		if !app.Limiter.Allow(app.ClientKey(r)) {
			httpx.LogStatusMsg(w, r, http.StatusTooManyRequests, log.DebugLevel,
				"submission_doc.rate_limit", "Too many requests, please try again later")
			return
		}

		form, err := store.GetActiveForm(r.Context(), app.DB, formID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, r, "submission_doc.get_form", formID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "submission_doc.get_form", err)
			return
		}

		sch := schema.FromForm(form)
		var schemaView any = form.Fields
		if form.IsMultistep {
			schemaView = form.Steps
		}

		render.JSON(w, r, map[string]any{
			"formId":                   form.ID,
			"title":                    form.Title,
			"description":              form.Description,
			"isMultistep":              form.IsMultistep,
			"allowMultipleSubmissions": form.Settings.AllowMultipleSubmissions,
			"schema":                   schemaView,
			"apiEndpoint":              "/api/forms/" + form.ID + "/submit",
			"exampleRequest":           schema.ExampleRequest(sch.Flatten()),
		})
	}
}

// PublicGetForm serves an active form to the standalone page and the
// iframe embed. The embed decision travels in the payload: the embed
// page renders an access-restricted state instead of receiving an
// HTTP error.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		form, err := store.GetActiveForm(r.Context(), app.DB, formID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, r, "public_get_form", formID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "public_get_form", err)
			return
		}

		pageOrigin := guard.ResolveEmbedOrigin(r.URL.Query().Get("origin"), r.Header.Get("Referer"))
		allowed, reason := guard.EmbedAllowed(form.Embedding, pageOrigin)

		render.JSON(w, r, map[string]any{
			"id":           form.ID,
			"title":        form.Title,
			"description":  form.Description,
			"isMultistep":  form.IsMultistep,
			"fields":       form.Fields,
			"steps":        form.Steps,
			"settings":     form.Settings,
			"styling":      form.Styling,
			"thankYouPage": form.ThankYouPage,
			"errorPage":    form.ErrorPage,
			"embed": map[string]any{
				"allowed": allowed,
				"reason":  reason,
			},
		})
	}
}
