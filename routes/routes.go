package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/metrics"
	"github.com/formhive/formhive/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Handle("/metrics", metrics.Handler())
	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// Public form endpoints, anonymous by design.
	api.Group(func(r chi.Router) {
		r.Use(middlewares.SecurityHeaders)
		r.Get("/forms/{id}", PublicGetForm(app))
		r.Get("/forms/{id}/submit", GetSubmissionDoc(app))
		r.Post("/forms/{id}/submit", SubmitForm(app))
	})

	// Tenant dashboard CRUD.
	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		r.Post("/forms", CreateForm(app))
		r.Get("/forms", ListForms(app))
		r.Get("/forms/{id}", GetFormById(app))
		r.Put("/forms/{id}", UpdateForm(app))
		r.Delete("/forms/{id}", DeleteForm(app))

		r.Put("/forms/{id}/embedding", UpdateEmbedding(app))
		r.Get("/forms/{id}/entries", ListEntries(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
