package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/config"
	"github.com/formhive/formhive/database"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/limiter"
	"github.com/formhive/formhive/log"
	"github.com/formhive/formhive/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Limiter:      limiter.NewFixedWindow(cfg.RateLimitMax, cfg.RateLimitWindow),
		ClientKey:    httpx.ClientKey,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
