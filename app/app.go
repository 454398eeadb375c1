package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/formhive/formhive/config"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/limiter"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Limiter   limiter.RateLimiter
	ClientKey httpx.ClientKeyFunc
}
