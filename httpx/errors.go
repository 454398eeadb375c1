package httpx

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/formhive/formhive/log"
)

// Will log an error, and send a generic JSON 500 without leaking any
// internal detail to the client
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	JSONError(w, r, http.StatusInternalServerError, "Internal server error")
}

// Will log a debug message, and send a JSON 404
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	JSONError(w, r, http.StatusNotFound, "Form not found")
}

// Will log an error code at the given level, and send a JSON error
// response with the given status and message
func LogStatusMsg(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string) {
	log.Log(level, code+":", msg)
	JSONError(w, r, status, msg)
}

// JSONError writes the standard error envelope {error: msg}
func JSONError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": msg})
}

// JSONErrorDetails writes {error: msg, details: [...]}, used for
// validation failures where every problem is surfaced at once
func JSONErrorDetails(w http.ResponseWriter, r *http.Request, status int, msg string, details []string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": msg, "details": details})
}
