package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/deceasedone/Surveyappl/log"
	"github.com/deceasedone/Surveyappl/model"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// RenderError maps a service error onto its HTTP status and a JSON error
// body. Anything outside the taxonomy is logged and surfaced as a bare 500
// so storage details never leak to clients.
func RenderError(w http.ResponseWriter, r *http.Request, code string, err error) {
	status := 0
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrDuplicateEmail), errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		LogInternalError(w, code, err)
		return
	}

	log.Debugf("%s: %s", code, err)
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": err.Error()})
}
