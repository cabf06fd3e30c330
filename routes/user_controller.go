package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/deceasedone/Surveyappl/app"
	"github.com/deceasedone/Surveyappl/httpx"
	"github.com/deceasedone/Surveyappl/log"
	"github.com/deceasedone/Surveyappl/model"
)

type credentialsBody struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

func Signup(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := credentialsBody{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user, token, err := app.Auth.Signup(r.Context(), body.Email, body.Password, body.Name, body.Role)
		if err != nil {
			httpx.RenderError(w, r, "users.signup", err)
			return
		}

		log.Debugf("users.signup: created %s", user.ID)
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"user":  user,
			"token": token,
		})
	}
}

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := credentialsBody{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user, token, err := app.Auth.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			httpx.RenderError(w, r, "users.login", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"user":  user,
			"token": token,
		})
	}
}
