package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/deceasedone/Surveyappl/app"
	"github.com/deceasedone/Surveyappl/httpx"
	"github.com/deceasedone/Surveyappl/log"
	"github.com/deceasedone/Surveyappl/model"
	"github.com/deceasedone/Surveyappl/routes/middlewares"
)

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.Surveys.ListAll(r.Context())
		if err != nil {
			httpx.RenderError(w, r, "surveys.list", err)
			return
		}
		render.JSON(w, r, surveys)
	}
}

func ListSurveysByUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		surveys, err := app.Surveys.ListByOwner(r.Context(), userID)
		if err != nil {
			httpx.RenderError(w, r, "surveys.list_by_user", err)
			return
		}
		render.JSON(w, r, surveys)
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, err := app.Surveys.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.RenderError(w, r, "surveys.get", err)
			return
		}
		render.JSON(w, r, survey)
	}
}

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Title       string           `json:"title"`
			Description string           `json:"description"`
			Questions   []model.Question `json:"questions"`
			UserID      string           `json:"userId"`
		}{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		ownerID := body.UserID
		if ownerID == "" {
			caller, _ := middlewares.CurrentUser(r)
			ownerID = caller.ID
		}

		survey, err := app.Surveys.Create(r.Context(), ownerID, body.Title, body.Description, body.Questions)
		if err != nil {
			httpx.RenderError(w, r, "surveys.create", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, survey)
	}
}

func UpdateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch := model.SurveyPatch{}
		err := render.DecodeJSON(r.Body, &patch)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		caller, _ := middlewares.CurrentUser(r)
		survey, err := app.Surveys.Update(r.Context(), chi.URLParam(r, "id"), caller, patch)
		if err != nil {
			httpx.RenderError(w, r, "surveys.update", err)
			return
		}
		render.JSON(w, r, survey)
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middlewares.CurrentUser(r)
		err := app.Surveys.Delete(r.Context(), chi.URLParam(r, "id"), caller)
		if err != nil {
			httpx.RenderError(w, r, "surveys.delete", err)
			return
		}
		render.JSON(w, r, map[string]any{"message": "survey deleted"})
	}
}

func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Responses []model.ResponseItem `json:"responses"`
		}{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil || body.Responses == nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body.responses")
			return
		}

		err = app.Surveys.Submit(r.Context(), chi.URLParam(r, "id"), body.Responses)
		if err != nil {
			httpx.RenderError(w, r, "surveys.submit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{"message": "responses saved"})
	}
}

func GetSurveyResults(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := app.Surveys.Results(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.RenderError(w, r, "surveys.results", err)
			return
		}
		render.JSON(w, r, results)
	}
}
