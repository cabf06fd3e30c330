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

type questionBody struct {
	SurveyID string             `json:"surveyId"`
	Text     string             `json:"text"`
	Type     model.QuestionType `json:"type"`
	Options  []string           `json:"options"`
}

func ListQuestions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := r.URL.Query().Get("surveyId")
		if surveyID == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.query_param.surveyId")
			return
		}

		questions, err := app.Surveys.QuestionsBySurvey(r.Context(), surveyID)
		if err != nil {
			httpx.RenderError(w, r, "questions.list", err)
			return
		}
		render.JSON(w, r, questions)
	}
}

func CreateQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := questionBody{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		caller, _ := middlewares.CurrentUser(r)
		question, err := app.Surveys.AddQuestion(r.Context(), body.SurveyID, caller, model.Question{
			Text:    body.Text,
			Type:    body.Type,
			Options: body.Options,
		})
		if err != nil {
			httpx.RenderError(w, r, "questions.create", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, question)
	}
}

func UpdateQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := questionBody{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		caller, _ := middlewares.CurrentUser(r)
		question, err := app.Surveys.UpdateQuestion(r.Context(), chi.URLParam(r, "id"), caller, model.Question{
			Text:    body.Text,
			Type:    body.Type,
			Options: body.Options,
		})
		if err != nil {
			httpx.RenderError(w, r, "questions.update", err)
			return
		}
		render.JSON(w, r, question)
	}
}

func DeleteQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		caller, _ := middlewares.CurrentUser(r)
		err := app.Surveys.RemoveQuestion(r.Context(), id, caller)
		if err != nil {
			httpx.RenderError(w, r, "questions.delete", err)
			return
		}
		render.JSON(w, r, map[string]any{
			"message": "question deleted",
			"id":      id,
		})
	}
}
