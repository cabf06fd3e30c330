package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/deceasedone/Surveyappl/app"
	"github.com/deceasedone/Surveyappl/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/health", Health())

	api.Route("/users", func(r chi.Router) {
		r.Post("/signup", Signup(app))
		r.Post("/login", Login(app))
	})

	api.Route("/surveys", func(r chi.Router) {
		r.Use(middlewares.Authenticated(app.Auth))

		r.Get("/", ListSurveys(app))
		r.Get("/surveys-by-user/{userId}", ListSurveysByUser(app))
		r.Get("/{id}", GetSurveyById(app))
		r.Get("/{id}/results", GetSurveyResults(app))
		r.Post("/", CreateSurvey(app))
		r.Patch("/{id}", UpdateSurvey(app))
		r.Delete("/{id}", DeleteSurvey(app))
		r.Post("/submit/{id}", SubmitSurvey(app))
	})

	api.Route("/questions", func(r chi.Router) {
		r.Get("/", ListQuestions(app))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.Authenticated(app.Auth))
			r.Post("/", CreateQuestion(app))
			r.Put("/{id}", UpdateQuestion(app))
			r.Delete("/{id}", DeleteQuestion(app))
		})
	})

	return api
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{"status": "ok"})
	}
}
