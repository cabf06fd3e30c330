package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"

	"github.com/deceasedone/Surveyappl/app"
	"github.com/deceasedone/Surveyappl/config"
	"github.com/deceasedone/Surveyappl/database"
	"github.com/deceasedone/Surveyappl/log"
	"github.com/deceasedone/Surveyappl/routes"
	"github.com/deceasedone/Surveyappl/service"
	"github.com/deceasedone/Surveyappl/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	users := store.NewUserStore(db)
	surveys := store.NewSurveyStore(db)
	tokens := jwtauth.New("HS256", []byte(cfg.TokenSecret), nil)

	app := app.App{
		Auth:    service.NewAuth(tokens, users, cfg.TokenTTL),
		Surveys: service.NewSurveys(surveys, users),
		Config:  cfg,
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
