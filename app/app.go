package app

import (
	"github.com/deceasedone/Surveyappl/config"
	"github.com/deceasedone/Surveyappl/service"
)

type App struct {
	Auth    *service.Auth
	Surveys *service.Surveys
	config.Config
}
