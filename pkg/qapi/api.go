// Package qapi serves manifest preparation and outcome checks over HTTP.
package qapi

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quatton/qstage/pkg/qapi/routes"
	"github.com/quatton/qstage/pkg/qapi/services"
)

type Api struct {
	Api    huma.API
	Router *chi.Mux
}

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

func NewApi(svcs *services.Services) *Api {
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	config := huma.DefaultConfig("qstage", Version)
	api := humachi.New(router, config)

	if svcs != nil {
		api.UseMiddleware(svcs.RequestLogger())
	}
	routes.RegisterAPI(api, svcs)

	return &Api{Api: api, Router: router}
}
