// Package httpapi is the public HTTP boundary of the server. It owns routing,
// bearer authentication, request decoding and the JSON error envelope; all
// business decisions live in the services layer.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/upskills/internal/logging"
	"github.com/dmitrijs2005/upskills/internal/server/services"
)

type Router struct {
	mux         *chi.Mux
	collections *services.CollectionService
	skills      *services.SkillService
	logger      logging.Logger
}

func NewRouter(cs *services.CollectionService, ss *services.SkillService, logger logging.Logger) *Router {
	return &Router{
		mux:         chi.NewRouter(),
		collections: cs,
		skills:      ss,
		logger:      logger,
	}
}

// Setup wires the middleware stack and routes and returns the root handler.
func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Post("/v1/collections", rt.createCollection)

	r.Route("/v1/skills", func(r chi.Router) {
		r.Use(rt.authenticate)
		r.Post("/", rt.registerSkill)
		r.Get("/", rt.listSkills)
		r.Get("/search", rt.searchSkills)
		r.Get("/{id}", rt.getSkill)
		r.Delete("/{id}", rt.deleteSkill)
	})

	return r
}
