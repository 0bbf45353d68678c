package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Boss Timers API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.Checks))

	if deps.Feed != nil {
		r.Handle("/feed", deps.Feed)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", handleState(deps.Engine))
		r.Get("/encounters", handleEncounters(deps.Engine))
		r.Get("/respawns", handleRespawns(deps.Engine))
		r.Get("/options", handleOptions(deps.Engine))
	})
}
