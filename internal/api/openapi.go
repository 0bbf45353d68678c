package api

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Boss Timers API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Read-only view of kill timers and respawn countdowns.")

	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	getFeed, _ := r.NewOperationContext(http.MethodGet, "/feed")
	getFeed.SetSummary("World-event feed")
	getFeed.SetDescription("Upgrades to a WebSocket. The host sends one JSON event per text frame.")
	getFeed.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getFeed)

	getState, _ := r.NewOperationContext(http.MethodGet, "/api/state")
	getState.SetSummary("Full state")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	getEncounters, _ := r.NewOperationContext(http.MethodGet, "/api/encounters")
	getEncounters.SetSummary("Running kill timers")
	getEncounters.SetDescription("Empty while the display mode is off.")
	getEncounters.AddRespStructure(EncountersResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getEncounters)

	getRespawns, _ := r.NewOperationContext(http.MethodGet, "/api/respawns")
	getRespawns.SetSummary("Respawn countdowns")
	getRespawns.AddRespStructure(RespawnsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getRespawns)

	getOptions, _ := r.NewOperationContext(http.MethodGet, "/api/options")
	getOptions.SetSummary("Options in force")
	getOptions.AddRespStructure(OptionsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getOptions)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	doc := newOpenAPISpec()
	data, _ := json.MarshalIndent(doc, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
