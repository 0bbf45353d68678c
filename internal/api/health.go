package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type HealthResult struct {
	Status string `json:"status"`
}

type HealthResponse map[string]HealthResult

func handleHealth(logger *slog.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := make(HealthResponse, len(checks))
		status := http.StatusOK

		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				resp[name] = HealthResult{Status: "error"}
				status = http.StatusServiceUnavailable
				continue
			}
			resp[name] = HealthResult{Status: "ok"}
		}

		writeJSON(w, status, resp)
	}
}
