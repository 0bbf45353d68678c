package api

import (
	"net/http"
	"time"

	"github.com/udisondev/bosstimers/internal/config"
	"github.com/udisondev/bosstimers/internal/game/dispatch"
)

type EncountersResponse struct {
	DisplayMode config.DisplayMode       `json:"displayMode"`
	Encounters  []dispatch.EncounterView `json:"encounters"`
}

type RespawnsResponse struct {
	Respawns []dispatch.RespawnView `json:"respawns"`
}

type OptionsResponse struct {
	DisplayMode     config.DisplayMode `json:"displayMode"`
	ClearOnTeleport bool               `json:"clearOnTeleport"`
}

type ObserverResponse struct {
	Region      int    `json:"region"`
	Instanced   bool   `json:"instanced"`
	Target      string `json:"target,omitempty"`
	Interacting string `json:"interacting,omitempty"`
}

// StateResponse is everything a panel needs in one call.
type StateResponse struct {
	TakenAt    time.Time                `json:"takenAt"`
	Options    OptionsResponse          `json:"options"`
	Observer   ObserverResponse         `json:"observer"`
	Encounters []dispatch.EncounterView `json:"encounters"`
	Respawns   []dispatch.RespawnView   `json:"respawns"`
}

func optionsOf(o config.Options) OptionsResponse {
	return OptionsResponse{DisplayMode: o.DisplayMode, ClearOnTeleport: o.ClearOnTeleport}
}

func handleEncounters(engine Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := engine.Snapshot()
		writeJSON(w, http.StatusOK, EncountersResponse{
			DisplayMode: snap.Options.DisplayMode,
			Encounters:  snap.Encounters(),
		})
	}
}

func handleRespawns(engine Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RespawnsResponse{Respawns: engine.Snapshot().Respawns()})
	}
}

func handleOptions(engine Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, optionsOf(engine.Snapshot().Options))
	}
}

func handleState(engine Snapshotter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := engine.Snapshot()
		writeJSON(w, http.StatusOK, StateResponse{
			TakenAt: snap.TakenAt,
			Options: optionsOf(snap.Options),
			Observer: ObserverResponse{
				Region:      snap.Observer.Region,
				Instanced:   snap.Observer.Instanced,
				Target:      snap.Observer.Target.Name,
				Interacting: snap.Interacting,
			},
			Encounters: snap.Encounters(),
			Respawns:   snap.Respawns(),
		})
	}
}
