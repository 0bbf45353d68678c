package dispatch

import (
	"slices"
	"strings"
	"time"

	"github.com/udisondev/bosstimers/internal/config"
	"github.com/udisondev/bosstimers/internal/game/timer"
)

// EncounterView is a running kill stopwatch as readers see it.
type EncounterView struct {
	Boss        string          `json:"boss"`
	Label       string          `json:"label"`
	Icon        string          `json:"icon"`
	Slot        int             `json:"slot"`
	Elapsed     int64           `json:"elapsedMs"`
	ElapsedText string          `json:"elapsedText"`
	BestAtStart int64           `json:"bestAtStartMs"`
	Color       timer.ColorTier `json:"color"`
}

// RespawnView is a running respawn countdown.
type RespawnView struct {
	Boss          string `json:"boss"`
	Icon          string `json:"icon"`
	Remaining     int64  `json:"remainingMs"`
	RemainingText string `json:"remainingText"`
}

// Snapshot is an immutable copy of the engine state taken after an event.
// Running durations are computed at read time.
type Snapshot struct {
	Options  config.Options
	Observer Observer

	// Interacting is the boss credited for kills.
	Interacting string

	TakenAt time.Time

	encounters []encounterState
	respawns   []*timer.Respawn
}

type encounterState struct {
	slot int
	enc  *timer.Encounter
}

// Snapshot captures the current state for readers on other goroutines.
func (d *Dispatcher) Snapshot() *Snapshot {
	s := &Snapshot{
		Options:     d.options,
		Observer:    d.observer,
		Interacting: d.interacting,
		TakenAt:     d.clock(),
	}
	for i, enc := range d.slots.Slots() {
		if enc != nil {
			s.encounters = append(s.encounters, encounterState{slot: i, enc: enc.Clone()})
		}
	}
	// Respawns are immutable once started.
	s.respawns = slices.Clone(d.respawns)
	return s
}

// Encounters lists running kill stopwatches in slot order. Empty when the
// display is turned off.
func (s *Snapshot) Encounters() []EncounterView {
	out := make([]EncounterView, 0, len(s.encounters))
	if !s.Options.Enabled() {
		return out
	}
	for _, st := range s.encounters {
		b := st.enc.Boss()
		elapsed := st.enc.Elapsed()
		out = append(out, EncounterView{
			Boss:        b.Name,
			Label:       shortLabel(b.Name),
			Icon:        b.Icon,
			Slot:        st.slot,
			Elapsed:     elapsed.Milliseconds(),
			ElapsedText: timer.FormatClock(elapsed),
			BestAtStart: st.enc.BestAtStart().Milliseconds(),
			Color:       st.enc.Color(),
		})
	}
	return out
}

// Respawns lists countdowns that have not yet run out.
func (s *Snapshot) Respawns() []RespawnView {
	out := make([]RespawnView, 0, len(s.respawns))
	for _, r := range s.respawns {
		if r.Expired() {
			continue
		}
		b := r.Boss()
		out = append(out, RespawnView{
			Boss:          b.Name,
			Icon:          b.Icon,
			Remaining:     r.Remaining().Milliseconds(),
			RemainingText: r.Text(),
		})
	}
	return out
}

// shortLabel trims the shared family prefix so three badges fit side by side.
func shortLabel(name string) string {
	return strings.TrimPrefix(name, "Dagannoth ")
}
