// Package feed receives world events from the host over a WebSocket.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/udisondev/bosstimers/internal/game/dispatch"
)

// Message types on the wire.
const (
	TypeSpawn       = "spawn"
	TypeDespawn     = "despawn"
	TypeAnimation   = "animation"
	TypeTick        = "tick"
	TypeLocation    = "location"
	TypeInteraction = "interaction"
	TypeSession     = "session"
)

var (
	// ErrUnknownType means the host speaks a protocol this daemon does not.
	ErrUnknownType = errors.New("unknown message type")
	// ErrMalformed means a known message is missing a required field.
	ErrMalformed = errors.New("malformed message")
)

// Message is one JSON frame. Fields are read according to Type.
type Message struct {
	Type string `json:"type"`

	Name string `json:"name,omitempty"`
	Dead bool   `json:"dead,omitempty"`

	Actor     string `json:"actor,omitempty"`
	Animation int    `json:"animation,omitempty"`

	Region    int  `json:"region,omitempty"`
	Instanced bool `json:"instanced,omitempty"`

	Target string `json:"target,omitempty"`
	NPC    bool   `json:"npc,omitempty"`

	State string `json:"state,omitempty"`
}

// Decode parses a frame into an engine event.
func Decode(data []byte) (dispatch.Event, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return m.Event()
}

// Event converts m to the matching engine event.
func (m Message) Event() (dispatch.Event, error) {
	switch m.Type {
	case TypeSpawn:
		if m.Name == "" {
			return nil, fmt.Errorf("%s without name: %w", m.Type, ErrMalformed)
		}
		return dispatch.Spawn{Name: m.Name}, nil
	case TypeDespawn:
		if m.Name == "" {
			return nil, fmt.Errorf("%s without name: %w", m.Type, ErrMalformed)
		}
		return dispatch.Despawn{Name: m.Name, Dead: m.Dead}, nil
	case TypeAnimation:
		if m.Actor == "" {
			return nil, fmt.Errorf("%s without actor: %w", m.Type, ErrMalformed)
		}
		return dispatch.AnimationChanged{Actor: m.Actor, AnimationID: m.Animation}, nil
	case TypeTick:
		return dispatch.Tick{}, nil
	case TypeLocation:
		return dispatch.LocationChanged{Region: m.Region, Instanced: m.Instanced}, nil
	case TypeInteraction:
		return dispatch.InteractionChanged{Target: dispatch.Target{Name: m.Target, NPC: m.NPC}}, nil
	case TypeSession:
		state := dispatch.SessionState(m.State)
		switch state {
		case dispatch.SessionLoginScreen, dispatch.SessionHopping,
			dispatch.SessionLoading, dispatch.SessionLoggedIn:
			return dispatch.SessionStateChanged{State: state}, nil
		}
		return nil, fmt.Errorf("session state %q: %w", m.State, ErrMalformed)
	default:
		return nil, fmt.Errorf("%q: %w", m.Type, ErrUnknownType)
	}
}
