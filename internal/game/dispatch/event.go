package dispatch

import "github.com/udisondev/bosstimers/internal/config"

// Event is one world event delivered by the host, in occurrence order.
type Event interface {
	event()
}

// SessionState is the host's login/world state.
type SessionState string

const (
	SessionLoginScreen SessionState = "login_screen"
	SessionHopping     SessionState = "hopping"
	SessionLoading     SessionState = "loading"
	SessionLoggedIn    SessionState = "logged_in"
)

// Spawn reports an NPC appearing.
type Spawn struct {
	Name string
}

// Despawn reports an NPC leaving the scene. Dead is true when it died.
type Despawn struct {
	Name string
	Dead bool
}

// AnimationChanged reports an NPC starting an animation.
type AnimationChanged struct {
	Actor       string
	AnimationID int
}

// Tick is the host's periodic game tick.
type Tick struct{}

// LocationChanged reports the observer's region.
type LocationChanged struct {
	Region    int
	Instanced bool
}

// InteractionChanged reports who the observer is engaged with.
// An empty Target means no interaction.
type InteractionChanged struct {
	Target Target
}

// ConfigChanged reports an option key change and the options now in force.
type ConfigChanged struct {
	Key     string
	Options config.Options
}

// SessionStateChanged reports a login/world state transition.
type SessionStateChanged struct {
	State SessionState
}

func (Spawn) event()               {}
func (Despawn) event()             {}
func (AnimationChanged) event()    {}
func (Tick) event()                {}
func (LocationChanged) event()     {}
func (InteractionChanged) event()  {}
func (ConfigChanged) event()       {}
func (SessionStateChanged) event() {}
