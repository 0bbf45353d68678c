// Package dispatch turns the host's world events into kill timer and
// respawn timer transitions.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/bosstimers/internal/config"
	"github.com/udisondev/bosstimers/internal/game/boss"
	"github.com/udisondev/bosstimers/internal/game/slots"
	"github.com/udisondev/bosstimers/internal/game/timer"
)

// Dispatcher routes events to the slot manager and owns the respawn timers.
//
// Per boss: IDLE → ENCOUNTER_ACTIVE → KILLED or DESPAWNED → IDLE, with a
// respawn countdown running independently once a kill is seen.
//
// Not safe for concurrent use; Engine serializes calls.
type Dispatcher struct {
	slots *slots.Manager
	clock timer.Clock

	options  config.Options
	observer Observer

	// interacting is the catalog boss the observer was last seen fighting.
	// It gates best-time crediting.
	interacting string

	respawns []*timer.Respawn
}

// New creates a dispatcher driving m with the given options.
func New(m *slots.Manager, opts config.Options, clock timer.Clock) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	d := &Dispatcher{slots: m, clock: clock}
	d.applyOptions(opts)
	return d
}

// Handle dispatches one event.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case Spawn:
		d.OnSpawn(ctx, e.Name)
	case Despawn:
		d.OnDespawn(ctx, e.Name, e.Dead)
	case AnimationChanged:
		d.OnAnimationChanged(ctx, e.Actor, e.AnimationID)
	case Tick:
		d.OnTick(ctx)
	case LocationChanged:
		d.OnLocationChanged(ctx, e.Region, e.Instanced)
	case InteractionChanged:
		d.OnInteractionChanged(e.Target)
	case ConfigChanged:
		d.OnConfigChanged(e.Key, e.Options)
	case SessionStateChanged:
		d.OnSessionStateChanged(e.State)
	default:
		slog.Warn("unhandled event", "type", fmt.Sprintf("%T", ev))
	}
}

// OnSpawn starts an encounter for catalog bosses that announce themselves by spawning.
func (d *Dispatcher) OnSpawn(ctx context.Context, name string) {
	b, ok := boss.Find(name)
	if !ok || b.SpawnByAnimation {
		return
	}
	slog.Debug("boss spawned", "boss", b.Name)
	d.slots.Start(ctx, b)
}

// OnAnimationChanged handles bosses whose spawn or despawn is only visible
// through animations.
func (d *Dispatcher) OnAnimationChanged(ctx context.Context, actor string, animationID int) {
	b, ok := boss.Resolve(actor)
	if !ok {
		return
	}

	if d.slots.Find(b.Name) == nil {
		if b.StartsOn(animationID) {
			slog.Debug("boss engaged", "boss", b.Name, "animation", animationID)
			d.slots.Start(ctx, b)
		}
		return
	}

	if b.EndsOn(animationID) {
		slog.Debug("boss disengaged", "boss", b.Name, "animation", animationID)
		d.slots.End(ctx, b, false, d.interacting)
	}
}

// OnDespawn ends the boss's encounter and, on death, starts its respawn timer.
// Bosses whose death does not line up with a despawn keep their encounter on
// a non-death despawn; the region policy clears it.
func (d *Dispatcher) OnDespawn(ctx context.Context, name string, dead bool) {
	b, ok := boss.Find(name)
	if !ok {
		return
	}
	slog.Debug("boss despawned", "boss", b.Name, "dead", dead)

	if d.slots.Find(b.Name) != nil && (dead || !b.DeathWithoutDespawn) {
		d.slots.End(ctx, b, dead, d.interacting)
	}

	if dead {
		d.startRespawn(b)
	}
}

// OnTick tracks the observer's target and applies the region policy while
// any encounter runs. Before the first location event the region policy is
// skipped.
func (d *Dispatcher) OnTick(_ context.Context) {
	d.pruneRespawns()

	if len(d.slots.Active()) == 0 {
		return
	}
	d.trackInteraction()
	if d.observer.RegionKnown {
		d.slots.EvaluateRegion(d.observer.Region, d.observer.Instanced)
	}
}

// OnLocationChanged records the observer's region and applies the region policy.
func (d *Dispatcher) OnLocationChanged(_ context.Context, region int, instanced bool) {
	d.observer.Region = region
	d.observer.Instanced = instanced
	d.observer.RegionKnown = true
	d.slots.EvaluateRegion(region, instanced)
}

// OnInteractionChanged records the observer's target. The tracked boss is
// updated on the next tick.
func (d *Dispatcher) OnInteractionChanged(target Target) {
	d.observer.Target = target
}

// OnConfigChanged applies new options. Turning the display off tears down
// every running encounter; enabling clear-on-teleport re-checks corp at once.
func (d *Dispatcher) OnConfigChanged(key string, opts config.Options) {
	d.applyOptions(opts)

	switch key {
	case config.KeyKillTimerStyle:
		if !opts.Enabled() {
			slog.Info("kill timers disabled, clearing encounters")
			d.slots.ClearAll()
		}
	case config.KeyClearOnTeleport:
		if d.observer.RegionKnown {
			d.slots.EvaluateInstanceExempt(d.observer.Region, d.observer.Instanced)
		}
	}
}

// OnSessionStateChanged discards encounters on logout or world hop.
// Respawn timers are wall-clock countdowns and survive.
func (d *Dispatcher) OnSessionStateChanged(state SessionState) {
	if state != SessionLoginScreen && state != SessionHopping {
		return
	}
	slog.Debug("session reset, clearing encounters", "state", state)
	d.slots.ClearAll()
	d.observer.Target = Target{}
	d.interacting = ""
}

// Shutdown drops all timers, encounters and respawns alike.
func (d *Dispatcher) Shutdown() {
	d.slots.ClearAll()
	d.respawns = nil
	d.interacting = ""
}

// Options returns the options in force.
func (d *Dispatcher) Options() config.Options {
	return d.options
}

// Observer returns the last reported observer state.
func (d *Dispatcher) Observer() Observer {
	return d.observer
}

// Interacting returns the boss name credited for kills, or "".
func (d *Dispatcher) Interacting() string {
	return d.interacting
}

func (d *Dispatcher) applyOptions(opts config.Options) {
	d.options = opts
	d.slots.SetEnabled(opts.Enabled())
	d.slots.SetClearOnTeleport(opts.ClearOnTeleport)
}

// trackInteraction follows the observer's NPC target: a catalog boss is
// remembered, any other NPC clears it, no target or a player keeps it.
func (d *Dispatcher) trackInteraction() {
	t := d.observer.Target
	if !d.observer.HasTarget() || !t.NPC {
		return
	}
	if b, ok := boss.Find(t.Name); ok {
		d.interacting = b.Name
		return
	}
	d.interacting = ""
}

func (d *Dispatcher) startRespawn(b *boss.Boss) {
	if b.NoRespawnTimer {
		return
	}
	d.dropRespawn(b.Name)
	d.respawns = append(d.respawns, timer.NewRespawn(b, d.clock))
	slog.Debug("respawn timer started", "boss", b.Name, "delay", b.RespawnDelay)
}

func (d *Dispatcher) dropRespawn(name string) {
	kept := d.respawns[:0]
	for _, r := range d.respawns {
		if r.Boss().Name != name {
			kept = append(kept, r)
		}
	}
	clear(d.respawns[len(kept):])
	d.respawns = kept
}

func (d *Dispatcher) pruneRespawns() {
	kept := d.respawns[:0]
	for _, r := range d.respawns {
		if !r.Expired() {
			kept = append(kept, r)
		}
	}
	clear(d.respawns[len(kept):])
	d.respawns = kept
}

// Respawn returns the running respawn timer for name, or nil.
func (d *Dispatcher) Respawn(name string) *timer.Respawn {
	for _, r := range d.respawns {
		if r.Boss().Name == name {
			return r
		}
	}
	return nil
}
